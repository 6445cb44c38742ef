package postgres

import (
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
)

type participantModel struct {
	ID                int64     `db:"id"`
	Name              string    `db:"name"`
	RegistrationOrder int       `db:"registration_order"`
	CreatedAt         time.Time `db:"created_at"`
}

type pickModel struct {
	ID            int64 `db:"id"`
	ParticipantID int64 `db:"participant_id"`
	TeamID        int64 `db:"team_id"`
	Priority      int   `db:"priority"`
}

const participantColumns = "id, name, registration_order, created_at"

func (m participantModel) toDomain(picks []participant.Pick) participant.Participant {
	return participant.Participant{
		ID:                m.ID,
		Name:              m.Name,
		RegistrationOrder: m.RegistrationOrder,
		CreatedAt:         m.CreatedAt,
		Picks:             picks,
	}
}

func (m pickModel) toDomain() participant.Pick {
	return participant.Pick{
		ID:       m.ID,
		TeamID:   m.TeamID,
		Priority: m.Priority,
	}
}
