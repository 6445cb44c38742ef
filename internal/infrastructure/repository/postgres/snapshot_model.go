package postgres

import (
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
)

type snapshotModel struct {
	ID            int64     `db:"id"`
	SessionDate   time.Time `db:"session_date"`
	Round         int       `db:"round"`
	ParticipantID int64     `db:"participant_id"`
	Score         int       `db:"score"`
	Rank          int       `db:"rank"`
}

type historyRowModel struct {
	SessionDate time.Time `db:"session_date"`
	Round       int       `db:"round"`
	Participant string    `db:"participant_name"`
	Score       int       `db:"score"`
	Rank        int       `db:"rank"`
}

func (m snapshotModel) toDomain() snapshot.Snapshot {
	return snapshot.Snapshot{
		ID:            m.ID,
		SessionDate:   m.SessionDate,
		Round:         m.Round,
		ParticipantID: m.ParticipantID,
		Score:         m.Score,
		Rank:          m.Rank,
	}
}

func (m historyRowModel) toDomain() snapshot.HistoryRow {
	return snapshot.HistoryRow{
		SessionDate: m.SessionDate,
		Round:       m.Round,
		Participant: m.Participant,
		Score:       m.Score,
		Rank:        m.Rank,
	}
}
