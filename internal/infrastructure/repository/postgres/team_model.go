package postgres

import (
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
)

type teamModel struct {
	ID           int64     `db:"id"`
	SofascoreID  int64     `db:"sofascore_id"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	NameCode     string    `db:"name_code"`
	Position     int       `db:"position"`
	Points       int       `db:"points"`
	Matches      int       `db:"matches"`
	Wins         int       `db:"wins"`
	Draws        int       `db:"draws"`
	Losses       int       `db:"losses"`
	GoalsFor     int       `db:"goals_for"`
	GoalsAgainst int       `db:"goals_against"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const teamColumns = `id, sofascore_id, name, slug, name_code, position, points,
	matches, wins, draws, losses, goals_for, goals_against, updated_at`

func (m teamModel) toDomain() team.Team {
	return team.Team{
		ID:           m.ID,
		SofascoreID:  m.SofascoreID,
		Name:         m.Name,
		Slug:         m.Slug,
		NameCode:     m.NameCode,
		Position:     m.Position,
		Points:       m.Points,
		Matches:      m.Matches,
		Wins:         m.Wins,
		Draws:        m.Draws,
		Losses:       m.Losses,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		UpdatedAt:    m.UpdatedAt,
	}
}

func teamsToDomain(models []teamModel) []team.Team {
	out := make([]team.Team, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out
}
