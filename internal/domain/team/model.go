package team

import "time"

// Team is a real football club tracked in the league table. Identity is the
// upstream Sofascore id; rows are mutated in place on every sync and never
// deleted by it.
type Team struct {
	ID           int64
	SofascoreID  int64
	Name         string
	Slug         string
	NameCode     string
	Position     int
	Points       int
	Matches      int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	UpdatedAt    time.Time
}

// StandingsRow is one normalized row of the upstream league table.
type StandingsRow struct {
	SofascoreID  int64
	Name         string
	Slug         string
	NameCode     string
	Position     int
	Points       int
	Matches      int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}
