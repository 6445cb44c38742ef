package snapshot

import "time"

// Snapshot is one participant's frozen score and rank for a session.
// Exactly one row may exist per (session date, participant).
type Snapshot struct {
	ID            int64
	SessionDate   time.Time
	Round         int
	ParticipantID int64
	Score         int
	Rank          int
}

// HistoryRow is a snapshot joined with its participant name, as served by
// the history endpoint.
type HistoryRow struct {
	SessionDate time.Time
	Round       int
	Participant string
	Score       int
	Rank        int
}
