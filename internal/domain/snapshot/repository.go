package snapshot

import (
	"context"
	"time"
)

// Repository describes snapshot persistence needs from use cases.
type Repository interface {
	// ReplaceSession deletes every snapshot stored for sessionDate and
	// inserts rows in their place, all in one transaction. A repeated sync
	// inside a session window therefore overwrites instead of accumulating.
	ReplaceSession(ctx context.Context, sessionDate time.Time, rows []Snapshot) error
	ListHistory(ctx context.Context, participantFilter string) ([]HistoryRow, error)
	ListBySessionDate(ctx context.Context, sessionDate time.Time) ([]Snapshot, error)
}
