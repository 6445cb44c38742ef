package team

import (
	"context"
	"time"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListBySlug(ctx context.Context) ([]Team, error)
	ListByPosition(ctx context.Context) ([]Team, error)
	GetBySofascoreID(ctx context.Context, sofascoreID int64) (Team, bool, error)
	// UpsertBatch applies every row atomically: existing teams (matched by
	// sofascore id) are overwritten, unknown ones inserted, none deleted.
	UpsertBatch(ctx context.Context, rows []StandingsRow, updatedAt time.Time) error
	MaxMatches(ctx context.Context) (int, error)
}
