package participant

import "context"

// Repository describes participant persistence needs from use cases.
// Create and Update persist the participant and its picks in one
// transaction; Delete cascades picks and history snapshots.
type Repository interface {
	List(ctx context.Context) ([]Participant, error)
	GetByID(ctx context.Context, id int64) (Participant, bool, error)
	GetByName(ctx context.Context, name string) (Participant, bool, error)
	GetByRegistrationOrder(ctx context.Context, order int) (Participant, bool, error)
	Create(ctx context.Context, p Participant) (Participant, error)
	Update(ctx context.Context, p Participant) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
