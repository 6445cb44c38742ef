package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
)

// PickInput names a club by its Sofascore id, which is what the ranking
// and teams endpoints serve; resolution to the internal key happens on
// write.
type PickInput struct {
	TeamID   int64
	Priority int
}

// ParticipantInput carries a create/update request. RegistrationOrder
// zero on create means "assign the next free order".
type ParticipantInput struct {
	Name              string
	RegistrationOrder int
	Picks             []PickInput
}

type ImportResult struct {
	Created int
	Skipped int
	Errors  []string
}

// ParticipantService manages pool entries and their club picks. Every
// write validates the pick set: exactly the configured number of clubs,
// all distinct, all existing, with priorities forming 1..N.
type ParticipantService struct {
	participantRepo participant.Repository
	teamRepo        team.Repository
	slots           int
	logger          *logging.Logger
}

func NewParticipantService(
	participantRepo participant.Repository,
	teamRepo team.Repository,
	teamsPerParticipant int,
	logger *logging.Logger,
) *ParticipantService {
	if logger == nil {
		logger = logging.Default()
	}
	if teamsPerParticipant < 1 {
		teamsPerParticipant = 7
	}

	return &ParticipantService{
		participantRepo: participantRepo,
		teamRepo:        teamRepo,
		slots:           teamsPerParticipant,
		logger:          logger,
	}
}

func (s *ParticipantService) List(ctx context.Context) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.List")
	defer span.End()

	list, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return list, nil
}

func (s *ParticipantService) Get(ctx context.Context, id int64) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Get")
	defer span.End()

	p, ok, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !ok {
		return participant.Participant{}, errors.Wrapf(ErrNotFound, "participant %d", id)
	}

	return p, nil
}

func (s *ParticipantService) Create(ctx context.Context, in ParticipantInput) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Create")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return participant.Participant{}, errors.Wrap(ErrInvalidInput, "name is required")
	}
	picks, err := s.resolvePicks(ctx, in.Picks)
	if err != nil {
		return participant.Participant{}, err
	}

	if _, taken, err := s.participantRepo.GetByName(ctx, in.Name); err != nil {
		return participant.Participant{}, fmt.Errorf("check name: %w", err)
	} else if taken {
		return participant.Participant{}, errors.Wrapf(ErrConflict, "name %q already registered", in.Name)
	}

	if in.RegistrationOrder == 0 {
		count, err := s.participantRepo.Count(ctx)
		if err != nil {
			return participant.Participant{}, fmt.Errorf("count participants: %w", err)
		}
		in.RegistrationOrder = count + 1
	} else if _, taken, err := s.participantRepo.GetByRegistrationOrder(ctx, in.RegistrationOrder); err != nil {
		return participant.Participant{}, fmt.Errorf("check registration order: %w", err)
	} else if taken {
		return participant.Participant{}, errors.Wrapf(ErrConflict, "registration order %d already taken", in.RegistrationOrder)
	}

	created, err := s.participantRepo.Create(ctx, participant.Participant{
		Name:              in.Name,
		RegistrationOrder: in.RegistrationOrder,
		Picks:             picks,
	})
	if err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	s.logger.InfoContext(ctx, "participant created",
		"id", created.ID, "name", created.Name, "order", created.RegistrationOrder)

	return created, nil
}

func (s *ParticipantService) Update(ctx context.Context, id int64, in ParticipantInput) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Update")
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return participant.Participant{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return participant.Participant{}, errors.Wrap(ErrInvalidInput, "name is required")
	}
	picks, err := s.resolvePicks(ctx, in.Picks)
	if err != nil {
		return participant.Participant{}, err
	}

	if other, taken, err := s.participantRepo.GetByName(ctx, in.Name); err != nil {
		return participant.Participant{}, fmt.Errorf("check name: %w", err)
	} else if taken && other.ID != id {
		return participant.Participant{}, errors.Wrapf(ErrConflict, "name %q already registered", in.Name)
	}

	order := in.RegistrationOrder
	if order == 0 {
		order = current.RegistrationOrder
	} else if other, taken, err := s.participantRepo.GetByRegistrationOrder(ctx, order); err != nil {
		return participant.Participant{}, fmt.Errorf("check registration order: %w", err)
	} else if taken && other.ID != id {
		return participant.Participant{}, errors.Wrapf(ErrConflict, "registration order %d already taken", order)
	}

	updated := participant.Participant{
		ID:                id,
		Name:              in.Name,
		RegistrationOrder: order,
		CreatedAt:         current.CreatedAt,
		Picks:             picks,
	}
	if err := s.participantRepo.Update(ctx, updated); err != nil {
		return participant.Participant{}, fmt.Errorf("update participant: %w", err)
	}

	return updated, nil
}

func (s *ParticipantService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Delete")
	defer span.End()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.participantRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	s.logger.InfoContext(ctx, "participant deleted", "id", id)

	return nil
}

// Import creates participants in bulk, skipping names that already
// exist and collecting per-entry validation errors instead of aborting
// the batch.
func (s *ParticipantService) Import(ctx context.Context, inputs []ParticipantInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Import")
	defer span.End()

	var result ImportResult
	for _, in := range inputs {
		_, err := s.Create(ctx, in)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, ErrConflict):
			result.Skipped++
		case errors.Is(err, ErrInvalidInput):
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", in.Name, err))
		default:
			return result, err
		}
	}
	s.logger.InfoContext(ctx, "participant import finished",
		"created", result.Created, "skipped", result.Skipped, "errors", len(result.Errors))

	return result, nil
}

// resolvePicks validates the pick set and maps each Sofascore id to the
// club's internal key, so the wire contract stays in external ids end
// to end while the picks table keeps its foreign key to teams.
func (s *ParticipantService) resolvePicks(ctx context.Context, picks []PickInput) ([]participant.Pick, error) {
	if len(picks) != s.slots {
		return nil, errors.Wrapf(ErrInvalidInput, "exactly %d picks required, got %d", s.slots, len(picks))
	}

	seenPriority := make(map[int]bool, len(picks))
	seenTeam := make(map[int64]bool, len(picks))
	for _, pick := range picks {
		if pick.Priority < 1 || pick.Priority > s.slots {
			return nil, errors.Wrapf(ErrInvalidInput, "priority %d out of range 1..%d", pick.Priority, s.slots)
		}
		if seenPriority[pick.Priority] {
			return nil, errors.Wrapf(ErrInvalidInput, "duplicate priority %d", pick.Priority)
		}
		if seenTeam[pick.TeamID] {
			return nil, errors.Wrapf(ErrInvalidInput, "duplicate team %d", pick.TeamID)
		}
		seenPriority[pick.Priority] = true
		seenTeam[pick.TeamID] = true
	}

	out := make([]participant.Pick, 0, len(picks))
	for _, pick := range picks {
		t, ok, err := s.teamRepo.GetBySofascoreID(ctx, pick.TeamID)
		if err != nil {
			return nil, fmt.Errorf("resolve team %d: %w", pick.TeamID, err)
		}
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "unknown team %d", pick.TeamID)
		}
		out = append(out, participant.Pick{TeamID: t.ID, Priority: pick.Priority})
	}

	return out, nil
}
