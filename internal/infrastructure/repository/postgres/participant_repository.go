package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/querybuilder"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.List")
	defer span.End()

	query, args, err := querybuilder.Select(participantColumns).
		From("participants").
		OrderBy("registration_order ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build participants query: %w", err)
	}

	var models []participantModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select participants: %w", err)
	}
	if len(models) == 0 {
		return []participant.Participant{}, nil
	}

	ids := make([]any, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	picksByParticipant, err := r.picksFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]participant.Participant, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain(picksByParticipant[m.ID]))
	}
	return out, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (participant.Participant, bool, error) {
	return r.getOne(ctx, querybuilder.Eq("id", id))
}

// GetByName matches case-insensitively so "Ana" and "ANA" are the same
// entry.
func (r *ParticipantRepository) GetByName(ctx context.Context, name string) (participant.Participant, bool, error) {
	return r.getOne(ctx, querybuilder.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *ParticipantRepository) GetByRegistrationOrder(ctx context.Context, order int) (participant.Participant, bool, error) {
	return r.getOne(ctx, querybuilder.Eq("registration_order", order))
}

func (r *ParticipantRepository) getOne(ctx context.Context, cond querybuilder.Condition) (participant.Participant, bool, error) {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.getOne")
	defer span.End()

	query, args, err := querybuilder.Select(participantColumns).
		From("participants").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build participant query: %w", err)
	}

	var model participantModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if isNoRows(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	picksByParticipant, err := r.picksFor(ctx, []any{model.ID})
	if err != nil {
		return participant.Participant{}, false, err
	}

	return model.toDomain(picksByParticipant[model.ID]), true, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.Create")
	defer span.End()

	err := runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query, args, err := querybuilder.InsertInto("participants").
			Columns("name", "registration_order").
			Values(p.Name, p.RegistrationOrder).
			Suffix("RETURNING id, created_at").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build participant insert: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		return r.insertPicks(ctx, tx, p.ID, p.Picks)
	})
	if err != nil {
		return participant.Participant{}, err
	}

	return p, nil
}

// Update rewrites the participant row and replaces its pick set in one
// transaction.
func (r *ParticipantRepository) Update(ctx context.Context, p participant.Participant) error {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.Update")
	defer span.End()

	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query, args, err := querybuilder.Update("participants").
			Set("name", p.Name).
			Set("registration_order", p.RegistrationOrder).
			Where(querybuilder.Eq("id", p.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build participant update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}

		delQuery, delArgs, err := querybuilder.DeleteFrom("picks").
			Where(querybuilder.Eq("participant_id", p.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build picks delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
			return fmt.Errorf("delete picks: %w", err)
		}

		return r.insertPicks(ctx, tx, p.ID, p.Picks)
	})
}

// Delete removes the participant; picks and history snapshots go with it
// through ON DELETE CASCADE.
func (r *ParticipantRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.Delete")
	defer span.End()

	query, args, err := querybuilder.DeleteFrom("participants").
		Where(querybuilder.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build participant delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Count(ctx context.Context) (int, error) {
	ctx, span := startRepoSpan(ctx, "postgres.ParticipantRepository.Count")
	defer span.End()

	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM participants"); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}

	return count, nil
}

func (r *ParticipantRepository) insertPicks(ctx context.Context, tx *sqlx.Tx, participantID int64, picks []participant.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	builder := querybuilder.InsertInto("picks").
		Columns("participant_id", "team_id", "priority")
	for _, pick := range picks {
		builder.Values(participantID, pick.TeamID, pick.Priority)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build picks insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert picks: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) picksFor(ctx context.Context, participantIDs []any) (map[int64][]participant.Pick, error) {
	query, args, err := querybuilder.Select("id, participant_id, team_id, priority").
		From("picks").
		Where(querybuilder.In("participant_id", participantIDs)).
		OrderBy("participant_id ASC", "priority ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build picks query: %w", err)
	}

	var models []pickModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make(map[int64][]participant.Pick, len(participantIDs))
	for _, m := range models {
		out[m.ParticipantID] = append(out[m.ParticipantID], m.toDomain())
	}
	return out, nil
}
