package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// ReplaceSession swaps a session's snapshot rows atomically: delete then
// insert in one transaction. Re-running a sync inside the same session
// window therefore overwrites the previous snapshot instead of stacking
// duplicate rows.
func (r *SnapshotRepository) ReplaceSession(ctx context.Context, sessionDate time.Time, rows []snapshot.Snapshot) error {
	ctx, span := startRepoSpan(ctx, "postgres.SnapshotRepository.ReplaceSession")
	defer span.End()

	delQuery, delArgs, err := querybuilder.DeleteFrom("snapshots").
		Where(querybuilder.Eq("session_date", sessionDate)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build snapshot delete: %w", err)
	}

	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
			return fmt.Errorf("delete session snapshots: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		builder := querybuilder.InsertInto("snapshots").
			Columns("session_date", "round", "participant_id", "score", "rank")
		for _, row := range rows {
			builder.Values(sessionDate, row.Round, row.ParticipantID, row.Score, row.Rank)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build snapshot insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert snapshots: %w", err)
		}
		return nil
	})
}

// historyQuery builds the history listing: chronological session order
// so rank evolution reads oldest to newest, then rank within a session.
func historyQuery(participantFilter string) (string, []any, error) {
	builder := querybuilder.Select(
		"s.session_date", "s.round", "p.name AS participant_name", "s.score", "s.rank").
		From("snapshots s").
		Join("participants p ON p.id = s.participant_id").
		OrderBy("s.session_date ASC", "s.rank ASC")

	if filter := strings.TrimSpace(participantFilter); filter != "" {
		builder.Where(querybuilder.ILike("p.name", "%"+filter+"%"))
	}

	return builder.ToSQL()
}

func (r *SnapshotRepository) ListHistory(ctx context.Context, participantFilter string) ([]snapshot.HistoryRow, error) {
	ctx, span := startRepoSpan(ctx, "postgres.SnapshotRepository.ListHistory")
	defer span.End()

	query, args, err := historyQuery(participantFilter)
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var models []historyRowModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	out := make([]snapshot.HistoryRow, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *SnapshotRepository) ListBySessionDate(ctx context.Context, sessionDate time.Time) ([]snapshot.Snapshot, error) {
	ctx, span := startRepoSpan(ctx, "postgres.SnapshotRepository.ListBySessionDate")
	defer span.End()

	query, args, err := querybuilder.Select("id, session_date, round, participant_id, score, rank").
		From("snapshots").
		Where(querybuilder.Eq("session_date", sessionDate)).
		OrderBy("rank ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build snapshots query: %w", err)
	}

	var models []snapshotModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}

	out := make([]snapshot.Snapshot, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}
