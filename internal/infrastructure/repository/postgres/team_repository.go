package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.list(ctx, "name ASC")
}

func (r *TeamRepository) ListBySlug(ctx context.Context) ([]team.Team, error) {
	return r.list(ctx, "slug ASC")
}

func (r *TeamRepository) ListByPosition(ctx context.Context) ([]team.Team, error) {
	return r.list(ctx, "position ASC, name ASC")
}

func (r *TeamRepository) list(ctx context.Context, orderBy string) ([]team.Team, error) {
	ctx, span := startRepoSpan(ctx, "postgres.TeamRepository.list")
	defer span.End()

	query, args, err := querybuilder.Select(teamColumns).
		From("teams").
		OrderBy(orderBy).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build teams query: %w", err)
	}

	var models []teamModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	return teamsToDomain(models), nil
}

func (r *TeamRepository) GetBySofascoreID(ctx context.Context, sofascoreID int64) (team.Team, bool, error) {
	ctx, span := startRepoSpan(ctx, "postgres.TeamRepository.GetBySofascoreID")
	defer span.End()

	query, args, err := querybuilder.Select(teamColumns).
		From("teams").
		Where(querybuilder.Eq("sofascore_id", sofascoreID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build team query: %w", err)
	}

	var model teamModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if isNoRows(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return model.toDomain(), true, nil
}

// UpsertBatch writes every standings row in one statement inside one
// transaction, so readers never observe a partially refreshed table.
// Teams already present are matched on sofascore_id and overwritten;
// teams absent from rows are left untouched.
func (r *TeamRepository) UpsertBatch(ctx context.Context, rows []team.StandingsRow, updatedAt time.Time) error {
	ctx, span := startRepoSpan(ctx, "postgres.TeamRepository.UpsertBatch")
	defer span.End()

	if len(rows) == 0 {
		return nil
	}

	builder := querybuilder.InsertInto("teams").
		Columns("sofascore_id", "name", "slug", "name_code", "position", "points",
			"matches", "wins", "draws", "losses", "goals_for", "goals_against", "updated_at").
		Suffix(`ON CONFLICT (sofascore_id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			name_code = EXCLUDED.name_code,
			position = EXCLUDED.position,
			points = EXCLUDED.points,
			matches = EXCLUDED.matches,
			wins = EXCLUDED.wins,
			draws = EXCLUDED.draws,
			losses = EXCLUDED.losses,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			updated_at = EXCLUDED.updated_at`)

	for _, row := range rows {
		builder.Values(row.SofascoreID, row.Name, row.Slug, row.NameCode,
			row.Position, row.Points, row.Matches, row.Wins, row.Draws,
			row.Losses, row.GoalsFor, row.GoalsAgainst, updatedAt)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
		return nil
	})
}

func (r *TeamRepository) MaxMatches(ctx context.Context) (int, error) {
	ctx, span := startRepoSpan(ctx, "postgres.TeamRepository.MaxMatches")
	defer span.End()

	var max int
	if err := r.db.GetContext(ctx, &max, "SELECT COALESCE(MAX(matches), 0) FROM teams"); err != nil {
		return 0, fmt.Errorf("max matches: %w", err)
	}

	return max, nil
}
