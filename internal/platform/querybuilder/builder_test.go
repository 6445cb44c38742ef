package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("sofascore_id", int64(1963))).
		OrderBy("position").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM teams WHERE sofascore_id = $1 ORDER BY position", query)
	assert.Equal(t, []any{int64(1963)}, args)
}

func TestSelectBuilder_JoinAndILike(t *testing.T) {
	t.Parallel()

	query, args, err := Select("s.session_date", "p.name").
		From("snapshots s").
		Join("participants p ON p.id = s.participant_id").
		Where(ILike("p.name", "%maria%")).
		OrderBy("s.session_date", "s.rank").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT s.session_date, p.name FROM snapshots s JOIN participants p ON p.id = s.participant_id WHERE p.name ILIKE $1 ORDER BY s.session_date, s.rank",
		query)
	assert.Equal(t, []any{"%maria%"}, args)
}

func TestInsertBuilder_SuffixPlaceholders(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("teams").
		Columns("sofascore_id", "name").
		Values(int64(1), "Flamengo").
		Suffix("ON CONFLICT (sofascore_id) DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO teams (sofascore_id, name) VALUES ($1, $2) ON CONFLICT (sofascore_id) DO UPDATE SET name = EXCLUDED.name",
		query)
	assert.Len(t, args, 2)
}

func TestInsertBuilder_RowMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("teams").
		Columns("a", "b").
		Values(1).
		ToSQL()
	require.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("teams").
		Set("points", 30).
		SetExpr("updated_at", "NOW()").
		Where(Eq("sofascore_id", int64(7))).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE teams SET points = $1, updated_at = NOW() WHERE sofascore_id = $2", query)
	assert.Equal(t, []any{30, int64(7)}, args)
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("snapshots").
		Where(Eq("session_date", "2026-05-05")).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM snapshots WHERE session_date = $1", query)
	assert.Equal(t, []any{"2026-05-05"}, args)
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	t.Parallel()

	_, _, err := DeleteFrom("snapshots").ToSQL()
	require.Error(t, err)
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ID     int64  `db:"id"`
		Name   string `db:"name"`
		hidden string
		Skip   string `db:"-"`
	}

	query, args, err := InsertModel("teams", row{ID: 9, Name: "Santos"}, "")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO teams (id, name) VALUES ($1, $2)", query)
	assert.Equal(t, []any{int64(9), "Santos"}, args)
}
