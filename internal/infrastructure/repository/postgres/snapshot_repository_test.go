package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryQueryChronologicalOrder(t *testing.T) {
	t.Parallel()

	query, args, err := historyQuery("")
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY s.session_date ASC, s.rank ASC")
	assert.Empty(t, args)
}

func TestHistoryQueryParticipantFilter(t *testing.T) {
	t.Parallel()

	query, args, err := historyQuery("  maria ")
	require.NoError(t, err)
	assert.Contains(t, query, "p.name ILIKE $1")
	assert.Equal(t, []any{"%maria%"}, args)
}
