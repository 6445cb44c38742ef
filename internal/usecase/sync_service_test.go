package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/sessionclock"
)

func syncFixtureRows(n int) []team.StandingsRow {
	rows := make([]team.StandingsRow, n)
	for i := range rows {
		rows[i] = team.StandingsRow{
			SofascoreID: int64(1000 + i),
			Name:        "Clube",
			Position:    i + 1,
			Points:      3 * (n - i),
			Matches:     10,
		}
	}
	return rows
}

func newSyncFixture(fetcher *stubFetcher, teamRepo *stubTeamRepo, badges *stubBadges) *SyncService {
	participants := &stubParticipantRepo{participants: []participant.Participant{
		{ID: 1, Name: "Ana", RegistrationOrder: 1, Picks: []participant.Pick{{TeamID: 1, Priority: 1}}},
	}}
	ranking := NewRankingService(teamRepo, participants, RankingConfig{TeamsPerParticipant: 1}, logging.NewNop())
	history := NewHistoryService(newStubSnapshotRepo(), teamRepo, ranking, logging.NewNop())
	history.sessionDate = func() time.Time { return time.Date(2026, 6, 3, 0, 0, 0, 0, sessionclock.BRT) }

	return NewSyncService(fetcher, teamRepo, badges, history,
		SyncConfig{MinTeamsProtection: 20}, logging.NewNop())
}

func TestSyncServiceRun(t *testing.T) {
	fetcher := &stubFetcher{rows: syncFixtureRows(20)}
	teamRepo := &stubTeamRepo{teams: []team.Team{{ID: 1, Name: "Flamengo", Points: 12}}, maxMatches: 10}
	badges := &stubBadges{downloaded: 5}

	res, err := newSyncFixture(fetcher, teamRepo, badges).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, res.TeamsCount)
	assert.Equal(t, 1, res.ParticipantsCount)
	assert.Equal(t, "2026-06-03", res.SessionKey)
	assert.Equal(t, "sincronizado: 20 clubes, 5 escudos", res.Message)
	require.Len(t, teamRepo.upserts, 1)
	assert.Len(t, teamRepo.upserts[0], 20)
	assert.Equal(t, 1, badges.calls)

	// updated_at is stamped on the Brasília clock, not UTC.
	_, offset := teamRepo.lastUpsertAt.Zone()
	assert.Equal(t, -3*60*60, offset)
}

func TestSyncServiceProtectionFloor(t *testing.T) {
	fetcher := &stubFetcher{rows: syncFixtureRows(19)}
	teamRepo := &stubTeamRepo{}
	svc := newSyncFixture(fetcher, teamRepo, &stubBadges{})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtectionViolated)
	// Nothing persisted when the floor trips.
	assert.Empty(t, teamRepo.upserts)
}

func TestSyncServiceExactFloorPasses(t *testing.T) {
	fetcher := &stubFetcher{rows: syncFixtureRows(20)}
	teamRepo := &stubTeamRepo{teams: []team.Team{{ID: 1, Points: 1}}}

	res, err := newSyncFixture(fetcher, teamRepo, &stubBadges{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, res.TeamsCount)
}

func TestSyncServiceFetchFailurePropagates(t *testing.T) {
	fetcher := &stubFetcher{err: ErrUpstreamUnavailable}
	teamRepo := &stubTeamRepo{}

	_, err := newSyncFixture(fetcher, teamRepo, &stubBadges{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Empty(t, teamRepo.upserts)
}
