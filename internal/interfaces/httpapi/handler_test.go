package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/token"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type memTeamRepo struct {
	teams []team.Team
}

func (r *memTeamRepo) List(ctx context.Context) ([]team.Team, error)           { return r.teams, nil }
func (r *memTeamRepo) ListBySlug(ctx context.Context) ([]team.Team, error)     { return r.teams, nil }
func (r *memTeamRepo) ListByPosition(ctx context.Context) ([]team.Team, error) { return r.teams, nil }
func (r *memTeamRepo) GetBySofascoreID(ctx context.Context, id int64) (team.Team, bool, error) {
	for _, t := range r.teams {
		if t.SofascoreID == id {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}
func (r *memTeamRepo) UpsertBatch(ctx context.Context, rows []team.StandingsRow, at time.Time) error {
	return nil
}
func (r *memTeamRepo) MaxMatches(ctx context.Context) (int, error) { return 10, nil }

type memParticipantRepo struct {
	participants []participant.Participant
	nextID       int64
}

func (r *memParticipantRepo) List(ctx context.Context) ([]participant.Participant, error) {
	return r.participants, nil
}
func (r *memParticipantRepo) GetByID(ctx context.Context, id int64) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if p.ID == id {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}
func (r *memParticipantRepo) GetByName(ctx context.Context, name string) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if strings.EqualFold(p.Name, name) {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}
func (r *memParticipantRepo) GetByRegistrationOrder(ctx context.Context, order int) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if p.RegistrationOrder == order {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}
func (r *memParticipantRepo) Create(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	r.nextID++
	p.ID = r.nextID
	r.participants = append(r.participants, p)
	return p, nil
}
func (r *memParticipantRepo) Update(ctx context.Context, p participant.Participant) error { return nil }
func (r *memParticipantRepo) Delete(ctx context.Context, id int64) error                  { return nil }
func (r *memParticipantRepo) Count(ctx context.Context) (int, error) {
	return len(r.participants), nil
}

type memSnapshotRepo struct{}

func (memSnapshotRepo) ReplaceSession(ctx context.Context, date time.Time, rows []snapshot.Snapshot) error {
	return nil
}
func (memSnapshotRepo) ListHistory(ctx context.Context, filter string) ([]snapshot.HistoryRow, error) {
	return []snapshot.HistoryRow{
		{SessionDate: time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC), Round: 10, Participant: "Ana", Score: 55, Rank: 1},
	}, nil
}
func (memSnapshotRepo) ListBySessionDate(ctx context.Context, date time.Time) ([]snapshot.Snapshot, error) {
	return nil, nil
}

type failingFetcher struct{}

func (failingFetcher) FetchStandings(ctx context.Context) ([]team.StandingsRow, error) {
	return nil, usecase.ErrUpstreamUnavailable
}

type noopBadges struct{}

func (noopBadges) DownloadAll(ctx context.Context, teams []team.Team) int { return 0 }

type routerFixture struct {
	router http.Handler
	tokens *token.Manager
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	logger := logging.NewNop()

	teamRepo := &memTeamRepo{teams: []team.Team{
		{ID: 1, SofascoreID: 1963, Name: "Flamengo", NameCode: "FLA", Position: 1, Points: 30},
		{ID: 2, SofascoreID: 1958, Name: "Palmeiras", NameCode: "PAL", Position: 2, Points: 26},
	}}
	participantRepo := &memParticipantRepo{participants: []participant.Participant{
		{ID: 1, Name: "Ana", RegistrationOrder: 1, Picks: []participant.Pick{
			{TeamID: 1, Priority: 1}, {TeamID: 2, Priority: 2},
		}},
	}, nextID: 1}

	tokens := token.NewManager("test-secret", time.Hour)
	rankingService := usecase.NewRankingService(teamRepo, participantRepo,
		usecase.RankingConfig{TeamsPerParticipant: 2, DisplayColumn: "sigla"}, logger)
	historyService := usecase.NewHistoryService(memSnapshotRepo{}, teamRepo, rankingService, logger)
	syncService := usecase.NewSyncService(failingFetcher{}, teamRepo, noopBadges{}, historyService,
		usecase.SyncConfig{MinTeamsProtection: 20}, logger)
	authService := usecase.NewAuthService(tokens, usecase.AuthConfig{
		AdminUsername: "admin", AdminPassword: "s3cret",
	}, logger)

	handler := NewHandler(
		usecase.NewTeamService(teamRepo, logger),
		rankingService,
		historyService,
		usecase.NewParticipantService(participantRepo, teamRepo, 2, logger),
		syncService,
		authService,
		PublicConfig{SeasonYear: 2026, TournamentID: 325, SeasonID: 87678, TeamsPerParticipant: 2, MinTeamsProtection: 20},
		logger,
	)

	router := NewRouter(handler, authService, logger, nil, "cron-s3cret", "")
	return routerFixture{router: router, tokens: tokens}
}

func (f routerFixture) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var envelope googleResponseEnvelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, googleAPIVersion, envelope.APIVersion)
	return envelope
}

func TestRouterHealth(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec)
}

func TestRouterRanking(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/api/ranking", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"apostador":"Ana"`)
	assert.Contains(t, body, `"total":56`)
	assert.Contains(t, body, `"coluna_exibicao":"sigla"`)
}

func TestRouterHistory(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/api/historico?apostador=ana", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pontuacao":55`)
}

func TestRouterLoginFlow(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data loginResponseDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.AccessToken)

	rec = f.do(t, http.MethodGet, "/api/auth/verify", "", payload.Data.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/admin/sync", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/apostadores", `{"nome":"Bruno"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterSyncUpstreamFailureIsBadGateway(t *testing.T) {
	f := newRouterFixture(t)

	signed, err := f.tokens.Issue("admin")
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/admin/sync", "", signed)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BAD_GATEWAY", envelope.Error.Status)
}

func TestRouterCronSync(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/admin/cron/sync", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Valid token passes the gate; the fixture fetcher then fails
	// upstream, which proves the handler itself ran.
	rec = f.do(t, http.MethodGet, "/api/admin/cron/sync?token=cron-s3cret", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouterCreateParticipantValidation(t *testing.T) {
	f := newRouterFixture(t)

	signed, err := f.tokens.Issue("admin")
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/apostadores", `{"nome":"Bruno","times":[{"team_id":1963,"prioridade":1}]}`, signed)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "needs exactly two picks in this fixture")

	// Picks arrive as Sofascore ids, the same id space the ranking serves.
	rec = f.do(t, http.MethodPost, "/api/apostadores",
		`{"nome":"Bruno","times":[{"team_id":1963,"prioridade":1},{"team_id":1958,"prioridade":2}]}`, signed)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/apostadores",
		`{"nome":"ana","times":[{"team_id":1963,"prioridade":1},{"team_id":1958,"prioridade":2}]}`, signed)
	assert.Equal(t, http.StatusConflict, rec.Code, "names are unique case-insensitively")
}
