package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/resilience"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/sessionclock"
)

// StandingsFetcher pulls the current league table from the upstream
// provider, trying every configured strategy before giving up.
type StandingsFetcher interface {
	FetchStandings(ctx context.Context) ([]team.StandingsRow, error)
}

// BadgeDownloader mirrors team badges into local storage and reports
// how many files it fetched. Failures are soft: sync proceeds anyway.
type BadgeDownloader interface {
	DownloadAll(ctx context.Context, teams []team.Team) int
}

type SyncResult struct {
	TeamsCount        int
	ParticipantsCount int
	SessionKey        string
	Message           string
}

type SyncConfig struct {
	MinTeamsProtection int
}

// SyncService drives the standings refresh cycle: fetch upstream rows,
// reconcile them into the teams table, mirror badges and record the
// session snapshot. Cycles are serialized through a single-flight group
// so concurrent triggers share one run.
type SyncService struct {
	fetcher    StandingsFetcher
	teamRepo   team.Repository
	badges     BadgeDownloader
	history    *HistoryService
	cfg        SyncConfig
	logger     *logging.Logger
	syncFlight resilience.SingleFlight
}

func NewSyncService(
	fetcher StandingsFetcher,
	teamRepo team.Repository,
	badges BadgeDownloader,
	history *HistoryService,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinTeamsProtection < 0 {
		cfg.MinTeamsProtection = 0
	}

	return &SyncService{
		fetcher:  fetcher,
		teamRepo: teamRepo,
		badges:   badges,
		history:  history,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes a full sync cycle, or joins one already in flight.
func (s *SyncService) Run(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	value, err, shared := s.syncFlight.Do("sync", func() (any, error) {
		return s.run(ctx)
	})
	if err != nil {
		return SyncResult{}, err
	}
	if shared {
		s.logger.InfoContext(ctx, "sync joined in-flight cycle")
	}

	return value.(SyncResult), nil
}

func (s *SyncService) run(ctx context.Context) (SyncResult, error) {
	started := time.Now()

	count, err := s.syncStandings(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list teams after sync: %w", err)
	}

	badgeCount := 0
	if s.badges != nil {
		badgeCount = s.badges.DownloadAll(ctx, teams)
	}

	snap, err := s.history.RecordSnapshot(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{
		TeamsCount:        count,
		ParticipantsCount: snap.ParticipantsCount,
		SessionKey:        snap.SessionKey,
		Message:           fmt.Sprintf("sincronizado: %d clubes, %d escudos", count, badgeCount),
	}
	s.logger.InfoContext(ctx, "sync cycle finished",
		"teams", count,
		"badges", badgeCount,
		"participants", snap.ParticipantsCount,
		"session", snap.SessionKey,
		"duration", time.Since(started).String(),
	)

	return result, nil
}

// syncStandings fetches the upstream table and upserts it, refusing to
// write when the row count falls below the protection floor. A short
// response usually means a truncated or off-season payload, and
// overwriting the table with it would corrupt every score downstream.
func (s *SyncService) syncStandings(ctx context.Context) (int, error) {
	rows, err := s.fetcher.FetchStandings(ctx)
	if err != nil {
		return 0, err
	}

	if len(rows) < s.cfg.MinTeamsProtection {
		s.logger.WarnContext(ctx, "standings below protection floor, refusing to persist",
			"received", len(rows),
			"floor", s.cfg.MinTeamsProtection,
		)
		return 0, errors.Wrapf(ErrProtectionViolated,
			"upstream returned %d teams, floor is %d", len(rows), s.cfg.MinTeamsProtection)
	}

	// The updated_at stamp is shown to users in Brasília time, so it
	// is taken from the same clock the session math uses.
	if err := s.teamRepo.UpsertBatch(ctx, rows, sessionclock.Now()); err != nil {
		return 0, fmt.Errorf("upsert standings: %w", err)
	}

	return len(rows), nil
}
