// Package app wires configuration, storage, upstream clients, use cases
// and the HTTP surface into a runnable server.
package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/gfmartins/bolao-brasileirao/external/sofascore"
	"github.com/gfmartins/bolao-brasileirao/internal/config"
	"github.com/gfmartins/bolao-brasileirao/internal/infrastructure/badges"
	"github.com/gfmartins/bolao-brasileirao/internal/infrastructure/repository/postgres"
	"github.com/gfmartins/bolao-brasileirao/internal/interfaces/httpapi"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/resilience"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/token"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

// NewHTTPServer builds the API server. The returned cleanup closes the
// database pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	teamRepo := postgres.NewTeamRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	sofascoreClient := sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:       cfg.SofascoreBaseURL,
		UserAgent:     cfg.SofascoreUserAgent,
		TournamentID:  cfg.TournamentID,
		SeasonID:      cfg.SeasonID,
		Timeout:       cfg.SofascoreTimeout,
		BadgeTimeout:  cfg.BadgeHTTPTimeout,
		MaxRetries:    cfg.SofascoreMaxRetries,
		RetryDelay:    cfg.SofascoreRetryDelay,
		ScrapedoToken: cfg.ScrapedoToken,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SofascoreCircuitEnabled,
			FailureThreshold: cfg.SofascoreCircuitFailures,
			OpenTimeout:      cfg.SofascoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SofascoreCircuitHalfOpenReq,
		},
	})

	badgeCache := badges.NewCache(sofascoreClient, cfg.BadgesDir, cfg.BadgePause, cfg.BadgeMinBytes, logger)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpire)

	teamService := usecase.NewTeamService(teamRepo, logger)
	rankingService := usecase.NewRankingService(teamRepo, participantRepo, usecase.RankingConfig{
		TeamsPerParticipant: cfg.TeamsPerParticipant,
		DisplayColumn:       cfg.DisplayColumn,
	}, logger)
	historyService := usecase.NewHistoryService(snapshotRepo, teamRepo, rankingService, logger)
	syncService := usecase.NewSyncService(sofascoreClient, teamRepo, badgeCache, historyService, usecase.SyncConfig{
		MinTeamsProtection: cfg.MinTeamsProtection,
	}, logger)
	participantService := usecase.NewParticipantService(participantRepo, teamRepo, cfg.TeamsPerParticipant, logger)
	authService := usecase.NewAuthService(tokens, usecase.AuthConfig{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}, logger)

	handler := httpapi.NewHandler(
		teamService,
		rankingService,
		historyService,
		participantService,
		syncService,
		authService,
		httpapi.PublicConfig{
			SeasonYear:          cfg.SeasonYear,
			TournamentID:        cfg.TournamentID,
			SeasonID:            cfg.SeasonID,
			TeamsPerParticipant: cfg.TeamsPerParticipant,
			MinTeamsProtection:  cfg.MinTeamsProtection,
			DisplayColumn:       cfg.DisplayColumn,
			ScrapedoConfigured:  cfg.ScrapedoToken != "",
		},
		logger,
	)
	router := httpapi.NewRouter(handler, authService, logger, cfg.CORSAllowedOrigins, cfg.CronSecret, cfg.BadgesDir)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
