package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/sessionclock"
)

type SnapshotSummary struct {
	SessionKey        string
	Round             int
	ParticipantsCount int
}

// HistoryService records per-session leaderboard snapshots and serves
// the accumulated history. Recording is idempotent for a session date:
// existing rows for the date are replaced wholesale.
type HistoryService struct {
	snapshotRepo snapshot.Repository
	teamRepo     team.Repository
	ranking      *RankingService
	logger       *logging.Logger
	sessionDate  func() time.Time
}

func NewHistoryService(
	snapshotRepo snapshot.Repository,
	teamRepo team.Repository,
	ranking *RankingService,
	logger *logging.Logger,
) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &HistoryService{
		snapshotRepo: snapshotRepo,
		teamRepo:     teamRepo,
		ranking:      ranking,
		logger:       logger,
		sessionDate:  func() time.Time { return sessionclock.SessionDate(sessionclock.Now()) },
	}
}

// RecordSnapshot freezes the current leaderboard under the upcoming
// session date. With no participants there is nothing to freeze and the
// summary carries an empty session key.
func (s *HistoryService) RecordSnapshot(ctx context.Context) (SnapshotSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.RecordSnapshot")
	defer span.End()

	ranking, err := s.ranking.Build(ctx)
	if err != nil {
		return SnapshotSummary{}, err
	}
	if len(ranking.Entries) == 0 {
		s.logger.InfoContext(ctx, "no participants, skipping snapshot")
		return SnapshotSummary{}, nil
	}

	// The round is the highest matches-played count in the table. With
	// an empty teams table it stays 0.
	round, err := s.teamRepo.MaxMatches(ctx)
	if err != nil {
		return SnapshotSummary{}, fmt.Errorf("resolve round: %w", err)
	}

	sessionDate := s.sessionDate()
	rows := make([]snapshot.Snapshot, 0, len(ranking.Entries))
	for _, entry := range ranking.Entries {
		p, ok, err := s.ranking.participantRepo.GetByRegistrationOrder(ctx, entry.RegistrationOrder)
		if err != nil {
			return SnapshotSummary{}, fmt.Errorf("resolve participant %q: %w", entry.Participant, err)
		}
		if !ok {
			// Participant vanished between ranking and snapshot. Keep
			// going with the rest rather than losing the session.
			s.logger.WarnContext(ctx, "skipping snapshot row, participant not found",
				"participant", entry.Participant)
			continue
		}
		rows = append(rows, snapshot.Snapshot{
			SessionDate:   sessionDate,
			Round:         round,
			ParticipantID: p.ID,
			Score:         entry.Total,
			Rank:          entry.Rank,
		})
	}

	if err := s.snapshotRepo.ReplaceSession(ctx, sessionDate, rows); err != nil {
		return SnapshotSummary{}, fmt.Errorf("replace session snapshot: %w", err)
	}

	summary := SnapshotSummary{
		SessionKey:        sessionclock.FormatKey(sessionDate),
		Round:             round,
		ParticipantsCount: len(rows),
	}
	s.logger.InfoContext(ctx, "snapshot recorded",
		"session", summary.SessionKey, "round", round, "rows", len(rows))

	return summary, nil
}

// ListHistory returns recorded snapshots, optionally filtered by a
// case-insensitive participant name fragment.
func (s *HistoryService) ListHistory(ctx context.Context, participantFilter string) ([]snapshot.HistoryRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.ListHistory")
	defer span.End()

	rows, err := s.snapshotRepo.ListHistory(ctx, participantFilter)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return rows, nil
}
