package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/sessionclock"
)

// RankingEntry is one leaderboard line. Per-slot slices are ordered by
// pick priority and always hold exactly the configured slot count.
type RankingEntry struct {
	Rank              int
	Participant       string
	RegistrationOrder int
	Total             int
	SlotPoints        []int
	TeamNames         []string
	TeamCodes         []string
	TeamIDs           []int64
	TeamPositions     []int
}

type RankingResponse struct {
	UpdatedAt     string
	DisplayColumn string
	Entries       []RankingEntry
}

type RankingConfig struct {
	TeamsPerParticipant int
	DisplayColumn       string
}

type RankingService struct {
	teamRepo        team.Repository
	participantRepo participant.Repository
	cfg             RankingConfig
	logger          *logging.Logger
	now             func() string
}

func NewRankingService(
	teamRepo team.Repository,
	participantRepo participant.Repository,
	cfg RankingConfig,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TeamsPerParticipant < 1 {
		cfg.TeamsPerParticipant = 7
	}

	return &RankingService{
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		cfg:             cfg,
		logger:          logger,
		now:             func() string { return sessionclock.FormatDateTime(sessionclock.Now()) },
	}
}

// Build computes the current leaderboard from team standings and picks.
// Zero participants yields an empty entry list, not an error.
func (s *RankingService) Build(ctx context.Context) (RankingResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Build")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return RankingResponse{}, fmt.Errorf("list teams: %w", err)
	}
	teamByPK := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		teamByPK[t.ID] = t
	}

	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return RankingResponse{}, fmt.Errorf("list participants: %w", err)
	}

	response := RankingResponse{
		UpdatedAt:     s.now(),
		DisplayColumn: s.cfg.DisplayColumn,
		Entries:       []RankingEntry{},
	}
	if len(participants) == 0 {
		return response, nil
	}

	slots := s.cfg.TeamsPerParticipant
	entries := make([]RankingEntry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, s.buildEntry(p, teamByPK, slots))
	}

	// Total desc, then each priority slot's points desc in order, and
	// registration order asc last. Registration order is unique, so the
	// composite key is a total order and ranks never collide.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		for slot := 0; slot < slots; slot++ {
			if entries[i].SlotPoints[slot] != entries[j].SlotPoints[slot] {
				return entries[i].SlotPoints[slot] > entries[j].SlotPoints[slot]
			}
		}
		return entries[i].RegistrationOrder < entries[j].RegistrationOrder
	})

	for idx := range entries {
		entries[idx].Rank = idx + 1
	}
	response.Entries = entries

	return response, nil
}

func (s *RankingService) buildEntry(p participant.Participant, teamByPK map[int64]team.Team, slots int) RankingEntry {
	picks := append([]participant.Pick(nil), p.Picks...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Priority < picks[j].Priority })

	entry := RankingEntry{
		Participant:       p.Name,
		RegistrationOrder: p.RegistrationOrder,
		SlotPoints:        make([]int, slots),
		TeamNames:         make([]string, slots),
		TeamCodes:         make([]string, slots),
		TeamIDs:           make([]int64, slots),
		TeamPositions:     make([]int, slots),
	}

	for i := 0; i < slots; i++ {
		if i >= len(picks) {
			// Fewer picks than slots (e.g. mid-migration data): leave
			// zero-value placeholders instead of failing.
			continue
		}

		t, ok := teamByPK[picks[i].TeamID]
		if !ok {
			// Dangling team reference degrades to zero points.
			entry.TeamNames[i] = fmt.Sprintf("ID:%d", picks[i].TeamID)
			continue
		}

		entry.SlotPoints[i] = t.Points
		entry.TeamNames[i] = t.Name
		entry.TeamCodes[i] = t.NameCode
		entry.TeamIDs[i] = t.SofascoreID
		entry.TeamPositions[i] = t.Position
		entry.Total += t.Points
	}

	return entry
}
