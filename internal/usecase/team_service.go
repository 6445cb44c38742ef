package usecase

import (
	"context"
	"fmt"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
)

// TeamService serves the synced league table.
type TeamService struct {
	teamRepo team.Repository
	logger   *logging.Logger
}

func NewTeamService(teamRepo team.Repository, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{teamRepo: teamRepo, logger: logger}
}

// List returns every synced club ordered by slug, for pick forms.
func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	teams, err := s.teamRepo.ListBySlug(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

// Standings returns the league table ordered by position.
func (s *TeamService) Standings(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Standings")
	defer span.End()

	teams, err := s.teamRepo.ListByPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	return teams, nil
}
