package sofascore

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type standingsEnvelope struct {
	Standings []struct {
		Rows []standingRow `json:"rows"`
	} `json:"standings"`
}

type standingRow struct {
	Team struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		NameCode string `json:"nameCode"`
	} `json:"team"`
	Position      int `json:"position"`
	Points        int `json:"points"`
	Matches       int `json:"matches"`
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`
	ScoresFor     int `json:"scoresFor"`
	ScoresAgainst int `json:"scoresAgainst"`
}

type seasonsEnvelope struct {
	Seasons []struct {
		ID int64 `json:"id"`
	} `json:"seasons"`
}

// FetchStandings retrieves the configured season's total standings and
// normalizes them into rows. A payload without a standings table is a hard
// failure rather than an empty result, so a half-rendered upstream page
// can never be mistaken for an empty league.
func (c *Client) FetchStandings(ctx context.Context) ([]team.StandingsRow, error) {
	rawURL := fmt.Sprintf("%s/unique-tournament/%d/season/%d/standings/total",
		c.baseURL, c.tournamentID, c.seasonID)

	c.logger.InfoContext(ctx, "fetching standings",
		"tournament_id", c.tournamentID,
		"season_id", c.seasonID,
	)

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, rawURL, &envelope); err != nil {
		return nil, err
	}

	if len(envelope.Standings) == 0 {
		return nil, fmt.Errorf("%w: payload has no standings table", usecase.ErrUpstreamUnavailable)
	}

	rows := envelope.Standings[0].Rows
	// A table without a rows key is a half-rendered payload, not an
	// empty league. Rows == nil distinguishes the missing key from an
	// explicitly empty array.
	if rows == nil {
		return nil, fmt.Errorf("%w: standings table has no rows array", usecase.ErrUpstreamUnavailable)
	}
	out := make([]team.StandingsRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.StandingsRow{
			SofascoreID:  row.Team.ID,
			Name:         row.Team.Name,
			Slug:         row.Team.Slug,
			NameCode:     row.Team.NameCode,
			Position:     row.Position,
			Points:       row.Points,
			Matches:      row.Matches,
			Wins:         row.Wins,
			Draws:        row.Draws,
			Losses:       row.Losses,
			GoalsFor:     row.ScoresFor,
			GoalsAgainst: row.ScoresAgainst,
		})
	}

	return out, nil
}

// FetchLatestSeasonID returns the most recent season id for the configured
// tournament. Seasons are listed newest first upstream.
func (c *Client) FetchLatestSeasonID(ctx context.Context) (int64, error) {
	rawURL := fmt.Sprintf("%s/unique-tournament/%d/seasons", c.baseURL, c.tournamentID)

	var envelope seasonsEnvelope
	if err := c.doJSON(ctx, rawURL, &envelope); err != nil {
		return 0, err
	}
	if len(envelope.Seasons) == 0 {
		return 0, fmt.Errorf("%w: payload has no seasons", usecase.ErrUpstreamUnavailable)
	}

	return envelope.Seasons[0].ID, nil
}

func decodeJSON(raw []byte, target any) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode upstream payload: %v", usecase.ErrUpstreamUnavailable, err)
	}
	return nil
}
