package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type Handler struct {
	teamService        *usecase.TeamService
	rankingService     *usecase.RankingService
	historyService     *usecase.HistoryService
	participantService *usecase.ParticipantService
	syncService        *usecase.SyncService
	authService        *usecase.AuthService
	publicConfig       PublicConfig
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	rankingService *usecase.RankingService,
	historyService *usecase.HistoryService,
	participantService *usecase.ParticipantService,
	syncService *usecase.SyncService,
	authService *usecase.AuthService,
	publicConfig PublicConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:        teamService,
		rankingService:     rankingService,
		historyService:     historyService,
		participantService: participantService,
		syncService:        syncService,
		authService:        authService,
		publicConfig:       publicConfig,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type teamDTO struct {
	ID           int64  `json:"id"`
	SofascoreID  int64  `json:"sofascore_id"`
	Nome         string `json:"nome"`
	Slug         string `json:"slug"`
	Sigla        string `json:"sigla"`
	Posicao      int    `json:"posicao"`
	Pontos       int    `json:"pontos"`
	Jogos        int    `json:"jogos"`
	Vitorias     int    `json:"vitorias"`
	Empates      int    `json:"empates"`
	Derrotas     int    `json:"derrotas"`
	GolsPro      int    `json:"gols_pro"`
	GolsContra   int    `json:"gols_contra"`
	Escudo       string `json:"escudo"`
	AtualizadoEm string `json:"atualizado_em"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:           t.ID,
		SofascoreID:  t.SofascoreID,
		Nome:         t.Name,
		Slug:         t.Slug,
		Sigla:        t.NameCode,
		Posicao:      t.Position,
		Pontos:       t.Points,
		Jogos:        t.Matches,
		Vitorias:     t.Wins,
		Empates:      t.Draws,
		Derrotas:     t.Losses,
		GolsPro:      t.GoalsFor,
		GolsContra:   t.GoalsAgainst,
		Escudo:       badgeURL(t.SofascoreID),
		AtualizadoEm: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func badgeURL(sofascoreID int64) string {
	return fmt.Sprintf("/static/badges/%d.webp", sofascoreID)
}

// ListTeams serves every synced club alphabetically, for pick forms.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTOs(teams))
}

// ListStandings serves the league table ordered by position.
func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	teams, err := h.teamService.Standings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTOs(teams))
}

func teamsToDTOs(teams []team.Team) []teamDTO {
	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	return items
}

type rankingPickDTO struct {
	TeamID  int64  `json:"team_id"`
	Nome    string `json:"nome"`
	Sigla   string `json:"sigla"`
	Pontos  int    `json:"pontos"`
	Posicao int    `json:"posicao"`
	Escudo  string `json:"escudo,omitempty"`
}

type rankingEntryDTO struct {
	Posicao        int              `json:"posicao"`
	Apostador      string           `json:"apostador"`
	OrdemInscricao int              `json:"ordem_inscricao"`
	Total          int              `json:"total"`
	Times          []rankingPickDTO `json:"times"`
}

type rankingDTO struct {
	AtualizadoEm   string            `json:"atualizado_em"`
	ColunaExibicao string            `json:"coluna_exibicao"`
	Classificacao  []rankingEntryDTO `json:"classificacao"`
}

// GetRanking serves the pool leaderboard.
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRanking")
	defer span.End()

	ranking, err := h.rankingService.Build(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build ranking failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]rankingEntryDTO, 0, len(ranking.Entries))
	for _, entry := range ranking.Entries {
		picks := make([]rankingPickDTO, 0, len(entry.SlotPoints))
		for i := range entry.SlotPoints {
			pick := rankingPickDTO{
				TeamID:  entry.TeamIDs[i],
				Nome:    entry.TeamNames[i],
				Sigla:   entry.TeamCodes[i],
				Pontos:  entry.SlotPoints[i],
				Posicao: entry.TeamPositions[i],
			}
			if entry.TeamIDs[i] > 0 {
				pick.Escudo = badgeURL(entry.TeamIDs[i])
			}
			picks = append(picks, pick)
		}
		entries = append(entries, rankingEntryDTO{
			Posicao:        entry.Rank,
			Apostador:      entry.Participant,
			OrdemInscricao: entry.RegistrationOrder,
			Total:          entry.Total,
			Times:          picks,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, rankingDTO{
		AtualizadoEm:   ranking.UpdatedAt,
		ColunaExibicao: ranking.DisplayColumn,
		Classificacao:  entries,
	})
}

type historyRowDTO struct {
	DataSessao string `json:"data_sessao"`
	Rodada     int    `json:"rodada"`
	Apostador  string `json:"apostador"`
	Pontuacao  int    `json:"pontuacao"`
	Posicao    int    `json:"posicao"`
}

func historyRowToDTO(row snapshot.HistoryRow) historyRowDTO {
	return historyRowDTO{
		DataSessao: row.SessionDate.Format("2006-01-02"),
		Rodada:     row.Round,
		Apostador:  row.Participant,
		Pontuacao:  row.Score,
		Posicao:    row.Rank,
	}
}

// GetHistory serves recorded session snapshots, optionally filtered by
// the apostador query parameter.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHistory")
	defer span.End()

	filter := r.URL.Query().Get("apostador")
	rows, err := h.historyService.ListHistory(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]historyRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, historyRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
