package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type loginRequestDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponseDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var dto loginRequestDTO
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	token, err := h.authService.Login(ctx, dto.Username, dto.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginResponseDTO{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// VerifyToken answers whether the presented bearer token is still
// valid. The RequireAuth middleware has already verified it by the time
// this handler runs.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyToken")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"valid":    true,
		"username": subjectFromContext(ctx),
	})
}

// PublicConfig is the safe subset of runtime configuration exposed to
// the admin UI. Secrets are reported only as configured-or-not flags.
type PublicConfig struct {
	SeasonYear          int
	TournamentID        int64
	SeasonID            int64
	TeamsPerParticipant int
	MinTeamsProtection  int
	DisplayColumn       string
	ScrapedoConfigured  bool
}

type configDTO struct {
	Temporada           int    `json:"temporada"`
	TournamentID        int64  `json:"tournament_id"`
	SeasonID            int64  `json:"season_id"`
	TimesPorApostador   int    `json:"times_por_apostador"`
	ProtecaoMinimaTimes int    `json:"protecao_minima_times"`
	ColunaExibicao      string `json:"coluna_exibicao"`
	ScrapedoConfigurado bool   `json:"scrapedo_configurado"`
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConfig")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, configDTO{
		Temporada:           h.publicConfig.SeasonYear,
		TournamentID:        h.publicConfig.TournamentID,
		SeasonID:            h.publicConfig.SeasonID,
		TimesPorApostador:   h.publicConfig.TeamsPerParticipant,
		ProtecaoMinimaTimes: h.publicConfig.MinTeamsProtection,
		ColunaExibicao:      h.publicConfig.DisplayColumn,
		ScrapedoConfigurado: h.publicConfig.ScrapedoConfigured,
	})
}

type syncResultDTO struct {
	Times       int    `json:"times"`
	Apostadores int    `json:"apostadores"`
	Sessao      string `json:"sessao"`
	Mensagem    string `json:"mensagem"`
}

// RunSync triggers a full standings sync cycle.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	result, err := h.syncService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		Times:       result.TeamsCount,
		Apostadores: result.ParticipantsCount,
		Sessao:      result.SessionKey,
		Mensagem:    result.Message,
	})
}
