package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type pickRequestDTO struct {
	TeamID     int64 `json:"team_id" validate:"required,gt=0"`
	Prioridade int   `json:"prioridade" validate:"required,gte=1"`
}

type participantRequestDTO struct {
	Nome           string           `json:"nome" validate:"required"`
	OrdemInscricao int              `json:"ordem_inscricao" validate:"gte=0"`
	Times          []pickRequestDTO `json:"times" validate:"required,dive"`
}

type pickDTO struct {
	TeamID     int64 `json:"team_id"`
	Prioridade int   `json:"prioridade"`
}

type participantDTO struct {
	ID             int64     `json:"id"`
	Nome           string    `json:"nome"`
	OrdemInscricao int       `json:"ordem_inscricao"`
	CriadoEm       string    `json:"criado_em"`
	Times          []pickDTO `json:"times"`
}

func participantToDTO(p participant.Participant) participantDTO {
	picks := make([]pickDTO, 0, len(p.Picks))
	for _, pick := range p.Picks {
		picks = append(picks, pickDTO{TeamID: pick.TeamID, Prioridade: pick.Priority})
	}
	return participantDTO{
		ID:             p.ID,
		Nome:           p.Name,
		OrdemInscricao: p.RegistrationOrder,
		CriadoEm:       p.CreatedAt.UTC().Format(time.RFC3339),
		Times:          picks,
	}
}

func (dto participantRequestDTO) toInput() usecase.ParticipantInput {
	picks := make([]usecase.PickInput, 0, len(dto.Times))
	for _, pick := range dto.Times {
		picks = append(picks, usecase.PickInput{TeamID: pick.TeamID, Priority: pick.Prioridade})
	}
	return usecase.ParticipantInput{
		Name:              dto.Nome,
		RegistrationOrder: dto.OrdemInscricao,
		Picks:             picks,
	}
}

func (h *Handler) decodeParticipantRequest(r *http.Request) (participantRequestDTO, error) {
	var dto participantRequestDTO
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&dto); err != nil {
		return dto, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(dto); err != nil {
		return dto, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return dto, nil
}

func participantIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("participantID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid participant id", usecase.ErrInvalidInput)
	}
	return id, nil
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	participants, err := h.participantService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participants failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participantDTO, 0, len(participants))
	for _, p := range participants {
		items = append(items, participantToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipant")
	defer span.End()

	id, err := participantIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.participantService.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(p))
}

func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateParticipant")
	defer span.End()

	dto, err := h.decodeParticipantRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.participantService.Create(ctx, dto.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "create participant failed", "name", dto.Nome, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, participantToDTO(created))
}

func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateParticipant")
	defer span.End()

	id, err := participantIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	dto, err := h.decodeParticipantRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.participantService.Update(ctx, id, dto.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "update participant failed", "id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(updated))
}

func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteParticipant")
	defer span.End()

	id, err := participantIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.participantService.Delete(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removido"})
}

type importResultDTO struct {
	Criados  int      `json:"criados"`
	Pulados  int      `json:"pulados"`
	Erros    []string `json:"erros"`
	Mensagem string   `json:"mensagem"`
}

// ImportParticipants creates participants in bulk from a JSON array.
func (h *Handler) ImportParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportParticipants")
	defer span.End()

	var dtos []participantRequestDTO
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err))
		return
	}

	inputs := make([]usecase.ParticipantInput, 0, len(dtos))
	for _, dto := range dtos {
		inputs = append(inputs, dto.toInput())
	}

	result, err := h.participantService.Import(ctx, inputs)
	if err != nil {
		h.logger.ErrorContext(ctx, "import participants failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	erros := result.Errors
	if erros == nil {
		erros = []string{}
	}
	writeSuccess(ctx, w, http.StatusOK, importResultDTO{
		Criados:  result.Created,
		Pulados:  result.Skipped,
		Erros:    erros,
		Mensagem: fmt.Sprintf("%d criados, %d pulados", result.Created, result.Skipped),
	})
}
