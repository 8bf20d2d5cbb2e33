package stagehandlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matchday-pool/predictor/app/httpapi"
	stageservice "github.com/matchday-pool/predictor/app/modules/stage/application"
)

// StageHandlers exposes the stage lifecycle over HTTP.
type StageHandlers struct {
	service stageservice.Service
	logger  *slog.Logger
}

func NewStageHandlers(service stageservice.Service, logger *slog.Logger) *StageHandlers {
	return &StageHandlers{service: service, logger: logger}
}

func (h *StageHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/api/admin/stages/{stageID}/publish", h.PublishStage)
	r.Post("/api/admin/stages/{stageID}/lock", h.LockStage)
	r.Post("/api/admin/stages/{stageID}/current", h.SetCurrentStage)
	r.Get("/api/stages/current", h.GetCurrentStage)
	r.Get("/api/stages/{stageID}", h.GetStage)
}

func (h *StageHandlers) PublishStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	res, err := h.service.PublishStage(r.Context(), stageID)
	h.respond(w, r, res, err)
}

func (h *StageHandlers) LockStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	res, err := h.service.LockStage(r.Context(), stageID)
	h.respond(w, r, res, err)
}

func (h *StageHandlers) SetCurrentStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	res, err := h.service.SetCurrentStage(r.Context(), stageID)
	h.respond(w, r, res, err)
}

func (h *StageHandlers) GetStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	res, err := h.service.GetStage(r.Context(), stageID)
	h.respond(w, r, res, err)
}

func (h *StageHandlers) GetCurrentStage(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetCurrentStage(r.Context())
	h.respond(w, r, res, err)
}

func (h *StageHandlers) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, body)
}
