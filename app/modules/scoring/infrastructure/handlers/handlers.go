package scoringhandlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matchday-pool/predictor/app/httpapi"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
)

// ScoringHandlers exposes the admin scoring operations over HTTP.
type ScoringHandlers struct {
	service scoringservice.Service
	logger  *slog.Logger
}

func NewScoringHandlers(service scoringservice.Service, logger *slog.Logger) *ScoringHandlers {
	return &ScoringHandlers{service: service, logger: logger}
}

func (h *ScoringHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/api/admin/matches/{matchID}/score", h.ScoreMatch)
	r.Post("/api/admin/stages/{stageID}/rescore", h.RescoreStage)
}

// ScoreMatch answers 200 with the scoring result. A skipped match is still
// a 200; the body carries the skip reason.
func (h *ScoringHandlers) ScoreMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := httpapi.URLUUID(w, r, "matchID")
	if !ok {
		return
	}
	res, err := h.service.ScoreMatch(r.Context(), matchID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, res)
}

func (h *ScoringHandlers) RescoreStage(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	res, err := h.service.RescoreStage(r.Context(), stageID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, res)
}
