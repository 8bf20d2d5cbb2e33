package leaderboardhandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matchday-pool/predictor/app/httpapi"
	leaderboardservice "github.com/matchday-pool/predictor/app/modules/leaderboard/application"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LeaderboardHandlers exposes the ledger read side over HTTP.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{service: service, logger: logger}
}

func (h *LeaderboardHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/api/leaderboard", h.GetCurrentLeaderboard)
	r.Get("/api/stages/{stageID}/leaderboard", h.GetLeaderboard)
	r.Get("/api/stages/{stageID}/leaderboard.xlsx", h.ExportLeaderboard)
	r.Get("/api/stages/{stageID}/quality", h.GetStageQuality)
	r.Get("/api/stages/{stageID}/users/{userID}/total", h.GetUserTotal)
	r.Get("/api/stages/{stageID}/users/{userID}/series", h.GetPointSeries)
	r.Get("/api/stages/{stageID}/users/{userID}/series.png", h.RenderPointSeries)
}

func (h *LeaderboardHandlers) GetCurrentLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.GetCurrentLeaderboard(r.Context())
	h.respond(w, r, board, err)
}

func (h *LeaderboardHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	board, err := h.service.GetLeaderboard(r.Context(), stageID)
	h.respond(w, r, board, err)
}

func (h *LeaderboardHandlers) ExportLeaderboard(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	data, err := h.service.ExportLeaderboardXLSX(r.Context(), stageID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteBytes(w, xlsxContentType, fmt.Sprintf("leaderboard-%s.xlsx", stageID), data)
}

func (h *LeaderboardHandlers) GetStageQuality(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	rates, err := h.service.GetStageQuality(r.Context(), stageID)
	h.respond(w, r, rates, err)
}

func (h *LeaderboardHandlers) GetUserTotal(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	userID, ok := httpapi.URLUUID(w, r, "userID")
	if !ok {
		return
	}
	total, err := h.service.GetUserTotal(r.Context(), stageID, userID)
	h.respond(w, r, total, err)
}

func (h *LeaderboardHandlers) GetPointSeries(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	userID, ok := httpapi.URLUUID(w, r, "userID")
	if !ok {
		return
	}
	series, err := h.service.GetPointSeries(r.Context(), stageID, userID)
	h.respond(w, r, series, err)
}

func (h *LeaderboardHandlers) RenderPointSeries(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	userID, ok := httpapi.URLUUID(w, r, "userID")
	if !ok {
		return
	}
	png, err := h.service.RenderPointSeriesChart(r.Context(), stageID, userID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteBytes(w, "image/png", "", png)
}

func (h *LeaderboardHandlers) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, body)
}
