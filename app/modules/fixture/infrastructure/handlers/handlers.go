package fixturehandlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matchday-pool/predictor/app/httpapi"
	fixtureservice "github.com/matchday-pool/predictor/app/modules/fixture/application"
)

// FixtureHandlers exposes fixture administration and prediction entry over HTTP.
type FixtureHandlers struct {
	service fixtureservice.Service
	logger  *slog.Logger
}

func NewFixtureHandlers(service fixtureservice.Service, logger *slog.Logger) *FixtureHandlers {
	return &FixtureHandlers{service: service, logger: logger}
}

func (h *FixtureHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/api/admin/teams", h.CreateTeam)
	r.Post("/api/admin/participants", h.CreateParticipant)
	r.Post("/api/admin/stages", h.CreateStage)
	r.Post("/api/admin/stages/{stageID}/tours", h.CreateTour)
	r.Post("/api/admin/matches", h.CreateMatch)
	r.Patch("/api/admin/matches/{matchID}", h.UpdateMatch)
	r.Delete("/api/admin/matches/{matchID}", h.DeleteMatch)
	r.Post("/api/admin/matches/{matchID}/result", h.RecordResult)
	r.Put("/api/matches/{matchID}/predictions/{userID}", h.SubmitPrediction)
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *FixtureHandlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := httpapi.ReadJSON(w, r, &req); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	team, err := h.service.CreateTeam(r.Context(), req.Name)
	h.respond(w, r, http.StatusCreated, team, err)
}

func (h *FixtureHandlers) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var in fixtureservice.CreateParticipantInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	p, err := h.service.CreateParticipant(r.Context(), in)
	h.respond(w, r, http.StatusCreated, p, err)
}

func (h *FixtureHandlers) CreateStage(w http.ResponseWriter, r *http.Request) {
	var in fixtureservice.CreateStageInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	stage, err := h.service.CreateStage(r.Context(), in)
	h.respond(w, r, http.StatusCreated, stage, err)
}

func (h *FixtureHandlers) CreateTour(w http.ResponseWriter, r *http.Request) {
	stageID, ok := httpapi.URLUUID(w, r, "stageID")
	if !ok {
		return
	}
	var in fixtureservice.CreateTourInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	tour, err := h.service.CreateTour(r.Context(), stageID, in)
	h.respond(w, r, http.StatusCreated, tour, err)
}

func (h *FixtureHandlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var in fixtureservice.CreateMatchInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	match, err := h.service.CreateMatch(r.Context(), in)
	h.respond(w, r, http.StatusCreated, match, err)
}

func (h *FixtureHandlers) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := httpapi.URLUUID(w, r, "matchID")
	if !ok {
		return
	}
	var in fixtureservice.UpdateMatchInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	match, err := h.service.UpdateMatch(r.Context(), matchID, in)
	h.respond(w, r, http.StatusOK, match, err)
}

func (h *FixtureHandlers) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := httpapi.URLUUID(w, r, "matchID")
	if !ok {
		return
	}
	if err := h.service.DeleteMatch(r.Context(), matchID); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordResult answers 200 even when the follow-up scoring failed; the
// body's scoring_error tells the admin to retry the score endpoint.
func (h *FixtureHandlers) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, ok := httpapi.URLUUID(w, r, "matchID")
	if !ok {
		return
	}
	var in fixtureservice.RecordResultInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	out, err := h.service.RecordResult(r.Context(), matchID, in)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *FixtureHandlers) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	matchID, ok := httpapi.URLUUID(w, r, "matchID")
	if !ok {
		return
	}
	userID, ok := httpapi.URLUUID(w, r, "userID")
	if !ok {
		return
	}
	var in fixtureservice.PredictionInput
	if err := httpapi.ReadJSON(w, r, &in); err != nil {
		httpapi.BadRequest(w, err)
		return
	}
	pred, err := h.service.SubmitPrediction(r.Context(), matchID, userID, in)
	h.respond(w, r, http.StatusOK, pred, err)
}

func (h *FixtureHandlers) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, status, body)
}
