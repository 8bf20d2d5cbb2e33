// Package httpapi holds the pieces every module's HTTP handlers share: JSON
// helpers, the domain error to status mapping, middleware and the root
// router.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
	scoringservice "github.com/matchday-pool/predictor/app/modules/scoring/application"
	"github.com/matchday-pool/predictor/app/observability/attr"
)

const maxBodyBytes = 1 << 20

// Codes for failures raised by the HTTP layer itself.
const (
	codeBadRequest  domainerr.Code = "bad_request"
	codeUnavailable domainerr.Code = "unavailable"
	codeInternal    domainerr.Code = "internal"
)

type errorEnvelope struct {
	Error *domainerr.Error `json:"error"`
}

// ReadJSON decodes a single JSON value from the body into dst, rejecting
// unknown fields and trailing data.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			if typeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", typeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// WriteJSON writes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteBytes writes a binary payload, used for charts and exports.
func WriteBytes(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// WriteError maps err to a status and writes the error envelope. Errors
// without a domain code are logged and reported without their text.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)

	var body *domainerr.Error
	if de := new(domainerr.Error); errors.As(err, &de) {
		body = de
	} else {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		if status == http.StatusServiceUnavailable {
			body = domainerr.New(codeUnavailable, "storage is temporarily unavailable; retry the request")
		} else {
			body = domainerr.New(codeInternal, "the server could not process the request")
		}
	}
	WriteJSON(w, status, errorEnvelope{Error: body})
}

// BadRequest writes a 400 for malformed input.
func BadRequest(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: domainerr.New(codeBadRequest, "%s", err.Error())})
}

// StatusFor maps domain codes and retryable storage failures to HTTP statuses.
func StatusFor(err error) int {
	switch domainerr.CodeOf(err) {
	case domainerr.MatchNotFound, domainerr.StageNotFound, domainerr.TourNotFound,
		domainerr.TeamNotFound, domainerr.ParticipantMissing:
		return http.StatusNotFound
	case domainerr.StageLocked, domainerr.MatchCountMismatch, domainerr.InvalidTransition,
		domainerr.StageNotPublished, domainerr.DeadlinePassed, domainerr.MatchNotOpen,
		domainerr.Conflict, domainerr.NotFinished, domainerr.IncompleteScore:
		return http.StatusConflict
	case domainerr.SameTeams, domainerr.InvalidScore, domainerr.TourStageMismatch, domainerr.InvalidInput:
		return http.StatusUnprocessableEntity
	case codeBadRequest:
		return http.StatusBadRequest
	}
	if errors.Is(err, scoringservice.ErrLedgerReplaceFailed) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// URLUUID parses a uuid route parameter, writing a 400 when it is malformed.
func URLUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		BadRequest(w, fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
