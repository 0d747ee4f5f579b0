package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/me/rosterd/internal/manager"
	"github.com/me/rosterd/pkg/model"
)

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondJSON writes v as a bare JSON document. Schedule clients expect the
// resource itself, without a response envelope.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondText writes a plain-text body. Job submission answers with the raw
// job id, matching what polling clients paste back into the URL.
func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// respondError writes a structured APIError.
func respondError(w http.ResponseWriter, status int, apiErr *model.APIError) {
	respondJSON(w, status, apiErr)
}

// respondManagerError maps registry errors onto HTTP statuses.
func respondManagerError(w http.ResponseWriter, err error) {
	var notFound *manager.NotFoundError
	var failed *manager.SolverFailedError
	var invalid *manager.InvalidInputError
	switch {
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, model.NewNotFoundError("schedule", notFound.JobID))
	case errors.As(err, &failed):
		respondError(w, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrSolverFailed,
			Message: failed.Error(),
		})
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, model.NewValidationError(invalid.Reason))
	default:
		respondError(w, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: err.Error(),
		})
	}
}
