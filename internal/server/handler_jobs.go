package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/rosterd/pkg/model"
)

// handleListJobs returns the archived job history, newest first, without the
// schedule payloads.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("endpoint", "jobs"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	records, err := s.archive.ListJobs(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// handleGetJob returns one archived job including its schedule payloads.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("endpoint", "jobs"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	jobID := chi.URLParam(r, "jobID")
	record, err := s.archive.GetJob(ctx, jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: err.Error(),
		})
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("job", jobID))
		return
	}
	respondJSON(w, http.StatusOK, record)
}
