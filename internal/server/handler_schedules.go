package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/me/rosterd/internal/solver"
	"github.com/me/rosterd/pkg/model"
)

// handleSolve accepts a scheduling problem and starts solving it
// asynchronously. The response body is the bare job id as plain text.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	problem, ok := s.decodeSchedule(w, r)
	if !ok {
		return
	}

	alg := solver.ParseAlgorithm(r.URL.Query().Get("algorithm"))
	jobID, err := s.manager.Submit(problem, alg)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondText(w, http.StatusOK, jobID)
}

// handleAnalyze scores a schedule rule by rule without registering a job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	schedule, ok := s.decodeSchedule(w, r)
	if !ok {
		return
	}

	policy := solver.ParseFetchPolicy(r.URL.Query().Get("fetchPolicy"))
	analysis, err := s.manager.Analyze(schedule, policy)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

// handleGetSchedule returns the job's best-known schedule with the live
// solver status attached.
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	schedule, err := s.manager.Schedule(jobID)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// handleTerminateSolving asks the engine to stop early and returns the
// snapshot as a GET would.
func (s *Server) handleTerminateSolving(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	schedule, err := s.manager.Terminate(jobID)
	if err != nil {
		respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// decodeSchedule parses and validates the request body. A false return means
// the error response has already been written.
func (s *Server) decodeSchedule(w http.ResponseWriter, r *http.Request) (*model.Schedule, bool) {
	var schedule model.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		respondError(w, http.StatusBadRequest,
			model.NewValidationError(fmt.Sprintf("invalid request body: %v", err)))
		return nil, false
	}

	var details []model.FieldError
	for i, e := range schedule.Employees {
		field := fmt.Sprintf("employees[%d]", i)
		if e == nil {
			details = append(details, model.FieldError{Field: field, Message: "must not be null"})
			continue
		}
		details = append(details, s.validateStruct(field, e)...)
	}
	for i, sh := range schedule.Shifts {
		field := fmt.Sprintf("shifts[%d]", i)
		if sh == nil {
			details = append(details, model.FieldError{Field: field, Message: "must not be null"})
			continue
		}
		details = append(details, s.validateStruct(field, sh)...)
	}
	if len(details) > 0 {
		respondError(w, http.StatusBadRequest,
			model.NewValidationError("invalid schedule", details...))
		return nil, false
	}
	return &schedule, true
}

// validateStruct runs the validator over one element and prefixes its field
// errors with the element's position in the payload.
func (s *Server) validateStruct(field string, v any) []model.FieldError {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []model.FieldError{{Field: field, Message: err.Error()}}
	}
	details := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, model.FieldError{
			Field:   fmt.Sprintf("%s.%s", field, fe.Field()),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		})
	}
	return details
}
