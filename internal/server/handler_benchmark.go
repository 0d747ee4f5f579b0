package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/me/rosterd/internal/benchmark"
	"github.com/me/rosterd/internal/demodata"
	"github.com/me/rosterd/pkg/model"
)

// handleBenchmark runs the configured algorithms against a generated data set
// and returns the ranked outcome. The run is synchronous and bounded by the
// solver's time limit, so large sizes can take a while.
func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	if s.bench == nil {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("endpoint", "benchmark"))
		return
	}

	var req benchmark.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest,
			model.NewValidationError(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	if req.Size == "" {
		req.Size = demodata.SizeSmall
	}
	if _, err := demodata.ParseSize(string(req.Size)); err != nil {
		respondError(w, http.StatusBadRequest, model.NewValidationError(err.Error()))
		return
	}

	report, err := s.bench.Run(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, report)
}
