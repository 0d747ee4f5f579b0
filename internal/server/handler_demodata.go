package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/rosterd/internal/demodata"
	"github.com/me/rosterd/pkg/model"
)

func (s *Server) handleListDemoData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, demodata.Sizes())
}

func (s *Server) handleGenerateDemoData(w http.ResponseWriter, r *http.Request) {
	size, err := demodata.ParseSize(chi.URLParam(r, "demoDataID"))
	if err != nil {
		respondError(w, http.StatusNotFound,
			model.NewNotFoundError("demo data set", chi.URLParam(r, "demoDataID")))
		return
	}
	respondJSON(w, http.StatusOK, demodata.Generate(size))
}
