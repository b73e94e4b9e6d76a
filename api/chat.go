package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

// ChatRequest accepts either query or prompt.
type ChatRequest struct {
	Query    string `json:"query"`
	Prompt   string `json:"prompt"`
	Molecule string `json:"molecule"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", detailValidation)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = strings.TrimSpace(req.Prompt)
	}
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required", detailValidation)
		return
	}

	log.Ctx(r.Context()).Info().Str("query", query).Str("molecule", req.Molecule).Msg("research requested")

	out, err := s.deps.Researcher.Research(r.Context(), contractx.ResearchRequest{
		Query:    query,
		Molecule: strings.TrimSpace(req.Molecule),
	})
	if err != nil {
		status, body := researchError(err)
		log.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("research request failed")
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
