package api

import (
	"encoding/json"
	"errors"
	"net/http"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

const (
	detailValidation    = "validation_error"
	detailOrchestration = "orchestration_error"
	detailInternal      = "internal_error"
	detailRateLimited   = "rate_limited"
)

// ErrorResponse is the envelope used by the chat endpoints.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, ErrorResponse{Status: "error", Error: msg, Detail: detail})
}

// writeDetail answers with {"detail": msg}, the shape of the auth, project and agent endpoints.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detailResponse{Detail: msg})
}

// researchError maps a research failure onto a status and a client-safe envelope.
func researchError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, contractx.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Status: "error", Error: "query is required", Detail: detailValidation}
	case errors.Is(err, contractx.ErrOrchestration), errors.Is(err, contractx.ErrUnknownDomain):
		return http.StatusInternalServerError, ErrorResponse{Status: "error", Error: "research orchestration failed", Detail: detailOrchestration}
	default:
		return http.StatusInternalServerError, ErrorResponse{Status: "error", Error: "internal server error", Detail: detailInternal}
	}
}
