package api

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": ServiceName})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Pharmaceutical Innovation Discovery - Agentic AI System",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]any{
			"auth": map[string]string{
				"register":        "POST /api/v1/auth/register",
				"login":           "POST /api/v1/auth/login",
				"me":              "GET /api/v1/auth/me",
				"refresh":         "POST /api/v1/auth/refresh",
				"logout":          "POST /api/v1/auth/logout",
				"forgot_password": "POST /api/v1/auth/forgot-password",
				"reset_password":  "POST /api/v1/auth/reset-password",
			},
			"chat": map[string]string{
				"chat":     "POST /api/v1/chat",
				"generate": "POST /api/v1/chat/generate",
			},
			"projects": "GET|POST /api/v1/projects, GET|PUT|DELETE /api/v1/projects/{id}",
			"agents":   "POST /api/v1/agents/execute",
			"health":   "GET /api/v1/health",
			"metrics":  "GET /metrics",
		},
		"example_request": map[string]string{
			"query":    "Find innovation opportunities for Metformin in cardiovascular disease",
			"molecule": "Metformin",
		},
	})
}
