package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authx "github.com/tanpawarit/pharmapilot/pkg/auth"
	storex "github.com/tanpawarit/pharmapilot/store"
)

type projectRequest struct {
	Name         *string `json:"name"`
	MoleculeName *string `json:"molecule_name"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
}

func currentEmail(r *http.Request) string {
	claims, ok := authx.FromContext(r.Context())
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(claims.Email))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Projects.ListProjects(r.Context(), currentEmail(r))
	if err != nil {
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeDetail(w, http.StatusBadRequest, "Project name is required")
		return
	}

	p := &storex.Project{UserEmail: currentEmail(r), Name: strings.TrimSpace(*req.Name)}
	applyProjectFields(p, req)
	if err := s.deps.Projects.CreateProject(r.Context(), p); err != nil {
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	var req projectRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	applyProjectFields(p, req)

	if err := s.deps.Projects.UpdateProject(r.Context(), p); err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Project not found")
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	if err := s.deps.Projects.DeleteProject(r.Context(), p.ID); err != nil && !errors.Is(err, storex.ErrNotFound) {
		s.internalDetail(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, "Project deleted successfully")
}

// ownedProject loads the {id} project and writes 404 or 403 when it is missing or foreign.
func (s *Server) ownedProject(w http.ResponseWriter, r *http.Request) (*storex.Project, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return nil, false
	}
	p, err := s.deps.Projects.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Project not found")
			return nil, false
		}
		s.internalDetail(w, r, err)
		return nil, false
	}
	if p.UserEmail != currentEmail(r) {
		writeDetail(w, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return p, true
}

func applyProjectFields(p *storex.Project, req projectRequest) {
	if req.MoleculeName != nil {
		p.MoleculeName = strings.TrimSpace(*req.MoleculeName)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		p.Status = strings.TrimSpace(*req.Status)
	}
}
