package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

type saveLayoutRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type loadLayoutResponse struct {
	Metadata layout.Metadata `json:"metadata"`
	Restored int             `json:"restored"`
	Skipped  int             `json:"skipped"`
}

// requireLayouts answers 501 when no layout storage is configured.
func (s *Server) requireLayouts(w http.ResponseWriter) bool {
	if s.layouts == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "layout storage is not configured"))
		return false
	}
	return true
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	metas, err := s.layouts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

// handleSaveLayout saves the current session under a new id.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	var req saveLayoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.editor.Flush()
	meta, err := s.layouts.Save(r.Context(), req.Name, s.editor.Snapshot(),
		layout.WithDescription(req.Description),
		layout.WithTags(req.Tags...),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meta)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	l, err := s.layouts.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	if err := s.layouts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadLayout replaces the session with a saved layout. The load is
// one undo step.
func (s *Server) handleLoadLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	l, err := s.layouts.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	restored := s.editor.Restore(l.Data)
	s.editor.Flush()
	writeJSON(w, http.StatusOK, loadLayoutResponse{
		Metadata: l.Metadata,
		Restored: restored,
		Skipped:  len(l.Data.Items) - restored,
	})
}
