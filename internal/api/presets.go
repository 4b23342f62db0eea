package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/httputil"
)

// handlePresetsOrCreate handles GET and POST to /api/presets
func (s *Server) handlePresetsOrCreate(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, errNoStore)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleListPresets(w, r)
	case http.MethodPost:
		s.handleCreatePreset(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handlePresetByID handles GET/PUT/DELETE /api/presets/:id
func (s *Server) handlePresetByID(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, errNoStore)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/presets/"), "/")
	if id == "" {
		s.handlePresetsOrCreate(w, r)
		return
	}
	if strings.Contains(id, "/") {
		httputil.NotFound(w, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetPreset(w, r, id)
	case http.MethodPut:
		s.handleUpdatePreset(w, r, id)
	case http.MethodDelete:
		s.handleDeletePreset(w, r, id)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.db.ListPresets(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.db.GetPreset(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, p)
}

// handleCreatePreset handles POST /api/presets. Fields missing from the
// body take the server defaults.
func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	p := db.NewPreset("", s.cfg)
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	created, err := s.db.CreatePreset(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/presets/"+created.ID)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// handleUpdatePreset handles PUT /api/presets/:id. The body is applied on
// top of the stored preset, so omitted fields are unchanged.
func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.db.GetPreset(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if p.ID != id {
		httputil.BadRequest(w, fmt.Sprintf("preset id %q does not match path id %q", p.ID, id))
		return
	}

	updated, err := s.db.UpdatePreset(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, updated)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.db.DeletePreset(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
