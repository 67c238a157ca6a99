package server

import (
	"net/http"
	"time"

	"github.com/matzehuels/roomeditor/pkg/buildinfo"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/floorplan"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.State())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List(r.URL.Query().Get("category")))
}

// handlePlan returns the floor plan as SVG, or as DOT with ?format=dot.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dot := floorplan.ToDOT(s.editor.Items(), s.editor.Room().Boundaries(), floorplan.Options{
		Detailed: q.Get("detailed") == "true",
		Selected: s.editor.SelectedItemID(),
	})

	switch format := q.Get("format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "", "svg":
		svg, err := floorplan.RenderSVG(r.Context(), dot)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, invalid("format must be svg or dot, got %q", format))
	}
}

type historyResponse struct {
	Applied bool         `json:"applied"`
	State   editor.State `json:"state"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	applied := s.editor.Undo()
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, State: s.editor.State()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	applied := s.editor.Redo()
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, State: s.editor.State()})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode scene.Mode `json:"mode"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.Mode.Valid() {
		writeError(w, invalid("unknown mode %q", req.Mode))
		return
	}
	s.editor.SetMode(req.Mode)
	writeJSON(w, http.StatusOK, s.editor.State())
}

func (s *Server) handleSetTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tool scene.Tool `json:"tool"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.Tool.Valid() {
		writeError(w, invalid("unknown tool %q", req.Tool))
		return
	}
	s.editor.SetTool(req.Tool)
	writeJSON(w, http.StatusOK, s.editor.State())
}

type roomResponse struct {
	Moved int          `json:"moved"`
	State editor.State `json:"state"`
}

// handleSetRoom resizes the room and reports how many items were pushed
// back inside.
func (s *Server) handleSetRoom(w http.ResponseWriter, r *http.Request) {
	var d room.Dimensions
	if err := decode(r, &d); err != nil {
		writeError(w, err)
		return
	}
	moved := s.editor.SetRoomDimensions(d)
	if moved < 0 {
		writeError(w, invalid("invalid room dimensions %+v", d))
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{Moved: moved, State: s.editor.State()})
}

func (s *Server) handleSetGrid(w http.ResponseWriter, r *http.Request) {
	var g scene.GridSettings
	if err := decode(r, &g); err != nil {
		writeError(w, err)
		return
	}
	if !s.editor.SetGridSettings(g) && s.editor.GridSettings() != g {
		writeError(w, invalid("invalid grid settings"))
		return
	}
	writeJSON(w, http.StatusOK, s.editor.State())
}

func (s *Server) handleSetRotationSnap(w http.ResponseWriter, r *http.Request) {
	var rs scene.RotationSnapSettings
	if err := decode(r, &rs); err != nil {
		writeError(w, err)
		return
	}
	if !s.editor.SetRotationSnapSettings(rs) && s.editor.RotationSnapSettings() != rs {
		writeError(w, invalid("invalid rotation snap settings"))
		return
	}
	writeJSON(w, http.StatusOK, s.editor.State())
}

// handleSetSnapStrength clamps the factors to [0, 1]; it never fails on
// range.
func (s *Server) handleSetSnapStrength(w http.ResponseWriter, r *http.Request) {
	var st scene.SnapStrengthSettings
	if err := decode(r, &st); err != nil {
		writeError(w, err)
		return
	}
	s.editor.SetSnapStrength(st)
	writeJSON(w, http.StatusOK, s.editor.State())
}

// autoLockRequest takes the delay as a Go duration string such as "1.5s".
// An empty delay keeps the current one.
type autoLockRequest struct {
	Enabled bool   `json:"enabled"`
	Delay   string `json:"delay,omitempty"`
}

func (s *Server) handleSetAutoLock(w http.ResponseWriter, r *http.Request) {
	var req autoLockRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a := s.editor.AutoLockSettings()
	a.Enabled = req.Enabled
	if req.Delay != "" {
		d, err := time.ParseDuration(req.Delay)
		if err != nil || d < 0 {
			writeError(w, invalid("invalid auto-lock delay %q", req.Delay))
			return
		}
		a.Delay = d
	}
	s.editor.SetAutoLock(a)
	writeJSON(w, http.StatusOK, s.editor.State())
}
