package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// createItemRequest adds either a catalog template at a position or a fully
// specified item. The new item is selected unless Select is false.
type createItemRequest struct {
	Template string            `json:"template,omitempty"`
	Position geom.Vec3         `json:"position"`
	Item     *scene.PlacedItem `json:"item,omitempty"`
	Select   *bool             `json:"select,omitempty"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.Items())
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var (
		item scene.PlacedItem
		ok   bool
	)
	prev := s.editor.SelectedItemID()
	switch {
	case req.Template != "" && req.Item != nil:
		writeError(w, invalid("set either template or item, not both"))
		return
	case req.Template != "":
		t, err := s.catalog.Lookup(req.Template)
		if err != nil {
			writeError(w, err)
			return
		}
		if item, ok = s.editor.PlaceFromCatalog(t, req.Position); !ok {
			writeError(w, invalid("template %q could not be placed", req.Template))
			return
		}
	case req.Item != nil:
		if err := errors.ValidateID(req.Item.ID); err != nil {
			writeError(w, err)
			return
		}
		if _, exists := s.editor.Item(req.Item.ID); exists {
			writeError(w, errors.New(errors.ErrCodeDuplicateID, "item %q already exists", req.Item.ID))
			return
		}
		if !s.editor.AddItem(*req.Item) {
			writeError(w, invalid("item %q was rejected", req.Item.ID))
			return
		}
		item, _ = s.editor.Item(req.Item.ID)
	default:
		writeError(w, invalid("template or item is required"))
		return
	}

	if req.Select != nil && !*req.Select {
		s.editor.SelectItem(prev)
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleClearItems(w http.ResponseWriter, r *http.Request) {
	s.editor.ClearAllItems()
	w.WriteHeader(http.StatusNoContent)
}

// withItem resolves the {id} parameter, answering 404 for unknown ids.
func (s *Server) withItem(w http.ResponseWriter, r *http.Request) (scene.PlacedItem, bool) {
	id := chi.URLParam(r, "id")
	it, ok := s.editor.Item(id)
	if !ok {
		writeError(w, itemNotFound(id))
	}
	return it, ok
}

// respondItem writes the current state of the item with id.
func (s *Server) respondItem(w http.ResponseWriter, status int, id string) {
	it, ok := s.editor.Item(id)
	if !ok {
		writeError(w, itemNotFound(id))
		return
	}
	writeJSON(w, status, it)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	if it, ok := s.withItem(w, r); ok {
		writeJSON(w, http.StatusOK, it)
	}
}

// handlePatchItem applies a partial update. A patch that changes nothing
// still answers 200 with the unchanged item.
func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.withItem(w, r)
	if !ok {
		return
	}
	var p editor.Patch
	if err := decode(r, &p); err != nil {
		writeError(w, err)
		return
	}
	if p.Empty() {
		writeError(w, invalid("patch is empty"))
		return
	}
	s.editor.UpdateItem(it.ID, p)
	s.respondItem(w, http.StatusOK, it.ID)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.withItem(w, r)
	if !ok {
		return
	}
	s.editor.RemoveItem(it.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.withItem(w, r)
	if !ok {
		return
	}
	newID, ok := s.editor.DuplicateItem(it.ID)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "duplicate of %q failed", it.ID))
		return
	}
	s.respondItem(w, http.StatusCreated, newID)
}

func (s *Server) handleLockItem(w http.ResponseWriter, r *http.Request) {
	if it, ok := s.withItem(w, r); ok {
		s.editor.LockItem(it.ID)
		s.respondItem(w, http.StatusOK, it.ID)
	}
}

func (s *Server) handleUnlockItem(w http.ResponseWriter, r *http.Request) {
	if it, ok := s.withItem(w, r); ok {
		s.editor.UnlockItem(it.ID)
		s.respondItem(w, http.StatusOK, it.ID)
	}
}

func (s *Server) handleSelectItem(w http.ResponseWriter, r *http.Request) {
	if it, ok := s.withItem(w, r); ok {
		s.editor.SelectItem(it.ID)
		writeJSON(w, http.StatusOK, s.editor.State())
	}
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.editor.ClearSelection()
	writeJSON(w, http.StatusOK, s.editor.State())
}

// handleRotateItem turns an item by a quarter turn: ?dir=left (default) or
// ?dir=right.
func (s *Server) handleRotateItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.withItem(w, r)
	if !ok {
		return
	}
	switch dir := r.URL.Query().Get("dir"); dir {
	case "", "left":
		s.editor.RotateLeft(it.ID)
	case "right":
		s.editor.RotateRight(it.ID)
	default:
		writeError(w, invalid("dir must be left or right, got %q", dir))
		return
	}
	s.respondItem(w, http.StatusOK, it.ID)
}
