package editor

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
	"github.com/matzehuels/roomeditor/pkg/snap"
)

// DuplicateOffset is added to a duplicate's position so it never sits
// exactly on the original.
var DuplicateOffset = geom.V3(1, 0, 1)

func finiteTransform(it scene.PlacedItem) bool {
	return it.Position.IsFinite() && it.Rotation.IsFinite() && it.Scale.IsFinite()
}

// AddItem places a new item. It is constrained into the room, appended and
// selected. An item added locked without snap settings gets the current
// ones frozen onto it. A missing, duplicate or invalid id, or a non-finite transform,
// leaves the store unchanged.
func (s *Store) AddItem(item scene.PlacedItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(item, "item_added_"+item.ID)
}

func (s *Store) addLocked(item scene.PlacedItem, desc string) bool {
	if item.ID == "" {
		s.logger.Warn("rejected item without id", "name", item.Name)
		return false
	}
	if s.indexLocked(item.ID) >= 0 {
		s.logger.Warn("duplicate item id", "id", item.ID)
		return false
	}
	if item.Scale == (geom.Vec3{}) {
		item.Scale = geom.One
	}
	if !finiteTransform(item) {
		s.logger.Warn("rejected item with non-finite transform", "id", item.ID)
		return false
	}
	if item.IsLocked && item.SnapSettings == nil {
		item.SnapSettings = scene.FreezeSnap(s.settings.Grid, s.settings.RotationSnap)
	}

	placed := s.solver.Constrain(item, s.room.Boundaries())
	s.commitLocked(-1, placed)
	s.selected = placed.ID
	s.armAutoLockLocked(placed.ID)
	s.logger.Debug("item added", "id", placed.ID, "name", placed.Name, "pos", placed.Position)
	s.hooks.OnItemAdded(placed.ID)
	s.scheduleCaptureLocked(desc)
	return true
}

// PlaceFromCatalog creates an item from a template at pos and adds it.
func (s *Store) PlaceFromCatalog(t catalog.Template, pos geom.Vec3) (scene.PlacedItem, bool) {
	item := catalog.Place(t, pos)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.addLocked(item, "item_added_"+item.ID) {
		return scene.PlacedItem{}, false
	}
	return s.items[len(s.items)-1].Clone(), true
}

// UpdateItem merges p into the item with the given id.
//
// Unknown ids and patches that change nothing are no-ops. When the patch
// touches position, rotation or scale, the merged item is snapped (locked
// items against their frozen settings) and then constrained into the room.
// Locking through a patch freezes the current snap settings just as
// LockItem does.
func (s *Store) UpdateItem(id string, p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, p)
}

func (s *Store) updateLocked(id string, p Patch) bool {
	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Warn("update of unknown item", "id", id)
		return false
	}
	cur := s.items[i]
	next := p.apply(cur)
	if next.Equal(cur) {
		return false
	}
	if !finiteTransform(next) {
		s.logger.Warn("rejected non-finite transform", "id", id)
		return false
	}
	if next.IsLocked && !cur.IsLocked {
		next.SnapSettings = scene.FreezeSnap(s.settings.Grid, s.settings.RotationSnap)
	}

	if p.TouchesTransform() {
		next = snap.Item(next, s.settings.Grid, s.settings.RotationSnap, s.settings.SnapStrength)
		next = s.solver.Constrain(next, s.room.Boundaries())
		if next.Equal(cur) {
			return false
		}
	}

	s.commitLocked(i, next)
	if p.TouchesTransform() && s.selected == id {
		s.armAutoLockLocked(id)
	}
	s.hooks.OnItemUpdated(id)
	s.scheduleCaptureLocked("item_updated_" + id)
	return true
}

// RemoveItem deletes an item, clearing the selection if it pointed at it.
func (s *Store) RemoveItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Warn("remove of unknown item", "id", id)
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
		s.disarmAutoLockLocked()
	}
	s.hooks.OnItemRemoved(id)
	s.scheduleCaptureLocked("item_removed_" + id)
	return true
}

// DuplicateItem copies an item under a fresh id, offset by DuplicateOffset
// and constrained into the room. The copy becomes the selection. It returns
// the new id.
func (s *Store) DuplicateItem(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Warn("duplicate of unknown item", "id", id)
		return "", false
	}
	dup := s.items[i].Clone()
	dup.ID = uuid.NewString()
	dup.Position = dup.Position.Add(DuplicateOffset)
	if !s.addLocked(dup, "item_duplicated_"+id+"_to_"+dup.ID) {
		return "", false
	}
	return dup.ID, true
}

// SelectItem selects an item and, with auto-lock on, arms its timer. An
// empty id clears the selection; an unknown id is ignored.
func (s *Store) SelectItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		changed := s.selected != ""
		s.selected = ""
		s.disarmAutoLockLocked()
		return changed
	}
	if s.indexLocked(id) < 0 {
		s.logger.Warn("select of unknown item", "id", id)
		return false
	}
	if s.selected == id {
		return false
	}
	s.selected = id
	s.armAutoLockLocked(id)
	return true
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() { s.SelectItem("") }

// LockItem marks an item as locked and freezes the current grid and
// rotation snap settings onto it.
func (s *Store) LockItem(id string) bool {
	locked := true
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 && s.items[i].IsLocked {
		return false
	}
	return s.updateLocked(id, Patch{IsLocked: &locked})
}

// UnlockItem clears an item's lock. Its frozen snap settings are kept but no
// longer consulted.
func (s *Store) UnlockItem(id string) bool {
	unlocked := false
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, Patch{IsLocked: &unlocked})
}

// RotateLeft turns an item 90° counter-clockwise about the vertical axis.
func (s *Store) RotateLeft(id string) bool { return s.rotateBy(id, math.Pi/2) }

// RotateRight turns an item 90° clockwise about the vertical axis.
func (s *Store) RotateRight(id string) bool { return s.rotateBy(id, -math.Pi/2) }

func (s *Store) rotateBy(id string, delta float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Warn("rotate of unknown item", "id", id)
		return false
	}
	r := s.items[i].Rotation.AddYaw(delta).NormalizedYaw()
	return s.updateLocked(id, Patch{Rotation: &r})
}

// ClearAllItems removes every item and empties the history. Settings, mode
// and tool are kept.
func (s *Store) ClearAllItems() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmAutoLockLocked()
	s.items = nil
	s.known = make(map[string]scene.PlacedItem)
	s.selected = ""
	s.pending = false
	s.history.Clear(nil)
}
