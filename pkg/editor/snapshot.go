package editor

import (
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Snapshot is the serializable part of a session: the items and the snap
// settings. It is what layouts persist.
type Snapshot struct {
	Items        []scene.PlacedItem         `json:"items" bson:"items"`
	Grid         scene.GridSettings         `json:"grid" bson:"grid"`
	RotationSnap scene.RotationSnapSettings `json:"rotation_snap" bson:"rotation_snap"`
	SnapStrength scene.SnapStrengthSettings `json:"snap_strength" bson:"snap_strength"`
}

// Snapshot returns a deep copy of the current items and settings.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:        cloneItems(s.items),
		Grid:         s.settings.Grid,
		RotationSnap: s.settings.RotationSnap,
		SnapStrength: s.settings.SnapStrength,
	}
}

// Restore replaces the items and settings with snap. Items are constrained
// into the current room; duplicate or empty ids are skipped with a warning.
// The selection is cleared and the restore is recorded as one undo step.
// It returns the number of items restored.
func (s *Store) Restore(snap Snapshot) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.room.Boundaries()
	seen := make(map[string]bool, len(snap.Items))
	items := make([]scene.PlacedItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		if it.ID == "" || seen[it.ID] {
			s.logger.Warn("skipping item on restore", "id", it.ID, "name", it.Name)
			continue
		}
		if !finiteTransform(it) {
			s.logger.Warn("skipping item with non-finite transform", "id", it.ID)
			continue
		}
		seen[it.ID] = true
		items = append(items, s.solver.Constrain(it, b))
	}

	s.items = nil
	for _, it := range items {
		s.commitLocked(-1, it)
	}
	if snap.Grid.Size > 0 && snap.Grid.Divisions > 0 {
		s.settings.Grid = snap.Grid
	}
	if snap.RotationSnap.Angle > 0 {
		s.settings.RotationSnap = snap.RotationSnap
	}
	s.settings.SnapStrength = snap.SnapStrength
	s.settings.SnapStrength.Translation = geom.Clamp01(snap.SnapStrength.Translation)
	s.settings.SnapStrength.Rotation = geom.Clamp01(snap.SnapStrength.Rotation)
	s.selected = ""
	s.disarmAutoLockLocked()
	s.scheduleCaptureLocked("layout_restored")
	return len(items)
}
