package editor

import (
	"math"
	"slices"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// SetMode switches between view and edit mode. Entering edit mode enables
// grid and rotation snapping and engages the scroll lock; entering view mode
// disables both snaps, releases the lock and returns to the select tool.
// Switching to the current mode is a no-op.
func (s *Store) SetMode(m scene.Mode) bool {
	if !m.Valid() {
		s.logger.Warn("unknown mode", "mode", m)
		return false
	}
	s.mu.Lock()
	if s.mode == m {
		s.mu.Unlock()
		return false
	}
	edit := m == scene.ModeEdit
	s.mode = m
	s.settings.Grid.Enabled = edit
	s.settings.RotationSnap.Enabled = edit
	if !edit {
		s.tool = scene.ToolSelect
	}
	scroll := s.scroll
	s.mu.Unlock()

	s.logger.Debug("mode changed", "mode", m)
	scroll.SetScrollLock(edit)
	return true
}

// SetTool changes the active tool.
func (s *Store) SetTool(t scene.Tool) bool {
	if !t.Valid() {
		s.logger.Warn("unknown tool", "tool", t)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tool == t {
		return false
	}
	s.tool = t
	return true
}

// CycleTool steps through select, translate, rotate and scale and returns
// the new tool. Any other tool cycles back to select.
func (s *Store) CycleTool() scene.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := (slices.Index(scene.CycleTools, s.tool) + 1) % len(scene.CycleTools)
	s.tool = scene.CycleTools[next]
	return s.tool
}

// SetGridSettings replaces the global grid settings. A non-positive size or
// division count is rejected. Locked items keep their frozen copy.
func (s *Store) SetGridSettings(g scene.GridSettings) bool {
	if !(g.Size > 0) || math.IsInf(g.Size, 0) || g.Divisions <= 0 {
		s.logger.Warn("invalid grid settings", "size", g.Size, "divisions", g.Divisions)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.Grid == g {
		return false
	}
	s.settings.Grid = g
	return true
}

// SetRotationSnapSettings replaces the global rotation snap settings. The
// angle must be positive.
func (s *Store) SetRotationSnapSettings(r scene.RotationSnapSettings) bool {
	if !(r.Angle > 0) || math.IsInf(r.Angle, 0) {
		s.logger.Warn("invalid rotation snap angle", "angle", r.Angle)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.RotationSnap == r {
		return false
	}
	s.settings.RotationSnap = r
	return true
}

// SetSnapStrength replaces the snap strength. Factors are clamped to [0, 1].
func (s *Store) SetSnapStrength(st scene.SnapStrengthSettings) bool {
	st.Translation = geom.Clamp01(st.Translation)
	st.Rotation = geom.Clamp01(st.Rotation)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.SnapStrength == st {
		return false
	}
	s.settings.SnapStrength = st
	return true
}

// ToggleGridSnap flips grid snapping and returns the new state.
func (s *Store) ToggleGridSnap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Grid.Enabled = !s.settings.Grid.Enabled
	return s.settings.Grid.Enabled
}

// ToggleRotationSnap flips rotation snapping and returns the new state.
func (s *Store) ToggleRotationSnap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.RotationSnap.Enabled = !s.settings.RotationSnap.Enabled
	return s.settings.RotationSnap.Enabled
}

// ToggleSnapStrength flips snap blending and returns the new state.
func (s *Store) ToggleSnapStrength() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.SnapStrength.Enabled = !s.settings.SnapStrength.Enabled
	return s.settings.SnapStrength.Enabled
}

// SetRoomDimensions replaces the room and moves every item that no longer
// fits, locked ones included. Nothing is re-snapped, so locked items keep
// their frozen snap settings. It returns the number of items moved. Dimensions that leave
// no placeable area are rejected with -1.
func (s *Store) SetRoomDimensions(d room.Dimensions) int {
	b := room.FromDimensions(d)
	if !b.Valid() {
		s.logger.Warn("invalid room dimensions", "width", d.Width, "depth", d.Depth, "margin", d.Margin)
		return -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room.SetBoundary(b)

	moved := 0
	for i, it := range s.items {
		fixed := s.solver.Constrain(it, &b)
		if !fixed.Equal(it) {
			s.commitLocked(i, fixed)
			moved++
		}
	}
	if moved > 0 {
		s.logger.Info("room resized, items moved", "moved", moved)
		s.scheduleCaptureLocked("room_resized")
	}
	return moved
}

// Reset returns the store to its initial state: no items, empty history,
// view mode, select tool and the configured default settings. The room is
// kept.
func (s *Store) Reset() {
	s.mu.Lock()
	wasEdit := s.mode == scene.ModeEdit
	s.resetLocked()
	scroll := s.scroll
	s.mu.Unlock()

	if wasEdit {
		scroll.SetScrollLock(false)
	}
}
