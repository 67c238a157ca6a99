package editor

import (
	"github.com/matzehuels/roomeditor/pkg/history"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// scheduleCaptureLocked requests a capture on the next frame. Requests made
// before that frame coalesce; the first description wins.
func (s *Store) scheduleCaptureLocked(desc string) {
	if s.pending {
		return
	}
	s.pending = true
	s.pendingDesc = desc
	s.scheduler.Schedule(s.runScheduledCapture)
}

func (s *Store) runScheduledCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captureLocked()
}

func (s *Store) captureLocked() {
	if !s.pending {
		return
	}
	s.pending = false
	if s.history.Capture(s.items, s.pendingDesc) {
		past, _ := s.history.Len()
		s.logger.Debug("history captured", "desc", s.pendingDesc, "past", past)
		s.hooks.OnHistoryCapture(s.pendingDesc, past)
	}
	s.pendingDesc = ""
}

// Flush performs a pending capture immediately.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captureLocked()
}

// Undo restores the previous history entry. Items the entry names are
// rebuilt from the session's records; ids with no record are dropped with a
// warning. It reports false when there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captureLocked()
	e, ok := s.history.Undo()
	if !ok {
		return false
	}
	restored, dropped := s.restoreEntryLocked(e)
	s.hooks.OnUndo(restored, dropped)
	return true
}

// Redo re-applies the entry undone last. It reports false when there is
// nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captureLocked()
	e, ok := s.history.Redo()
	if !ok {
		return false
	}
	restored, dropped := s.restoreEntryLocked(e)
	s.hooks.OnRedo(restored, dropped)
	return true
}

// CanUndo reports whether a captured step can be undone.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether an undone step can be redone.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// HistoryLen returns the number of undo and redo steps.
func (s *Store) HistoryLen() (past, future int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// ClearHistory forgets every undo and redo step. The current scene becomes
// the new baseline.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.history.Clear(s.items)
}

func (s *Store) restoreEntryLocked(e history.Entry) (restored, dropped int) {
	items := make([]scene.PlacedItem, 0, len(e.Items))
	for _, rec := range e.Items {
		base, ok := s.known[rec.ID]
		if !ok {
			s.logger.Warn("history entry references unknown item, dropping", "id", rec.ID)
			dropped++
			continue
		}
		it := rec.Apply(base)
		items = append(items, it)
		s.known[it.ID] = it.Clone()
	}
	s.items = items
	if s.indexLocked(s.selected) < 0 {
		s.selected = ""
		s.disarmAutoLockLocked()
	}
	return len(items), dropped
}
