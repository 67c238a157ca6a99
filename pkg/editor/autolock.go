package editor

import (
	"time"

	"github.com/matzehuels/roomeditor/pkg/scene"
)

// AfterFunc calls fn once d has elapsed and returns a function that cancels
// the call. fn runs without the store lock held.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

func timeAfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// AutoLockSettings returns the current auto-lock settings.
func (s *Store) AutoLockSettings() scene.AutoLockSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.AutoLock
}

// SetAutoLock replaces the auto-lock settings. A negative delay is rejected.
// Disabling cancels a pending lock; enabling arms one for the selection.
func (s *Store) SetAutoLock(a scene.AutoLockSettings) bool {
	if a.Delay < 0 {
		s.logger.Warn("invalid auto-lock delay", "delay", a.Delay)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.AutoLock == a {
		return false
	}
	s.settings.AutoLock = a
	s.armAutoLockLocked(s.selected)
	return true
}

// ToggleAutoLock flips auto-lock and returns the new state.
func (s *Store) ToggleAutoLock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.AutoLock.Enabled = !s.settings.AutoLock.Enabled
	s.armAutoLockLocked(s.selected)
	return s.settings.AutoLock.Enabled
}

// armAutoLockLocked replaces any pending auto-lock with one for id. Nothing
// is armed when auto-lock is off or id is empty, unknown or already locked.
func (s *Store) armAutoLockLocked(id string) {
	s.disarmAutoLockLocked()
	if !s.settings.AutoLock.Enabled || id == "" {
		return
	}
	i := s.indexLocked(id)
	if i < 0 || s.items[i].IsLocked {
		return
	}
	gen := s.autoLockGen
	s.autoLockStop = s.after(s.settings.AutoLock.Delay, func() { s.fireAutoLock(id, gen) })
}

func (s *Store) disarmAutoLockLocked() {
	s.autoLockGen++
	if s.autoLockStop != nil {
		s.autoLockStop()
		s.autoLockStop = nil
	}
}

// fireAutoLock locks id if it is still the selection and nothing re-armed
// or cancelled the timer since it was set. A timer fires at most once.
func (s *Store) fireAutoLock(id string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.autoLockGen || !s.settings.AutoLock.Enabled || s.selected != id {
		return
	}
	s.autoLockGen++
	s.autoLockStop = nil
	i := s.indexLocked(id)
	if i < 0 || s.items[i].IsLocked {
		return
	}
	locked := true
	if s.updateLocked(id, Patch{IsLocked: &locked}) {
		s.logger.Debug("item auto-locked", "id", id)
	}
}
