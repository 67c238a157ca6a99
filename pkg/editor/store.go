package editor

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomeditor/pkg/constraint"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/history"
	"github.com/matzehuels/roomeditor/pkg/observability"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// ScrollLocker is the host's page scroll lock, engaged while editing.
type ScrollLocker interface {
	SetScrollLock(enabled bool)
}

// ScrollLockFunc adapts a function to ScrollLocker.
type ScrollLockFunc func(enabled bool)

// SetScrollLock calls f(enabled).
func (f ScrollLockFunc) SetScrollLock(enabled bool) { f(enabled) }

type noScrollLock struct{}

func (noScrollLock) SetScrollLock(bool) {}

// Settings is the snap configuration a store starts with and returns to on
// Reset.
type Settings struct {
	Grid         scene.GridSettings
	RotationSnap scene.RotationSnapSettings
	SnapStrength scene.SnapStrengthSettings
	AutoLock     scene.AutoLockSettings
}

// DefaultSettings returns the stock grid, rotation snap and strength, with
// auto-lock off.
func DefaultSettings() Settings {
	return Settings{
		Grid:         scene.DefaultGrid(),
		RotationSnap: scene.DefaultRotationSnap(),
		SnapStrength: scene.DefaultSnapStrength(),
		AutoLock:     scene.DefaultAutoLock(),
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for warnings and debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRoom uses an existing room model. It may be shared with other readers.
func WithRoom(m *room.Model) Option {
	return func(s *Store) { s.room = m }
}

// WithDimensions configures a fresh room model from d.
func WithDimensions(d room.Dimensions) Option {
	return func(s *Store) { s.room = room.NewModelWithDimensions(d) }
}

// WithScheduler sets the capture scheduler. The default is a FrameScheduler.
func WithScheduler(sch Scheduler) Option {
	return func(s *Store) { s.scheduler = sch }
}

// WithScrollLocker sets the collaborator toggled by SetMode.
func WithScrollLocker(l ScrollLocker) Option {
	return func(s *Store) { s.scroll = l }
}

// WithAfterFunc sets the timer used by auto-lock. The default is
// time.AfterFunc.
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Store) { s.after = f }
}

// WithMaxHistory bounds the number of undo steps.
func WithMaxHistory(n int) Option {
	return func(s *Store) { s.maxHistory = n }
}

// WithSettings sets the initial snap configuration.
func WithSettings(cfg Settings) Option {
	return func(s *Store) { s.defaults = cfg }
}

// WithHooks overrides the globally registered editor hooks.
func WithHooks(h observability.EditorHooks) Option {
	return func(s *Store) { s.hooks = h }
}

// Store is one editing session.
type Store struct {
	mu sync.Mutex

	logger     *log.Logger
	solver     *constraint.Solver
	room       *room.Model
	scheduler  Scheduler
	scroll     ScrollLocker
	hooks      observability.EditorHooks
	after      AfterFunc
	maxHistory int
	defaults   Settings

	items    []scene.PlacedItem
	known    map[string]scene.PlacedItem
	selected string
	mode     scene.Mode
	tool     scene.Tool
	settings Settings

	history     *history.History
	pending     bool
	pendingDesc string

	autoLockStop func() bool
	autoLockGen  uint64
}

// New creates an empty store in view mode. Without WithRoom or
// WithDimensions the room is unconfigured and nothing is constrained.
func New(opts ...Option) *Store {
	s := &Store{
		defaults:   DefaultSettings(),
		maxHistory: history.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.room == nil {
		s.room = room.NewModel()
	}
	if s.scheduler == nil {
		s.scheduler = NewFrameScheduler(FrameInterval)
	}
	if s.scroll == nil {
		s.scroll = noScrollLock{}
	}
	if s.hooks == nil {
		s.hooks = observability.Editor()
	}
	if s.after == nil {
		s.after = timeAfterFunc
	}
	s.solver = constraint.New(s.logger)
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.disarmAutoLockLocked()
	s.items = nil
	s.known = make(map[string]scene.PlacedItem)
	s.selected = ""
	s.mode = scene.ModeView
	s.tool = scene.ToolSelect
	s.settings = s.defaults
	s.history = history.New(s.maxHistory, nil)
	s.pending = false
	s.pendingDesc = ""
}

// Close flushes any pending capture, cancels a pending auto-lock and stops
// the scheduler.
func (s *Store) Close() {
	s.Flush()
	s.mu.Lock()
	s.disarmAutoLockLocked()
	s.mu.Unlock()
	s.scheduler.Stop()
}

// Room returns the store's room model.
func (s *Store) Room() *room.Model { return s.room }

// Items returns a copy of the placed items in insertion order.
func (s *Store) Items() []scene.PlacedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len returns the number of placed items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Item returns a copy of the item with the given id.
func (s *Store) Item(id string) (scene.PlacedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return scene.PlacedItem{}, false
	}
	return s.items[i].Clone(), true
}

// SelectedItemID returns the selected id, or "" when nothing is selected.
func (s *Store) SelectedItemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectedItem returns the selected item, if any.
func (s *Store) SelectedItem() (scene.PlacedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(s.selected)
	if i < 0 {
		return scene.PlacedItem{}, false
	}
	return s.items[i].Clone(), true
}

// Mode returns the interaction mode.
func (s *Store) Mode() scene.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Tool returns the active tool.
func (s *Store) Tool() scene.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// GridSettings returns the global grid settings.
func (s *Store) GridSettings() scene.GridSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Grid
}

// RotationSnapSettings returns the global rotation snap settings.
func (s *Store) RotationSnapSettings() scene.RotationSnapSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.RotationSnap
}

// SnapStrength returns the global snap strength.
func (s *Store) SnapStrength() scene.SnapStrengthSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.SnapStrength
}

// Settings returns all snap settings at once.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// AnchorPoint returns the point a floating control should track for an
// item: its base position raised by its scaled height.
func (s *Store) AnchorPoint(id string) (geom.Vec3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return geom.Vec3{}, false
	}
	it := s.items[i]
	return it.Position.Add(geom.V3(0, it.ScaledFootprint().Height, 0)), true
}

// State is a read-only summary of the session.
type State struct {
	Mode         scene.Mode                 `json:"mode"`
	Tool         scene.Tool                 `json:"tool"`
	SelectedID   string                     `json:"selected_id,omitempty"`
	ItemCount    int                        `json:"item_count"`
	Grid         scene.GridSettings         `json:"grid"`
	RotationSnap scene.RotationSnapSettings `json:"rotation_snap"`
	SnapStrength scene.SnapStrengthSettings `json:"snap_strength"`
	AutoLock     scene.AutoLockSettings     `json:"auto_lock"`
	CanUndo      bool                       `json:"can_undo"`
	CanRedo      bool                       `json:"can_redo"`
	Room         *room.Boundary             `json:"room,omitempty"`
}

// State returns a summary of the session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Mode:         s.mode,
		Tool:         s.tool,
		SelectedID:   s.selected,
		ItemCount:    len(s.items),
		Grid:         s.settings.Grid,
		RotationSnap: s.settings.RotationSnap,
		SnapStrength: s.settings.SnapStrength,
		AutoLock:     s.settings.AutoLock,
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
		Room:         s.room.Boundaries(),
	}
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// commitLocked stores it at index i (or appends when i < 0) and remembers
// the full record for re-hydration.
func (s *Store) commitLocked(i int, it scene.PlacedItem) {
	if i < 0 {
		s.items = append(s.items, it)
	} else {
		s.items[i] = it
	}
	s.known[it.ID] = it.Clone()
}

func cloneItems(items []scene.PlacedItem) []scene.PlacedItem {
	out := make([]scene.PlacedItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
