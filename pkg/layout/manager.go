package layout

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/observability"
)

// Manager applies the editor's layout policies on top of a Store.
type Manager struct {
	store      Store
	maxLayouts int
	logger     *log.Logger
	hooks      observability.StorageHooks
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxLayouts caps the number of named layouts. Values below 1 keep the
// default.
func WithMaxLayouts(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxLayouts = n
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithHooks overrides the globally registered storage hooks.
func WithHooks(h observability.StorageHooks) ManagerOption {
	return func(m *Manager) { m.hooks = h }
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager wraps store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		maxLayouts: DefaultMaxLayouts,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.hooks == nil {
		m.hooks = observability.Storage()
	}
	return m
}

// Store returns the underlying backend.
func (m *Manager) Store() Store { return m.store }

// Close closes the underlying backend.
func (m *Manager) Close() error { return m.store.Close() }

// SaveOption sets optional layout metadata.
type SaveOption func(*Metadata)

// WithDescription sets the layout description.
func WithDescription(desc string) SaveOption {
	return func(md *Metadata) { md.Description = desc }
}

// WithTags sets the layout tags. Blank tags are dropped.
func WithTags(tags ...string) SaveOption {
	return func(md *Metadata) {
		md.Tags = md.Tags[:0]
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				md.Tags = append(md.Tags, t)
			}
		}
	}
}

// Save stores snap as a new named layout. When the limit is reached the
// oldest named layouts are deleted first.
func (m *Manager) Save(ctx context.Context, name string, snap editor.Snapshot, opts ...SaveOption) (Metadata, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return Metadata{}, err
	}
	l := New(strings.TrimSpace(name), snap, m.now())
	for _, opt := range opts {
		opt(&l.Metadata)
	}

	if err := m.evict(ctx); err != nil {
		return Metadata{}, err
	}
	if err := m.save(ctx, l); err != nil {
		return Metadata{}, err
	}
	m.logger.Info("layout saved", "id", l.Metadata.ID, "name", l.Metadata.Name, "items", l.Metadata.ItemCount)
	return l.Metadata, nil
}

// evict deletes the oldest named layouts until there is room for one more.
func (m *Manager) evict(ctx context.Context) error {
	metas, err := m.List(ctx)
	if err != nil {
		return err
	}
	for len(metas) >= m.maxLayouts {
		oldest := metas[len(metas)-1]
		if err := m.store.Delete(ctx, oldest.ID); err != nil && !stderrors.Is(err, ErrNotFound) {
			return m.wrap(err, "evict", oldest.ID)
		}
		m.logger.Info("dropped oldest layout", "id", oldest.ID, "name", oldest.Name)
		metas = metas[:len(metas)-1]
	}
	return nil
}

// AutoSave overwrites the auto-save slot with snap.
func (m *Manager) AutoSave(ctx context.Context, snap editor.Snapshot) error {
	l := New("auto_save", snap, m.now())
	l.Metadata.ID = AutoSaveID
	if err := m.save(ctx, l); err != nil {
		return err
	}
	m.logger.Debug("auto-saved layout", "items", l.Metadata.ItemCount)
	return nil
}

// LoadAutoSave returns the auto-saved layout.
func (m *Manager) LoadAutoSave(ctx context.Context) (*Layout, error) {
	return m.Load(ctx, AutoSaveID)
}

func (m *Manager) save(ctx context.Context, l *Layout) error {
	start := time.Now()
	err := m.store.Save(ctx, l)
	m.hooks.OnSave(ctx, m.store.Name(), l.Metadata.ID, l.Metadata.ItemCount, time.Since(start), err)
	if err != nil {
		return m.wrap(err, "save", l.Metadata.ID)
	}
	return nil
}

// Load returns the layout with the given id.
func (m *Manager) Load(ctx context.Context, id string) (*Layout, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	start := time.Now()
	l, err := m.store.Load(ctx, id)
	m.hooks.OnLoad(ctx, m.store.Name(), id, time.Since(start), err)
	if err != nil {
		return nil, m.wrap(err, "load", id)
	}
	return l, nil
}

// List returns the named layouts, newest first. The auto-save slot is not
// included.
func (m *Manager) List(ctx context.Context) ([]Metadata, error) {
	metas, err := m.store.List(ctx)
	if err != nil {
		return nil, m.wrap(err, "list", "")
	}
	out := metas[:0]
	for _, md := range metas {
		if md.ID != AutoSaveID {
			out = append(out, md)
		}
	}
	return out, nil
}

// Delete removes a layout.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	err := m.store.Delete(ctx, id)
	m.hooks.OnDelete(ctx, m.store.Name(), id, err)
	if err != nil {
		return m.wrap(err, "delete", id)
	}
	m.logger.Info("layout deleted", "id", id)
	return nil
}

// Cleanup removes layouts older than maxAge. A non-positive maxAge uses
// DefaultMaxAge.
func (m *Manager) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	n, err := m.store.Cleanup(ctx, maxAge)
	if err != nil {
		return n, m.wrap(err, "cleanup", "")
	}
	if n > 0 {
		m.logger.Info("cleaned up layouts", "removed", n, "max_age", maxAge)
	}
	return n, nil
}

func (m *Manager) wrap(err error, op, id string) error {
	switch {
	case stderrors.Is(err, ErrNotFound):
		return errors.Wrap(errors.ErrCodeLayoutNotFound, err, "layout %q not found", id)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s layout timed out", op)
	case stderrors.Is(err, ErrClosed):
		return errors.Wrap(errors.ErrCodeUnavailable, err, "layout storage is closed")
	}
	m.logger.Error("layout storage failed", "op", op, "id", id, "backend", m.store.Name(), "err", err)
	return errors.Wrap(errors.ErrCodeStorage, err, "failed to %s layout", op)
}
