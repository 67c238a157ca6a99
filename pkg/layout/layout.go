package layout

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when a layout does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("store closed")
)

// AutoSaveID is the reserved id of the auto-save slot. It is never counted
// against the layout limit and never removed by cleanup.
const AutoSaveID = "autosave"

// Defaults for the layout policies.
const (
	// DefaultMaxLayouts is the number of named layouts kept before the
	// oldest is dropped.
	DefaultMaxLayouts = 10

	// DefaultMaxAge is the age after which Cleanup removes a layout.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Metadata describes a saved layout without its items.
type Metadata struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	ItemCount   int       `json:"item_count" bson:"item_count"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Layout is a saved editor snapshot.
type Layout struct {
	Metadata Metadata        `json:"metadata" bson:"metadata"`
	Data     editor.Snapshot `json:"data" bson:"data"`
}

// New creates a layout with a fresh id from snap.
func New(name string, snap editor.Snapshot, createdAt time.Time) *Layout {
	return &Layout{
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Name:      name,
			ItemCount: len(snap.Items),
			CreatedAt: createdAt,
		},
		Data: snap,
	}
}

// Clone returns a deep copy of l.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	out := *l
	out.Metadata.Tags = slices.Clone(l.Metadata.Tags)
	if l.Data.Items != nil {
		out.Data.Items = make([]scene.PlacedItem, len(l.Data.Items))
		for i, it := range l.Data.Items {
			out.Data.Items[i] = it.Clone()
		}
	}
	return &out
}

// Store is the interface for layout storage backends.
type Store interface {
	// Name identifies the backend in logs and hooks.
	Name() string

	// Save creates or replaces the layout with l.Metadata.ID.
	Save(ctx context.Context, l *Layout) error

	// Load returns the layout with the given id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Layout, error)

	// List returns the metadata of every stored layout, newest first.
	List(ctx context.Context) ([]Metadata, error)

	// Delete removes a layout. Deleting a missing layout returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Cleanup removes layouts created more than maxAge ago and returns how
	// many were removed. The auto-save slot is kept.
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)

	// Close releases the backend's resources.
	Close() error
}

// sortNewestFirst orders metadata by creation time, newest first, breaking
// ties by id so listings are stable.
func sortNewestFirst(metas []Metadata) {
	slices.SortFunc(metas, func(a, b Metadata) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

// expired reports whether m should be removed by a cleanup at cutoff.
func expired(m Metadata, cutoff time.Time) bool {
	return m.ID != AutoSaveID && m.CreatedAt.Before(cutoff)
}
