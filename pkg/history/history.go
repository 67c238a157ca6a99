// Package history keeps a bounded undo/redo stack of compressed scene
// snapshots.
//
// The stack is linear: past entries are ordered oldest first, future entries
// next first, and present is the scene at the last capture. A capture that
// matches present is ignored. Any other capture pushes present onto past,
// drops the oldest past entries beyond the limit and discards the future.
//
// Entries only carry the transform and lock state of each item (see
// [Record]); callers rebuild full items from their own records when an entry
// is restored. A History is not safe for concurrent use; the editor guards it
// with its own lock.
package history

import (
	"slices"
	"time"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// DefaultMaxSize is the number of past entries kept when New is given a
// non-positive limit.
const DefaultMaxSize = 30

// Record is the compressed form of one placed item.
type Record struct {
	ID     string     `json:"id"`
	Pos    [3]float64 `json:"pos"`
	Rot    [3]float64 `json:"rot"`
	Scl    [3]float64 `json:"scl"`
	Locked bool       `json:"locked"`
}

// CompressItem returns the record for an item.
func CompressItem(it scene.PlacedItem) Record {
	return Record{
		ID:     it.ID,
		Pos:    it.Position.Array(),
		Rot:    it.Rotation.Array(),
		Scl:    it.Scale.Array(),
		Locked: it.IsLocked,
	}
}

// Apply returns base with the record's transform and lock state.
func (r Record) Apply(base scene.PlacedItem) scene.PlacedItem {
	out := base.Clone()
	out.Position = geom.Vec3FromArray(r.Pos)
	out.Rotation = geom.EulerFromArray(r.Rot)
	out.Scale = geom.Vec3FromArray(r.Scl)
	out.IsLocked = r.Locked
	return out
}

// Entry is one compressed scene snapshot.
type Entry struct {
	Items       []Record `json:"items"`
	Timestamp   int64    `json:"timestamp"` // unix milliseconds
	Description string   `json:"description,omitempty"`
}

// Equal compares the item records only; Timestamp and Description are
// ignored.
func (e Entry) Equal(o Entry) bool {
	return slices.Equal(e.Items, o.Items)
}

// IDs returns the item ids in entry order.
func (e Entry) IDs() []string {
	ids := make([]string, len(e.Items))
	for i, r := range e.Items {
		ids[i] = r.ID
	}
	return ids
}

// Compress builds an entry from a live item list.
func Compress(items []scene.PlacedItem, description string) Entry {
	recs := make([]Record, len(items))
	for i, it := range items {
		recs[i] = CompressItem(it)
	}
	return Entry{Items: recs, Timestamp: time.Now().UnixMilli(), Description: description}
}

// History is the past/present/future state machine.
type History struct {
	max     int
	past    []Entry
	present Entry
	future  []Entry
}

// New returns a history whose present is the compressed initial scene.
func New(max int, initial []scene.PlacedItem) *History {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return &History{max: max, present: Compress(initial, "initial")}
}

// MaxSize returns the past-length limit.
func (h *History) MaxSize() int { return h.max }

// Present returns the entry for the most recent capture.
func (h *History) Present() Entry { return h.present }

// Capture records the current scene. It reports false, and changes nothing,
// when the scene equals present.
func (h *History) Capture(items []scene.PlacedItem, description string) bool {
	e := Compress(items, description)
	if e.Equal(h.present) {
		return false
	}
	h.past = append(h.past, h.present)
	if over := len(h.past) - h.max; over > 0 {
		h.past = slices.Delete(h.past, 0, over)
	}
	h.present = e
	h.future = nil
	return true
}

// Undo steps back one entry and returns the new present. It reports false
// when there is nothing to undo.
func (h *History) Undo() (Entry, bool) {
	if len(h.past) == 0 {
		return Entry{}, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past = h.past[:last]
	h.future = append([]Entry{h.present}, h.future...)
	h.present = prev
	return prev, true
}

// Redo steps forward one entry and returns the new present. It reports
// false when there is nothing to redo.
func (h *History) Redo() (Entry, bool) {
	if len(h.future) == 0 {
		return Entry{}, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return next, true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the number of past and future entries.
func (h *History) Len() (past, future int) { return len(h.past), len(h.future) }

// Clear drops past and future and makes items the new present.
func (h *History) Clear(items []scene.PlacedItem) {
	h.past = nil
	h.future = nil
	h.present = Compress(items, "cleared")
}
