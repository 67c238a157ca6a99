package editor

import (
	"strings"
	"testing"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/history"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	env := newTestStore(t)
	s := env.store

	s.AddItem(box("a", 1, 1))
	s.Flush()
	s.UpdateItem("a", MoveTo(geom.V3(3, 0, 3)))
	s.Flush()

	if !s.Undo() {
		t.Fatal("Undo = false")
	}
	got, _ := s.Item("a")
	if got.Position != geom.V3(1, 0, 1) {
		t.Errorf("after undo Position = %v, want {1 0 1}", got.Position)
	}
	if !s.CanRedo() {
		t.Error("CanRedo = false after undo")
	}

	if !s.Redo() {
		t.Fatal("Redo = false")
	}
	got, _ = s.Item("a")
	if got.Position != geom.V3(3, 0, 3) {
		t.Errorf("after redo Position = %v, want {3 0 3}", got.Position)
	}
	if s.Redo() {
		t.Error("second Redo should report false")
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	env := newTestStore(t)
	if env.store.Undo() {
		t.Error("Undo on fresh store should report false")
	}
	if env.store.Redo() {
		t.Error("Redo on fresh store should report false")
	}
}

func TestUndoRestoresRemovedItem(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	it := box("a", 2, -1)
	it.Metadata.Brand = "Nordic"
	s.AddItem(it)
	s.Flush()
	s.RemoveItem("a")
	s.Flush()

	s.Undo()
	got, ok := s.Item("a")
	if !ok {
		t.Fatal("removed item not restored by undo")
	}
	if got.Metadata.Brand != "Nordic" || got.Footprint.Width != 1 {
		t.Errorf("restored item lost its fields: %+v", got)
	}
}

func TestUndoFlushesPendingCapture(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", 0, 0))
	s.Flush()
	s.UpdateItem("a", MoveTo(geom.V3(2, 0, 0)))

	// The move is still pending; Undo records it first and then steps back.
	s.Undo()
	got, _ := s.Item("a")
	if got.Position.X != 0 {
		t.Errorf("Position.X = %v, want 0", got.Position.X)
	}
	s.Redo()
	got, _ = s.Item("a")
	if got.Position.X != 2 {
		t.Errorf("Position.X = %v, want 2", got.Position.X)
	}
}

func TestCaptureCoalescing(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", 0, 0))
	for x := 1; x <= 4; x++ {
		s.UpdateItem("a", MoveTo(geom.V3(float64(x), 0, 0)))
	}
	if got := env.sched.Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}
	if ran := env.sched.Run(); ran != 1 {
		t.Errorf("Run = %d, want 1", ran)
	}
	if past, _ := s.HistoryLen(); past != 1 {
		t.Errorf("past = %d, want 1", past)
	}
}

func TestHistoryBounded(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", -4, 0))
	s.Flush()
	for i := 0; i < 40; i++ {
		x := float64(i%9) - 4
		if x == -4 {
			x = 4
		}
		s.UpdateItem("a", MoveTo(geom.V3(x, 0, float64(i%2))))
		s.Flush()
	}
	past, _ := s.HistoryLen()
	if past > history.DefaultMaxSize {
		t.Errorf("past = %d, want <= %d", past, history.DefaultMaxSize)
	}

	steps := 0
	for s.Undo() {
		steps++
	}
	if steps != past {
		t.Errorf("undid %d steps, want %d", steps, past)
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", 0, 0))
	s.Flush()
	s.UpdateItem("a", MoveTo(geom.V3(1, 0, 0)))
	s.Flush()
	s.Undo()

	s.UpdateItem("a", MoveTo(geom.V3(-2, 0, 0)))
	s.Flush()
	if s.CanRedo() {
		t.Error("a new action should clear the redo stack")
	}
}

func TestUndoDropsUnknownItems(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", 0, 0))
	s.Flush()
	s.AddItem(box("b", 2, 0))
	s.Flush()

	// Forget everything the session knew about b.
	s.mu.Lock()
	delete(s.known, "b")
	s.mu.Unlock()

	s.Undo()
	s.Redo()
	if _, ok := s.Item("b"); ok {
		t.Error("item without a record should be dropped")
	}
	if !strings.Contains(env.logs.String(), "unknown item") {
		t.Errorf("expected a warning, got %q", env.logs.String())
	}
}

func TestClearHistory(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	s.AddItem(box("a", 0, 0))
	s.Flush()
	s.ClearHistory()
	if s.CanUndo() || s.CanRedo() {
		t.Error("ClearHistory should leave nothing to undo or redo")
	}
	if s.Len() != 1 {
		t.Errorf("ClearHistory removed items: Len = %d", s.Len())
	}
}
