package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// key builds the key message bubbletea would deliver for s.
func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type tuiEnv struct {
	model EditorModel
	ed    *editor.Store
	latch *scrollLatch
}

func newTUI(t *testing.T) *tuiEnv {
	t.Helper()
	latch := &scrollLatch{}
	ed := editor.New(
		editor.WithDimensions(room.Dimensions{Width: 10, Depth: 6, Height: 3}),
		editor.WithScheduler(editor.NewManualScheduler()),
		editor.WithScrollLocker(latch),
	)
	t.Cleanup(ed.Close)
	return &tuiEnv{model: NewEditorModel(ed, catalog.Default(), latch), ed: ed, latch: latch}
}

func (e *tuiEnv) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		next, c := e.model.Update(key(k))
		e.model = next.(EditorModel)
		cmd = c
	}
	return cmd
}

func TestEditorModelAddFromPicker(t *testing.T) {
	env := newTUI(t)
	env.press("a")
	if env.model.Picker == nil {
		t.Fatal("Picker = nil after a, want open picker")
	}
	if !strings.Contains(env.model.View(), "Add Furniture") {
		t.Error("View() should show the picker")
	}

	env.press("down", "enter")
	if env.model.Picker != nil {
		t.Error("Picker should close after enter")
	}
	items := env.ed.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if want := catalog.Default().List("")[1].Name; items[0].Name != want {
		t.Errorf("placed %q, want %q", items[0].Name, want)
	}
	if env.ed.SelectedItemID() != items[0].ID {
		t.Error("placed item should be selected")
	}
}

func TestEditorModelPickerCancel(t *testing.T) {
	env := newTUI(t)
	env.press("a", "esc")
	if env.model.Picker != nil || env.ed.Len() != 0 {
		t.Errorf("Picker = %v, items = %d after esc, want closed and empty", env.model.Picker, env.ed.Len())
	}
}

func TestEditorModelMoveAndUndo(t *testing.T) {
	env := newTUI(t)
	env.ed.AddItem(scene.PlacedItem{ID: "box", Footprint: scene.Footprint{Width: 1, Depth: 1, Height: 1}})
	env.ed.Flush()

	env.press("tab", "right", "right", "down")
	it, _ := env.ed.Item("box")
	if want := geom.V3(2, 0, 1); !it.Position.ApproxEqual(want, 1e-9) {
		t.Errorf("Position = %+v, want %+v", it.Position, want)
	}

	env.press("u")
	it, _ = env.ed.Item("box")
	if !it.Position.ApproxEqual(geom.Vec3{}, 1e-9) {
		t.Errorf("Position after undo = %+v, want origin", it.Position)
	}
	env.press("U")
	it, _ = env.ed.Item("box")
	if it.Position.X != 2 {
		t.Errorf("X after redo = %v, want 2", it.Position.X)
	}
}

func TestEditorModelWithoutSelection(t *testing.T) {
	env := newTUI(t)
	env.press("r")
	if env.model.Status != "select an item first (tab)" {
		t.Errorf("Status = %q, want selection hint", env.model.Status)
	}
}

func TestEditorModelItemActions(t *testing.T) {
	env := newTUI(t)
	env.ed.AddItem(scene.PlacedItem{ID: "box", Footprint: scene.Footprint{Width: 1, Depth: 1, Height: 1}})

	env.press("tab", "d")
	if env.ed.Len() != 2 {
		t.Fatalf("Len() = %d after duplicate, want 2", env.ed.Len())
	}
	dup := env.ed.SelectedItemID()
	if dup == "box" {
		t.Error("duplicate should be selected")
	}

	env.press("L")
	if it, _ := env.ed.Item(dup); !it.IsLocked {
		t.Error("L should lock the selected item")
	}
	env.press("L")
	if it, _ := env.ed.Item(dup); it.IsLocked {
		t.Error("second L should unlock")
	}

	env.press("x")
	if env.ed.Len() != 1 || env.ed.SelectedItemID() != "" {
		t.Errorf("after delete Len() = %d selected = %q, want 1 and none", env.ed.Len(), env.ed.SelectedItemID())
	}
}

func TestEditorModelModeCapturesMouse(t *testing.T) {
	env := newTUI(t)
	if cmd := env.press("m"); cmd == nil {
		t.Error("entering edit mode should return a mouse capture command")
	}
	if env.ed.Mode() != scene.ModeEdit {
		t.Errorf("Mode() = %s, want %s", env.ed.Mode(), scene.ModeEdit)
	}
	if cmd := env.press("g"); cmd != nil {
		t.Error("toggling the grid should not change mouse capture")
	}
	if cmd := env.press("m"); cmd == nil {
		t.Error("leaving edit mode should return a mouse release command")
	}
}

func TestEditorModelToggleAutoLock(t *testing.T) {
	env := newTUI(t)
	env.press("A")
	if !env.ed.AutoLockSettings().Enabled || env.model.Status != "auto-lock on" {
		t.Errorf("after A: enabled = %v, status = %q", env.ed.AutoLockSettings().Enabled, env.model.Status)
	}
	env.press("A")
	if env.ed.AutoLockSettings().Enabled || env.model.Status != "auto-lock off" {
		t.Errorf("after A A: enabled = %v, status = %q", env.ed.AutoLockSettings().Enabled, env.model.Status)
	}
}

func TestEditorModelMouseWheelRotates(t *testing.T) {
	env := newTUI(t)
	env.ed.AddItem(scene.PlacedItem{ID: "box", Footprint: scene.Footprint{Width: 1, Depth: 2, Height: 1}})
	env.press("tab")

	next, _ := env.model.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	env.model = next.(EditorModel)
	it, _ := env.ed.Item("box")
	if got, want := it.Rotation.Y, 15*math.Pi/180; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("yaw = %v, want %v", got, want)
	}
}

func TestEditorModelSave(t *testing.T) {
	env := newTUI(t)
	env.ed.AddItem(scene.PlacedItem{ID: "box", Footprint: scene.Footprint{Width: 1, Depth: 1, Height: 1}})

	var saved *editor.Snapshot
	env.model.Save = func(s editor.Snapshot) error {
		saved = &s
		return nil
	}
	env.press("ctrl+s")
	if saved == nil || len(saved.Items) != 1 {
		t.Fatalf("saved = %+v, want one item", saved)
	}
	if env.model.Status != "saved" {
		t.Errorf("Status = %q, want saved", env.model.Status)
	}
}

func TestEditorModelQuit(t *testing.T) {
	env := newTUI(t)
	if cmd := env.press("q"); cmd == nil {
		t.Error("q should return tea.Quit")
	}
}

func TestRenderPlan(t *testing.T) {
	b := room.Boundary{MinX: -5, MaxX: 5, MinZ: -2, MaxZ: 2, WallHeight: 3}
	items := []scene.PlacedItem{
		{ID: "a", Position: geom.V3(-4, 0, -1.5), Scale: geom.One, Footprint: scene.Footprint{Width: 1, Depth: 1}},
		{ID: "b", Position: geom.V3(3, 0, 1), Scale: geom.One, Footprint: scene.Footprint{Width: 2, Depth: 1}},
		{ID: "c", Position: geom.V3(3.5, 0, 1), Scale: geom.One, Footprint: scene.Footprint{Width: 1, Depth: 1}},
	}

	lines := renderPlan(items, b, "b", 10, 4)
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}
	plan := strings.Join(lines, "\n")
	if lines[0][0:1] != "a" {
		t.Errorf("top-left cell = %q, want a:\n%s", lines[0][0:1], plan)
	}
	if !strings.Contains(plan, "B") {
		t.Errorf("selected item should be upper case:\n%s", plan)
	}
	if !strings.Contains(plan, "#") {
		t.Errorf("overlapping items should be drawn as #:\n%s", plan)
	}
	if strings.Contains(plan, "c") {
		t.Errorf("c is fully covered by b and should only show as #:\n%s", plan)
	}
}

func TestPlanSize(t *testing.T) {
	b := room.Boundary{MinX: -5, MaxX: 5, MinZ: -5, MaxZ: 5}
	cols, rows := planSize(b, 84, 60)
	if cols != 80 || rows != 40 {
		t.Errorf("planSize() = %d, %d, want 80, 40", cols, rows)
	}
	cols, rows = planSize(b, 10, 10)
	if cols != 20 || rows != 4 {
		t.Errorf("planSize() small = %d, %d, want 20, 4", cols, rows)
	}
}
