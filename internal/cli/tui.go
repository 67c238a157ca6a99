package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	planBorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorGray)
	modeEditStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// freeMoveStep is the arrow-key step in metres when the grid is off.
const freeMoveStep = 0.1

// =============================================================================
// TemplateListModel - Interactive catalog selection
// =============================================================================

// TemplateListModel lets the user pick a catalog template.
type TemplateListModel struct {
	Templates []catalog.Template
	Cursor    int
	Height    int
	Offset    int
	Selected  *catalog.Template
	Cancelled bool
}

// NewTemplateListModel creates a picker over templates.
func NewTemplateListModel(templates []catalog.Template) TemplateListModel {
	return TemplateListModel{Templates: templates, Height: 10}
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.Cancelled = true
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Templates) > 0 {
				t := m.Templates[m.Cursor]
				m.Selected = &t
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Add Furniture"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ place  esc cancel"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Templates))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Templates[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, t.Name, t.Category, formatFootprint(t.Footprint), placementSummary(t.Placement)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Category", "W × D × H", "Placement").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))
	return b.String()
}

// =============================================================================
// EditorModel - Interactive room editor
// =============================================================================

// scrollLatch records scroll lock requests from the editor so the model can
// turn them into mouse capture commands.
type scrollLatch struct {
	pending *bool
}

func (l *scrollLatch) SetScrollLock(enabled bool) { l.pending = &enabled }

// take returns the command for the last request, if any.
func (l *scrollLatch) take() tea.Cmd {
	if l.pending == nil {
		return nil
	}
	enabled := *l.pending
	l.pending = nil
	if enabled {
		return tea.EnableMouseCellMotion
	}
	return tea.DisableMouse
}

// EditorModel is the bubbletea model for the terminal room editor. The
// editor session is shared; the model only holds view state.
type EditorModel struct {
	Editor  *editor.Store
	Catalog *catalog.Catalog
	Picker  *TemplateListModel
	Status  string
	Width   int
	Height  int

	// Save persists a snapshot on ctrl+s. Nil disables saving.
	Save func(editor.Snapshot) error

	scroll *scrollLatch
}

// NewEditorModel creates the model. ed should have been created with latch
// as its scroll locker so entering edit mode captures the mouse wheel.
func NewEditorModel(ed *editor.Store, cat *catalog.Catalog, latch *scrollLatch) EditorModel {
	return EditorModel{Editor: ed, Catalog: cat, Width: 80, Height: 24, scroll: latch}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Picker != nil {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.rotateSelected(1)
		case tea.MouseButtonWheelDown:
			m.rotateSelected(-1)
		}
	case tea.KeyMsg:
		if cmd, quit := m.handleKey(msg.String()); quit {
			return m, cmd
		}
	}
	return m, m.scrollCmd()
}

func (m EditorModel) scrollCmd() tea.Cmd {
	if m.scroll == nil {
		return nil
	}
	return m.scroll.take()
}

func (m EditorModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, _ := m.Picker.Update(msg)
	picker := next.(TemplateListModel)
	switch {
	case picker.Cancelled:
		m.Picker = nil
	case picker.Selected != nil:
		m.Picker = nil
		m.place(*picker.Selected)
	default:
		m.Picker = &picker
	}
	return m, nil
}

// handleKey applies one key press. It reports true when the program should
// exit with cmd.
func (m *EditorModel) handleKey(key string) (tea.Cmd, bool) {
	ed := m.Editor
	id := ed.SelectedItemID()
	m.Status = ""

	switch key {
	case "q", "ctrl+c":
		ed.Flush()
		return tea.Quit, true
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "esc":
		ed.ClearSelection()
	case "up", "k":
		m.moveSelected(0, -1)
	case "down", "j":
		m.moveSelected(0, 1)
	case "left", "h":
		m.moveSelected(-1, 0)
	case "right", "l":
		m.moveSelected(1, 0)
	case "r":
		m.require(id, ed.RotateLeft(id), "rotated left")
	case "R":
		m.require(id, ed.RotateRight(id), "rotated right")
	case "+", "=":
		m.scaleSelected(1.1)
	case "-":
		m.scaleSelected(1 / 1.1)
	case "a":
		picker := NewTemplateListModel(m.Catalog.List(""))
		picker.Height = max(m.Height-8, 5)
		m.Picker = &picker
	case "d":
		if newID, ok := ed.DuplicateItem(id); ok {
			ed.SelectItem(newID)
			m.Status = "duplicated"
		} else {
			m.require(id, false, "")
		}
	case "x", "delete", "backspace":
		m.require(id, ed.RemoveItem(id), "removed")
	case "L":
		if it, ok := ed.SelectedItem(); ok && it.IsLocked {
			m.require(id, ed.UnlockItem(id), "unlocked")
		} else {
			m.require(id, ed.LockItem(id), "locked")
		}
	case "u", "ctrl+z":
		if !ed.Undo() {
			m.Status = "nothing to undo"
		}
	case "ctrl+r", "ctrl+y", "U":
		if !ed.Redo() {
			m.Status = "nothing to redo"
		}
	case "m":
		next := scene.ModeEdit
		if ed.Mode() == scene.ModeEdit {
			next = scene.ModeView
		}
		ed.SetMode(next)
	case "t":
		m.Status = "tool: " + string(ed.CycleTool())
	case "g":
		ed.ToggleGridSnap()
	case "o":
		ed.ToggleRotationSnap()
	case "A":
		if ed.ToggleAutoLock() {
			m.Status = "auto-lock on"
		} else {
			m.Status = "auto-lock off"
		}
	case "ctrl+s":
		m.save()
	}
	return nil, false
}

// require sets the status for an action on the selected item.
func (m *EditorModel) require(id string, ok bool, done string) {
	switch {
	case id == "":
		m.Status = "select an item first (tab)"
	case !ok:
		m.Status = "no change"
	default:
		m.Status = done
	}
}

func (m *EditorModel) cycleSelection(dir int) {
	items := m.Editor.Items()
	if len(items) == 0 {
		return
	}
	cur := -1
	id := m.Editor.SelectedItemID()
	for i, it := range items {
		if it.ID == id {
			cur = i
			break
		}
	}
	next := 0
	if cur >= 0 {
		next = (cur + dir + len(items)) % len(items)
	} else if dir < 0 {
		next = len(items) - 1
	}
	m.Editor.SelectItem(items[next].ID)
}

// moveStep returns the arrow-key step: one grid cell, or freeMoveStep when
// the grid is off.
func (m *EditorModel) moveStep() float64 {
	if g := m.Editor.GridSettings(); g.Enabled && g.CellSize() > 0 {
		return g.CellSize()
	}
	return freeMoveStep
}

func (m *EditorModel) moveSelected(dx, dz float64) {
	it, ok := m.Editor.SelectedItem()
	if !ok {
		m.require("", false, "")
		return
	}
	step := m.moveStep()
	pos := it.Position.Add(geom.V3(dx*step, 0, dz*step))
	m.require(it.ID, m.Editor.UpdateItem(it.ID, editor.MoveTo(pos)), "moved")
}

func (m *EditorModel) rotateSelected(dir float64) {
	it, ok := m.Editor.SelectedItem()
	if !ok {
		return
	}
	step := 15.0
	if rs := m.Editor.RotationSnapSettings(); rs.Angle > 0 {
		step = rs.Angle
	}
	rot := it.Rotation
	rot.Y += dir * step * math.Pi / 180
	m.require(it.ID, m.Editor.UpdateItem(it.ID, editor.RotateTo(rot)), "rotated")
}

func (m *EditorModel) scaleSelected(f float64) {
	it, ok := m.Editor.SelectedItem()
	if !ok {
		m.require("", false, "")
		return
	}
	m.require(it.ID, m.Editor.UpdateItem(it.ID, editor.ScaleTo(it.Scale.Scale(f))), "scaled")
}

// place adds a template at the room centre and selects it.
func (m *EditorModel) place(t catalog.Template) {
	center := geom.Vec3{}
	if b := m.Editor.Room().Boundaries(); b != nil {
		center = b.Center()
	}
	item, ok := m.Editor.PlaceFromCatalog(t, center)
	if !ok {
		m.Status = "could not place " + t.Name
		return
	}
	m.Editor.SelectItem(item.ID)
	m.Status = "placed " + t.Name
}

func (m *EditorModel) save() {
	if m.Save == nil {
		m.Status = "saving is disabled"
		return
	}
	m.Editor.Flush()
	if err := m.Save(m.Editor.Snapshot()); err != nil {
		m.Status = "save failed: " + err.Error()
		return
	}
	m.Status = "saved"
}

func (m EditorModel) View() string {
	if m.Picker != nil {
		return m.Picker.View()
	}

	ed := m.Editor
	state := ed.State()
	items := ed.Items()
	var b strings.Builder

	mode := string(state.Mode) + " mode"
	if state.Mode == scene.ModeEdit {
		mode = modeEditStyle.Render(mode)
	}
	grid := "grid off"
	if state.Grid.Enabled {
		grid = "grid " + formatMetres(state.Grid.CellSize())
	}
	rot := "rotation free"
	if state.RotationSnap.Enabled {
		rot = fmt.Sprintf("rotation %.0f°", state.RotationSnap.Angle)
	}
	b.WriteString(StyleTitle.Render("Room Editor"))
	b.WriteString(listDimStyle.Render("  ·  "))
	b.WriteString(strings.Join([]string{mode, "tool " + string(state.Tool), grid, rot}, listDimStyle.Render("  ·  ")))
	b.WriteString("\n")

	if state.Room == nil {
		b.WriteString(StyleWarning.Render("no room configured"))
		b.WriteString("\n")
	} else {
		cols, rows := planSize(*state.Room, m.Width, m.Height)
		lines := renderPlan(items, *state.Room, state.SelectedID, cols, rows)
		b.WriteString(planBorderStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	for i, it := range items {
		line := fmt.Sprintf(" %c  %-24s %s  %s", itemMark(i), it.DisplayName(), formatPosition(it), formatYaw(it))
		if it.IsLocked {
			line += "  " + iconLocked
		}
		if it.ID == state.SelectedID {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString(StyleHighlight.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("tab select  arrows move  r/R rotate  +/- scale  a add  d dup  x del  L/A lock/auto  u/U undo/redo  m mode  g grid  ^s save  q quit"))
	return b.String()
}

// =============================================================================
// Floor plan rendering
// =============================================================================

// itemMark is the plan character for the i-th item.
func itemMark(i int) rune {
	if i < 26 {
		return rune('a' + i)
	}
	return '*'
}

// planSize fits the room into the terminal. Terminal cells are about twice
// as tall as wide, so rows are halved.
func planSize(b room.Boundary, width, height int) (cols, rows int) {
	cols = min(max(width-4, 20), 80)
	rows = int(math.Round(float64(cols) * b.Depth() / b.Width() / 2))
	return cols, min(max(rows, 4), max(height-12, 4))
}

// renderPlan draws a top-down map of the room, one string per row. Items
// are drawn with their mark, the selected one in upper case, and cells
// shared by more than one item as '#'.
func renderPlan(items []scene.PlacedItem, b room.Boundary, selected string, cols, rows int) []string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}
	if !b.Valid() || cols <= 0 || rows <= 0 {
		return toLines(grid)
	}

	cellW := b.Width() / float64(cols)
	cellD := b.Depth() / float64(rows)
	col := func(x float64) int { return min(max(int(math.Floor((x-b.MinX)/cellW)), 0), cols-1) }
	row := func(z float64) int { return min(max(int(math.Floor((z-b.MinZ)/cellD)), 0), rows-1) }

	for i, it := range items {
		mark := itemMark(i)
		if it.ID == selected {
			mark = []rune(strings.ToUpper(string(mark)))[0]
		}
		box := room.Bounds(it)
		for r := row(box.MinZ); r <= row(box.MaxZ); r++ {
			for c := col(box.MinX); c <= col(box.MaxX); c++ {
				if grid[r][c] != '·' {
					grid[r][c] = '#'
				} else {
					grid[r][c] = mark
				}
			}
		}
	}
	return toLines(grid)
}

func toLines(grid [][]rune) []string {
	lines := make([]string, len(grid))
	for i, r := range grid {
		lines[i] = string(r)
	}
	return lines
}
