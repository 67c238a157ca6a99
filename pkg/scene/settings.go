package scene

import "time"

// GridSettings configures the placement grid. The snap cell is Size/Divisions.
type GridSettings struct {
	Enabled   bool    `json:"enabled" bson:"enabled" toml:"enabled"`
	Size      float64 `json:"size" bson:"size" toml:"size"`
	Divisions int     `json:"divisions" bson:"divisions" toml:"divisions"`
	Color     string  `json:"color" bson:"color" toml:"color"`
}

// CellSize returns the grid pitch, or 0 when the grid is degenerate.
func (g GridSettings) CellSize() float64 {
	if g.Divisions <= 0 || g.Size <= 0 {
		return 0
	}
	return g.Size / float64(g.Divisions)
}

// RotationSnapSettings configures yaw snapping. Angle is in degrees.
type RotationSnapSettings struct {
	Enabled bool    `json:"enabled" bson:"enabled" toml:"enabled"`
	Angle   float64 `json:"angle" bson:"angle" toml:"angle"`
}

// SnapStrengthSettings blends between a free transform (0) and its snapped
// counterpart (1).
type SnapStrengthSettings struct {
	Enabled     bool    `json:"enabled" bson:"enabled" toml:"enabled"`
	Translation float64 `json:"translation" bson:"translation" toml:"translation"`
	Rotation    float64 `json:"rotation" bson:"rotation" toml:"rotation"`
}

// AutoLockSettings lock the selected item once it has rested for Delay
// after being placed, selected or moved.
type AutoLockSettings struct {
	Enabled bool          `json:"enabled" bson:"enabled" toml:"enabled"`
	Delay   time.Duration `json:"delay" bson:"delay" toml:"delay"`
}

// DefaultAutoLockDelay is how long an item rests before it is auto-locked.
const DefaultAutoLockDelay = time.Second

// DefaultAutoLock returns auto-lock settings with the default delay. It is
// off unless the caller enables it.
func DefaultAutoLock() AutoLockSettings {
	return AutoLockSettings{Delay: DefaultAutoLockDelay}
}

// DefaultGrid returns the editor's initial grid settings.
func DefaultGrid() GridSettings {
	return GridSettings{Enabled: true, Size: 10, Divisions: 10, Color: "#888888"}
}

// DefaultRotationSnap returns the editor's initial rotation snap settings.
func DefaultRotationSnap() RotationSnapSettings {
	return RotationSnapSettings{Enabled: true, Angle: 15}
}

// DefaultSnapStrength returns the editor's initial snap strength.
func DefaultSnapStrength() SnapStrengthSettings {
	return SnapStrengthSettings{Enabled: true, Translation: 1, Rotation: 1}
}

// FreezeSnap captures the global snap configuration for a locked item.
func FreezeSnap(g GridSettings, r RotationSnapSettings) *SnapSettings {
	return &SnapSettings{
		GridEnabled:         g.Enabled,
		RotationSnapEnabled: r.Enabled,
		RotationSnapAngle:   r.Angle,
		GridSize:            g.Size,
		GridDivisions:       g.Divisions,
	}
}

// Grid returns the frozen grid settings as GridSettings.
func (s SnapSettings) Grid() GridSettings {
	return GridSettings{Enabled: s.GridEnabled, Size: s.GridSize, Divisions: s.GridDivisions}
}

// RotationSnap returns the frozen rotation settings as RotationSnapSettings.
func (s SnapSettings) RotationSnap() RotationSnapSettings {
	return RotationSnapSettings{Enabled: s.RotationSnapEnabled, Angle: s.RotationSnapAngle}
}

// Mode is the editor's interaction mode.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeView || m == ModeEdit }

// Tool is the active manipulation tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolTranslate Tool = "translate"
	ToolRotate    Tool = "rotate"
	ToolScale     Tool = "scale"
	ToolDelete    Tool = "delete"
	ToolDuplicate Tool = "duplicate"
)

// CycleTools is the order CycleTool steps through.
var CycleTools = []Tool{ToolSelect, ToolTranslate, ToolRotate, ToolScale}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolTranslate, ToolRotate, ToolScale, ToolDelete, ToolDuplicate:
		return true
	}
	return false
}
