package constraint

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

var bounds = &room.Boundary{MinX: -5, MaxX: 5, MinZ: -5, MaxZ: 5, WallHeight: 3}

func newTestSolver() (*Solver, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(log.New(&buf)), &buf
}

func item(x, y, z, width, depth, yaw float64) scene.PlacedItem {
	return scene.PlacedItem{
		ID:        "it",
		Name:      "Item",
		Position:  geom.V3(x, y, z),
		Rotation:  geom.E(0, yaw, 0),
		Scale:     geom.One,
		Footprint: scene.Footprint{Width: width, Depth: depth, Height: 1},
		Metadata:  scene.Metadata{FurnitureID: "box", Price: 10},
	}
}

func clock(x, z float64) scene.PlacedItem {
	it := item(x, 0, z, 0.4, 0.1, 0)
	it.Placement = scene.Placement{WallOnly: true, WallHeight: 1.8}
	return it
}

func TestConstrainClampsRightEdge(t *testing.T) {
	s, _ := newTestSolver()
	got := s.Constrain(item(4.5, 0, 0, 2, 1, 0), bounds)
	if got.Position.X > 4.0 {
		t.Errorf("Position.X = %v, want <= 4.0", got.Position.X)
	}
	if got.Position.X != 4.0 {
		t.Errorf("Position.X = %v, want 4.0 (flush with wall)", got.Position.X)
	}
	if got.Position.Z != 0 {
		t.Errorf("Position.Z = %v, want 0", got.Position.Z)
	}
}

func TestConstrainNilBoundary(t *testing.T) {
	s, _ := newTestSolver()
	in := item(50, 0, -50, 2, 1, 0)
	got := s.Constrain(in, nil)
	if !got.Equal(in) {
		t.Errorf("nil boundary changed item: %+v", got)
	}
}

func TestConstrainDoesNotMutateInput(t *testing.T) {
	s, _ := newTestSolver()
	in := item(10, 0, 10, 2, 1, 0)
	in.SnapSettings = &scene.SnapSettings{GridSize: 1}
	got := s.Constrain(in, bounds)
	if in.Position.X != 10 || in.Position.Z != 10 {
		t.Errorf("input mutated: %v", in.Position)
	}
	if got.SnapSettings == in.SnapSettings {
		t.Error("output shares SnapSettings pointer with input")
	}
	if got.Metadata != in.Metadata || got.Name != in.Name {
		t.Error("non-transform fields should be copied unchanged")
	}
}

func TestConstrainProperties(t *testing.T) {
	s, _ := newTestSolver()
	tests := []struct {
		name string
		in   scene.PlacedItem
	}{
		{"inside", item(1, 0, 1, 1, 1, 0)},
		{"past max x", item(7, 0, 0, 2, 1, 0)},
		{"past min z", item(0, 0, -9, 2, 3, 0)},
		{"corner", item(-8, 0, 8, 1.5, 2.5, 0)},
		{"rotated 30", item(4.9, 0, 4.9, 2, 1, geom.DegToRad(30))},
		{"rotated 90", item(4.9, 0, 0, 2, 1, math.Pi/2)},
		{"rotated 135", item(-4.9, 0, -4.9, 3, 0.7, geom.DegToRad(135))},
		{"scaled", func() scene.PlacedItem {
			it := item(4, 0, 4, 1, 1, 0)
			it.Scale = geom.V3(3, 1, 2)
			return it
		}()},
		{"wall clock", clock(4.7, 1)},
		{"wall clock past corner", clock(-6, -4.95)},
		{"wall clock centre", clock(0.2, 0.1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := s.Constrain(tt.in, bounds)
			if !Satisfied(once, bounds) {
				t.Errorf("constrained item not satisfied: %+v", once.Position)
			}
			twice := s.Constrain(once, bounds)
			if !twice.Equal(once) {
				t.Errorf("not idempotent: %v then %v", once.Position, twice.Position)
			}
			again := s.Constrain(tt.in, bounds)
			if !again.Equal(once) {
				t.Error("not deterministic")
			}
		})
	}
}

func TestConstrainFloorOffset(t *testing.T) {
	s, _ := newTestSolver()
	it := item(0, 0, 0, 1, 1, 0)
	it.Placement.FloorOffset = 0.75

	if got := s.Constrain(it, bounds); got.Position.Y != 0.75 {
		t.Errorf("Position.Y = %v, want 0.75", got.Position.Y)
	}

	it.Position.Y = 1.2
	if got := s.Constrain(it, bounds); got.Position.Y != 1.2 {
		t.Errorf("Position.Y = %v, want 1.2 (already above offset)", got.Position.Y)
	}

	plain := item(0, 0.4, 0, 1, 1, 0)
	if got := s.Constrain(plain, bounds); got.Position.Y != 0.4 {
		t.Errorf("Position.Y = %v, want 0.4 (untouched)", got.Position.Y)
	}
}

func TestConstrainWallOnly(t *testing.T) {
	s, _ := newTestSolver()
	tests := []struct {
		name    string
		in      scene.PlacedItem
		wantPos geom.Vec3
		wantYaw float64
	}{
		{"near max x", clock(4.2, 1), geom.V3(5, 1.8, 1), -math.Pi / 2},
		{"near min x", clock(-4, -2), geom.V3(-5, 1.8, -2), math.Pi / 2},
		{"near min z", clock(1, -4.5), geom.V3(1, 1.8, -5), 0},
		{"near max z", clock(-1, 4.9), geom.V3(-1, 1.8, 5), math.Pi},
		{"dragged past max x", clock(20, 0), geom.V3(5, 1.8, 0), -math.Pi / 2},
		{"dragged past min z", clock(1, -30), geom.V3(1, 1.8, -5), 0},
		{"dragged past corner", clock(-20, 7), geom.V3(-5, 1.8, 4.8), math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Constrain(tt.in, bounds)
			if !got.Position.ApproxEqual(tt.wantPos, 1e-9) {
				t.Errorf("Position = %v, want %v", got.Position, tt.wantPos)
			}
			if got.Rotation.Y != tt.wantYaw {
				t.Errorf("yaw = %v, want %v", got.Rotation.Y, tt.wantYaw)
			}
		})
	}
}

func TestConstrainWallOnlyClampsAlongWall(t *testing.T) {
	s, _ := newTestSolver()
	// Nearest wall is max-x, but z is past the end of the wall.
	in := clock(4.97, 4.95)
	got := s.Constrain(in, bounds)
	if got.Position.X != 5 {
		t.Fatalf("Position.X = %v, want 5", got.Position.X)
	}
	if got.Position.Z+0.2 > 5 {
		t.Errorf("clock overhangs wall end: z = %v", got.Position.Z)
	}
}

func TestConstrainOversizedCentres(t *testing.T) {
	s, buf := newTestSolver()
	got := s.Constrain(item(3, 0, 2, 12, 1, 0), bounds)
	if got.Position.X != 0 {
		t.Errorf("Position.X = %v, want 0 (centred)", got.Position.X)
	}
	if got.Position.Z != 2 {
		t.Errorf("Position.Z = %v, want 2 (fits on z)", got.Position.Z)
	}
	if !strings.Contains(buf.String(), "larger than room") {
		t.Errorf("expected oversize warning, got %q", buf.String())
	}
}

func TestConstrainNonFinitePosition(t *testing.T) {
	s, _ := newTestSolver()
	got := s.Constrain(item(math.NaN(), 0, math.Inf(1), 1, 1, 0), bounds)
	if got.Position.X != 0 || got.Position.Z != 0 {
		t.Errorf("Position = %v, want centre", got.Position)
	}
}

func TestFacingYaw(t *testing.T) {
	// The item's front, local +Z rotated by yaw, must point into the room.
	for _, w := range []room.Wall{{Axis: room.AxisX, Sign: -1}, {Axis: room.AxisX, Sign: 1}, {Axis: room.AxisZ, Sign: -1}, {Axis: room.AxisZ, Sign: 1}} {
		yaw := FacingYaw(w)
		front := geom.V3(math.Sin(yaw), 0, math.Cos(yaw))
		var inward geom.Vec3
		if w.Axis == room.AxisX {
			inward = geom.V3(float64(-w.Sign), 0, 0)
		} else {
			inward = geom.V3(0, 0, float64(-w.Sign))
		}
		if front.Dot(inward) < 0.99 {
			t.Errorf("FacingYaw(%v) front %v does not face %v", w, front, inward)
		}
	}
}
