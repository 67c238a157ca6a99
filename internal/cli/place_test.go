package cli

import (
	"bytes"
	"math"
	"testing"

	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/geom"
)

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		arg  string
		want placement
	}{
		{"sofa-001", placement{TemplateID: "sofa-001"}},
		{"sofa-001@1.5,-2", placement{TemplateID: "sofa-001", Position: geom.V3(1.5, 0, -2), HasPosition: true}},
		{"bed-001@0, 0, 180", placement{TemplateID: "bed-001", HasPosition: true, Yaw: 180, HasYaw: true}},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parsePlacement(tt.arg)
			if err != nil {
				t.Fatalf("parsePlacement(%q) error = %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("parsePlacement(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParsePlacementInvalid(t *testing.T) {
	for _, arg := range []string{"", "@1,2", "sofa-001@1", "sofa-001@1,2,3,4", "sofa-001@x,2", "sofa-001@NaN,0", "../sofa@1,2"} {
		t.Run(arg, func(t *testing.T) {
			if _, err := parsePlacement(arg); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("parsePlacement(%q) error = %v, want %s", arg, err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestPlaceAll(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	ed, err := c.placeAll([]placement{
		{TemplateID: "sofa-001", HasPosition: true, Position: geom.V3(1, 0, 1), Yaw: 90, HasYaw: true},
		{TemplateID: "clock"},
	}, true)
	if err != nil {
		t.Fatalf("placeAll() error = %v", err)
	}
	defer ed.Close()

	items := ed.Items()
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	sofa, clock := items[0], items[1]
	if got := sofa.Rotation.Y; math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("sofa yaw = %v, want %v", got, math.Pi/2)
	}
	if !sofa.IsLocked || !clock.IsLocked {
		t.Error("placed items should be locked")
	}
	if clock.Position.Y != 1.8 {
		t.Errorf("clock Y = %v, want 1.8", clock.Position.Y)
	}
	if !ed.Room().IsInRoom(clock) {
		t.Errorf("clock at %+v is outside the room", clock.Position)
	}
	if past, _ := ed.HistoryLen(); past < 2 {
		t.Errorf("history past = %d, want at least 2", past)
	}
}

func TestPlaceAllUnknownTemplate(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	if _, err := c.placeAll([]placement{{TemplateID: "missing"}}, false); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
		t.Errorf("placeAll() error = %v, want %s", err, errors.ErrCodeTemplateNotFound)
	}
}
