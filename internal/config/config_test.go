package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/roomeditor/pkg/cache"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.History.MaxSize != 30 {
		t.Errorf("History.MaxSize = %d, want 30", cfg.History.MaxSize)
	}
	if cfg.Room.Width != 10 || cfg.Room.Height != 5 {
		t.Errorf("Room = %+v, want 10x10x5", cfg.Room)
	}
	if !cfg.AutoLock.Enabled || cfg.AutoLock.Delay != time.Second {
		t.Errorf("AutoLock = %+v, want enabled after 1s", cfg.AutoLock)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[room]
width = 6
depth = 4

[grid]
size = 2
divisions = 4

[history]
max_size = 50
capture_interval = "32ms"

[auto_lock]
enabled = false
delay = "2500ms"

[storage]
backend = "memory"
max_age = "168h"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Room.Width != 6 || cfg.Room.Depth != 4 || cfg.Room.Height != 5 {
		t.Errorf("Room = %+v, want 6x4 with default height", cfg.Room)
	}
	if cfg.Grid.CellSize() != 0.5 || !cfg.Grid.Enabled {
		t.Errorf("Grid = %+v, want cell 0.5 and enabled by default", cfg.Grid)
	}
	if cfg.History.MaxSize != 50 || cfg.History.CaptureInterval != 32*time.Millisecond {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.AutoLock.Enabled || cfg.AutoLock.Delay != 2500*time.Millisecond {
		t.Errorf("AutoLock = %+v, want disabled with 2.5s delay", cfg.AutoLock)
	}
	if cfg.Storage.MaxAge != 7*24*time.Hour {
		t.Errorf("Storage.MaxAge = %v, want 168h", cfg.Storage.MaxAge)
	}
	if cfg.Storage.MaxLayouts != layout.DefaultMaxLayouts {
		t.Errorf("Storage.MaxLayouts = %d, want default", cfg.Storage.MaxLayouts)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[room"},
		{"unknown key", "[room]\nwidht = 4"},
		{"room too small", "[room]\nwidth = 0.5\nmargin = 0.3"},
		{"zero height", "[room]\nheight = 0"},
		{"grid", "[grid]\ndivisions = 0"},
		{"angle", "[rotation_snap]\nangle = 0"},
		{"strength", "[snap_strength]\ntranslation = 1.5"},
		{"history", "[history]\nmax_size = 0"},
		{"auto lock delay", "[auto_lock]\ndelay = \"-1s\""},
		{"backend", "[storage]\nbackend = \"s3\""},
		{"max layouts", "[storage]\nmax_layouts = 0"},
		{"cache ttl", "[cache]\nttl = \"-1h\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Storage.Backend)
	}

	path := filepath.Join(dir, "roomeditor", "config.toml")
	if p, _ := DefaultPath(); p != path {
		t.Errorf("DefaultPath = %q, want %q", p, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load file: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}

	// An explicit missing path is an error.
	_, err = Load(filepath.Join(dir, "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Room.Width = 7
	cfg.Storage.Backend = BackendRedis
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()): %v\n%s", err, data)
	}
	if got.Room.Width != 7 || got.Storage.Backend != BackendRedis {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEditorOptions(t *testing.T) {
	cfg := Default()
	cfg.Room.Width = 4
	if got := cfg.Dimensions().Width; got != 4 {
		t.Errorf("Dimensions().Width = %v, want 4", got)
	}
	if n := len(cfg.EditorOptions()); n != 4 {
		t.Errorf("EditorOptions = %d options, want 4", n)
	}
	if got := cfg.EditorSettings().Grid; got != cfg.Grid {
		t.Errorf("EditorSettings().Grid = %+v, want %+v", got, cfg.Grid)
	}
	if got := cfg.EditorSettings().AutoLock; got != cfg.AutoLock {
		t.Errorf("EditorSettings().AutoLock = %+v, want %+v", got, cfg.AutoLock)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{"memory", StorageConfig{Backend: BackendMemory}, "memory"},
		{"file", StorageConfig{Backend: BackendFile, Dir: t.TempDir()}, "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.cfg.OpenStore(ctx)
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer s.Close()
			if s.Name() != tt.want {
				t.Errorf("Name = %q, want %q", s.Name(), tt.want)
			}
		})
	}

	if _, err := (StorageConfig{Backend: "tape"}).OpenStore(ctx); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("OpenStore(tape) error = %v", err)
	}
}

func TestCacheConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	path, err := CacheConfig{}.Path()
	if want := filepath.Join("/tmp/xdg-cache", appName, "plans"); err != nil || path != want {
		t.Errorf("Path() = %q, %v, want %q", path, err, want)
	}

	dir := t.TempDir()
	c, err := CacheConfig{Dir: dir}.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Open() = %T, want a file cache in %s", c, dir)
	}

	c, err = CacheConfig{Disabled: true, Dir: dir}.Open()
	if err != nil {
		t.Fatalf("Open(disabled): %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("Open(disabled) = %T, want *cache.NullCache", c)
	}
}
