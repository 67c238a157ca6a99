package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/roomeditor/internal/config"
	"github.com/matzehuels/roomeditor/pkg/cache"
	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

// writeTestConfig writes a config that keeps layouts in a temp directory.
func writeTestConfig(t *testing.T) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("[storage]\nbackend = \"file\"\ndir = %q\nauto_save = false\n\n[cache]\ndir = %q\n",
		filepath.Join(dir, "layouts"), filepath.Join(dir, "plans"))
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, dir
}

// run executes one command line against a fresh CLI and returns what the
// command wrote to its output.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func listLayouts(t *testing.T, cfgPath string) []layout.Metadata {
	t.Helper()
	out, err := run(t, cfgPath, "layout", "list", "--json")
	if err != nil {
		t.Fatalf("layout list: %v", err)
	}
	var metas []layout.Metadata
	if err := json.Unmarshal([]byte(out), &metas); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return metas
}

func TestLayoutWorkflow(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	if _, err := run(t, cfg, "place", "sofa-001@0,-2", "clock", "--save", "Lounge", "--tag", "draft"); err != nil {
		t.Fatalf("place: %v", err)
	}
	metas := listLayouts(t, cfg)
	if len(metas) != 1 || metas[0].Name != "Lounge" || metas[0].ItemCount != 2 {
		t.Fatalf("layouts = %+v, want Lounge with 2 items", metas)
	}
	id := metas[0].ID

	exported := filepath.Join(dir, "lounge.json")
	if _, err := run(t, cfg, "layout", "export", id, "-o", exported); err != nil {
		t.Fatalf("layout export: %v", err)
	}
	if _, err := run(t, cfg, "layout", "import", exported, "--name", "Lounge copy"); err != nil {
		t.Fatalf("layout import: %v", err)
	}
	if got := len(listLayouts(t, cfg)); got != 2 {
		t.Errorf("len(layouts) after import = %d, want 2", got)
	}

	plan := filepath.Join(dir, "plan.dot")
	if _, err := run(t, cfg, "plan", id, "--dot", "-o", plan); err != nil {
		t.Fatalf("plan: %v", err)
	}
	data, err := os.ReadFile(plan)
	if err != nil || !strings.Contains(string(data), "graph floorplan") {
		t.Errorf("plan file = %q, %v, want a DOT graph", data, err)
	}

	if _, err := run(t, cfg, "layout", "delete", id); err != nil {
		t.Fatalf("layout delete: %v", err)
	}
	if got := len(listLayouts(t, cfg)); got != 1 {
		t.Errorf("len(layouts) after delete = %d, want 1", got)
	}
	if _, err := run(t, cfg, "layout", "show", id); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("show deleted layout error = %v, want %s", err, errors.ErrCodeLayoutNotFound)
	}
	if _, err := run(t, cfg, "layout", "rm", id); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("delete missing layout error = %v, want %s", err, errors.ErrCodeLayoutNotFound)
	}
}

func TestPlaceWithoutSaveStoresNothing(t *testing.T) {
	cfg, _ := writeTestConfig(t)
	if _, err := run(t, cfg, "place", "desk-001@1,1,90"); err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := len(listLayouts(t, cfg)); got != 0 {
		t.Errorf("len(layouts) = %d, want 0", got)
	}
	if _, err := run(t, cfg, "place", "desk-001@1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("place with bad position error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestCatalogCommands(t *testing.T) {
	cfg, _ := writeTestConfig(t)

	out, err := run(t, cfg, "catalog", "list", "--json")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var templates []catalog.Template
	if err := json.Unmarshal([]byte(out), &templates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(templates) != catalog.Default().Len() {
		t.Errorf("len(templates) = %d, want %d", len(templates), catalog.Default().Len())
	}

	out, err = run(t, cfg, "catalog", "show", "clock", "--json")
	if err != nil || !strings.Contains(out, "Wall Clock") {
		t.Errorf("catalog show = %q, %v, want the clock", out, err)
	}
	if _, err := run(t, cfg, "catalog", "show", "throne"); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
		t.Errorf("catalog show error = %v, want %s", err, errors.ErrCodeTemplateNotFound)
	}

	out, err = run(t, cfg, "catalog", "categories")
	if err != nil || !strings.Contains(out, "decorative") {
		t.Errorf("catalog categories = %q, %v", out, err)
	}
}

func TestConfigCommands(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	out, err := run(t, cfg, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[storage]") || !strings.Contains(out, filepath.Join(dir, "layouts")) {
		t.Errorf("config show = %q, want the storage section with the test dir", out)
	}

	out, err = run(t, cfg, "config", "path")
	if err != nil || strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q, %v, want %q", out, err, cfg)
	}

	if _, err := run(t, cfg, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("config init over existing file error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if _, err := run(t, path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, path, "config", "show"); err != nil {
		t.Errorf("config show after init: %v", err)
	}
	if _, err := run(t, filepath.Join(t.TempDir(), "missing.toml"), "catalog", "list"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestCacheCommands(t *testing.T) {
	cfg, dir := writeTestConfig(t)
	plans := filepath.Join(dir, "plans")

	out, err := run(t, cfg, "cache", "path")
	if err != nil || strings.TrimSpace(out) != plans {
		t.Errorf("cache path = %q, %v, want %q", out, err, plans)
	}

	fc, err := cache.NewFileCache(plans)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := cache.PlanKey("svg", "graph floorplan {}")
	if err := fc.Set(ctx, key, []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, key); hit {
		t.Error("entry survived cache clear")
	}
}

func TestRenderSVGUsesCache(t *testing.T) {
	dir := t.TempDir()
	c := New(&bytes.Buffer{}, LogInfo)
	c.conf().Cache = config.CacheConfig{Dir: dir, TTL: time.Hour}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	dot := "graph floorplan {}"
	ctx := withLogger(context.Background(), c.Logger)
	if err := fc.Set(ctx, cache.PlanKey("svg", dot), []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	data, err := c.renderSVG(ctx, dot)
	if err != nil {
		t.Fatalf("renderSVG: %v", err)
	}
	if string(data) != "<svg>cached</svg>" {
		t.Errorf("renderSVG = %q, want the cached plan", data)
	}
}

func TestCompletion(t *testing.T) {
	cfg, _ := writeTestConfig(t)
	out, err := run(t, cfg, "completion", "bash")
	if err != nil || !strings.Contains(out, "roomeditor") {
		t.Errorf("completion bash = %d bytes, %v", len(out), err)
	}
}

func TestLayoutRows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := layoutRows([]layout.Metadata{
		{ID: "a", Name: "Lounge", ItemCount: 3, CreatedAt: now.Add(-2 * time.Hour), Tags: []string{"x", "y"}},
		{ID: "b", Name: "Old", CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}, now)

	want := [][]string{
		{"a", "Lounge", "3", "2h ago", "x, y"},
		{"b", "Old", "0", "May 2, 2025", ""},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestShortID(t *testing.T) {
	tests := []struct{ id, want string }{
		{"3f2b9c1e-8d4a-4b7e-9c2f-1a2b3c4d5e6f", "3f2b9c1e"},
		{"box", "box"},
		{"a-b-c-d-e", "a-b-c-d-e"},
	}
	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
