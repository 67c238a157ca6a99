// Package config loads the roomeditor configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/roomeditor/config.toml
// (falling back to ~/.config/roomeditor/config.toml). Every key is optional;
// values not present in the file keep their defaults.
package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/roomeditor/pkg/cache"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/history"
	"github.com/matzehuels/roomeditor/pkg/layout"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

const appName = "roomeditor"

// Storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Room         RoomConfig                 `toml:"room"`
	Grid         scene.GridSettings         `toml:"grid"`
	RotationSnap scene.RotationSnapSettings `toml:"rotation_snap"`
	SnapStrength scene.SnapStrengthSettings `toml:"snap_strength"`
	AutoLock     scene.AutoLockSettings     `toml:"auto_lock"`
	History      HistoryConfig              `toml:"history"`
	Catalog      CatalogConfig              `toml:"catalog"`
	Storage      StorageConfig              `toml:"storage"`
	Cache        CacheConfig                `toml:"cache"`
	Server       ServerConfig               `toml:"server"`
}

// RoomConfig sizes the room, in metres.
type RoomConfig struct {
	Width  float64 `toml:"width"`
	Depth  float64 `toml:"depth"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	MaxSize         int           `toml:"max_size"`
	CaptureInterval time.Duration `toml:"capture_interval"`
}

// CatalogConfig points at a custom furniture catalog. An empty path uses the
// built-in one.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// StorageConfig selects and configures the layout backend.
type StorageConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	MaxLayouts    int           `toml:"max_layouts"`
	MaxAge        time.Duration `toml:"max_age"`
	AutoSave      bool          `toml:"auto_save"`
	Timeout       time.Duration `toml:"timeout"`
}

// CacheConfig configures the rendered floor plan cache. An empty dir uses
// DefaultCacheDir.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := room.DefaultDimensions()
	return &Config{
		Room:         RoomConfig{Width: d.Width, Depth: d.Depth, Height: d.Height, Margin: d.Margin},
		Grid:         scene.DefaultGrid(),
		RotationSnap: scene.DefaultRotationSnap(),
		SnapStrength: scene.DefaultSnapStrength(),
		AutoLock:     scene.AutoLockSettings{Enabled: true, Delay: scene.DefaultAutoLockDelay},
		History: HistoryConfig{
			MaxSize:         history.DefaultMaxSize,
			CaptureInterval: editor.FrameInterval,
		},
		Storage: StorageConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: layout.DefaultMongoDatabase,
			MaxLayouts:    layout.DefaultMaxLayouts,
			MaxAge:        layout.DefaultMaxAge,
			AutoSave:      true,
			Timeout:       10 * time.Second,
		},
		Cache:  CacheConfig{TTL: cache.DefaultTTL},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns the config file location using the XDG standard.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path. An empty path uses DefaultPath, and a
// missing default file yields the defaults. A missing explicit path is an
// error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !room.FromDimensions(c.Dimensions()).Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "room %gx%g with margin %g leaves no placeable area",
			c.Room.Width, c.Room.Depth, c.Room.Margin)
	}
	if c.Room.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "room height must be positive")
	}
	if c.Grid.Size <= 0 || c.Grid.Divisions <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid size and divisions must be positive")
	}
	if c.RotationSnap.Angle <= 0 || c.RotationSnap.Angle > 360 {
		return errors.New(errors.ErrCodeInvalidConfig, "rotation snap angle must be in (0, 360]")
	}
	if s := c.SnapStrength; s.Translation < 0 || s.Translation > 1 || s.Rotation < 0 || s.Rotation > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap strength must be in [0, 1]")
	}
	if c.AutoLock.Delay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "auto_lock delay cannot be negative")
	}
	if c.History.MaxSize < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "history max_size must be at least 1")
	}
	if c.History.CaptureInterval < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "history capture_interval cannot be negative")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.MaxLayouts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "storage max_layouts must be at least 1")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Catalog.Path != "" {
		if err := errors.ValidatePath(c.Catalog.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "catalog path")
		}
	}
	return nil
}

// Dimensions returns the room dimensions.
func (c *Config) Dimensions() room.Dimensions {
	return room.Dimensions{Width: c.Room.Width, Depth: c.Room.Depth, Height: c.Room.Height, Margin: c.Room.Margin}
}

// EditorSettings returns the snap and auto-lock settings an editor starts
// with.
func (c *Config) EditorSettings() editor.Settings {
	return editor.Settings{
		Grid:         c.Grid,
		RotationSnap: c.RotationSnap,
		SnapStrength: c.SnapStrength,
		AutoLock:     c.AutoLock,
	}
}

// EditorOptions returns the options that configure an editor store from c.
func (c *Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithDimensions(c.Dimensions()),
		editor.WithSettings(c.EditorSettings()),
		editor.WithMaxHistory(c.History.MaxSize),
		editor.WithScheduler(editor.NewFrameScheduler(c.History.CaptureInterval)),
	}
}

// Path returns the plan cache directory.
func (c CacheConfig) Path() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := DefaultCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate cache dir")
	}
	return filepath.Join(dir, "plans"), nil
}

// Open returns the plan cache, or a cache that stores nothing when
// caching is disabled.
func (c CacheConfig) Open() (cache.Cache, error) {
	if c.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.Path()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// OpenStore connects to the configured layout backend.
func (s StorageConfig) OpenStore(ctx context.Context) (layout.Store, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var (
		store layout.Store
		err   error
	)
	switch s.Backend {
	case BackendMemory:
		store = layout.NewMemoryStore()
	case BackendRedis:
		store, err = layout.NewRedisStore(ctx, layout.RedisConfig{Addr: s.RedisAddr, Password: s.RedisPassword, DB: s.RedisDB})
	case BackendMongo:
		store, err = layout.NewMongoStore(ctx, layout.MongoConfig{URI: s.MongoURI, Database: s.MongoDatabase})
	case BackendFile, "":
		store, err = layout.NewFileStore(s.Dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", s.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "open %s layout storage", s.Backend)
	}
	return store, nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
