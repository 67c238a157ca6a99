package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/internal/config"
	"github.com/matzehuels/roomeditor/pkg/buildinfo"
	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "roomeditor"

	// connectTimeout bounds how long a command waits for a storage backend.
	connectTimeout = 10 * time.Second

	// annotationNoConfig marks commands that run before a config file exists.
	annotationNoConfig = "roomeditor/no-config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	logOut     io.Writer
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Roomeditor furnishes 3D rooms from the terminal",
		Long:          `Roomeditor places furniture into a bounded room, keeps every item inside the walls, snaps it to a grid and lets you undo any change. Layouts are saved locally or to Redis/MongoDB and can be exported as floor plans.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if cmd.Annotations[annotationNoConfig] != "" {
				return nil
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/roomeditor/config.toml)")

	// Register all subcommands
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Resources
// =============================================================================

func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// conf returns the loaded configuration, falling back to the defaults when
// a command runs without the root pre-run (as in tests).
func (c *CLI) conf() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// catalog loads the configured furniture catalog.
func (c *CLI) catalog() (*catalog.Catalog, error) {
	if path := c.conf().Catalog.Path; path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

// newEditor creates an editor session configured from the config file.
func (c *CLI) newEditor(extra ...editor.Option) *editor.Store {
	opts := append(c.conf().EditorOptions(), editor.WithLogger(c.Logger))
	return editor.New(append(opts, extra...)...)
}

// openLayouts connects to the configured layout storage. Slow backends get a
// spinner on stderr.
func (c *CLI) openLayouts(ctx context.Context) (*layout.Manager, error) {
	storage := c.conf().Storage
	if storage.Timeout <= 0 {
		storage.Timeout = connectTimeout
	}

	var spinner *Spinner
	if storage.Backend == config.BackendRedis || storage.Backend == config.BackendMongo {
		spinner = newSpinnerWithContext(ctx, "Connecting to "+storage.Backend+"...")
		spinner.Start()
	}
	store, err := storage.OpenStore(ctx)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("layout storage ready", "backend", store.Name())

	return layout.NewManager(store,
		layout.WithMaxLayouts(storage.MaxLayouts),
		layout.WithLogger(c.Logger),
	), nil
}

// =============================================================================
// Terminal
// =============================================================================

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
