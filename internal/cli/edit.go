package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

// editCommand creates the edit command for the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		name  string
		fresh bool
	)

	cmd := &cobra.Command{
		Use:   "edit [layout-id]",
		Short: "Edit a room interactively",
		Long: `Edit a room interactively.

Opens the terminal editor on a saved layout, or on the auto-save slot when
no id is given (use --new to start empty). Press ctrl+s to save: with --name
the session is saved as a named layout, otherwise to the auto-save slot.
When storage.auto_save is on, the session is also auto-saved on exit.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New(errors.ErrCodeUnsupported, "edit needs an interactive terminal")
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return c.runEdit(cmd.Context(), id, name, fresh)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "save as a named layout on ctrl+s")
	cmd.Flags().BoolVar(&fresh, "new", false, "start with an empty room instead of the auto-save")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, id, name string, fresh bool) error {
	logger := commandLogger(ctx, "edit")
	cat, err := c.catalog()
	if err != nil {
		return err
	}
	mgr, err := c.openLayouts(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()

	latch := &scrollLatch{}
	ed := c.newEditor(editor.WithScrollLocker(latch))
	defer ed.Close()

	if err := c.openSession(ctx, mgr, ed, id, fresh); err != nil {
		return err
	}

	model := NewEditorModel(ed, cat, latch)
	model.Save = func(snap editor.Snapshot) error {
		if name == "" {
			return mgr.AutoSave(ctx, snap)
		}
		_, err := mgr.Save(ctx, name, snap)
		return err
	}

	restoreLogs := c.holdLogs()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	restoreLogs()

	ed.Flush()
	if c.conf().Storage.AutoSave {
		if err := mgr.AutoSave(context.WithoutCancel(ctx), ed.Snapshot()); err != nil {
			logger.Warn("auto-save failed", "error", err)
		} else {
			logger.Debug("auto-saved", "items", ed.Len())
		}
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("editor: %w", runErr)
	}
	printSuccess("Editor closed with %d items", ed.Len())
	return nil
}

// openSession restores the requested layout into ed. Without an id the
// auto-save slot is used when present.
func (c *CLI) openSession(ctx context.Context, mgr *layout.Manager, ed *editor.Store, id string, fresh bool) error {
	if fresh {
		return nil
	}
	var (
		l   *layout.Layout
		err error
	)
	if id == "" {
		l, err = mgr.LoadAutoSave(ctx)
		if errors.Is(err, errors.ErrCodeLayoutNotFound) {
			return nil
		}
	} else {
		l, err = mgr.Load(ctx, id)
	}
	if err != nil {
		return err
	}
	ed.Restore(l.Data)
	ed.ClearHistory()
	commandLogger(ctx, "edit").Info("opened layout", "name", l.Metadata.Name, "items", ed.Len())
	return nil
}

// holdLogs buffers log output while the alternate screen is active. The
// returned function restores the writer and replays what was logged.
func (c *CLI) holdLogs() func() {
	var buf bytes.Buffer
	c.Logger.SetOutput(&buf)
	return func() {
		c.Logger.SetOutput(c.logOut)
		_, _ = c.logOut.Write(buf.Bytes())
	}
}
