package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/layout"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// layoutCommand creates the layout command for managing saved layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage saved layouts",
		Long: `Manage saved layouts.

Layouts are stored in the backend selected by storage.backend in the config
file: a local directory (file), Redis or MongoDB. The auto-save slot written
by 'edit' and 'serve' is shown as "autosave".`,
	}

	cmd.AddCommand(c.layoutListCommand())
	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutImportCommand())
	cmd.AddCommand(c.layoutDeleteCommand())
	cmd.AddCommand(c.layoutCleanupCommand())

	return cmd
}

// withLayouts opens the layout manager, runs fn and closes the manager.
func (c *CLI) withLayouts(ctx context.Context, fn func(*layout.Manager) error) error {
	mgr, err := c.openLayouts(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := mgr.Close(); cerr != nil {
			loggerFromContext(ctx).Warn("close layout storage", "error", cerr)
		}
	}()
	return fn(mgr)
}

func (c *CLI) layoutListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				metas, err := mgr.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, metas)
				}
				if len(metas) == 0 {
					printInfo("No saved layouts")
					printNextStep("Create one", "roomeditor place <template> --save <name>")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Items", "Saved", "Tags"},
					layoutRows(metas, time.Now()),
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print layout metadata as JSON")
	return cmd
}

// layoutRows formats layout metadata for the list table.
func layoutRows(metas []layout.Metadata, now time.Time) [][]string {
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, []string{
			m.ID,
			m.Name,
			fmt.Sprintf("%d", m.ItemCount),
			formatRelativeTime(m.CreatedAt, now),
			strings.Join(m.Tags, ", "),
		})
	}
	return rows
}

func (c *CLI) layoutShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "show <layout-id>",
		Short:             "Show a saved layout and its items",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				l, err := mgr.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				m := l.Metadata
				fmt.Println(StyleTitle.Render(m.Name))
				printKeyValue("ID", m.ID)
				printKeyValue("Saved", m.CreatedAt.Local().Format(time.DateTime))
				if m.Description != "" {
					printKeyValue("Description", m.Description)
				}
				if len(m.Tags) > 0 {
					printKeyValue("Tags", strings.Join(m.Tags, ", "))
				}
				printKeyValue("Grid", gridSummary(l.Data.Grid))
				if len(l.Data.Items) == 0 {
					return nil
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Position", "Yaw", "Size", ""},
					itemRows(l.Data.Items),
				))
				printStats(len(l.Data.Items), countLocked(l.Data.Items), countOverlapping(l.Data.Items))
				return nil
			})
		},
	}
	return cmd
}

// itemRows formats placed items for a table.
func itemRows(items []scene.PlacedItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		flag := ""
		if it.IsLocked {
			flag = styleLocked.Render(iconLocked)
		}
		rows = append(rows, []string{
			shortID(it.ID),
			it.DisplayName(),
			formatPosition(it),
			formatYaw(it),
			formatFootprint(it.ScaledFootprint()),
			flag,
		})
	}
	return rows
}

func gridSummary(g scene.GridSettings) string {
	if !g.Enabled {
		return "off"
	}
	return fmt.Sprintf("%s cells (%s / %d)", formatMetres(g.CellSize()), formatMetres(g.Size), g.Divisions)
}

func countLocked(items []scene.PlacedItem) int {
	n := 0
	for _, it := range items {
		if it.IsLocked {
			n++
		}
	}
	return n
}

// countOverlapping returns how many items overlap at least one other item.
func countOverlapping(items []scene.PlacedItem) int {
	n := 0
	for _, it := range items {
		if len(room.Collisions(it, items)) > 0 {
			n++
		}
	}
	return n
}

// shortID trims uuid-style ids for tables.
func shortID(id string) string {
	if len(id) > 8 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}

func (c *CLI) layoutExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "export <layout-id>",
		Short:             "Export a saved layout as JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				l, err := mgr.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return writeJSON(cmd, l)
				}
				if err := errors.ValidatePath(output); err != nil {
					return err
				}
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
				}
				defer f.Close()
				if err := layout.Encode(f, l); err != nil {
					return err
				}
				printSuccess("Exported %s", l.Metadata.Name)
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) layoutImportCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <layout.json>",
		Short: "Import a layout exported with 'layout export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", args[0])
			}
			defer f.Close()
			l, err := layout.Decode(f)
			if err != nil {
				return err
			}
			if name == "" {
				name = l.Metadata.Name
			}

			// Re-apply the room constraints of this installation before saving.
			ed := c.newEditor()
			defer ed.Close()
			restored := ed.Restore(l.Data)
			if skipped := len(l.Data.Items) - restored; skipped > 0 {
				printWarning("Skipped %d invalid items", skipped)
			}

			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				meta, err := mgr.Save(cmd.Context(), name, ed.Snapshot(),
					layout.WithDescription(l.Metadata.Description),
					layout.WithTags(l.Metadata.Tags...),
				)
				if err != nil {
					return err
				}
				printSuccess("Imported %s", meta.Name)
				printKeyValue("ID", meta.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "layout name (default: the exported name)")
	return cmd
}

func (c *CLI) layoutDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <layout-id>...",
		Aliases:           []string{"rm"},
		Short:             "Delete saved layouts",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				missing := 0
				for _, id := range args {
					if err := mgr.Delete(cmd.Context(), id); err != nil {
						if !errors.IsNotFound(err) {
							return err
						}
						printError("%s", errors.UserMessage(err))
						missing++
						continue
					}
					printSuccess("Deleted %s", id)
				}
				if missing > 0 {
					return errors.New(errors.ErrCodeLayoutNotFound, "%d of %d layouts not found", missing, len(args))
				}
				return nil
			})
		},
	}
}

func (c *CLI) layoutCleanupCommand() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete layouts older than --max-age",
		Long: `Delete layouts older than --max-age.

The auto-save slot is never removed. Without --max-age the storage.max_age
setting (default 30 days) is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-age") {
				maxAge = c.conf().Storage.MaxAge
			}
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				removed, err := mgr.Cleanup(cmd.Context(), maxAge)
				if err != nil {
					return err
				}
				if removed == 0 {
					printInfo("Nothing to clean up")
					return nil
				}
				printSuccess("Removed %d layouts", removed)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", layout.DefaultMaxAge, "remove layouts older than this")
	return cmd
}
