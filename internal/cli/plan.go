package cli

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/floorplan"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

// planCommand creates the plan command for exporting floor plans.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output   string
		dotOnly  bool
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "plan [layout-id]",
		Short: "Render a saved layout as a top-down floor plan",
		Long: `Render a saved layout as a top-down floor plan.

The layout is restored into the room from the config file, so items are
shown where the editor would keep them. Overlapping items are joined by a
red line. Without a layout id the auto-save slot is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := layout.AutoSaveID
			if len(args) == 1 {
				id = args[0]
			}
			opts := floorplan.Options{Scale: scale, Detailed: detailed}
			return c.runPlan(cmd.Context(), id, output, dotOnly, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <layout name>.svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label items with position and rotation")
	cmd.Flags().Float64Var(&scale, "scale", floorplan.DefaultScale, "inches of page per metre of room")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, id, output string, dotOnly bool, opts floorplan.Options) error {
	var l *layout.Layout
	err := c.withLayouts(ctx, func(mgr *layout.Manager) error {
		var err error
		l, err = mgr.Load(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	dot := c.layoutDOT(l, opts)
	data := []byte(dot)
	ext := ".dot"
	if !dotOnly {
		data, err = c.renderSVG(ctx, dot)
		if err != nil {
			return err
		}
		ext = ".svg"
	}

	if output == "" {
		output = fileSlug(l.Metadata.Name) + ext
	}
	if err := errors.ValidatePath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Floor plan for %s", l.Metadata.Name)
	printFile(output)
	printStats(len(l.Data.Items), countLocked(l.Data.Items), countOverlapping(l.Data.Items))
	return nil
}

// layoutDOT restores l into a scratch editor and converts the result.
func (c *CLI) layoutDOT(l *layout.Layout, opts floorplan.Options) string {
	ed := c.newEditor(editor.WithScheduler(editor.NewManualScheduler()))
	defer ed.Close()
	ed.Restore(l.Data)
	return floorplan.ToDOT(ed.Items(), ed.Room().Boundaries(), opts)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// fileSlug turns a layout name into a file name stem.
func fileSlug(name string) string {
	s := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "floorplan"
	}
	return s
}
