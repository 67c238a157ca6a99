package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/layout"
	"github.com/matzehuels/roomeditor/pkg/room"
)

// placement is one parsed "template@x,z,yaw" argument.
type placement struct {
	TemplateID  string
	Position    geom.Vec3
	HasPosition bool
	// Yaw is in degrees; HasYaw is false when the template default applies.
	Yaw    float64
	HasYaw bool
}

// parsePlacement parses "<template>[@x,z[,yaw]]". Without a position the
// item is placed at the room centre.
func parsePlacement(arg string) (placement, error) {
	id, coords, hasCoords := strings.Cut(arg, "@")
	p := placement{TemplateID: strings.TrimSpace(id)}
	if err := errors.ValidateID(p.TemplateID); err != nil {
		return placement{}, err
	}
	if !hasCoords {
		return p, nil
	}

	parts := strings.Split(coords, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return placement{}, errors.New(errors.ErrCodeInvalidInput, "placement %q: want <template>@x,z[,yaw]", arg)
	}
	values := make([]float64, len(parts))
	for i, s := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return placement{}, errors.New(errors.ErrCodeInvalidInput, "placement %q: %q is not a number", arg, s)
		}
		values[i] = v
	}
	p.Position, p.HasPosition = geom.V3(values[0], 0, values[1]), true
	if len(values) == 3 {
		p.Yaw, p.HasYaw = values[2], true
	}
	return p, nil
}

// placeCommand creates the place command for furnishing a room from the
// command line.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		save        string
		description string
		tags        []string
		lock        bool
	)

	cmd := &cobra.Command{
		Use:   "place <template[@x,z[,yaw]]>...",
		Short: "Place catalog items into a room",
		Long: `Place catalog items into a room.

Each argument names a catalog template, optionally followed by a floor
position in metres and a yaw in degrees. Items are snapped to the grid and
kept inside the room configured in the config file; wall items are moved to
the nearest wall. Without --save the result is only printed.`,
		Example: `  roomeditor place sofa-001@0,-1.5 coffee-table-001@0,0 clock
  roomeditor place bed-001@0,-2,180 --save "Bedroom" --tag draft`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeTemplateIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			placements := make([]placement, 0, len(args))
			for _, arg := range args {
				p, err := parsePlacement(arg)
				if err != nil {
					return err
				}
				placements = append(placements, p)
			}

			ed, err := c.placeAll(placements, lock)
			if err != nil {
				return err
			}
			defer ed.Close()

			items := ed.Items()
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Position", "Yaw", "Size", ""},
				itemRows(items),
			))
			printStats(len(items), countLocked(items), countOverlapping(items))
			for _, it := range items {
				if hits := room.Collisions(it, items); len(hits) > 0 {
					printWarning("%s overlaps %s", it.DisplayName(), strings.Join(shortIDs(hits), ", "))
				}
			}

			if save == "" {
				printNextStep("Save it", "roomeditor place "+strings.Join(args, " ")+" --save <name>")
				return nil
			}
			return c.withLayouts(cmd.Context(), func(mgr *layout.Manager) error {
				prog := newProgress(commandLogger(cmd.Context(), "place"))
				meta, err := mgr.Save(cmd.Context(), save, ed.Snapshot(),
					layout.WithDescription(description),
					layout.WithTags(tags...),
				)
				if err != nil {
					return err
				}
				prog.done("Saved layout", "items", meta.ItemCount)
				printSuccess("Saved %s", meta.Name)
				printKeyValue("ID", meta.ID)
				printNextStep("Floor plan", "roomeditor plan "+meta.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "save the result as a layout with this name")
	cmd.Flags().StringVar(&description, "description", "", "layout description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "layout tag (repeatable)")
	cmd.Flags().BoolVar(&lock, "lock", false, "lock the placed items")

	return cmd
}

// placeAll places every template into a fresh editor session. Each
// placement is flushed so it becomes its own undo step.
func (c *CLI) placeAll(placements []placement, lock bool) (*editor.Store, error) {
	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}
	ed := c.newEditor(editor.WithScheduler(editor.NewManualScheduler()))
	center := geom.Vec3{}
	if b := ed.Room().Boundaries(); b != nil {
		center = b.Center()
	}

	for _, p := range placements {
		t, err := cat.Lookup(p.TemplateID)
		if err != nil {
			ed.Close()
			return nil, err
		}
		pos := center
		if p.HasPosition {
			pos = p.Position
		}
		item, ok := ed.PlaceFromCatalog(t, pos)
		if !ok {
			ed.Close()
			return nil, errors.New(errors.ErrCodeInvalidInput, "place %s: rejected by the editor", p.TemplateID)
		}
		if p.HasYaw {
			rot := item.Rotation
			rot.Y = p.Yaw * math.Pi / 180
			ed.UpdateItem(item.ID, editor.RotateTo(rot))
		}
		if lock {
			ed.LockItem(item.ID)
		}
		ed.Flush()
	}
	return ed, nil
}

func shortIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = shortID(id)
	}
	return out
}
