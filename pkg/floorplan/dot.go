package floorplan

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/room"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

// DefaultScale is the page size of one metre, in inches.
const DefaultScale = 0.6

// minExtent keeps zero-sized footprints visible.
const minExtent = 0.05

// Options configures floor plan generation.
type Options struct {
	// Scale is inches of page per metre of room. Zero uses DefaultScale.
	Scale float64
	// Detailed adds position and rotation to item labels.
	Detailed bool
	// Selected highlights the item with this id.
	Selected string
}

// ToDOT converts a scene to a pinned neato graph. A nil boundary draws the
// items without a room outline.
func ToDOT(items []scene.PlacedItem, b *room.Boundary, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph floorplan {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, style=filled, fillcolor=white, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	if b != nil && b.Valid() {
		c := b.Center()
		fmt.Fprintf(&buf, "  %q [label=\"\", pos=%q, width=%s, height=%s, style=dashed, color=grey40];\n",
			"__room", pos(c, scale), inches(b.Width(), scale), inches(b.Depth(), scale))
	}

	for _, it := range items {
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(fmtAttrs(it, opts, scale), ", "))
	}

	edges := collisions(items)
	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [color=red, penwidth=2];\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(it scene.PlacedItem, opts Options, scale float64) []string {
	fp := it.ScaledFootprint()
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(it, opts.Detailed)),
		fmt.Sprintf("pos=%q", pos(it.Position, scale)),
		"width=" + inches(max(fp.Width, minExtent), scale),
		"height=" + inches(max(fp.Depth, minExtent), scale),
	}
	if yaw := geom.RadToDeg(it.Rotation.NormalizedYaw().Y); yaw != 0 {
		attrs = append(attrs, "orientation="+strconv.FormatFloat(yaw, 'f', 1, 64))
	}

	switch {
	case it.ID == opts.Selected:
		attrs = append(attrs, "fillcolor=gold", "penwidth=2")
	case it.IsLocked:
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	case it.Placement.WallOnly:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func fmtLabel(it scene.PlacedItem, detailed bool) string {
	name := it.DisplayName()
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\n(%.2f, %.2f) %.0f°", name, it.Position.X, it.Position.Z,
		geom.RadToDeg(it.Rotation.NormalizedYaw().Y))
}

// pos formats a pinned neato position. Z grows down the page.
func pos(p geom.Vec3, scale float64) string {
	y := -p.Z
	if y == 0 {
		y = 0 // no "-0.000"
	}
	return fmt.Sprintf("%s,%s!", inches(p.X, scale), inches(y, scale))
}

func inches(metres, scale float64) string {
	return strconv.FormatFloat(metres*scale, 'f', 3, 64)
}

// collisions returns every overlapping pair, in item order.
func collisions(items []scene.PlacedItem) [][2]string {
	var out [][2]string
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if room.Overlaps(items[i], items[j]) {
				out = append(out, [2]string{items[i].ID, items[j].ID})
			}
		}
	}
	return out
}

// RenderSVG renders a DOT floor plan to SVG using the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
