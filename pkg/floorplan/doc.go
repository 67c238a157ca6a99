// Package floorplan renders a top-down plan of a furnished room.
//
// # Overview
//
// The plan is a Graphviz graph laid out by neato with every node pinned:
// the room outline is one dashed box, each placed item is a box sized by its
// scaled footprint and turned by its yaw, and overlapping items are joined
// by red edges so collisions stand out.
//
// # Usage
//
//	dot := floorplan.ToDOT(ed.Items(), ed.Room().Boundaries(), floorplan.Options{})
//	svg, err := floorplan.RenderSVG(ctx, dot)
//
// Coordinates map X to the page's horizontal axis and Z downwards, so the
// min-Z wall is drawn at the top. [Options.Scale] sets how many inches of
// page one metre of room takes.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No system Graphviz installation is needed.
package floorplan
