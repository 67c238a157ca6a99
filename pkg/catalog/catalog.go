// Package catalog provides the furniture templates items are placed from.
//
// A [Catalog] is loaded from TOML, either the built-in set ([Default]) or a
// user file ([Load]). [Place] turns a template into a fresh
// [scene.PlacedItem] with a random UUID, the template's default transform and
// a metadata back-reference to the template id.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/roomeditor/pkg/errors"
	"github.com/matzehuels/roomeditor/pkg/geom"
	"github.com/matzehuels/roomeditor/pkg/scene"
)

//go:embed default.toml
var defaultTOML []byte

// Placement is the template's placement block. The wall and floor fields are
// copied onto placed items; CanRotate and CanScale are advisory.
type Placement struct {
	CanRotate   bool    `toml:"can_rotate" json:"can_rotate"`
	CanScale    bool    `toml:"can_scale" json:"can_scale"`
	FloorOffset float64 `toml:"floor_offset" json:"floor_offset,omitempty"`
	WallOnly    bool    `toml:"wall_only" json:"wall_only,omitempty"`
	WallHeight  float64 `toml:"wall_height" json:"wall_height,omitempty"`
}

// Template is an immutable furniture definition.
type Template struct {
	ID          string          `toml:"id" json:"id"`
	Name        string          `toml:"name" json:"name"`
	Category    string          `toml:"category" json:"category"`
	Subcategory string          `toml:"subcategory" json:"subcategory,omitempty"`
	ModelPath   string          `toml:"model_path" json:"model_path,omitempty"`
	Footprint   scene.Footprint `toml:"footprint" json:"footprint"`
	Placement   Placement       `toml:"placement" json:"placement"`
	// DefaultScale defaults to 1,1,1 when omitted.
	DefaultScale []float64 `toml:"default_scale" json:"default_scale,omitempty"`
	// DefaultRotation is pitch, yaw, roll in degrees.
	DefaultRotation []float64 `toml:"default_rotation" json:"default_rotation,omitempty"`
	Brand           string    `toml:"brand" json:"brand,omitempty"`
	Price           float64   `toml:"price" json:"price,omitempty"`
	Description     string    `toml:"description" json:"description,omitempty"`
	Tags            []string  `toml:"tags" json:"tags,omitempty"`
}

// Scale returns the default scale as a vector.
func (t Template) Scale() geom.Vec3 {
	if len(t.DefaultScale) != 3 {
		return geom.One
	}
	return geom.V3(t.DefaultScale[0], t.DefaultScale[1], t.DefaultScale[2])
}

// Rotation returns the default rotation in radians.
func (t Template) Rotation() geom.Euler {
	if len(t.DefaultRotation) != 3 {
		return geom.Euler{}
	}
	r := t.DefaultRotation
	return geom.E(geom.DegToRad(r[0]), geom.DegToRad(r[1]), geom.DegToRad(r[2]))
}

func (t Template) validate() error {
	if err := errors.ValidateID(t.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "template %q", t.ID)
	}
	if t.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: name is required", t.ID)
	}
	f := t.Footprint
	if f.Width <= 0 || f.Depth <= 0 || f.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: footprint must be positive", t.ID)
	}
	if n := len(t.DefaultScale); n != 0 && n != 3 {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: default_scale needs 3 values, got %d", t.ID, n)
	}
	if n := len(t.DefaultRotation); n != 0 && n != 3 {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: default_rotation needs 3 values, got %d", t.ID, n)
	}
	if t.Placement.WallOnly && t.Placement.WallHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: wall_only requires wall_height", t.ID)
	}
	return nil
}

type catalogFile struct {
	Version   string     `toml:"version"`
	Templates []Template `toml:"template"`
}

// Catalog is an indexed, read-only set of templates.
type Catalog struct {
	Version   string
	templates []Template
	byID      map[string]int
}

// Parse decodes a TOML catalog and validates every template.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse catalog")
	}
	c := &Catalog{Version: f.Version, byID: make(map[string]int, len(f.Templates))}
	for _, t := range f.Templates {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateID, "duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// Load reads a TOML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read catalog %s", path)
	}
	return Parse(data)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultTOML)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Lookup returns the template with the given id.
func (c *Catalog) Lookup(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeTemplateNotFound, "no template %q", id)
	}
	return c.templates[i], nil
}

// List returns templates in file order, filtered by category when category
// is non-empty.
func (c *Catalog) List(category string) []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// Place builds a new item from t at pos. The item gets a fresh UUID, the
// template's default scale and rotation, and the template's wall and floor
// placement rules. Wall-only items start at their wall height.
func Place(t Template, pos geom.Vec3) scene.PlacedItem {
	if t.Placement.WallOnly {
		pos.Y = t.Placement.WallHeight
	} else if pos.Y < t.Placement.FloorOffset {
		pos.Y = t.Placement.FloorOffset
	}
	return scene.PlacedItem{
		ID:        uuid.NewString(),
		Name:      t.Name,
		ModelPath: t.ModelPath,
		Position:  pos,
		Rotation:  t.Rotation(),
		Scale:     t.Scale(),
		Footprint: t.Footprint,
		Placement: scene.Placement{
			WallOnly:    t.Placement.WallOnly,
			WallHeight:  t.Placement.WallHeight,
			FloorOffset: t.Placement.FloorOffset,
		},
		Metadata: scene.Metadata{
			FurnitureID: t.ID,
			Category:    t.Category,
			Brand:       t.Brand,
			Price:       t.Price,
			Description: t.Description,
		},
	}
}
