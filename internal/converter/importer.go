// Package converter turns SVG floor plans into editable designs.
package converter

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	cmodels "room-planner/internal/converter/models"
	"room-planner/internal/converter/parser"
	"room-planner/internal/design/models"
)

const (
	defaultWallThickness = 10.0
	minOpeningSize       = 1.0
)

// Options tunes an import. Zero values use the defaults.
type Options struct {
	Name          string
	WallThickness float64
	Now           time.Time
}

// Result is an imported design plus what could not be used.
type Result struct {
	Design  *models.Design `json:"design"`
	Walls   int            `json:"walls"`
	Doors   int            `json:"doors"`
	Windows int            `json:"windows"`
	Rooms   int            `json:"rooms"`
	Skipped []string       `json:"skipped"`
}

// ============================================================
// Import
// ============================================================

// Import parses an SVG plan and builds a new design from it. Coordinates
// are shifted so the plan starts at the origin; the room size is the
// extent of all room shapes, or of everything when there are none.
func Import(r io.Reader, opts Options) (*Result, error) {
	svgElements, err := parser.ParseSVG(r)
	if err != nil {
		return nil, err
	}
	if len(svgElements) == 0 {
		return nil, models.NewValidationError("svg", "no walls, doors, windows or rooms found")
	}

	if opts.Name == "" {
		opts.Name = "Imported Plan"
	}
	if opts.WallThickness <= 0 {
		opts.WallThickness = defaultWallThickness
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	d, err := models.NewDesign(opts.Name, opts.Now)
	if err != nil {
		return nil, err
	}
	d.Category = "imported"

	res := &Result{Design: d, Skipped: []string{}}
	var all, rooms cmodels.Bounds
	var inputs []models.ElementInput

	for _, el := range svgElements {
		boxes, err := shapes(el, opts.WallThickness)
		if err != nil {
			log.Printf("[CONVERTER] skip %s: %v", el.ID, err)
			res.Skipped = append(res.Skipped, el.ID)
			continue
		}
		for _, b := range boxes {
			all.Union(b)
		}

		switch el.Kind {
		case cmodels.KindRoom:
			res.Rooms++
			for _, b := range boxes {
				rooms.Union(b)
			}
		case cmodels.KindWall:
			res.Walls++
			for i, b := range boxes {
				inputs = append(inputs, input(models.TypeWall, segmentName("Wall", el.ID, i, len(boxes)), b, "#555555"))
			}
		case cmodels.KindDoor:
			res.Doors++
			inputs = append(inputs, input(models.TypeDoor, label("Door", el.ID), union(boxes), "#8b4513"))
		case cmodels.KindWindow:
			res.Windows++
			inputs = append(inputs, input(models.TypeWindow, label("Window", el.ID), union(boxes), "#87ceeb"))
		case cmodels.KindBalcony:
			inputs = append(inputs, input(models.TypeDecor, label("Balcony", el.ID), union(boxes), "#c8e6c9"))
		}
	}

	if all.Empty() {
		return nil, models.NewValidationError("svg", "no usable geometry")
	}
	extent := rooms
	if extent.Empty() {
		extent = all
	}
	if extent.Width() > 0 && extent.Height() > 0 {
		d.Room = &models.Room{Width: round(extent.Width()), Length: round(extent.Height()), Unit: models.RoomUnitCM}
	}

	for _, in := range inputs {
		in.X = round(in.X - all.MinX)
		in.Y = round(in.Y - all.MinY)
		e, err := models.NewElement(in)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", in.Name, err)
		}
		d.Elements = append(d.Elements, e)
	}

	log.Printf("[CONVERTER] imported %q: %d walls, %d doors, %d windows, %d rooms, %d skipped",
		d.Name, res.Walls, res.Doors, res.Windows, res.Rooms, len(res.Skipped))
	return res, nil
}

// ============================================================
// Geometry
// ============================================================

// shapes reduces an element to axis-aligned boxes. Rects map to
// themselves; wall paths become one box per segment with the given
// thickness; other paths become their bounding box.
func shapes(el cmodels.SVGElement, thickness float64) ([]cmodels.Bounds, error) {
	switch g := el.Geometry.(type) {
	case cmodels.RectGeometry:
		return []cmodels.Bounds{cmodels.BoundsOf([]cmodels.Point{
			{X: g.X, Y: g.Y}, {X: g.X + g.Width, Y: g.Y + g.Height},
		})}, nil
	case cmodels.PathGeometry:
		subpaths, err := parser.ParseSubpaths(g.D)
		if err != nil {
			return nil, err
		}
		if el.Kind != cmodels.KindWall {
			var points []cmodels.Point
			for _, sp := range subpaths {
				points = append(points, sp...)
			}
			if len(points) < 2 {
				return nil, fmt.Errorf("path has %d points", len(points))
			}
			b := cmodels.BoundsOf(points)
			if b.Width() < minOpeningSize && b.Height() < minOpeningSize {
				return nil, fmt.Errorf("degenerate shape")
			}
			return []cmodels.Bounds{b}, nil
		}
		var out []cmodels.Bounds
		for _, points := range subpaths {
			for i := 1; i < len(points); i++ {
				if seg, ok := segmentBox(points[i-1], points[i], thickness); ok {
					out = append(out, seg)
				}
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("wall path has no length")
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported geometry %T", el.Geometry)
}

// segmentBox widens a segment along its dominant axis.
func segmentBox(a, b cmodels.Point, thickness float64) (cmodels.Bounds, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Hypot(dx, dy) < minOpeningSize {
		return cmodels.Bounds{}, false
	}
	half := thickness / 2
	if math.Abs(dx) >= math.Abs(dy) {
		y := (a.Y + b.Y) / 2
		return cmodels.BoundsOf([]cmodels.Point{
			{X: math.Min(a.X, b.X), Y: y - half}, {X: math.Max(a.X, b.X), Y: y + half},
		}), true
	}
	x := (a.X + b.X) / 2
	return cmodels.BoundsOf([]cmodels.Point{
		{X: x - half, Y: math.Min(a.Y, b.Y)}, {X: x + half, Y: math.Max(a.Y, b.Y)},
	}), true
}

func union(boxes []cmodels.Bounds) cmodels.Bounds {
	var b cmodels.Bounds
	for _, x := range boxes {
		b.Union(x)
	}
	return b
}

func input(t models.ElementType, name string, b cmodels.Bounds, color string) models.ElementInput {
	return models.ElementInput{
		Type:   t,
		Name:   name,
		X:      b.MinX,
		Y:      b.MinY,
		Width:  round(math.Max(b.Width(), minOpeningSize)),
		Height: round(math.Max(b.Height(), minOpeningSize)),
		Color:  color,
	}
}

// label turns "Door_3" into "Door 3".
func label(fallback, id string) string {
	if i := strings.LastIndex(id, "_"); i >= 0 && i+1 < len(id) {
		return fallback + " " + id[i+1:]
	}
	return fallback
}

func segmentName(prefix, id string, i, n int) string {
	name := label(prefix, id)
	if n > 1 {
		name = fmt.Sprintf("%s.%d", name, i+1)
	}
	return name
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
