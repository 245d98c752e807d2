// Package render draws designs: a flat SVG for the 2D view and a box
// scene for the 3D view.
package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"room-planner/internal/design/models"
)

const (
	defaultCanvas = 1000.0
	canvasMargin  = 20.0
)

// ============================================================
// SVG Renderer
// ============================================================

type SVGOptions struct {
	Grid     bool
	GridSize float64
	// Selected is outlined when non-empty.
	Selected string
}

type Renderer struct {
	opts SVGOptions
}

func NewRenderer(opts SVGOptions) *Renderer {
	if opts.GridSize <= 0 {
		opts.GridSize = 50
	}
	return &Renderer{opts: opts}
}

// Render draws elements in slice order, so later elements paint over
// earlier ones. Each element is rotated about its centre.
func (r *Renderer) Render(d *models.Design) (string, error) {
	if d == nil {
		return "", fmt.Errorf("design is nil")
	}

	width, height := canvasSize(d)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", html.EscapeString(d.Name))
	fmt.Fprintf(&b, `  <rect id="background" x="0" y="0" width="%s" height="%s" fill="#ffffff" />`+"\n",
		formatFloat(width), formatFloat(height))

	if r.opts.Grid {
		r.writeGrid(&b, width, height)
	}

	for _, e := range d.Elements {
		b.WriteString("  ")
		b.WriteString(r.element(e))
		b.WriteString("\n")
	}

	b.WriteString(`</svg>`)
	return b.String(), nil
}

func (r *Renderer) element(e *models.Element) string {
	cx, cy := e.Center()
	fill, stroke := colors(e)

	var attrs strings.Builder
	fmt.Fprintf(&attrs, `id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"`,
		html.EscapeString(e.ID), formatFloat(e.X), formatFloat(e.Y),
		formatFloat(e.Width), formatFloat(e.Height), fill, stroke)
	if e.Opacity < 1 {
		fmt.Fprintf(&attrs, ` opacity="%s"`, formatFloat(e.Opacity))
	}
	if e.Rotation != 0 {
		fmt.Fprintf(&attrs, ` transform="rotate(%s %s %s)"`,
			formatFloat(e.Rotation), formatFloat(cx), formatFloat(cy))
	}
	if e.ID == r.opts.Selected {
		attrs.WriteString(` stroke-width="3" stroke-dasharray="6 3"`)
	}

	return fmt.Sprintf(`<rect %s data-type="%s"><title>%s</title></rect>`,
		attrs.String(), e.Type, html.EscapeString(e.Name))
}

func (r *Renderer) writeGrid(b *strings.Builder, width, height float64) {
	b.WriteString(`  <g id="grid" stroke="#eeeeee" stroke-width="1">` + "\n")
	for x := r.opts.GridSize; x < width; x += r.opts.GridSize {
		fmt.Fprintf(b, `    <line x1="%s" y1="0" x2="%s" y2="%s" />`+"\n",
			formatFloat(x), formatFloat(x), formatFloat(height))
	}
	for y := r.opts.GridSize; y < height; y += r.opts.GridSize {
		fmt.Fprintf(b, `    <line x1="0" y1="%s" x2="%s" y2="%s" />`+"\n",
			formatFloat(y), formatFloat(width), formatFloat(y))
	}
	b.WriteString("  </g>\n")
}

// ============================================================
// Sizing & styling
// ============================================================

// canvasSize prefers the room dimensions and falls back to the extent of
// all (rotated) elements plus a margin.
func canvasSize(d *models.Design) (float64, float64) {
	if d.Room != nil && d.Room.Width > 0 && d.Room.Length > 0 {
		return d.Room.Width, d.Room.Length
	}

	maxX, maxY := 0.0, 0.0
	for _, e := range d.Elements {
		for _, p := range corners(e) {
			maxX = math.Max(maxX, p[0])
			maxY = math.Max(maxY, p[1])
		}
	}
	if maxX <= 0 || maxY <= 0 {
		return defaultCanvas, defaultCanvas
	}
	return math.Ceil(maxX + canvasMargin), math.Ceil(maxY + canvasMargin)
}

func corners(e *models.Element) [4][2]float64 {
	cx, cy := e.Center()
	hw, hh := e.Width/2, e.Height/2
	rad := e.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	var out [4][2]float64
	for i, p := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		out[i] = [2]float64{cx + p[0]*cos - p[1]*sin, cy + p[0]*sin + p[1]*cos}
	}
	return out
}

func colors(e *models.Element) (fill, stroke string) {
	fill = e.Color
	switch e.Type {
	case models.TypeWall:
		if fill == "" {
			fill = "#555555"
		}
		return html.EscapeString(fill), "#000000"
	case models.TypeDoor:
		return "none", "#d62728"
	case models.TypeWindow:
		return "none", "#1f77b4"
	}
	if fill == "" {
		fill = "#cccccc"
	}
	return html.EscapeString(fill), "#333333"
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
