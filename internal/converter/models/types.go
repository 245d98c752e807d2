package models

import "math"

// ============================================================
// SVG Elements
// ============================================================

type Kind string

const (
	KindWall    Kind = "wall"
	KindDoor    Kind = "door"
	KindWindow  Kind = "window"
	KindRoom    Kind = "room"
	KindBalcony Kind = "balcony"
)

type SVGElement struct {
	ID       string
	Kind     Kind
	Geometry any // RectGeometry | PathGeometry
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned box. The zero value is empty.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	set                    bool
}

func (b Bounds) Empty() bool { return !b.set }

func (b *Bounds) Add(p Point) {
	if !b.set {
		b.MinX, b.MaxX, b.MinY, b.MaxY = p.X, p.X, p.Y, p.Y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Add(Point{o.MinX, o.MinY})
	b.Add(Point{o.MaxX, o.MaxY})
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func BoundsOf(points []Point) Bounds {
	var b Bounds
	for _, p := range points {
		b.Add(p)
	}
	return b
}
