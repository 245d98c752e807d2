package render

import (
	"fmt"

	"room-planner/internal/design/models"
)

const (
	WallHeight   = 250.0
	doorHeight   = 210.0
	windowSill   = 90.0
	windowHeight = 120.0
	blockHeight  = 75.0
)

// ============================================================
// 3D Scene
// ============================================================

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Object is one element placed in the scene. Position is the centre of
// the footprint on the floor; the plan's y axis maps to z.
type Object struct {
	ElementID     string               `json:"elementId"`
	Name          string               `json:"name"`
	Type          models.ElementType   `json:"type"`
	FurnitureType models.FurnitureType `json:"furnitureType,omitempty"`
	Position      Vec3                 `json:"position"`
	RotationY     float64              `json:"rotationY"`
	Size          Vec3                 `json:"size"`
	Opacity       float64              `json:"opacity"`
	Color         string               `json:"color,omitempty"`
	Parts         []Part               `json:"parts"`
}

type Scene struct {
	DesignID   string   `json:"designId"`
	Name       string   `json:"name"`
	Floor      Vec3     `json:"floor"`
	WallHeight float64  `json:"wallHeight"`
	Objects    []Object `json:"objects"`
}

// BuildScene lifts a design into 3D. Elements with a furniture type use
// the procedural fallback models; the rest become plain blocks sized by
// element type.
func BuildScene(d *models.Design) (*Scene, error) {
	if d == nil {
		return nil, fmt.Errorf("design is nil")
	}

	w, l := canvasSize(d)
	s := &Scene{
		DesignID:   d.ID,
		Name:       d.Name,
		Floor:      Vec3{X: w, Z: l},
		WallHeight: WallHeight,
		Objects:    make([]Object, 0, len(d.Elements)),
	}

	for _, e := range d.Elements {
		parts, err := partsFor(e)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", e.ID, err)
		}
		cx, cz := e.Center()
		s.Objects = append(s.Objects, Object{
			ElementID:     e.ID,
			Name:          e.Name,
			Type:          e.Type,
			FurnitureType: e.FurnitureType,
			Position:      Vec3{X: cx, Z: cz},
			RotationY:     e.Rotation,
			Size:          Vec3{X: e.Width, Y: top(parts), Z: e.Height},
			Opacity:       e.Opacity,
			Color:         e.Color,
			Parts:         parts,
		})
	}
	return s, nil
}

func partsFor(e *models.Element) ([]Part, error) {
	if e.FurnitureType != models.FurnitureNone {
		return Fallback(e.FurnitureType, e.Width, e.Height)
	}
	switch e.Type {
	case models.TypeWall:
		return []Part{{Name: "wall", W: e.Width, H: WallHeight, D: e.Height}}, nil
	case models.TypeDoor:
		return []Part{{Name: "door", W: e.Width, H: doorHeight, D: e.Height}}, nil
	case models.TypeWindow:
		return []Part{{Name: "window", Y: windowSill, W: e.Width, H: windowHeight, D: e.Height}}, nil
	case models.TypeRug:
		return []Part{{Name: "rug", W: e.Width, H: 1, D: e.Height}}, nil
	}
	return []Part{{Name: string(e.Type), W: e.Width, H: blockHeight, D: e.Height}}, nil
}

func top(parts []Part) float64 {
	h := 0.0
	for _, p := range parts {
		if p.Y+p.H > h {
			h = p.Y + p.H
		}
	}
	return h
}
