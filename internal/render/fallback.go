package render

import (
	"fmt"

	"room-planner/internal/design/models"
)

// ============================================================
// Procedural furniture geometry
// ============================================================

// Part is one box of a fallback model. Offsets are measured from the
// footprint's min corner; Y is up. All values in scene units.
type Part struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	D     float64 `json:"d"`
	Color string  `json:"color,omitempty"`
}

// Fallback builds box geometry for a furniture type inside a w x d
// footprint. Every furniture type has a case; anything else, including
// FurnitureNone, is an error.
func Fallback(ft models.FurnitureType, w, d float64) ([]Part, error) {
	if w <= 0 || d <= 0 {
		return nil, fmt.Errorf("footprint must be positive, got %vx%v", w, d)
	}

	switch ft {
	case models.FurnitureSofa:
		arm := w * 0.1
		return []Part{
			{Name: "seat", W: w, H: 45, D: d},
			{Name: "back", Y: 45, W: w, H: 40, D: d * 0.25},
			{Name: "arm-left", Y: 45, W: arm, H: 20, D: d},
			{Name: "arm-right", X: w - arm, Y: 45, W: arm, H: 20, D: d},
		}, nil
	case models.FurnitureChair:
		return append(legs(w, d, 45, 4),
			Part{Name: "seat", Y: 45, W: w, H: 5, D: d},
			Part{Name: "back", Y: 50, W: w, H: 45, D: d * 0.1},
		), nil
	case models.FurnitureTable:
		return append(legs(w, d, 72, 6), Part{Name: "top", Y: 72, W: w, H: 4, D: d}), nil
	case models.FurnitureDesk:
		return append(legs(w, d, 71, 5),
			Part{Name: "top", Y: 71, W: w, H: 4, D: d},
			Part{Name: "drawers", X: w * 0.7, W: w * 0.3, H: 71, D: d * 0.9},
		), nil
	case models.FurnitureBed:
		return []Part{
			{Name: "frame", W: w, H: 30, D: d},
			{Name: "mattress", Y: 30, W: w, H: 20, D: d * 0.95, Z: d * 0.05, Color: "#ffffff"},
			{Name: "headboard", W: w, H: 100, D: d * 0.05},
		}, nil
	case models.FurnitureWardrobe:
		return []Part{
			{Name: "body", W: w, H: 200, D: d},
			{Name: "door-split", X: w/2 - 0.5, W: 1, H: 200, D: 1, Color: "#000000"},
		}, nil
	case models.FurnitureBookshelf:
		parts := []Part{{Name: "body", W: w, H: 180, D: d}}
		for i := 1; i <= 4; i++ {
			parts = append(parts, Part{Name: fmt.Sprintf("shelf-%d", i), Y: float64(i) * 36, W: w, H: 2, D: d})
		}
		return parts, nil
	case models.FurnitureLamp:
		return []Part{
			{Name: "base", W: w, H: 3, D: d},
			{Name: "pole", X: w/2 - 1.5, Z: d/2 - 1.5, Y: 3, W: 3, H: 140, D: 3},
			{Name: "shade", Y: 143, W: w, H: 25, D: d, Color: "#fff8dc"},
		}, nil
	case models.FurniturePlant:
		return []Part{
			{Name: "pot", X: w * 0.2, Z: d * 0.2, W: w * 0.6, H: 30, D: d * 0.6, Color: "#8b4513"},
			{Name: "foliage", Y: 30, W: w, H: 60, D: d},
		}, nil
	case models.FurnitureTV:
		return []Part{
			{Name: "stand", W: w, H: 50, D: d},
			{Name: "screen", X: w * 0.05, Y: 50, Z: d * 0.4, W: w * 0.9, H: w * 0.5, D: 4, Color: "#111111"},
		}, nil
	case models.FurnitureRefrigerator:
		return []Part{{Name: "body", W: w, H: 180, D: d}}, nil
	case models.FurnitureStove:
		return []Part{
			{Name: "body", W: w, H: 85, D: d},
			{Name: "hob", Y: 85, W: w, H: 2, D: d, Color: "#222222"},
		}, nil
	case models.FurnitureSink:
		return []Part{
			{Name: "cabinet", W: w, H: 85, D: d},
			{Name: "basin", X: w * 0.15, Y: 70, Z: d * 0.15, W: w * 0.7, H: 15, D: d * 0.7, Color: "#dcdcdc"},
		}, nil
	case models.FurnitureToilet:
		return []Part{
			{Name: "bowl", Z: d * 0.3, W: w, H: 40, D: d * 0.7},
			{Name: "tank", W: w, H: 80, D: d * 0.3},
		}, nil
	case models.FurnitureBathtub:
		return []Part{
			{Name: "tub", W: w, H: 55, D: d},
			{Name: "inner", X: 5, Y: 10, Z: 5, W: w - 10, H: 45, D: d - 10, Color: "#e0ffff"},
		}, nil
	case models.FurnitureRug:
		return []Part{{Name: "rug", W: w, H: 1, D: d}}, nil
	case models.FurnitureNone:
		return nil, fmt.Errorf("no furniture type set")
	}
	return nil, fmt.Errorf("unknown furniture type %q", ft)
}

// legs places four square legs of the given height inside the corners.
func legs(w, d, h, size float64) []Part {
	return []Part{
		{Name: "leg-1", W: size, H: h, D: size},
		{Name: "leg-2", X: w - size, W: size, H: h, D: size},
		{Name: "leg-3", Z: d - size, W: size, H: h, D: size},
		{Name: "leg-4", X: w - size, Z: d - size, W: size, H: h, D: size},
	}
}
