// Package templates is the fixed, read-only catalog of starter designs.
package templates

import (
	"time"

	"room-planner/internal/design/models"
)

var catalogTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type layout struct {
	id, name, description, category string
	room                            models.Room
	elements                        []*models.Element
}

func el(id string, t models.ElementType, ft models.FurnitureType, name string, x, y, w, h float64, color string) *models.Element {
	return &models.Element{
		ID: id, Type: t, FurnitureType: ft, Name: name,
		X: x, Y: y, Width: w, Height: h, Opacity: 1, Color: color,
	}
}

func walls(prefix string, w, h float64) []*models.Element {
	const t = 10
	return []*models.Element{
		el(prefix+"-wall-n", models.TypeWall, "", "North Wall", 0, 0, w, t, "#555555"),
		el(prefix+"-wall-s", models.TypeWall, "", "South Wall", 0, h-t, w, t, "#555555"),
		el(prefix+"-wall-w", models.TypeWall, "", "West Wall", 0, 0, t, h, "#555555"),
		el(prefix+"-wall-e", models.TypeWall, "", "East Wall", w-t, 0, t, h, "#555555"),
	}
}

var layouts = []layout{
	{
		id: "living-room", name: "Living Room", category: "living",
		description: "Sofa, coffee table and TV wall",
		room:        models.Room{Width: 500, Length: 400, Unit: models.RoomUnitCM},
		elements: append(walls("lr", 500, 400),
			el("lr-door", models.TypeDoor, "", "Door", 220, 390, 90, 10, "#8b4513"),
			el("lr-window", models.TypeWindow, "", "Window", 180, 0, 140, 10, "#87ceeb"),
			el("lr-sofa", models.TypeSofa, models.FurnitureSofa, "Sofa", 140, 260, 220, 90, "#8b7d6b"),
			el("lr-table", models.TypeTable, models.FurnitureTable, "Coffee Table", 190, 170, 120, 60, "#deb887"),
			el("lr-tv", models.TypeAppliance, models.FurnitureTV, "TV", 180, 20, 140, 40, "#2f2f2f"),
			el("lr-plant", models.TypePlant, models.FurniturePlant, "Plant", 430, 30, 45, 45, "#228b22"),
		),
	},
	{
		id: "bedroom", name: "Bedroom", category: "bedroom",
		description: "Double bed with wardrobe and reading lamp",
		room:        models.Room{Width: 400, Length: 350, Unit: models.RoomUnitCM},
		elements: append(walls("br", 400, 350),
			el("br-door", models.TypeDoor, "", "Door", 30, 340, 80, 10, "#8b4513"),
			el("br-bed", models.TypeBed, models.FurnitureBed, "Double Bed", 120, 20, 160, 200, "#f5f5dc"),
			el("br-wardrobe", models.TypeStorage, models.FurnitureWardrobe, "Wardrobe", 210, 280, 180, 60, "#d2b48c"),
			el("br-lamp", models.TypeLight, models.FurnitureLamp, "Lamp", 290, 20, 40, 40, "#ffd700"),
			el("br-rug", models.TypeRug, models.FurnitureRug, "Rug", 100, 150, 200, 120, "#bc8f8f"),
		),
	},
	{
		id: "kitchen", name: "Kitchen", category: "kitchen",
		description: "Galley kitchen with dining table",
		room:        models.Room{Width: 450, Length: 300, Unit: models.RoomUnitCM},
		elements: append(walls("kt", 450, 300),
			el("kt-fridge", models.TypeAppliance, models.FurnitureRefrigerator, "Refrigerator", 20, 20, 70, 70, "#e0e0e0"),
			el("kt-stove", models.TypeKitchen, models.FurnitureStove, "Stove", 100, 20, 60, 60, "#c0c0c0"),
			el("kt-sink", models.TypeKitchen, models.FurnitureSink, "Sink", 170, 20, 80, 60, "#b0c4de"),
			el("kt-table", models.TypeTable, models.FurnitureTable, "Dining Table", 200, 170, 160, 90, "#cd853f"),
		),
	},
	{
		id: "home-office", name: "Home Office", category: "office",
		description: "Desk, chair and bookshelf",
		room:        models.Room{Width: 120, Length: 100, Unit: models.RoomUnitInch},
		elements: append(walls("of", 120, 100),
			el("of-desk", models.TypeDesk, models.FurnitureDesk, "Desk", 20, 10, 55, 28, "#a0522d"),
			el("of-chair", models.TypeChair, models.FurnitureChair, "Office Chair", 35, 42, 24, 24, "#333333"),
			el("of-shelf", models.TypeStorage, models.FurnitureBookshelf, "Bookshelf", 85, 10, 25, 14, "#8b4513"),
			el("of-light", models.TypeLight, models.FurnitureLamp, "Floor Lamp", 95, 75, 16, 16, "#ffd700"),
		),
	},
}

func (s layout) design() *models.Design {
	room := s.room
	d := &models.Design{
		ID:          "template-" + s.id,
		Name:        s.name,
		Description: s.description,
		Category:    s.category,
		IsTemplate:  true,
		Room:        &room,
		Elements:    make([]*models.Element, len(s.elements)),
		CreatedAt:   catalogTime,
		UpdatedAt:   catalogTime,
	}
	for i, e := range s.elements {
		d.Elements[i] = e.Clone()
	}
	return d
}

// All returns fresh copies of every template.
func All() []*models.Design {
	out := make([]*models.Design, len(layouts))
	for i, s := range layouts {
		out[i] = s.design()
	}
	return out
}

// Get returns a copy of the template with id ("template-..." or the short
// form).
func Get(id string) (*models.Design, error) {
	for _, s := range layouts {
		if id == s.id || id == "template-"+s.id {
			return s.design(), nil
		}
	}
	return nil, models.ErrTemplateNotFound
}
