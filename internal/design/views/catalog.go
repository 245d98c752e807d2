package views

import "room-planner/internal/design/models"

// ============================================================
// Built-in furniture catalog
// ============================================================

// CatalogItem is an entry of the editor's furniture palette.
type CatalogItem struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      string               `json:"category"`
	Type          models.ElementType   `json:"type"`
	FurnitureType models.FurnitureType `json:"furnitureType,omitempty"`
	Width         float64              `json:"width"`
	Height        float64              `json:"height"`
	Color         string               `json:"color"`
}

// Input returns an element input placing the item at x, y.
func (c CatalogItem) Input(x, y float64) models.ElementInput {
	return models.ElementInput{
		Type:          c.Type,
		FurnitureType: c.FurnitureType,
		Name:          c.Name,
		X:             x,
		Y:             y,
		Width:         c.Width,
		Height:        c.Height,
		Color:         c.Color,
	}
}

var catalog = []CatalogItem{
	{"sofa-3", "Three-Seat Sofa", "living", models.TypeSofa, models.FurnitureSofa, 220, 90, "#8b7d6b"},
	{"armchair", "Armchair", "living", models.TypeChair, models.FurnitureChair, 80, 80, "#a0522d"},
	{"coffee-table", "Coffee Table", "living", models.TypeTable, models.FurnitureTable, 120, 60, "#deb887"},
	{"tv-stand", "TV", "living", models.TypeAppliance, models.FurnitureTV, 140, 40, "#2f2f2f"},
	{"bookshelf", "Bookshelf", "living", models.TypeStorage, models.FurnitureBookshelf, 100, 35, "#8b4513"},
	{"bed-double", "Double Bed", "bedroom", models.TypeBed, models.FurnitureBed, 160, 200, "#f5f5dc"},
	{"bed-single", "Single Bed", "bedroom", models.TypeBed, models.FurnitureBed, 90, 200, "#f5f5dc"},
	{"wardrobe", "Wardrobe", "bedroom", models.TypeStorage, models.FurnitureWardrobe, 180, 60, "#d2b48c"},
	{"fridge", "Refrigerator", "kitchen", models.TypeAppliance, models.FurnitureRefrigerator, 70, 70, "#e0e0e0"},
	{"stove", "Stove", "kitchen", models.TypeKitchen, models.FurnitureStove, 60, 60, "#c0c0c0"},
	{"kitchen-sink", "Kitchen Sink", "kitchen", models.TypeKitchen, models.FurnitureSink, 80, 60, "#b0c4de"},
	{"dining-table", "Dining Table", "kitchen", models.TypeTable, models.FurnitureTable, 160, 90, "#cd853f"},
	{"toilet", "Toilet", "bathroom", models.TypeBathroom, models.FurnitureToilet, 40, 70, "#ffffff"},
	{"bathtub", "Bathtub", "bathroom", models.TypeBathroom, models.FurnitureBathtub, 170, 75, "#ffffff"},
	{"bath-sink", "Washbasin", "bathroom", models.TypeBathroom, models.FurnitureSink, 60, 45, "#f0f8ff"},
	{"desk", "Desk", "office", models.TypeDesk, models.FurnitureDesk, 140, 70, "#a0522d"},
	{"office-chair", "Office Chair", "office", models.TypeChair, models.FurnitureChair, 60, 60, "#333333"},
	{"floor-lamp", "Floor Lamp", "decor", models.TypeLight, models.FurnitureLamp, 40, 40, "#ffd700"},
	{"plant", "Potted Plant", "decor", models.TypePlant, models.FurniturePlant, 45, 45, "#228b22"},
	{"rug", "Area Rug", "decor", models.TypeRug, models.FurnitureRug, 200, 140, "#bc8f8f"},
}

// Catalog returns a copy of the built-in palette.
func Catalog() []CatalogItem {
	out := make([]CatalogItem, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogItemByID looks up a palette entry.
func CatalogItemByID(id string) (CatalogItem, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return CatalogItem{}, false
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryCounts lists "all" followed by each category in order of first
// appearance.
func CategoryCounts(items []CatalogItem) []CategoryCount {
	out := []CategoryCount{{Name: "all", Count: len(items)}}
	index := make(map[string]int)
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategoryCount{Name: it.Category})
		}
		out[i].Count++
	}
	return out
}

// FilterCatalog keeps items of category ("" or "all" keeps everything).
func FilterCatalog(items []CatalogItem, category string) []CatalogItem {
	if category == "" || category == "all" {
		return items
	}
	var out []CatalogItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
