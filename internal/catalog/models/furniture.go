package models

import (
	"fmt"
	"strings"

	design "room-planner/internal/design/models"
)

// ============================================================
// Furniture Model
// ============================================================

type Furniture struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Category      string  `json:"category" db:"category"`
	Description   string  `json:"description" db:"description"`
	FurnitureType string  `json:"furnitureType" db:"furniture_type"`
	Width         float64 `json:"width" db:"width"`
	Depth         float64 `json:"depth" db:"depth"`
	Height        float64 `json:"height" db:"height"`
	Price         float64 `json:"price" db:"price"`
	Rating        float64 `json:"rating" db:"rating"`
	Downloads     int64   `json:"downloads" db:"downloads"`
	Thumbnail     string  `json:"thumbnail" db:"thumbnail"`
	ModelURL      string  `json:"modelUrl" db:"model_url"`
	CreatedAt     string  `json:"createdAt" db:"created_at"`
	UpdatedAt     string  `json:"updatedAt" db:"updated_at"`
}

// Patch carries the fields of an update request; nil fields are kept.
type Patch struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	FurnitureType *string  `json:"furnitureType"`
	Width         *float64 `json:"width"`
	Depth         *float64 `json:"depth"`
	Height        *float64 `json:"height"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	Thumbnail     *string  `json:"thumbnail"`
	ModelURL      *string  `json:"modelUrl"`
}

func (p Patch) Apply(f Furniture) Furniture {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.Name, p.Name)
	set(&f.Category, p.Category)
	set(&f.Description, p.Description)
	set(&f.FurnitureType, p.FurnitureType)
	setF(&f.Width, p.Width)
	setF(&f.Depth, p.Depth)
	setF(&f.Height, p.Height)
	setF(&f.Price, p.Price)
	setF(&f.Rating, p.Rating)
	set(&f.Thumbnail, p.Thumbnail)
	set(&f.ModelURL, p.ModelURL)
	return f
}

func (f Furniture) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return design.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(f.Category) == "" {
		return design.NewValidationError("category", "category is required")
	}
	if _, err := design.ParseFurnitureType(f.FurnitureType); err != nil {
		return err
	}
	for field, v := range map[string]float64{"width": f.Width, "depth": f.Depth, "height": f.Height, "price": f.Price} {
		if v < 0 {
			return design.NewValidationError(field, fmt.Sprintf("must not be negative, got %v", v))
		}
	}
	if f.Rating < 0 || f.Rating > 5 {
		return design.NewValidationError("rating", "must be between 0 and 5")
	}
	return nil
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Category string
	Search   string
	Limit    int
}

type CategoryCount struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}
