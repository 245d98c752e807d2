package models

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// ============================================================
// Element
// ============================================================

type Element struct {
	ID            string        `json:"id"`
	Type          ElementType   `json:"type"`
	FurnitureType FurnitureType `json:"furnitureType,omitempty"`
	Name          string        `json:"name"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Rotation      float64       `json:"rotation"`
	Opacity       float64       `json:"opacity"`
	Color         string        `json:"color"`
	Locked        bool          `json:"locked"`
}

// ElementInput is what a caller supplies to create an element. ID may be
// left empty to get a generated one; Opacity nil means fully opaque.
type ElementInput struct {
	ID            string        `json:"id,omitempty"`
	Type          ElementType   `json:"type"`
	FurnitureType FurnitureType `json:"furnitureType,omitempty"`
	Name          string        `json:"name"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Rotation      float64       `json:"rotation"`
	Opacity       *float64      `json:"opacity,omitempty"`
	Color         string        `json:"color"`
	Locked        bool          `json:"locked"`
}

// ElementUpdate carries a partial update; nil fields are left untouched.
type ElementUpdate struct {
	Type          *ElementType   `json:"type,omitempty"`
	FurnitureType *FurnitureType `json:"furnitureType,omitempty"`
	Name          *string        `json:"name,omitempty"`
	X             *float64       `json:"x,omitempty"`
	Y             *float64       `json:"y,omitempty"`
	Width         *float64       `json:"width,omitempty"`
	Height        *float64       `json:"height,omitempty"`
	Rotation      *float64       `json:"rotation,omitempty"`
	Opacity       *float64       `json:"opacity,omitempty"`
	Color         *string        `json:"color,omitempty"`
	Locked        *bool          `json:"locked,omitempty"`
}

// NewElement validates input and builds an element with defaults applied.
func NewElement(in ElementInput) (*Element, error) {
	opacity := 1.0
	if in.Opacity != nil {
		opacity = *in.Opacity
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	e := &Element{
		ID:            id,
		Type:          in.Type,
		FurnitureType: in.FurnitureType,
		Name:          in.Name,
		X:             in.X,
		Y:             in.Y,
		Width:         in.Width,
		Height:        in.Height,
		Rotation:      NormalizeRotation(in.Rotation),
		Opacity:       opacity,
		Color:         in.Color,
		Locked:        in.Locked,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Element) Validate() error {
	if _, err := ParseElementType(string(e.Type)); err != nil {
		return err
	}
	if _, err := ParseFurnitureType(string(e.FurnitureType)); err != nil {
		return err
	}
	if !isFinite(e.X) || !isFinite(e.Y) {
		return NewValidationError("position", "x and y must be finite numbers")
	}
	if !(e.Width > 0) || math.IsInf(e.Width, 0) {
		return NewValidationError("width", "must be greater than 0")
	}
	if !(e.Height > 0) || math.IsInf(e.Height, 0) {
		return NewValidationError("height", "must be greater than 0")
	}
	if !(e.Opacity >= 0 && e.Opacity <= 1) {
		return NewValidationError("opacity", "must be between 0 and 1")
	}
	return nil
}

// Apply merges u into a copy of e and returns the merged element.
// e itself is not modified, so a failed validation leaves it intact.
func (e *Element) Apply(u ElementUpdate) (*Element, error) {
	next := e.Clone()
	if u.Type != nil {
		next.Type = *u.Type
	}
	if u.FurnitureType != nil {
		next.FurnitureType = *u.FurnitureType
	}
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.X != nil {
		next.X = *u.X
	}
	if u.Y != nil {
		next.Y = *u.Y
	}
	if u.Width != nil {
		next.Width = *u.Width
	}
	if u.Height != nil {
		next.Height = *u.Height
	}
	if u.Rotation != nil {
		next.Rotation = NormalizeRotation(*u.Rotation)
	}
	if u.Opacity != nil {
		next.Opacity = *u.Opacity
	}
	if u.Color != nil {
		next.Color = *u.Color
	}
	if u.Locked != nil {
		next.Locked = *u.Locked
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// Center returns the centre point of the element's bounding box.
func (e *Element) Center() (float64, float64) {
	return e.X + e.Width/2, e.Y + e.Height/2
}

// NormalizeRotation wraps degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	if !isFinite(deg) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
