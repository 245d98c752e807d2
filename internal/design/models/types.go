package models

import "fmt"

// ============================================================
// Element Types
// ============================================================

type ElementType string

const (
	TypeWall      ElementType = "wall"
	TypeDoor      ElementType = "door"
	TypeWindow    ElementType = "window"
	TypeFurniture ElementType = "furniture"
	TypeSofa      ElementType = "sofa"
	TypeChair     ElementType = "chair"
	TypeTable     ElementType = "table"
	TypeBed       ElementType = "bed"
	TypeDesk      ElementType = "desk"
	TypeStorage   ElementType = "storage"
	TypePlant     ElementType = "plant"
	TypeLight     ElementType = "light"
	TypeKitchen   ElementType = "kitchen"
	TypeBathroom  ElementType = "bathroom"
	TypeAppliance ElementType = "appliance"
	TypeDecor     ElementType = "decor"
	TypeRug       ElementType = "rug"
)

var elementTypes = []ElementType{
	TypeWall, TypeDoor, TypeWindow, TypeFurniture, TypeSofa, TypeChair,
	TypeTable, TypeBed, TypeDesk, TypeStorage, TypePlant, TypeLight,
	TypeKitchen, TypeBathroom, TypeAppliance, TypeDecor, TypeRug,
}

// ElementTypes returns the full vocabulary in declaration order.
func ElementTypes() []ElementType {
	out := make([]ElementType, len(elementTypes))
	copy(out, elementTypes)
	return out
}

func ParseElementType(s string) (ElementType, error) {
	for _, t := range elementTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", NewValidationError("type", fmt.Sprintf("unknown element type %q", s))
}

// ============================================================
// Furniture Types (3D dispatch)
// ============================================================

type FurnitureType string

const (
	FurnitureNone         FurnitureType = ""
	FurnitureSofa         FurnitureType = "sofa"
	FurnitureChair        FurnitureType = "chair"
	FurnitureTable        FurnitureType = "table"
	FurnitureBed          FurnitureType = "bed"
	FurnitureDesk         FurnitureType = "desk"
	FurnitureWardrobe     FurnitureType = "wardrobe"
	FurnitureBookshelf    FurnitureType = "bookshelf"
	FurnitureLamp         FurnitureType = "lamp"
	FurniturePlant        FurnitureType = "plant"
	FurnitureTV           FurnitureType = "tv"
	FurnitureRefrigerator FurnitureType = "refrigerator"
	FurnitureStove        FurnitureType = "stove"
	FurnitureSink         FurnitureType = "sink"
	FurnitureToilet       FurnitureType = "toilet"
	FurnitureBathtub      FurnitureType = "bathtub"
	FurnitureRug          FurnitureType = "rug"
)

var furnitureTypes = []FurnitureType{
	FurnitureSofa, FurnitureChair, FurnitureTable, FurnitureBed, FurnitureDesk,
	FurnitureWardrobe, FurnitureBookshelf, FurnitureLamp, FurniturePlant,
	FurnitureTV, FurnitureRefrigerator, FurnitureStove, FurnitureSink,
	FurnitureToilet, FurnitureBathtub, FurnitureRug,
}

func FurnitureTypes() []FurnitureType {
	out := make([]FurnitureType, len(furnitureTypes))
	copy(out, furnitureTypes)
	return out
}

// ParseFurnitureType accepts the empty string as FurnitureNone.
func ParseFurnitureType(s string) (FurnitureType, error) {
	if s == "" {
		return FurnitureNone, nil
	}
	for _, t := range furnitureTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", NewValidationError("furnitureType", fmt.Sprintf("unknown furniture type %q", s))
}

// ============================================================
// Room wizard units
// ============================================================

// RoomUnit is the unit chosen in the new-design wizard. It is unrelated to
// settings.Unit (feet/meters); the two are kept apart on purpose.
type RoomUnit string

const (
	RoomUnitCM   RoomUnit = "cm"
	RoomUnitInch RoomUnit = "inch"
)

func ParseRoomUnit(s string) (RoomUnit, error) {
	switch RoomUnit(s) {
	case RoomUnitCM, RoomUnitInch:
		return RoomUnit(s), nil
	}
	return "", NewValidationError("unit", fmt.Sprintf("unknown room unit %q", s))
}

// ============================================================
// View mode
// ============================================================

type ViewMode string

const (
	View2D ViewMode = "2d"
	View3D ViewMode = "3d"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case View2D, View3D:
		return ViewMode(s), nil
	}
	return "", NewValidationError("viewMode", fmt.Sprintf("unknown view mode %q", s))
}
