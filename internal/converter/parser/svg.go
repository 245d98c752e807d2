package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"room-planner/internal/converter/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Group
}

// Group is any container level; <g> elements nest arbitrarily.
type Group struct {
	ID     string  `xml:"id,attr"`
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG extracts every classified rect and path, depth first in
// document order. Unclassified elements are ignored.
func ParseSVG(r io.Reader) ([]models.SVGElement, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []models.SVGElement
	collect(svg.Group, &elements)
	return elements, nil
}

func collect(g Group, out *[]models.SVGElement) {
	for _, rect := range g.Rects {
		kind := classifyElementByID(rect.ID)
		if kind == "" || rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:   rect.ID,
			Kind: kind,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range g.Paths {
		kind := classifyElementByID(path.ID)
		if kind == "" || strings.TrimSpace(path.D) == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:       path.ID,
			Kind:     kind,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	for _, child := range g.Groups {
		collect(child, out)
	}
}

func classifyElementByID(id string) models.Kind {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return models.KindWall
	case strings.HasPrefix(id, "Door_"):
		return models.KindDoor
	case strings.HasPrefix(id, "Window_"):
		return models.KindWindow
	case strings.HasPrefix(id, "Room_"), strings.HasSuffix(id, "_room"), strings.HasSuffix(id, "_Room"):
		return models.KindRoom
	case strings.HasPrefix(id, "Balcony"):
		return models.KindBalcony
	}
	return ""
}
