package store

import (
	"strings"

	"room-planner/internal/design/models"
)

// DesignInfo is a partial update of the current design's metadata.
type DesignInfo struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Room        *models.Room `json:"room,omitempty"`
}

func (info DesignInfo) apply(d *models.Design) error {
	if info.Name != nil {
		name := strings.TrimSpace(*info.Name)
		if name == "" {
			return models.NewValidationError("name", "design name is required")
		}
		d.Name = name
	}
	if info.Description != nil {
		d.Description = *info.Description
	}
	if info.Category != nil {
		d.Category = strings.TrimSpace(*info.Category)
	}
	if info.Room != nil {
		if _, err := models.ParseRoomUnit(string(info.Room.Unit)); err != nil {
			return err
		}
		if info.Room.Width <= 0 || info.Room.Length <= 0 {
			return models.NewValidationError("room", "width and length must be greater than 0")
		}
		room := *info.Room
		d.Room = &room
	}
	return nil
}
