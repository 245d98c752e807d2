package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Design
// ============================================================

// Room holds the dimensions entered in the new-design wizard.
type Room struct {
	Width  float64  `json:"width"`
	Length float64  `json:"length"`
	Height float64  `json:"height,omitempty"`
	Unit   RoomUnit `json:"unit"`
}

type Design struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	IsTemplate  bool       `json:"isTemplate"`
	Room        *Room      `json:"room,omitempty"`
	Elements    []*Element `json:"elements"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewDesign creates an empty design stamped with now.
func NewDesign(name string, now time.Time) (*Design, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "design name is required")
	}
	return &Design{
		ID:        uuid.NewString(),
		Name:      name,
		Elements:  []*Element{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the invariants a loaded design must satisfy.
func (d *Design) Validate() error {
	if d.ID == "" {
		return NewValidationError("id", "design id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "design name is required")
	}
	if d.Room != nil {
		if _, err := ParseRoomUnit(string(d.Room.Unit)); err != nil {
			return err
		}
	}
	seen := make(map[string]struct{}, len(d.Elements))
	for _, e := range d.Elements {
		if e == nil {
			return NewValidationError("elements", "nil element")
		}
		if _, dup := seen[e.ID]; dup {
			return NewValidationError("elements", "duplicate element id "+e.ID)
		}
		seen[e.ID] = struct{}{}
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ElementIndex returns the position of the element with id, or -1.
func (d *Design) ElementIndex(id string) int {
	for i, e := range d.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (d *Design) Element(id string) *Element {
	if i := d.ElementIndex(id); i >= 0 {
		return d.Elements[i]
	}
	return nil
}

// Touch refreshes UpdatedAt. CreatedAt is never changed after creation.
func (d *Design) Touch(now time.Time) {
	if now.After(d.UpdatedAt) {
		d.UpdatedAt = now
		return
	}
	// keep UpdatedAt strictly increasing even with a coarse clock
	d.UpdatedAt = d.UpdatedAt.Add(time.Nanosecond)
}

// Clone returns a structural deep copy sharing no memory with d.
func (d *Design) Clone() *Design {
	if d == nil {
		return nil
	}
	c := *d
	if d.Room != nil {
		room := *d.Room
		c.Room = &room
	}
	c.Elements = make([]*Element, len(d.Elements))
	for i, e := range d.Elements {
		c.Elements[i] = e.Clone()
	}
	return &c
}

// ============================================================
// Derived copies
// ============================================================

type CloneOptions struct {
	NewID           bool
	ResetTimestamps bool
	NameSuffix      string
	// FreshElementIDs assigns new ids to every copied element. The default
	// keeps the source ids, which stay unique within the copy.
	FreshElementIDs bool
	// ClearTemplate marks the copy as an ordinary design.
	ClearTemplate bool
}

// CloneDesign derives a new design from src according to opts.
func CloneDesign(src *Design, opts CloneOptions, now time.Time) *Design {
	c := src.Clone()
	if opts.NewID {
		c.ID = uuid.NewString()
	}
	if opts.ResetTimestamps {
		c.CreatedAt = now
		c.UpdatedAt = now
	}
	if opts.NameSuffix != "" {
		c.Name = c.Name + opts.NameSuffix
	}
	if opts.FreshElementIDs {
		for _, e := range c.Elements {
			e.ID = uuid.NewString()
		}
	}
	if opts.ClearTemplate {
		c.IsTemplate = false
	}
	return c
}

// ElementCount is nil-safe.
func (d *Design) ElementCount() int {
	if d == nil {
		return 0
	}
	return len(d.Elements)
}
