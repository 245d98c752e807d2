package store

import "room-planner/internal/design/models"

// ============================================================
// Checked view
// ============================================================

// Checked exposes the same mutations as Store but reports missing designs
// and elements instead of skipping silently.
type Checked struct {
	s *Store
}

func (s *Store) Checked() Checked {
	return Checked{s: s}
}

// AddElement returns the created element.
func (c Checked) AddElement(in models.ElementInput) (*models.Element, error) {
	return c.s.addElement(in)
}

// UpdateElement returns the merged element.
func (c Checked) UpdateElement(id string, u models.ElementUpdate) (*models.Element, error) {
	return c.s.updateElement(id, u)
}

func (c Checked) DeleteElement(id string) error {
	return c.s.deleteElement(id)
}

func (c Checked) SelectElement(id string) error {
	return c.s.selectElement(id)
}

func (c Checked) DeleteDesign(id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if !c.s.deleteDesignLocked(id) {
		return models.ErrDesignNotFound
	}
	return nil
}

func (c Checked) SaveCurrentDesign() (*models.Design, error) {
	d, ok := c.s.SaveCurrentDesign()
	if !ok {
		return nil, models.ErrNoCurrentDesign
	}
	return d, nil
}

// LoadDesign rejects designs that fail validation instead of skipping them.
func (c Checked) LoadDesign(d *models.Design) error {
	if d == nil {
		return models.NewValidationError("design", "is required")
	}
	return c.s.loadDesign(d)
}

func (c Checked) LoadSavedDesign(id string) error {
	if !c.s.LoadSavedDesign(id) {
		return models.ErrDesignNotFound
	}
	return nil
}

func (c Checked) MoveElement(id string, dx, dy float64) (*models.Element, error) {
	return c.s.mutateChecked(id, func(e *models.Element) (*models.Element, error) {
		x, y := e.X+dx, e.Y+dy
		return e.Apply(models.ElementUpdate{X: &x, Y: &y})
	})
}

func (c Checked) ResizeElement(id string, width, height float64) (*models.Element, error) {
	return c.s.mutateChecked(id, func(e *models.Element) (*models.Element, error) {
		return e.Apply(models.ElementUpdate{Width: &width, Height: &height})
	})
}

func (c Checked) RotateElement(id string, degrees float64) (*models.Element, error) {
	return c.s.mutateChecked(id, func(e *models.Element) (*models.Element, error) {
		return e.Apply(models.ElementUpdate{Rotation: &degrees})
	})
}

// CreateDesign builds a design from name and info and only then makes it
// current. A rejected request leaves the current design in place.
func (c Checked) CreateDesign(name string, info DesignInfo) (*models.Design, error) {
	return c.s.createDesign(name, info)
}

func (c Checked) UpdateDesignInfo(info DesignInfo) error {
	c.s.mu.Lock()
	hasCurrent := c.s.current != nil
	c.s.mu.Unlock()
	if !hasCurrent {
		return models.ErrNoCurrentDesign
	}
	return c.s.UpdateDesignInfo(info)
}

func (s *Store) mutateChecked(id string, fn func(*models.Element) (*models.Element, error)) (*models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateElementLocked(id, func(e *models.Element) (*models.Element, error) {
		if e.Locked {
			return nil, models.ErrElementLocked
		}
		return fn(e)
	})
}
