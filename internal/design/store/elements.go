package store

import (
	"errors"
	"slices"
	"strings"

	"room-planner/internal/design/models"
)

// ============================================================
// Element operations
// ============================================================
//
// A missing current design or an unknown element id is a silent no-op.
// Use Checked() for variants that report those cases.

// AddElement appends a new element to the current design.
func (s *Store) AddElement(in models.ElementInput) error {
	_, err := s.addElement(in)
	if errors.Is(err, models.ErrNoCurrentDesign) {
		return nil
	}
	return err
}

func (s *Store) addElement(in models.ElementInput) (*models.Element, error) {
	e, err := models.NewElement(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, models.ErrNoCurrentDesign
	}
	if s.current.ElementIndex(e.ID) >= 0 {
		return nil, models.NewValidationError("id", "duplicate element id "+e.ID)
	}
	s.current.Elements = append(s.current.Elements, e)
	s.current.Touch(s.now())
	s.persistLocked()
	return e.Clone(), nil
}

// UpdateElement merges u into the element with id. Merges that would
// produce an invalid element are rejected and leave the design untouched.
func (s *Store) UpdateElement(id string, u models.ElementUpdate) error {
	_, err := s.updateElement(id, u)
	if models.IsValidation(err) {
		return err
	}
	return nil
}

func (s *Store) updateElement(id string, u models.ElementUpdate) (*models.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateElementLocked(id, func(e *models.Element) (*models.Element, error) {
		return e.Apply(u)
	})
}

// DeleteElement removes the element with id and clears the selection when
// it pointed at it.
func (s *Store) DeleteElement(id string) {
	_ = s.deleteElement(id)
}

func (s *Store) deleteElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.ErrNoCurrentDesign
	}
	i := s.current.ElementIndex(id)
	if i < 0 {
		return models.ErrElementNotFound
	}
	s.current.Elements = slices.Delete(s.current.Elements, i, i+1)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.current.Touch(s.now())
	s.persistLocked()
	return nil
}

// SelectElement selects the element with id. An empty or unknown id clears
// the selection.
func (s *Store) SelectElement(id string) {
	_ = s.selectElement(id)
}

func (s *Store) selectElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	if id == "" {
		s.selectedID = ""
		return nil
	}
	if s.current == nil {
		s.selectedID = ""
		return models.ErrNoCurrentDesign
	}
	if s.current.ElementIndex(id) < 0 {
		s.selectedID = ""
		return models.ErrElementNotFound
	}
	s.selectedID = id
	return nil
}

// ============================================================
// Direct manipulation
// ============================================================
//
// These back drag, resize and rotate handles, so locked elements refuse
// them with ErrElementLocked. UpdateElement still applies to locked
// elements.

func (s *Store) MoveElement(id string, dx, dy float64) error {
	return s.manipulate(id, func(e *models.Element) (*models.Element, error) {
		x, y := e.X+dx, e.Y+dy
		return e.Apply(models.ElementUpdate{X: &x, Y: &y})
	})
}

func (s *Store) ResizeElement(id string, width, height float64) error {
	return s.manipulate(id, func(e *models.Element) (*models.Element, error) {
		return e.Apply(models.ElementUpdate{Width: &width, Height: &height})
	})
}

func (s *Store) RotateElement(id string, degrees float64) error {
	return s.manipulate(id, func(e *models.Element) (*models.Element, error) {
		return e.Apply(models.ElementUpdate{Rotation: &degrees})
	})
}

func (s *Store) manipulate(id string, fn func(*models.Element) (*models.Element, error)) error {
	_, err := s.mutateChecked(id, fn)
	if errors.Is(err, models.ErrNoCurrentDesign) || errors.Is(err, models.ErrElementNotFound) {
		return nil
	}
	return err
}

// mutateElementLocked replaces the element with id by fn's result and
// returns a copy of it.
func (s *Store) mutateElementLocked(id string, fn func(*models.Element) (*models.Element, error)) (*models.Element, error) {
	if s.current == nil {
		return nil, models.ErrNoCurrentDesign
	}
	i := s.current.ElementIndex(id)
	if i < 0 {
		return nil, models.ErrElementNotFound
	}
	next, err := fn(s.current.Elements[i])
	if err != nil {
		return nil, err
	}
	s.current.Elements[i] = next
	s.current.Touch(s.now())
	s.persistLocked()
	return next.Clone(), nil
}
