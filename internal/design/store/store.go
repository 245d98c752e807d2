// Package store owns the editing session state: the current design, the
// saved designs collection, the selected element and the view mode.
//
// All mutation goes through Store methods. Read accessors hand out deep
// copies so callers can never alias the store's state.
package store

import (
	"log"
	"slices"
	"sync"
	"time"

	"room-planner/internal/design/models"
	"room-planner/internal/design/views"
)

// ============================================================
// Store
// ============================================================

type Store struct {
	mu sync.Mutex

	current    *models.Design
	saved      []*models.Design
	selectedID string
	viewMode   models.ViewMode

	persister  Persister
	now        func() time.Time
	onWarning  func(error)
	persistErr error
}

type Option func(*Store)

// WithPersister makes every mutation write a snapshot through p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersistWarning registers a callback for non-fatal persistence
// failures. The in-memory change is kept when it fires.
func WithPersistWarning(fn func(error)) Option {
	return func(s *Store) { s.onWarning = fn }
}

func New(opts ...Option) *Store {
	s := &Store{
		saved:    []*models.Design{},
		viewMode: models.View2D,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================
// Design lifecycle
// ============================================================

// CreateNewDesign replaces the current design with a fresh empty one.
func (s *Store) CreateNewDesign(name string) error {
	d, err := models.NewDesign(name, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = d
	s.selectedID = ""
	s.persistLocked()
	return nil
}

func (s *Store) createDesign(name string, info DesignInfo) (*models.Design, error) {
	d, err := models.NewDesign(name, s.now())
	if err != nil {
		return nil, err
	}
	if err := info.apply(d); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = d
	s.selectedID = ""
	s.persistLocked()
	return d.Clone(), nil
}

// SaveCurrentDesign upserts the current design into the saved collection.
// An existing entry keeps its position; a new one is prepended.
func (s *Store) SaveCurrentDesign() (*models.Design, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}

	snapshot := s.current.Clone()
	if i := s.savedIndexLocked(snapshot.ID); i >= 0 {
		s.saved[i] = snapshot
	} else {
		s.saved = slices.Insert(s.saved, 0, snapshot)
	}
	s.persistLocked()
	return snapshot.Clone(), true
}

// LoadDesign makes a deep copy of d the current design. Nil or invalid
// designs are skipped.
func (s *Store) LoadDesign(d *models.Design) {
	if d == nil {
		return
	}
	_ = s.loadDesign(d)
}

func (s *Store) loadDesign(d *models.Design) error {
	if err := d.Validate(); err != nil {
		return err
	}
	next := d.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	s.selectedID = ""
	s.persistLocked()
	return nil
}

// LoadSavedDesign loads the saved design with id, reporting whether it
// exists.
func (s *Store) LoadSavedDesign(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.savedIndexLocked(id)
	if i < 0 {
		return false
	}
	s.current = s.saved[i].Clone()
	s.selectedID = ""
	s.persistLocked()
	return true
}

// DeleteDesign removes id from the saved collection. When it is also the
// current design, current and selection are cleared.
func (s *Store) DeleteDesign(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteDesignLocked(id)
}

func (s *Store) deleteDesignLocked(id string) bool {
	found := false
	if i := s.savedIndexLocked(id); i >= 0 {
		s.saved = slices.Delete(s.saved, i, i+1)
		found = true
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.selectedID = ""
		found = true
	}
	if found {
		s.persistLocked()
	}
	return found
}

// DuplicateDesign prepends a copy of d with a new id, fresh timestamps and
// a " Copy" suffix. The current design is left alone.
func (s *Store) DuplicateDesign(d *models.Design) *models.Design {
	if d == nil {
		return nil
	}
	dup := models.CloneDesign(d, models.CloneOptions{
		NewID:           true,
		ResetTimestamps: true,
		NameSuffix:      " Copy",
	}, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = slices.Insert(s.saved, 0, dup)
	s.persistLocked()
	return dup.Clone()
}

// UseTemplate starts a new ordinary design from a template and makes it
// current. Element ids are regenerated.
func (s *Store) UseTemplate(t *models.Design) *models.Design {
	if t == nil {
		return nil
	}
	d := models.CloneDesign(t, models.CloneOptions{
		NewID:           true,
		ResetTimestamps: true,
		FreshElementIDs: true,
		ClearTemplate:   true,
	}, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = d
	s.selectedID = ""
	s.persistLocked()
	return d.Clone()
}

// UpdateDesignInfo changes the metadata of the current design. Blank names
// are rejected.
func (s *Store) UpdateDesignInfo(info DesignInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	next := s.current.Clone()
	if err := info.apply(next); err != nil {
		return err
	}
	next.Touch(s.now())
	s.current = next
	s.persistLocked()
	return nil
}

// ============================================================
// View mode
// ============================================================

func (s *Store) SetViewMode(mode models.ViewMode) error {
	if _, err := models.ParseViewMode(string(mode)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = mode
	s.persistLocked()
	return nil
}

func (s *Store) ViewMode() models.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// ============================================================
// Queries
// ============================================================

// CurrentDesign returns a copy of the current design or nil.
func (s *Store) CurrentDesign() *models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// SavedDesigns returns copies of the saved designs in collection order.
func (s *Store) SavedDesigns() []*models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.saved)
}

// SavedDesign returns a copy of the saved design with id.
func (s *Store) SavedDesign(id string) (*models.Design, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.savedIndexLocked(id); i >= 0 {
		return s.saved[i].Clone(), true
	}
	return nil, false
}

// SelectedElement returns a copy of the selected element or nil.
func (s *Store) SelectedElement() *models.Element {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.selectedID == "" {
		return nil
	}
	return s.current.Element(s.selectedID).Clone()
}

func (s *Store) DesignStats() views.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return views.ComputeStats(s.saved)
}

// SearchDesigns matches name and description case-insensitively.
func (s *Store) SearchDesigns(query string) []*models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(views.Search(s.saved, query))
}

// ListDesigns filters and sorts the saved designs.
func (s *Store) ListDesigns(opts views.Options) []*models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(views.FilterSort(s.saved, opts))
}

// PersistErr returns the last persistence failure, or nil once a later
// write succeeded.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// ============================================================
// helpers
// ============================================================

func (s *Store) savedIndexLocked(id string) int {
	return slices.IndexFunc(s.saved, func(d *models.Design) bool { return d.ID == id })
}

func (s *Store) warn(err error) {
	log.Printf("[STORE] persist failed: %v", err)
	if s.onWarning != nil {
		s.onWarning(err)
	}
}

func cloneAll(in []*models.Design) []*models.Design {
	out := make([]*models.Design, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}
