package store

import (
	"encoding/json"
	"fmt"

	"room-planner/internal/design/models"
)

// ============================================================
// Persistence
// ============================================================

// StorageKey is the blob key the design snapshot is written under.
const StorageKey = "design-storage"

// Persister is a synchronous blob sink. Load returns (nil, nil) when
// nothing has been stored yet.
type Persister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Snapshot is the persisted layout. Selection is session-only and not
// part of it.
type Snapshot struct {
	CurrentDesign *models.Design   `json:"currentDesign"`
	SavedDesigns  []*models.Design `json:"savedDesigns"`
	ViewMode      models.ViewMode  `json:"viewMode"`
}

// Open builds a store and restores its state from the persister in opts.
func Open(opts ...Option) (*Store, error) {
	s := New(opts...)
	if s.persister == nil {
		return s, nil
	}

	data, err := s.persister.Load()
	if err != nil {
		return nil, fmt.Errorf("load design storage: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode design storage: %w", err)
	}
	if err := s.restore(snap); err != nil {
		return nil, fmt.Errorf("restore design storage: %w", err)
	}
	return s, nil
}

func (s *Store) restore(snap Snapshot) error {
	if snap.CurrentDesign != nil {
		if err := snap.CurrentDesign.Validate(); err != nil {
			return err
		}
	}
	seen := make(map[string]struct{}, len(snap.SavedDesigns))
	saved := make([]*models.Design, 0, len(snap.SavedDesigns))
	for _, d := range snap.SavedDesigns {
		if d == nil {
			continue
		}
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.ID]; dup {
			return models.NewValidationError("savedDesigns", "duplicate design id "+d.ID)
		}
		seen[d.ID] = struct{}{}
		saved = append(saved, d)
	}

	mode := snap.ViewMode
	if mode == "" {
		mode = models.View2D
	}
	if _, err := models.ParseViewMode(string(mode)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap.CurrentDesign
	s.saved = saved
	s.viewMode = mode
	s.selectedID = ""
	return nil
}

// Snapshot returns a deep copy of the persistable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		CurrentDesign: s.current.Clone(),
		SavedDesigns:  cloneAll(s.saved),
		ViewMode:      s.viewMode,
	}
}

// persistLocked writes the snapshot. Failures are reported but never undo
// the in-memory change; the next successful write clears the error.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(Snapshot{
		CurrentDesign: s.current,
		SavedDesigns:  s.saved,
		ViewMode:      s.viewMode,
	})
	if err == nil {
		err = s.persister.Save(data)
	}
	if err != nil {
		s.persistErr = fmt.Errorf("persist %s: %w", StorageKey, err)
		s.warn(s.persistErr)
		return
	}
	s.persistErr = nil
}
