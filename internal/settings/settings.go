// Package settings holds the process-wide display preferences.
package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"room-planner/internal/design/models"
	"room-planner/internal/design/store"
)

// StorageKey is the blob key the settings record is written under.
const StorageKey = "settings-storage"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Unit is the display unit preference. It is independent of the per-design
// wizard unit (cm/inch) in models.RoomUnit.
type Unit string

const (
	UnitFeet   Unit = "feet"
	UnitMeters Unit = "meters"
)

type Settings struct {
	Theme       Theme `json:"theme"`
	Unit        Unit  `json:"unit"`
	GridEnabled bool  `json:"gridEnabled"`
	SnapToGrid  bool  `json:"snapToGrid"`
	AutoSave    bool  `json:"autoSave"`
}

func Defaults() Settings {
	return Settings{
		Theme:       ThemeLight,
		Unit:        UnitFeet,
		GridEnabled: true,
		SnapToGrid:  true,
		AutoSave:    true,
	}
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeAuto:
		return Theme(s), nil
	}
	return "", models.NewValidationError("theme", fmt.Sprintf("unknown theme %q", s))
}

func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitFeet, UnitMeters:
		return Unit(s), nil
	}
	return "", models.NewValidationError("unit", fmt.Sprintf("unknown unit %q", s))
}

func (s Settings) Validate() error {
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	_, err := ParseUnit(string(s.Unit))
	return err
}

// ============================================================
// Container
// ============================================================

// Container guards a Settings record and persists it after every change.
type Container struct {
	mu         sync.Mutex
	current    Settings
	persister  store.Persister
	persistErr error
}

// Open restores settings from p (nil p keeps them in memory only). Stored
// records with invalid values fall back to the defaults.
func Open(p store.Persister) (*Container, error) {
	c := &Container{current: Defaults(), persister: p}
	if p == nil {
		return c, nil
	}

	data, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if len(data) == 0 {
		return c, nil
	}

	loaded := Defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		log.Printf("[SETTINGS] stored settings invalid, using defaults: %v", err)
		return c, nil
	}
	c.current = loaded
	return c, nil
}

func (c *Container) Get() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Container) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	c.update(func(s *Settings) { s.Theme = t })
	return nil
}

func (c *Container) SetUnit(u Unit) error {
	if _, err := ParseUnit(string(u)); err != nil {
		return err
	}
	c.update(func(s *Settings) { s.Unit = u })
	return nil
}

func (c *Container) SetGridEnabled(v bool) {
	c.update(func(s *Settings) { s.GridEnabled = v })
}

func (c *Container) SetSnapToGrid(v bool) {
	c.update(func(s *Settings) { s.SnapToGrid = v })
}

func (c *Container) SetAutoSave(v bool) {
	c.update(func(s *Settings) { s.AutoSave = v })
}

// Reset restores the default record.
func (c *Container) Reset() {
	c.update(func(s *Settings) { *s = Defaults() })
}

// Patch is a partial settings change, as sent by API clients.
type Patch struct {
	Theme       *string `json:"theme,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	GridEnabled *bool   `json:"gridEnabled,omitempty"`
	SnapToGrid  *bool   `json:"snapToGrid,omitempty"`
	AutoSave    *bool   `json:"autoSave,omitempty"`
}

// Apply validates the whole patch first and then applies it in one write.
func (c *Container) Apply(p Patch) (Settings, error) {
	var theme Theme
	var unit Unit
	var err error
	if p.Theme != nil {
		if theme, err = ParseTheme(*p.Theme); err != nil {
			return Settings{}, err
		}
	}
	if p.Unit != nil {
		if unit, err = ParseUnit(*p.Unit); err != nil {
			return Settings{}, err
		}
	}

	c.update(func(s *Settings) {
		if p.Theme != nil {
			s.Theme = theme
		}
		if p.Unit != nil {
			s.Unit = unit
		}
		if p.GridEnabled != nil {
			s.GridEnabled = *p.GridEnabled
		}
		if p.SnapToGrid != nil {
			s.SnapToGrid = *p.SnapToGrid
		}
		if p.AutoSave != nil {
			s.AutoSave = *p.AutoSave
		}
	})
	return c.Get(), nil
}

// PersistErr returns the last failed write, if any.
func (c *Container) PersistErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistErr
}

func (c *Container) update(fn func(*Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.current)
	if c.persister == nil {
		return
	}
	data, err := json.Marshal(c.current)
	if err == nil {
		err = c.persister.Save(data)
	}
	if err != nil {
		c.persistErr = fmt.Errorf("persist %s: %w", StorageKey, err)
		log.Printf("[SETTINGS] %v", c.persistErr)
		return
	}
	c.persistErr = nil
}
