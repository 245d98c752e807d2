// Package editor serves the design editor over HTTP. Each user gets an
// isolated workspace: one design store and one settings container, both
// persisted in the user's KV namespace.
package editor

import (
	"fmt"
	"log"
	"sync"

	"room-planner/internal/design/store"
	"room-planner/internal/settings"
	"room-planner/internal/storage"
)

// ============================================================
// Workspaces
// ============================================================

type Workspace struct {
	UserID   string
	Store    *store.Store
	Settings *settings.Container
}

// Workspaces opens workspaces lazily and keeps them for the process
// lifetime.
type Workspaces struct {
	mu    sync.Mutex
	kv    *storage.KV
	items map[string]*Workspace
	opts  []store.Option
}

// NewWorkspaces wires every store to kv. Extra options (a clock in tests)
// are applied to each store.
func NewWorkspaces(kv *storage.KV, opts ...store.Option) *Workspaces {
	return &Workspaces{
		kv:    kv,
		items: make(map[string]*Workspace),
		opts:  opts,
	}
}

func (w *Workspaces) Get(userID string) (*Workspace, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty user id")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.items[userID]; ok {
		return ws, nil
	}

	opts := append([]store.Option{
		store.WithPersister(w.kv.Blob(userID, store.StorageKey)),
		store.WithPersistWarning(func(err error) {
			log.Printf("[EDITOR] workspace %s: %v", userID, err)
		}),
	}, w.opts...)
	st, err := store.Open(opts...)
	if err != nil {
		return nil, fmt.Errorf("open design store: %w", err)
	}
	cfg, err := settings.Open(w.kv.Blob(userID, settings.StorageKey))
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	ws := &Workspace{UserID: userID, Store: st, Settings: cfg}
	w.items[userID] = ws
	log.Printf("[EDITOR] workspace opened for %s", userID)
	return ws, nil
}

// Evict drops the cached workspace; the next Get reloads it from storage.
func (w *Workspaces) Evict(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.items, userID)
}
