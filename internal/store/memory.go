// internal/store/memory.go
//
// In-memory registry of boards, one game.Controller per browser.
//
// Characteristics:
//   - Boards keyed by board id (the uuid carried in the board cookie).
//   - Concurrency-safe via RWMutex.
//   - Tracks last use so idle boards can be pruned.
//   - State is lost when the process restarts (boards are not persisted).

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/game"
)

// ErrNotFound is returned by Get for unknown board ids.
var ErrNotFound = errors.New("store: board not found")

// Store defines the registry interface for boards.
type Store interface {
	// Save registers or replaces the controller for id.
	Save(ctx context.Context, id string, c *game.Controller) error

	// Get retrieves a board by id and marks it as used.
	Get(ctx context.Context, id string) (*game.Controller, error)

	// Prune removes boards unused for longer than maxIdle and reports how many went.
	Prune(ctx context.Context, maxIdle time.Duration) int

	// Len reports the number of boards held.
	Len() int
}

type entry struct {
	ctrl     *game.Controller
	lastUsed time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex
	boards map[string]*entry
	now    func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{boards: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, id string, c *game.Controller) error {
	if id == "" || c == nil {
		return errors.New("store: empty board")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[id] = &entry{ctrl: c, lastUsed: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.boards[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = m.now()
	return e.ctrl, nil
}

func (m *memory) Prune(ctx context.Context, maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-maxIdle)
	n := 0
	for id, e := range m.boards {
		if e.lastUsed.Before(cutoff) {
			delete(m.boards, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}
