package config

import (
	"sync"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// MemStore is an in-memory Store sized for a fixed board count.
type MemStore struct {
	mu     sync.Mutex
	boards int
	state  *models.State
}

// NewMemStore returns a store whose default state covers the given number of
// preamp boards.
func NewMemStore(boards int) *MemStore {
	return &MemStore{boards: boards}
}

// Load returns a copy of the stored state, or DefaultState if none has been
// saved yet.
func (m *MemStore) Load() (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		def := models.DefaultState(m.boards)
		return &def, nil
	}
	cp := m.state.DeepCopy()
	return &cp, nil
}

// Save stores a deep copy of the given state.
func (m *MemStore) Save(state *models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := state.DeepCopy()
	m.state = &cp
	return nil
}

var _ Store = (*MemStore)(nil)
