// Package config handles loading and saving EthAudio system state.
// Durable persistence across restarts is intentionally out of scope; the
// Store interface exists so the controller does not own state lifecycle.
package config

import "github.com/micro-nova/ethaudio-go/internal/models"

// Store is the interface for keeping system state between operations.
type Store interface {
	// Load returns the current state, or the default state if nothing has
	// been saved yet.
	Load() (*models.State, error)

	// Save records the state after a successful mutation.
	Save(state *models.State) error
}
