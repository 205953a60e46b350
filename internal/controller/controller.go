// Package controller implements the EthAudio state store — the single source
// of truth for sources, zones, and groups. All mutation funnels through its
// operation set; hardware writes happen before the matching state commit so a
// failed write never leaves state ahead of the amplifier.
package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/micro-nova/ethaudio-go/internal/config"
	"github.com/micro-nova/ethaudio-go/internal/events"
	"github.com/micro-nova/ethaudio-go/internal/models"
	"github.com/micro-nova/ethaudio-go/internal/runtime"
)

// Controller owns the system state. Operations are serialized by a mutex;
// there is at most one in-flight mutation, matching the single shared
// exclusive control bus underneath.
type Controller struct {
	mu    sync.Mutex
	state models.State
	rt    *runtime.Runtime
	store config.Store
	bus   *events.Bus
}

// New creates a Controller, loads state from the store, and pushes the full
// configuration to the amplifier so hardware and state agree at startup.
func New(rt *runtime.Runtime, store config.Store, bus *events.Bus) (*Controller, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		state: *state,
		rt:    rt,
		store: store,
		bus:   bus,
	}

	if err := c.applyStateToHW(context.Background()); err != nil {
		// Not fatal: the daemon can come up with the amplifier out of sync
		// and converge on the next successful operation.
		slog.Warn("controller: initial hardware sync failed", "err", err)
	}

	return c, nil
}

// State returns a deep copy of the current system state.
func (c *Controller) State() models.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.DeepCopy()
}

// DumpHardwareState returns the bus's diagnostic dump, empty for transports
// without introspection.
func (c *Controller) DumpHardwareState() string {
	return c.rt.DumpState()
}

// committed records a successful mutation: saves the state and publishes a
// snapshot to event subscribers. Called with the mutex held.
func (c *Controller) committed() {
	if err := c.store.Save(&c.state); err != nil {
		slog.Error("controller: failed to save state", "err", err)
	}
	c.bus.Publish(c.state.DeepCopy())
}

// applyStateToHW writes the complete stored configuration to the amplifier.
func (c *Controller) applyStateToHW(ctx context.Context) error {
	var digital [models.NumSources]bool
	for i, s := range c.state.Sources {
		if i < models.NumSources {
			digital[i] = s.Digital
		}
	}
	if err := c.rt.UpdateSources(ctx, digital); err != nil {
		return err
	}

	sources := make([]int, len(c.state.Zones))
	mutes := make([]bool, len(c.state.Zones))
	stbys := make([]bool, len(c.state.Zones))
	for i, z := range c.state.Zones {
		sources[i] = z.SourceID
		mutes[i] = z.Mute
		stbys[i] = z.Standby
	}

	boards := len(c.state.Zones) / models.ZonesPerBoard
	for b := 0; b < boards; b++ {
		zone := b * models.ZonesPerBoard
		if err := c.rt.UpdateZoneSources(ctx, zone, sources); err != nil {
			return err
		}
		if err := c.rt.UpdateZoneMutes(ctx, zone, mutes); err != nil {
			return err
		}
		if err := c.rt.UpdateZoneStbys(ctx, zone, stbys); err != nil {
			return err
		}
	}
	for _, z := range c.state.Zones {
		if err := c.rt.UpdateZoneVol(ctx, z.ID, z.Vol); err != nil {
			return err
		}
	}
	return nil
}

// findSource returns a pointer to the source with the given id, or nil.
func findSource(state *models.State, id int) *models.Source {
	for i := range state.Sources {
		if state.Sources[i].ID == id {
			return &state.Sources[i]
		}
	}
	return nil
}

// findZone returns a pointer to the zone with the given id, or nil.
func findZone(state *models.State, id int) *models.Zone {
	for i := range state.Zones {
		if state.Zones[i].ID == id {
			return &state.Zones[i]
		}
	}
	return nil
}

// findGroup returns a pointer to the group with the given id, or nil.
func findGroup(state *models.State, id int) *models.Group {
	for i := range state.Groups {
		if state.Groups[i].ID == id {
			return &state.Groups[i]
		}
	}
	return nil
}

// nextGroupID returns the smallest non-negative integer not used by any
// existing group. Deleted ids are reused.
func nextGroupID(state *models.State) int {
	used := make(map[int]bool, len(state.Groups))
	for _, g := range state.Groups {
		used[g.ID] = true
	}
	for i := 0; ; i++ {
		if !used[i] {
			return i
		}
	}
}
