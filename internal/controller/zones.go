package controller

import (
	"context"
	"fmt"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// SetZone updates a zone. Hardware-backed sub-states apply in a fixed order
// (source routing, mute, standby, volume), each only when its merged value
// differs from the stored one. The hardware has no multi-register
// transaction, so a failed write stops the sequence: earlier sub-states stay
// committed, later ones are never attempted.
func (c *Controller) SetZone(ctx context.Context, id int, upd models.ZoneUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed, appErr := c.setZoneLocked(ctx, id, upd)
	if changed {
		c.committed()
	}
	if appErr != nil {
		return models.State{}, appErr
	}
	return c.state.DeepCopy(), nil
}

// setZoneLocked applies a zone patch with the mutex held. It reports whether
// any state was committed, which can be true even when an error is returned.
func (c *Controller) setZoneLocked(ctx context.Context, id int, upd models.ZoneUpdate) (changed bool, appErr *models.AppError) {
	z := findZone(&c.state, id)
	if z == nil {
		return false, models.ErrNotFound(fmt.Sprintf("set zone: zone %d not found", id))
	}

	// Merge the patch against stored values, then validate before touching
	// anything. An invalid request must leave state untouched.
	srcID := z.SourceID
	if upd.SourceID != nil {
		srcID = *upd.SourceID
	}
	mute := z.Mute
	if upd.Mute != nil {
		mute = *upd.Mute
	}
	stby := z.Standby
	if upd.Standby != nil {
		stby = *upd.Standby
	}
	vol := z.Vol
	if upd.Vol != nil {
		vol = *upd.Vol
	}

	if srcID < 0 || srcID >= models.NumSources {
		return false, models.ErrBadRequest(fmt.Sprintf(
			"set zone: source_id %d out of range [0, %d]", srcID, models.NumSources-1))
	}
	if vol < models.MinVol || vol > models.MaxVol {
		return false, models.ErrBadRequest(fmt.Sprintf(
			"set zone: vol %d out of range [%d, %d]", vol, models.MinVol, models.MaxVol))
	}

	// Name and disabled have no hardware mirror; commit them directly.
	if upd.Name != nil && z.Name != *upd.Name {
		z.Name = *upd.Name
		changed = true
	}
	if upd.Disabled != nil && z.Disabled != *upd.Disabled {
		z.Disabled = *upd.Disabled
		changed = true
	}

	if srcID != z.SourceID {
		vec := make([]int, len(c.state.Zones))
		for i, zz := range c.state.Zones {
			vec[i] = zz.SourceID
		}
		vec[id] = srcID
		if err := c.rt.UpdateZoneSources(ctx, id, vec); err != nil {
			return changed, models.ErrHardware("set zone: unable to update zone source: " + err.Error())
		}
		z.SourceID = srcID
		changed = true
	}

	if mute != z.Mute {
		vec := make([]bool, len(c.state.Zones))
		for i, zz := range c.state.Zones {
			vec[i] = zz.Mute
		}
		vec[id] = mute
		if err := c.rt.UpdateZoneMutes(ctx, id, vec); err != nil {
			return changed, models.ErrHardware("set zone: unable to update zone mute: " + err.Error())
		}
		z.Mute = mute
		changed = true
	}

	if stby != z.Standby {
		vec := make([]bool, len(c.state.Zones))
		for i, zz := range c.state.Zones {
			vec[i] = zz.Standby
		}
		vec[id] = stby
		if err := c.rt.UpdateZoneStbys(ctx, id, vec); err != nil {
			return changed, models.ErrHardware("set zone: unable to update zone standby: " + err.Error())
		}
		z.Standby = stby
		changed = true
	}

	if vol != z.Vol {
		if err := c.rt.UpdateZoneVol(ctx, id, vol); err != nil {
			return changed, models.ErrHardware("set zone: unable to update zone volume: " + err.Error())
		}
		z.Vol = vol
		// Minimum volume is silence: the amplifier drops the zone into
		// standby, and state mirrors that. Any audible volume wakes it.
		if vol > models.MinVol {
			z.Mute = false
			z.Standby = false
		} else {
			z.Mute = true
			z.Standby = true
		}
		changed = true
	}

	return changed, nil
}
