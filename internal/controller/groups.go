package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// SetGroup configures an existing group. Name and member list update first
// (rename does not enforce uniqueness); source, mute, standby, and a relative
// volume delta then fan out to every current member zone. Member updates are
// independent: one zone's hardware failure does not roll back the others, and
// all members are attempted before an aggregate error is returned.
func (c *Controller) SetGroup(ctx context.Context, id int, upd models.GroupUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := findGroup(&c.state, id)
	if g == nil {
		return models.State{}, models.ErrNotFound(fmt.Sprintf("set group: group %d not found", id))
	}

	if upd.ZoneIDs != nil {
		for _, zid := range upd.ZoneIDs {
			if findZone(&c.state, zid) == nil {
				return models.State{}, models.ErrNotFound(fmt.Sprintf("set group: zone %d not found", zid))
			}
		}
	}

	changed := false
	if upd.Name != nil && g.Name != *upd.Name {
		g.Name = *upd.Name
		changed = true
	}
	if upd.ZoneIDs != nil {
		g.ZoneIDs = append([]int(nil), upd.ZoneIDs...)
		changed = true
	}

	var failures []string
	for _, zid := range g.ZoneIDs {
		zupd := models.ZoneUpdate{
			SourceID: upd.SourceID,
			Mute:     upd.Mute,
			Standby:  upd.Standby,
		}
		if upd.VolDelta != nil {
			if z := findZone(&c.state, zid); z != nil {
				vol := models.ClampVol(z.Vol + *upd.VolDelta)
				zupd.Vol = &vol
			}
		}
		zoneChanged, zoneErr := c.setZoneLocked(ctx, zid, zupd)
		if zoneChanged {
			changed = true
		}
		if zoneErr != nil {
			failures = append(failures, fmt.Sprintf("zone %d: %s", zid, zoneErr.Message))
		}
	}

	if changed {
		c.committed()
	}
	if len(failures) > 0 {
		return models.State{}, models.ErrHardware("set group: " + strings.Join(failures, "; "))
	}
	return c.state.DeepCopy(), nil
}

// CreateGroup creates a new group. The name must be unique among groups; the
// new id is the smallest non-negative integer not currently in use.
func (c *Controller) CreateGroup(ctx context.Context, req models.GroupCreate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Name == "" {
		return models.State{}, models.ErrBadRequest("create group: name is required")
	}
	for _, g := range c.state.Groups {
		if g.Name == req.Name {
			return models.State{}, models.ErrConflict(fmt.Sprintf("create group: %q already exists", req.Name))
		}
	}
	for _, zid := range req.ZoneIDs {
		if findZone(&c.state, zid) == nil {
			return models.State{}, models.ErrNotFound(fmt.Sprintf("create group: zone %d not found", zid))
		}
	}

	g := models.Group{
		ID:      nextGroupID(&c.state),
		Name:    req.Name,
		ZoneIDs: append([]int(nil), req.ZoneIDs...),
	}
	c.state.Groups = append(c.state.Groups, g)
	c.committed()
	return c.state.DeepCopy(), nil
}

// DeleteGroup removes a group by id.
func (c *Controller) DeleteGroup(ctx context.Context, id int) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, g := range c.state.Groups {
		if g.ID == id {
			c.state.Groups = append(c.state.Groups[:i], c.state.Groups[i+1:]...)
			c.committed()
			return c.state.DeepCopy(), nil
		}
	}
	return models.State{}, models.ErrNotFound(fmt.Sprintf("delete group: group %d not found", id))
}
