package controller

import (
	"context"
	"fmt"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// SetSource updates one of the 4 system sources. The hardware always
// receives the complete 4-wide digital-select vector; name and digital are
// committed only after the write succeeds.
func (c *Controller) SetSource(ctx context.Context, id int, upd models.SourceUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src := findSource(&c.state, id)
	if src == nil {
		return models.State{}, models.ErrNotFound(fmt.Sprintf("set source: source %d not found", id))
	}

	name := src.Name
	if upd.Name != nil {
		name = *upd.Name
	}
	digital := src.Digital
	if upd.Digital != nil {
		digital = *upd.Digital
	}

	var vec [models.NumSources]bool
	for i, s := range c.state.Sources {
		vec[i] = s.Digital
	}
	vec[id] = digital

	if err := c.rt.UpdateSources(ctx, vec); err != nil {
		return models.State{}, models.ErrHardware("set source: unable to update source select: " + err.Error())
	}

	src.Name = name
	src.Digital = digital
	c.committed()
	return c.state.DeepCopy(), nil
}
