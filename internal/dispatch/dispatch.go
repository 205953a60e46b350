// Package dispatch decodes JSON command envelopes and routes them to
// controller operations. Every command returns the full system state so
// callers always hold a consistent snapshot.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/micro-nova/ethaudio-go/internal/controller"
	"github.com/micro-nova/ethaudio-go/internal/models"
)

// Dispatcher routes decoded commands to the controller.
type Dispatcher struct {
	ctrl *controller.Controller
}

// New creates a Dispatcher backed by the given controller.
func New(ctrl *controller.Controller) *Dispatcher {
	return &Dispatcher{ctrl: ctrl}
}

// envelope carries the command discriminator; the remaining fields are
// decoded per command.
type envelope struct {
	Command string `json:"command"`
}

type setSourceCmd struct {
	ID *int `json:"id"`
	models.SourceUpdate
}

type setZoneCmd struct {
	ID *int `json:"id"`
	models.ZoneUpdate
}

type setGroupCmd struct {
	ID *int `json:"id"`
	models.GroupUpdate
}

type deleteGroupCmd struct {
	ID *int `json:"id"`
}

// Dispatch decodes and executes a single command, returning the resulting
// system state. Malformed JSON, unknown commands, and missing ids are
// reported as bad requests; controller errors pass through unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (models.State, *models.AppError) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.State{}, models.ErrBadRequest("dispatch: malformed command: " + err.Error())
	}
	if env.Command == "" {
		return models.State{}, models.ErrBadRequest("dispatch: missing command field")
	}

	switch env.Command {
	case "return_state":
		return d.ctrl.State(), nil

	case "set_source":
		var cmd setSourceCmd
		if appErr := decodeBody(raw, &cmd, env.Command); appErr != nil {
			return models.State{}, appErr
		}
		if cmd.ID == nil {
			return models.State{}, missingID(env.Command)
		}
		return d.ctrl.SetSource(ctx, *cmd.ID, cmd.SourceUpdate)

	case "set_zone":
		var cmd setZoneCmd
		if appErr := decodeBody(raw, &cmd, env.Command); appErr != nil {
			return models.State{}, appErr
		}
		if cmd.ID == nil {
			return models.State{}, missingID(env.Command)
		}
		return d.ctrl.SetZone(ctx, *cmd.ID, cmd.ZoneUpdate)

	case "set_group":
		var cmd setGroupCmd
		if appErr := decodeBody(raw, &cmd, env.Command); appErr != nil {
			return models.State{}, appErr
		}
		if cmd.ID == nil {
			return models.State{}, missingID(env.Command)
		}
		return d.ctrl.SetGroup(ctx, *cmd.ID, cmd.GroupUpdate)

	case "create_group":
		var cmd models.GroupCreate
		if appErr := decodeBody(raw, &cmd, env.Command); appErr != nil {
			return models.State{}, appErr
		}
		return d.ctrl.CreateGroup(ctx, cmd)

	case "delete_group":
		var cmd deleteGroupCmd
		if appErr := decodeBody(raw, &cmd, env.Command); appErr != nil {
			return models.State{}, appErr
		}
		if cmd.ID == nil {
			return models.State{}, missingID(env.Command)
		}
		return d.ctrl.DeleteGroup(ctx, *cmd.ID)

	default:
		return models.State{}, models.ErrBadRequest(fmt.Sprintf("dispatch: unknown command %q", env.Command))
	}
}

func decodeBody(raw []byte, dst any, command string) *models.AppError {
	if err := json.Unmarshal(raw, dst); err != nil {
		return models.ErrBadRequest(fmt.Sprintf("dispatch: %s: %s", command, err.Error()))
	}
	return nil
}

func missingID(command string) *models.AppError {
	return models.ErrBadRequest(fmt.Sprintf("dispatch: %s: missing id", command))
}
