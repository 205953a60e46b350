// Package api exposes the EthAudio command interface over HTTP: the current
// state, a JSON command endpoint, and a server-sent event stream of state
// changes.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	disp   Dispatcher
	events EventBus
}

// Controller is the interface the handlers use to read system state.
type Controller interface {
	State() models.State
	DumpHardwareState() string
}

// Dispatcher executes a raw JSON command and returns the resulting state.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw []byte) (models.State, *models.AppError)
}

// EventBus is the interface for subscribing to state change events.
type EventBus interface {
	Subscribe() (string, <-chan models.State)
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if appErr, ok := err.(*models.AppError); ok {
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrInternal(err.Error()))
}
