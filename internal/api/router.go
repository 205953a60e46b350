package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// maxCommandBytes bounds a single command body; real commands are tiny.
const maxCommandBytes = 1 << 16

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, disp Dispatcher, bus EventBus) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, disp: disp, events: bus}

	// System state and the command endpoint
	r.Get("/api", h.getState)
	r.Get("/api/", h.getState)
	r.Post("/api", h.postCommand)
	r.Post("/api/", h.postCommand)

	// Diagnostics
	r.Get("/api/hw", h.getHardwareDump)

	// SSE
	r.Get("/api/subscribe", h.sseEvents)

	return r
}

// getState returns the full system state.
func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

// postCommand executes a single JSON command and returns the resulting state.
func (h *Handlers) postCommand(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes))
	if err != nil {
		writeError(w, models.ErrBadRequest("unable to read command body"))
		return
	}

	state, appErr := h.disp.Dispatch(r.Context(), raw)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// getHardwareDump returns the bus's diagnostic register decode as plain text.
// Empty on transports without introspection.
func (h *Handlers) getHardwareDump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.ctrl.DumpHardwareState())
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
