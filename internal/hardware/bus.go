// Package hardware provides the register-level abstraction for EthAudio
// preamp boards: the write-only control bus, its simulated and real
// implementations, and the register encoding shared by both.
package hardware

import "context"

// Register is a board-relative control register address.
type Register = byte

// BoardAddr is a preamp board's base address on the control bus.
type BoardAddr = byte

// Bus is the minimal transport capability: write one byte to one register on
// one board. The command layer never reads registers; the in-memory state
// store is authoritative.
type Bus interface {
	WriteRegister(ctx context.Context, board BoardAddr, reg Register, val byte) error
}

// Introspector is an optional bus capability for diagnostics. The simulated
// bus decodes its register banks into a human-readable dump; transports that
// cannot read back state return an empty string.
type Introspector interface {
	DumpState() string
}

// BusError is returned when a bus write fails.
type BusError struct {
	msg string
}

func (e BusError) Error() string { return e.msg }

// ErrBus creates a new bus error.
func ErrBus(msg string) error { return BusError{msg: msg} }
