//go:build !linux

package hardware

import "context"

// I2CBus is only functional on Linux; this stub lets the daemon build on
// other platforms, where the simulated bus is the only usable transport.
type I2CBus struct{}

func NewI2CBus() *I2CBus { return &I2CBus{} }

func (b *I2CBus) Init(ctx context.Context) error {
	return ErrBus("i2c: only supported on linux")
}

func (b *I2CBus) Close() {}

func (b *I2CBus) WriteRegister(ctx context.Context, board BoardAddr, reg Register, val byte) error {
	return ErrBus("i2c: only supported on linux")
}

func (b *I2CBus) DumpState() string { return "" }
