//go:build linux

package hardware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"go.bug.st/serial"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

const (
	i2cDevPath   = "/dev/i2c-1"
	i2cRdwrIOCTL = 0x0707 // I2C_RDWR ioctl from linux/i2c-dev.h
	maxOpsPerSec = 500

	uartDev = "/dev/serial0"
)

// i2cMsg mirrors struct i2c_msg from linux/i2c.h.
type i2cMsg struct {
	addr   uint16
	flags  uint16
	length uint16
	_pad   uint16 // struct alignment
	buf    uintptr
}

// i2cRdwr mirrors struct i2c_rdwr_ioctl_data from linux/i2c-dev.h.
type i2cRdwr struct {
	msgs  uintptr
	nmsgs uint32
}

// I2CBus drives the preamp chain over the Raspberry Pi's I2C-1 bus. Writes
// are serialized and rate limited; the firmware cannot keep up with an
// unthrottled master.
type I2CBus struct {
	mu      sync.Mutex
	fd      int
	limiter *rate.Limiter
}

// NewI2CBus creates a real control bus driver. Call Init before use.
func NewI2CBus() *I2CBus {
	return &I2CBus{
		fd:      -1,
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), 10),
	}
}

// Init resets the preamp microcontroller chain, assigns the first board its
// I2C address over UART, and opens the I2C device.
func (b *I2CBus) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := resetPreamps(false); err != nil {
		slog.Warn("i2c: preamp reset failed", "err", err)
	}

	// The firmware boots with no I2C address and waits for the UART
	// assignment; each board forwards addr+8 down the expansion chain.
	if err := b.assignAddress(); err != nil {
		slog.Warn("i2c: UART address assignment failed (boards may already be addressed)", "err", err)
	}
	// Allow the address to propagate through the chain.
	time.Sleep(100 * time.Millisecond)

	fd, err := unix.Open(i2cDevPath, unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("i2c: open %s: %w", i2cDevPath, err)
	}
	b.fd = fd
	return nil
}

// Close releases the I2C file descriptor.
func (b *I2CBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
}

func (b *I2CBus) WriteRegister(ctx context.Context, board BoardAddr, reg Register, val byte) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return ErrBus("i2c: bus not initialized")
	}
	if BoardIndex(board) < 0 {
		return ErrBus(fmt.Sprintf("i2c: 0x%02x is not a board address", board))
	}

	// Combined write of [reg, val], equivalent to SMBus write_byte_data.
	wbuf := [2]byte{reg, val}
	msgs := [1]i2cMsg{
		{addr: uint16(board), length: 2, buf: uintptr(unsafe.Pointer(&wbuf[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return ErrBus(fmt.Sprintf("i2c: write 0x%02x reg=0x%02x: %v", board, reg, errno))
	}
	return nil
}

// DumpState implements Introspector. The control bus is write-only, so the
// real transport has nothing to report.
func (b *I2CBus) DumpState() string { return "" }

// assignAddress sends the I2C address assignment to the first preamp board
// over UART at 9600 baud: {'A', address, '\r', '\n'}.
func (b *I2CBus) assignAddress() error {
	port, err := serial.Open(uartDev, &serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", uartDev, err)
	}
	defer port.Close()

	if _, err := port.Write([]byte{0x41, byte(BoardBaseAddr(0)), 0x0D, 0x0A}); err != nil {
		return fmt.Errorf("write UART: %w", err)
	}
	slog.Debug("i2c: sent address assignment via UART", "addr", fmt.Sprintf("0x%02x", BoardBaseAddr(0)), "device", uartDev)
	return nil
}
