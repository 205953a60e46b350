//go:build linux

package hardware

import (
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIO pins controlling the first preamp board's microcontroller
// (BCM numbering). Expansion boards chain their reset lines from the first.
const (
	pinNRST  = "GPIO4" // active-low reset
	pinBOOT0 = "GPIO5" // boot mode select (0=firmware, 1=bootloader)
)

// resetPreamps performs the hardware reset sequence for the preamp chain.
// Must run before UART address assignment: a board in an unknown state will
// not accept an address.
//
// bootloader selects the microcontroller's boot source after reset; normal
// operation boots from flash.
func resetPreamps(bootloader bool) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("gpio: host init failed: %w", err)
	}

	nrst := gpioreg.ByName(pinNRST)
	if nrst == nil {
		return fmt.Errorf("gpio: failed to open %s (NRST)", pinNRST)
	}
	boot0 := gpioreg.ByName(pinBOOT0)
	if boot0 == nil {
		return fmt.Errorf("gpio: failed to open %s (BOOT0)", pinBOOT0)
	}

	if err := nrst.Out(gpio.Low); err != nil {
		return fmt.Errorf("gpio: failed to assert NRST: %w", err)
	}
	level := gpio.Low
	if bootloader {
		level = gpio.High
	}
	if err := boot0.Out(level); err != nil {
		return fmt.Errorf("gpio: failed to set BOOT0: %w", err)
	}

	// Reset must be held >300ns; 1ms gives plenty of margin.
	time.Sleep(time.Millisecond)

	if err := nrst.Out(gpio.High); err != nil {
		return fmt.Errorf("gpio: failed to release NRST: %w", err)
	}

	// The firmware takes ~6ms to come up after reset.
	time.Sleep(10 * time.Millisecond)

	slog.Debug("gpio: preamp reset complete", "bootloader", bootloader)
	return nil
}
