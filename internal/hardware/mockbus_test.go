package hardware_test

import (
	"context"
	"strings"
	"testing"

	"github.com/micro-nova/ethaudio-go/internal/hardware"
)

func TestMockBusWriteAndReadBack(t *testing.T) {
	b := hardware.NewMockBus()
	ctx := context.Background()

	if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.RegMute, 0x3F); err != nil {
		t.Fatalf("WriteRegister failed: %v", err)
	}
	if got := b.Register(hardware.BoardBaseAddr(0), hardware.RegMute); got != 0x3F {
		t.Errorf("MUTE register = 0x%02x, want 0x3F", got)
	}
	// Unwritten registers read as zero.
	if got := b.Register(hardware.BoardBaseAddr(1), hardware.RegStandby); got != 0 {
		t.Errorf("unwritten register = 0x%02x, want 0", got)
	}
}

func TestMockBusRejectsBadAddresses(t *testing.T) {
	b := hardware.NewMockBus()
	ctx := context.Background()

	if err := b.WriteRegister(ctx, 0x07, hardware.RegMute, 0); err == nil {
		t.Error("expected error for non-board address")
	}
	if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), 0x0B, 0); err == nil {
		t.Error("expected error for out-of-range register")
	}
}

func TestMockBusFailWrite(t *testing.T) {
	b := hardware.NewMockBus()
	ctx := context.Background()

	b.SetFailWrite(true)
	if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.RegMute, 0x01); err == nil {
		t.Fatal("expected configured write failure")
	}
	b.SetFailWrite(false)
	if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.RegMute, 0x01); err != nil {
		t.Fatalf("write failed after clearing failure: %v", err)
	}
}

func TestMockBusFailAfterWrites(t *testing.T) {
	b := hardware.NewMockBus()
	ctx := context.Background()

	b.FailAfterWrites(2)
	for i := 0; i < 2; i++ {
		if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.AttenReg(i), 10); err != nil {
			t.Fatalf("write %d failed early: %v", i, err)
		}
	}
	if err := b.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.AttenReg(2), 10); err == nil {
		t.Fatal("expected failure after write limit")
	}
}

func TestMockBusDumpState(t *testing.T) {
	b := hardware.NewMockBus()
	ctx := context.Background()

	board := hardware.BoardBaseAddr(0)
	if err := b.WriteRegister(ctx, board, hardware.RegMute, 0x01); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteRegister(ctx, board, hardware.RegCh123Src, hardware.PackSrc123(2, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteRegister(ctx, board, hardware.AttenReg(0), 20); err != nil {
		t.Fatal(err)
	}

	dump := b.DumpState()
	if !strings.Contains(dump, "board 0 (0x08):") {
		t.Errorf("dump missing board header:\n%s", dump)
	}
	if !strings.Contains(dump, "source 2 --> zone 0") {
		t.Errorf("dump missing zone 0 routing:\n%s", dump)
	}
	if !strings.Contains(dump, "muted") {
		t.Errorf("dump missing mute flag:\n%s", dump)
	}
}
