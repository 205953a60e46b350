// Package runtime translates zone-indexed configuration vectors into the
// per-board register writes the preamp hardware understands. The encoding is
// identical for the simulated and real buses; only the transport behind the
// hardware.Bus interface differs.
package runtime

import (
	"context"
	"fmt"

	"github.com/micro-nova/ethaudio-go/internal/hardware"
	"github.com/micro-nova/ethaudio-go/internal/models"
)

// Runtime issues register writes for full system-wide configuration vectors.
// Every update receives the complete vector but writes only the board
// containing the target zone; the hardware has no multi-register transaction,
// so callers sequence updates themselves.
type Runtime struct {
	bus hardware.Bus
}

// New creates a Runtime on top of the given control bus.
func New(bus hardware.Bus) *Runtime {
	return &Runtime{bus: bus}
}

// UpdateSources writes the analog/digital select for all 4 system sources.
// Source selection hardware lives on the first board only.
func (r *Runtime) UpdateSources(ctx context.Context, digital [models.NumSources]bool) error {
	return r.bus.WriteRegister(ctx, hardware.BoardBaseAddr(0), hardware.RegSrcAD, hardware.PackSourceAD(digital))
}

// UpdateZoneMutes writes the mute bitfield for the board containing zone.
// mutes holds one flag per zone system-wide.
func (r *Runtime) UpdateZoneMutes(ctx context.Context, zone int, mutes []bool) error {
	board := boardFor(zone, len(mutes))
	var flags [hardware.ZonesPerBoard]bool
	copy(flags[:], mutes[board*hardware.ZonesPerBoard:])
	return r.bus.WriteRegister(ctx, hardware.BoardBaseAddr(board), hardware.RegMute, hardware.PackZoneBits(flags))
}

// UpdateZoneStbys writes the standby bitfield for the board containing zone.
// stbys holds one flag per zone system-wide.
func (r *Runtime) UpdateZoneStbys(ctx context.Context, zone int, stbys []bool) error {
	board := boardFor(zone, len(stbys))
	var flags [hardware.ZonesPerBoard]bool
	copy(flags[:], stbys[board*hardware.ZonesPerBoard:])
	return r.bus.WriteRegister(ctx, hardware.BoardBaseAddr(board), hardware.RegStandby, hardware.PackZoneBits(flags))
}

// UpdateZoneSources writes the source routing registers for the board
// containing zone. sources holds one source id per zone system-wide;
// models.SourceDisconnected routes the zone to source 0 electrically.
func (r *Runtime) UpdateZoneSources(ctx context.Context, zone int, sources []int) error {
	board := boardFor(zone, len(sources))
	var s [hardware.ZonesPerBoard]int
	for ch := range s {
		src := sources[board*hardware.ZonesPerBoard+ch]
		if src == models.SourceDisconnected {
			src = 0
		}
		if src < 0 || src >= models.NumSources {
			panic(fmt.Sprintf("runtime: source id %d for zone %d out of range",
				src, board*hardware.ZonesPerBoard+ch))
		}
		s[ch] = src
	}
	addr := hardware.BoardBaseAddr(board)
	if err := r.bus.WriteRegister(ctx, addr, hardware.RegCh123Src, hardware.PackSrc123(s[0], s[1], s[2])); err != nil {
		return err
	}
	return r.bus.WriteRegister(ctx, addr, hardware.RegCh456Src, hardware.PackSrc456(s[3], s[4], s[5]))
}

// UpdateZoneVol writes a single zone's attenuation register.
func (r *Runtime) UpdateZoneVol(ctx context.Context, zone, vol int) error {
	if zone < 0 || hardware.BoardOfZone(zone) >= hardware.MaxBoards {
		panic(fmt.Sprintf("runtime: zone %d out of range", zone))
	}
	if vol < models.MinVol || vol > models.MaxVol {
		panic(fmt.Sprintf("runtime: volume %d out of range [%d, %d]", vol, models.MinVol, models.MaxVol))
	}
	board := hardware.BoardOfZone(zone)
	ch := hardware.ChannelOfZone(zone)
	return r.bus.WriteRegister(ctx, hardware.BoardBaseAddr(board), hardware.AttenReg(ch), hardware.VolToAtten(vol))
}

// DumpState returns a diagnostic decode of the bus's register banks when the
// transport supports introspection, otherwise an empty string.
func (r *Runtime) DumpState() string {
	if in, ok := r.bus.(hardware.Introspector); ok {
		return in.DumpState()
	}
	return ""
}

// boardFor checks the vector contract and returns the board index for zone.
// Violations are programming errors in the caller, not user input, so they
// panic rather than return.
func boardFor(zone, vecLen int) int {
	if vecLen == 0 || vecLen%hardware.ZonesPerBoard != 0 {
		panic(fmt.Sprintf("runtime: vector length %d is not a multiple of %d", vecLen, hardware.ZonesPerBoard))
	}
	if zone < 0 || zone >= vecLen {
		panic(fmt.Sprintf("runtime: zone %d outside vector of %d zones", zone, vecLen))
	}
	board := hardware.BoardOfZone(zone)
	if board >= hardware.MaxBoards {
		panic(fmt.Sprintf("runtime: board %d exceeds addressing limit", board))
	}
	return board
}
