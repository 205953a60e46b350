package hardware

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MockBus is a thread-safe in-memory control bus holding one register bank
// per preamp board. Boards come into existence on first write, like the
// daisy-chained hardware appearing as addresses are assigned.
type MockBus struct {
	mu        sync.Mutex
	boards    map[BoardAddr]*[NumRegisters]byte
	failWrite bool
	failAfter int // fail writes once this many have succeeded; <0 disables
	writes    int
}

// NewMockBus creates an empty simulated bus.
func NewMockBus() *MockBus {
	return &MockBus{
		boards:    make(map[BoardAddr]*[NumRegisters]byte),
		failAfter: -1,
	}
}

// SetFailWrite configures the bus to fail all writes.
func (b *MockBus) SetFailWrite(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrite = fail
}

// FailAfterWrites configures the bus to accept n more writes and fail every
// write after that. Pass a negative n to clear the limit.
func (b *MockBus) FailAfterWrites(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = 0
	b.failAfter = n
}

func (b *MockBus) WriteRegister(ctx context.Context, board BoardAddr, reg Register, val byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return ErrBus("mockbus: write failure configured")
	}
	if b.failAfter >= 0 && b.writes >= b.failAfter {
		return ErrBus("mockbus: write limit reached")
	}
	if BoardIndex(board) < 0 {
		return ErrBus(fmt.Sprintf("mockbus: 0x%02x is not a board address", board))
	}
	if int(reg) >= NumRegisters {
		return ErrBus(fmt.Sprintf("mockbus: register 0x%02x out of range", reg))
	}
	bank, ok := b.boards[board]
	if !ok {
		bank = new([NumRegisters]byte)
		b.boards[board] = bank
	}
	bank[reg] = val
	b.writes++
	return nil
}

// Register returns a register value for test assertions. Unwritten boards
// and registers read as zero.
func (b *MockBus) Register(board BoardAddr, reg Register) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bank, ok := b.boards[board]; ok && int(reg) < NumRegisters {
		return bank[reg]
	}
	return 0
}

// Writes returns the number of successful writes so far.
func (b *MockBus) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// DumpState decodes every board's register bank into a human-readable
// per-zone summary: source routing, a volume slider, and mute/standby flags.
func (b *MockBus) DumpState() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	addrs := make([]BoardAddr, 0, len(b.boards))
	for addr := range b.boards {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	var sb strings.Builder
	for _, addr := range addrs {
		board := BoardIndex(addr)
		bank := b.boards[addr]
		fmt.Fprintf(&sb, "board %d (0x%02x):\n", board, addr)

		digital := UnpackSourceAD(bank[RegSrcAD])
		for i, d := range digital {
			input := "analog"
			if d {
				input = "digital"
			}
			fmt.Fprintf(&sb, "  source %d: %s\n", i, input)
		}

		s1, s2, s3 := UnpackSrc123(bank[RegCh123Src])
		s4, s5, s6 := UnpackSrc456(bank[RegCh456Src])
		srcs := [ZonesPerBoard]int{s1, s2, s3, s4, s5, s6}
		mutes := UnpackZoneBits(bank[RegMute])
		stbys := UnpackZoneBits(bank[RegStandby])

		for ch := 0; ch < ZonesPerBoard; ch++ {
			zone := board*ZonesPerBoard + ch
			vol := AttenToVol(bank[AttenReg(ch)])
			flags := make([]string, 0, 2)
			if mutes[ch] {
				flags = append(flags, "muted")
			}
			if stbys[ch] {
				flags = append(flags, "in standby")
			}
			fmt.Fprintf(&sb, "  source %d --> zone %d vol [%s] %s\n",
				srcs[ch], zone, volSlider(vol), strings.Join(flags, ", "))
		}
	}
	return sb.String()
}

// volSlider renders a volume as a 20-character slider, a '|' marking the
// current level within [-79, 0].
func volSlider(vol int) string {
	const width = 20
	span := int(MaxAtten) + 1 // 80 discrete levels
	level := (vol + int(MaxAtten)) * width / span
	if level < 0 {
		level = 0
	}
	if level >= width {
		level = width - 1
	}
	s := []byte(strings.Repeat("-", width))
	s[level] = '|'
	return string(s)
}
