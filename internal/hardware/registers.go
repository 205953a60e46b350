package hardware

// Register addresses matching the preamp firmware's control register bank.
const (
	RegSrcAD    Register = 0x00 // Source analog/digital select (1 bit per source, 1=digital)
	RegCh123Src Register = 0x01 // Zones 1-3 source routing (2 bits per zone)
	RegCh456Src Register = 0x02 // Zones 4-6 source routing (2 bits per zone)
	RegMute     Register = 0x03 // Zone mute bits (1 bit per zone, 1=muted)
	RegStandby  Register = 0x04 // Zone standby bits (1 bit per zone, 1=standby)
	RegCh1Atten Register = 0x05 // Zone 1 attenuation (0=0dB, 79=quietest)
	RegCh2Atten Register = 0x06
	RegCh3Atten Register = 0x07
	RegCh4Atten Register = 0x08
	RegCh5Atten Register = 0x09
	RegCh6Atten Register = 0x0A
)

// NumRegisters is the size of one board's register bank.
const NumRegisters = int(RegCh6Atten) + 1

// ZonesPerBoard is the number of output channels on one preamp board.
const ZonesPerBoard = 6

// MaxBoards is the number of boards the bus addressing scheme supports.
const MaxBoards = 15

// MaxAtten is the largest attenuation magnitude a volume register holds.
const MaxAtten byte = 79

// BoardBaseAddr returns the bus base address for a board index (0-based).
// Boards are addressed in increments of 8 starting at 0x08.
func BoardBaseAddr(board int) BoardAddr {
	return BoardAddr(0x08 * (board + 1))
}

// BoardIndex returns the 0-based board index for a bus base address, or -1 if
// the address is not a valid board address.
func BoardIndex(addr BoardAddr) int {
	if addr == 0 || addr%0x08 != 0 {
		return -1
	}
	board := int(addr)/0x08 - 1
	if board >= MaxBoards {
		return -1
	}
	return board
}

// BoardOfZone returns the board index holding the given system-wide zone id.
func BoardOfZone(zone int) int { return zone / ZonesPerBoard }

// ChannelOfZone returns the board-local channel (0-5) for a zone id.
func ChannelOfZone(zone int) int { return zone % ZonesPerBoard }

// AttenReg returns the attenuation register for a board-local channel (0-5).
func AttenReg(channel int) Register {
	if channel < 0 || channel >= ZonesPerBoard {
		return RegCh1Atten
	}
	return Register(RegCh1Atten + byte(channel))
}

// VolToAtten converts a volume in dB [-79, 0] to the attenuation magnitude
// the hardware stores (0 = loudest, 79 = quietest).
func VolToAtten(vol int) byte {
	if vol > 0 {
		vol = 0
	}
	if vol < -int(MaxAtten) {
		vol = -int(MaxAtten)
	}
	return byte(-vol)
}

// AttenToVol converts an attenuation register value back to dB.
func AttenToVol(atten byte) int {
	if atten > MaxAtten {
		atten = MaxAtten
	}
	return -int(atten)
}

// PackSrc123 packs the source indices for channels 1-3 into the CH123_SRC
// register byte. Bits: [1:0]=ch1, [3:2]=ch2, [5:4]=ch3, [7:6] unused.
func PackSrc123(s1, s2, s3 int) byte {
	return byte((s1&0x3)<<0 | (s2&0x3)<<2 | (s3&0x3)<<4)
}

// UnpackSrc123 is the exact inverse of PackSrc123.
func UnpackSrc123(b byte) (s1, s2, s3 int) {
	s1 = int(b>>0) & 0x3
	s2 = int(b>>2) & 0x3
	s3 = int(b>>4) & 0x3
	return
}

// PackSrc456 packs the source indices for channels 4-6 into the CH456_SRC
// register byte. Same bit layout as CH123_SRC.
func PackSrc456(s4, s5, s6 int) byte {
	return byte((s4&0x3)<<0 | (s5&0x3)<<2 | (s6&0x3)<<4)
}

// UnpackSrc456 is the exact inverse of PackSrc456.
func UnpackSrc456(b byte) (s4, s5, s6 int) {
	s4 = int(b>>0) & 0x3
	s5 = int(b>>2) & 0x3
	s6 = int(b>>4) & 0x3
	return
}

// PackZoneBits packs one flag per board channel into a bitfield byte.
// Bit z is set when channel z's flag is true. Used for MUTE and STANDBY.
func PackZoneBits(flags [ZonesPerBoard]bool) byte {
	var b byte
	for i, f := range flags {
		if f {
			b |= 1 << uint(i)
		}
	}
	return b
}

// UnpackZoneBits is the exact inverse of PackZoneBits.
func UnpackZoneBits(b byte) [ZonesPerBoard]bool {
	var flags [ZonesPerBoard]bool
	for i := range flags {
		flags[i] = b&(1<<uint(i)) != 0
	}
	return flags
}

// PackSourceAD packs the system-wide digital select flags into the SRC_AD
// register byte. Bit i set means source i is digital.
func PackSourceAD(digital [4]bool) byte {
	var b byte
	for i, d := range digital {
		if d {
			b |= 1 << uint(i)
		}
	}
	return b
}

// UnpackSourceAD is the exact inverse of PackSourceAD.
func UnpackSourceAD(b byte) [4]bool {
	var digital [4]bool
	for i := range digital {
		digital[i] = b&(1<<uint(i)) != 0
	}
	return digital
}
