package gba

// Display timing geometry. Every scanline is 308 dot clocks of which
// 240 are visible; a frame is 228 scanlines of which 160 are visible.
const (
	DotsPerLine   = 308
	VisibleDots   = 240
	LinesPerFrame = 228
	VisibleLines  = 160
	DotsPerFrame  = DotsPerLine * LinesPerFrame
)

// Display register offsets within the I/O window.
const (
	RegDISPCNT  = 0x000
	RegDISPSTAT = 0x004
	RegVCOUNT   = 0x006
)

// DISPSTAT bits.
const (
	statVBlank     = 1 << 0 // in the vertical blanking interval
	statHBlank     = 1 << 1 // past the visible portion of the line
	statVCount     = 1 << 2 // scanline matches the VCount setting
	statVBlankIRQ  = 1 << 3
	statHBlankIRQ  = 1 << 4
	statVCountIRQ  = 1 << 5
	statWritable   = statVBlankIRQ | statHBlankIRQ | statVCountIRQ | 0xFF00
	statTargetLine = 0xFF00 // VCount setting
)

// Video advances the dot and scanline counters, maintains the display
// status register, and raises the three display interrupts at the
// hardware-defined points (H-blank at dot 240, V-count match on line
// change, V-blank entering line 160). No rendering happens here; the
// picture-generation registers below DISPSTAT are plain storage.
type Video struct {
	irq *InterruptController

	dot  uint32
	line uint32

	dispstat uint16
	regs     [0x60 / 2]uint16 // DISPCNT through the BG/window block
}

func NewVideo(irq *InterruptController) *Video {
	return &Video{irq: irq}
}

// Line returns the current scanline, as exposed through VCOUNT.
func (v *Video) Line() uint32 { return v.line }

// InVBlank reports whether the beam is in the vertical blanking rows.
func (v *Video) InVBlank() bool { return v.dispstat&statVBlank != 0 }

// Tick advances the display by n dot clocks.
func (v *Video) Tick(n uint64) {
	for ; n > 0; n-- {
		v.dot++
		if v.dot == VisibleDots {
			v.dispstat |= statHBlank
			if v.dispstat&statHBlankIRQ != 0 {
				v.irq.Request(IntHBlank)
			}
		}
		if v.dot < DotsPerLine {
			continue
		}
		v.dot = 0
		v.dispstat &^= statHBlank
		v.line++
		if v.line == LinesPerFrame {
			v.line = 0
			v.dispstat &^= statVBlank
		}
		v.enterLine()
	}
}

// enterLine applies the per-scanline status updates for v.line.
func (v *Video) enterLine() {
	target := uint32(v.dispstat&statTargetLine) >> 8
	if v.line == target {
		v.dispstat |= statVCount
		if v.dispstat&statVCountIRQ != 0 {
			v.irq.Request(IntVCount)
		}
	} else {
		v.dispstat &^= statVCount
	}
	if v.line == VisibleLines {
		v.dispstat |= statVBlank
		if v.dispstat&statVBlankIRQ != 0 {
			v.irq.Request(IntVBlank)
		}
	}
}

// ReadReg and WriteReg implement the display slice of the I/O window.
func (v *Video) ReadReg(off uint32) uint16 {
	switch off {
	case RegDISPSTAT:
		return v.dispstat
	case RegVCOUNT:
		return uint16(v.line)
	default:
		if off < uint32(len(v.regs)*2) {
			return v.regs[off/2]
		}
		return 0
	}
}

func (v *Video) WriteReg(off uint32, val uint16) {
	switch off {
	case RegDISPSTAT:
		// The status flags in the low bits are read-only.
		v.dispstat = v.dispstat&^statWritable | val&statWritable
	case RegVCOUNT:
		// read-only
	default:
		if off < uint32(len(v.regs)*2) {
			v.regs[off/2] = val
		}
	}
}

// WriteRegByte stores one byte lane of a register. Display registers
// have no write side effects, so merging through the halfword path is
// safe and keeps the read-only masking in one place.
func (v *Video) WriteRegByte(off uint32, val uint8) {
	reg := off &^ 1
	shift := (off & 1) * 8
	r := v.ReadReg(reg)
	v.WriteReg(reg, r&^(0xFF<<shift)|uint16(val)<<shift)
}

func (v *Video) Reset() {
	v.dot = 0
	v.line = 0
	v.dispstat = 0
	v.regs = [0x60 / 2]uint16{}
}
