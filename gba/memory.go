// Package gba models the console side of the machine: the memory bus
// with its region decoder, the interrupt controller, the display
// timing generator, and the System that wires them to the CPU core.
package gba

// Region base addresses. The top byte of an address selects the region.
const (
	BIOSBase    = 0x00000000
	EWRAMBase   = 0x02000000
	IWRAMBase   = 0x03000000
	IOBase      = 0x04000000
	PaletteBase = 0x05000000
	VRAMBase    = 0x06000000
	OAMBase     = 0x07000000
	ROMBase     = 0x08000000
)

// Region sizes in bytes.
const (
	BIOSSize    = 16 * 1024
	EWRAMSize   = 256 * 1024
	IWRAMSize   = 32 * 1024
	IOSize      = 1024
	PaletteSize = 1024
	VRAMSize    = 96 * 1024
	OAMSize     = 1024
	ROMMaxSize  = 32 * 1024 * 1024
)

// IORegs is the register file behind the I/O window. Registers are
// 16 bits wide; the bus splits word accesses into two halfword
// register accesses so that side effects (such as the write-to-clear
// interrupt flags) fire exactly once per register. Byte writes are
// forwarded per lane rather than read-modify-write: merging the live
// value of the untouched lane back through WriteReg would acknowledge
// interrupt flags the software never wrote.
type IORegs interface {
	ReadReg(off uint32) uint16
	WriteReg(off uint32, v uint16)
	WriteRegByte(off uint32, v uint8)
}

// Memory is the address decoder and backing storage for every bus
// region. It implements the CPU core's bus contract.
//
// All multi-byte accesses are assembled from bytes with explicit
// shifts so the result is independent of host endianness. Unaligned
// addresses are masked down to the containing aligned unit and the
// requested lane is selected from it. Sub-word writes to plain
// storage are read-modify-write of the containing aligned word.
// Unmapped reads return zero and unmapped writes are dropped.
type Memory struct {
	bios    [BIOSSize]byte
	ewram   [EWRAMSize]byte
	iwram   [IWRAMSize]byte
	palette [PaletteSize]byte
	vram    [VRAMSize]byte
	oam     [OAMSize]byte
	rom     []byte

	io IORegs
}

// NewMemory builds the bus. bios may be nil (reads as zero) and rom
// may be any length up to the cartridge window; both are
// write-protected. io receives every access in the I/O window.
func NewMemory(bios, rom []byte, io IORegs) *Memory {
	m := &Memory{rom: rom, io: io}
	copy(m.bios[:], bios)
	return m
}

// ram resolves an address to its backing slice, the offset within it,
// and whether the region accepts writes. A nil slice means the
// address is unmapped (or routed to the I/O window, which the callers
// check first).
func (m *Memory) ram(addr uint32) (region []byte, off uint32, writable bool) {
	switch addr >> 24 {
	case 0x00:
		if addr >= BIOSSize {
			return nil, 0, false
		}
		return m.bios[:], addr, false
	case 0x02:
		return m.ewram[:], addr & (EWRAMSize - 1), true
	case 0x03:
		return m.iwram[:], addr & (IWRAMSize - 1), true
	case 0x05:
		return m.palette[:], addr & (PaletteSize - 1), true
	case 0x06:
		// The 96K of VRAM sits in a 128K window with the upper
		// 32K mirroring the last bank.
		off = addr & 0x1FFFF
		if off >= VRAMSize {
			off -= 0x8000
		}
		return m.vram[:], off, true
	case 0x07:
		return m.oam[:], addr & (OAMSize - 1), true
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D:
		off = addr & (ROMMaxSize - 1)
		if off >= uint32(len(m.rom)) {
			return nil, 0, false
		}
		return m.rom, off, false
	default:
		return nil, 0, false
	}
}

func isIO(addr uint32) bool {
	return addr >= IOBase && addr < IOBase+IOSize
}

func readLE32(b []byte, off uint32) uint32 {
	return uint32(b[off]) |
		uint32(b[off+1])<<8 |
		uint32(b[off+2])<<16 |
		uint32(b[off+3])<<24
}

func writeLE32(b []byte, off uint32, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

// readWord returns the aligned word containing addr.
func (m *Memory) readWord(addr uint32) uint32 {
	a := addr &^ 3
	if isIO(a) {
		off := a - IOBase
		return uint32(m.io.ReadReg(off)) | uint32(m.io.ReadReg(off+2))<<16
	}
	region, off, _ := m.ram(a)
	if region == nil {
		return 0
	}
	return readLE32(region, off)
}

// writeWord stores a full aligned word.
func (m *Memory) writeWord(addr uint32, v uint32) {
	a := addr &^ 3
	if isIO(a) {
		off := a - IOBase
		m.io.WriteReg(off, uint16(v))
		m.io.WriteReg(off+2, uint16(v>>16))
		return
	}
	region, off, writable := m.ram(a)
	if region == nil || !writable {
		return
	}
	writeLE32(region, off, v)
}

func (m *Memory) Read32(addr uint32) uint32 {
	return m.readWord(addr)
}

func (m *Memory) Read16(addr uint32) uint16 {
	if isIO(addr) {
		return m.io.ReadReg((addr - IOBase) &^ 1)
	}
	w := m.readWord(addr)
	return uint16(w >> (((addr >> 1) & 1) * 16))
}

func (m *Memory) Read8(addr uint32) uint8 {
	if isIO(addr) {
		return uint8(m.io.ReadReg((addr-IOBase)&^1) >> ((addr & 1) * 8))
	}
	w := m.readWord(addr)
	return uint8(w >> ((addr & 3) * 8))
}

func (m *Memory) Write32(addr uint32, v uint32) {
	m.writeWord(addr, v)
}

func (m *Memory) Write16(addr uint32, v uint16) {
	if isIO(addr) {
		m.io.WriteReg((addr-IOBase)&^1, v)
		return
	}
	shift := ((addr >> 1) & 1) * 16
	w := m.readWord(addr)
	w = w&^(0xFFFF<<shift) | uint32(v)<<shift
	m.writeWord(addr, w)
}

func (m *Memory) Write8(addr uint32, v uint8) {
	if isIO(addr) {
		m.io.WriteRegByte(addr-IOBase, v)
		return
	}
	shift := (addr & 3) * 8
	w := m.readWord(addr)
	w = w&^(0xFF<<shift) | uint32(v)<<shift
	m.writeWord(addr, w)
}
