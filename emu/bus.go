package emu

// Bus is the memory capability the core consumes. It is passed into
// every step rather than owned, so the core can run against the real
// system bus or a synthetic one in tests.
//
// Implementations realize sub-word writes as read-modify-write of the
// containing aligned word and realign unaligned multi-byte reads by
// masking the low address bits; unmapped reads return zero and
// unmapped writes are dropped.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// InterruptSource is the interrupt controller capability the core
// consumes. Pending means requested, individually enabled, and master
// enabled; the CPU additionally applies its own CPSR disable bits.
type InterruptSource interface {
	PendingIRQ() bool
	PendingFIQ() bool
}

// CycleModel prices a data memory access in cycles. The core charges
// one base cycle per step on its own; the model only covers the
// wait-state class of the target region.
type CycleModel interface {
	MemCycles(addr uint32, width int) uint64
}

// FlatCycles is the default cycle model: every access costs one cycle.
type FlatCycles struct{}

// MemCycles implements CycleModel.
func (FlatCycles) MemCycles(addr uint32, width int) uint64 { return 1 }
