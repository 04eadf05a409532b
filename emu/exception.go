package emu

// Exception identifies one of the seven exception entry paths.
type Exception uint8

// Exceptions, in vector order.
const (
	ExcReset Exception = iota
	ExcUndefined
	ExcSWI
	ExcPrefetchAbort
	ExcDataAbort
	ExcIRQ
	ExcFIQ
)

// Fixed exception vector addresses.
const (
	VectorReset         uint32 = 0x00000000
	VectorUndefined     uint32 = 0x00000004
	VectorSWI           uint32 = 0x00000008
	VectorPrefetchAbort uint32 = 0x0000000C
	VectorDataAbort     uint32 = 0x00000010
	VectorIRQ           uint32 = 0x00000018
	VectorFIQ           uint32 = 0x0000001C
)

// ExceptionCycles is the fixed additional cost of an exception entry.
const ExceptionCycles = 3

func (e Exception) String() string {
	switch e {
	case ExcReset:
		return "reset"
	case ExcUndefined:
		return "undefined"
	case ExcSWI:
		return "swi"
	case ExcPrefetchAbort:
		return "prefetch-abort"
	case ExcDataAbort:
		return "data-abort"
	case ExcIRQ:
		return "irq"
	case ExcFIQ:
		return "fiq"
	}
	return "exception(?)"
}

// vector returns the fixed address jumped to on entry.
func (e Exception) vector() uint32 {
	return uint32(e) * 4
}

// mode returns the privileged mode the exception executes in.
func (e Exception) mode() Mode {
	switch e {
	case ExcReset, ExcSWI:
		return ModeSupervisor
	case ExcUndefined:
		return ModeUndefined
	case ExcPrefetchAbort, ExcDataAbort:
		return ModeAbort
	case ExcIRQ:
		return ModeIRQ
	default: // ExcFIQ
		return ModeFIQ
	}
}

// enterException performs the uniform entry sequence: save the
// pre-entry status register into the destination mode's SPSR slot,
// deposit the return address in that mode's R14, switch banks, raise
// the interrupt-disable bits for the exception class, force ARM state
// and jump to the vector. Entering the destination mode while already
// in it stores straight into the visible R14, which is the live copy
// of that slot.
func (c *CPU) enterException(exc Exception, returnAddr uint32) {
	regs := c.regs
	dest := exc.mode()
	before := regs.CPSR

	if regs.Mode() == dest {
		regs.R[14] = returnAddr
	} else {
		regs.bankR14[bankIndex(dest)] = returnAddr
	}
	regs.spsr[bankIndex(dest)] = before

	// The destination is always one of the architected modes.
	_ = regs.SwitchMode(dest)

	regs.CPSR |= FlagI
	if exc == ExcFIQ {
		regs.CPSR |= FlagF
	}
	regs.CPSR &^= FlagT

	// Vector fetch replaces any prefetched instruction.
	regs.R[15] = exc.vector()

	c.hook.ExceptionTaken(exc, returnAddr)
}
