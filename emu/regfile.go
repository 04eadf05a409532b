// Package emu provides functional ARM7TDMI emulation.
package emu

import "fmt"

// CPSR bit assignments.
const (
	FlagN uint32 = 1 << 31 // negative
	FlagZ uint32 = 1 << 30 // zero
	FlagC uint32 = 1 << 29 // carry / not-borrow
	FlagV uint32 = 1 << 28 // signed overflow
	FlagI uint32 = 1 << 7  // IRQ disable
	FlagF uint32 = 1 << 6  // FIQ disable
	FlagT uint32 = 1 << 5  // Thumb state
)

// ModeMask selects the CPSR mode field.
const ModeMask uint32 = 0x1F

// Mode represents a processor mode, using the hardware encoding of the
// CPSR mode field.
type Mode uint8

// Processor modes.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

// Valid reports whether m is one of the seven architected modes. Any
// other bit pattern in the mode field is a defect, never a default.
func (m Mode) Valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor,
		ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// Privileged reports whether m has a saved status register of its own.
func (m Mode) Privileged() bool {
	return m != ModeUser && m != ModeSystem && m.Valid()
}

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	}
	return fmt.Sprintf("Mode(%#02x)", uint8(m))
}

// bankIndex maps a mode to its slot in the banked register arrays.
// User and System share a slot. Callers validate the mode first; an
// invalid value reaching this point is a broken invariant.
func bankIndex(m Mode) int {
	switch m {
	case ModeUser, ModeSystem:
		return 0
	case ModeFIQ:
		return 1
	case ModeIRQ:
		return 2
	case ModeSupervisor:
		return 3
	case ModeAbort:
		return 4
	case ModeUndefined:
		return 5
	}
	panic(fmt.Sprintf("emu: bank index for invalid mode %#02x", uint8(m)))
}

// RegFile holds the visible registers, the status registers, and the
// banked shadow sets.
//
// The visible array R is the single source of truth for the active
// mode: bank slots are written only when control leaves a mode and
// read only when control enters one.
type RegFile struct {
	// R holds the visible registers R0-R15. R15 is the program
	// counter and, between steps, addresses the next instruction.
	R [16]uint32

	// CPSR is the current program status register.
	CPSR uint32

	// Saved status registers, one per privileged mode; the shared
	// User/System slot exists but is never architecturally visible.
	spsr [6]uint32

	// Banked R13/R14 per mode (User and System share slot 0), and
	// the R8-R12 shadows: fiqLo holds FIQ's set, usrLo the set every
	// other mode shares.
	bankR13 [6]uint32
	bankR14 [6]uint32
	fiqLo   [5]uint32
	usrLo   [5]uint32
}

// NewRegFile creates a register file in the documented power-on state.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset restores the power-on state: execution starts at the beginning
// of cartridge ROM space in System mode, ARM state, flags clear, with
// the per-mode stack pointers preloaded.
func (r *RegFile) Reset() {
	*r = RegFile{}
	r.CPSR = uint32(ModeSystem)
	r.R[15] = 0x08000000

	r.R[13] = 0x03007F00 // visible System stack
	r.bankR13[bankIndex(ModeUser)] = 0x03007F00
	r.bankR13[bankIndex(ModeIRQ)] = 0x03007FA0
	r.bankR13[bankIndex(ModeFIQ)] = 0x03007FE0
	r.bankR13[bankIndex(ModeSupervisor)] = 0x03007FE0
	r.bankR13[bankIndex(ModeAbort)] = 0x03007FE0
	r.bankR13[bankIndex(ModeUndefined)] = 0x03007FE0
}

// Mode returns the mode encoded in the CPSR.
func (r *RegFile) Mode() Mode {
	return Mode(r.CPSR & ModeMask)
}

// Thumb reports whether the CPU is in Thumb state.
func (r *RegFile) Thumb() bool {
	return r.CPSR&FlagT != 0
}

// Flags returns the four condition flags.
func (r *RegFile) Flags() (n, z, c, v bool) {
	return r.CPSR&FlagN != 0, r.CPSR&FlagZ != 0,
		r.CPSR&FlagC != 0, r.CPSR&FlagV != 0
}

// SetNZ updates the negative and zero flags from a result.
func (r *RegFile) SetNZ(result uint32) {
	r.CPSR &^= FlagN | FlagZ
	if result == 0 {
		r.CPSR |= FlagZ
	}
	if result&(1<<31) != 0 {
		r.CPSR |= FlagN
	}
}

// SetC sets or clears the carry flag.
func (r *RegFile) SetC(c bool) {
	if c {
		r.CPSR |= FlagC
	} else {
		r.CPSR &^= FlagC
	}
}

// SetV sets or clears the overflow flag.
func (r *RegFile) SetV(v bool) {
	if v {
		r.CPSR |= FlagV
	} else {
		r.CPSR &^= FlagV
	}
}

// SPSR returns the saved status register of the current mode. User
// and System have none; reading it yields the CPSR, matching the
// unpredictable-but-harmless choice the hardware references describe.
func (r *RegFile) SPSR() uint32 {
	m := r.Mode()
	if !m.Privileged() {
		return r.CPSR
	}
	return r.spsr[bankIndex(m)]
}

// SetSPSR writes the saved status register of the current mode. The
// write is dropped for User/System, which have no SPSR.
func (r *RegFile) SetSPSR(v uint32) {
	m := r.Mode()
	if !m.Privileged() {
		return
	}
	r.spsr[bankIndex(m)] = v
}

// SwitchMode banks the visible R13/R14 (and R8-R12 when leaving FIQ)
// into the current mode's slots, rewrites the CPSR mode field, and
// loads the target mode's slots. Flags and the Thumb bit are
// untouched. A switch to the current mode is a no-op.
func (r *RegFile) SwitchMode(target Mode) error {
	if !target.Valid() {
		return fmt.Errorf("switch to invalid mode %#02x", uint8(target))
	}
	current := r.Mode()
	if !current.Valid() {
		return fmt.Errorf("switch away from invalid mode %#02x", uint8(current))
	}
	if target == current {
		return nil
	}

	// Save the visible set for the mode being left.
	idx := bankIndex(current)
	r.bankR13[idx] = r.R[13]
	r.bankR14[idx] = r.R[14]
	if current == ModeFIQ {
		copy(r.fiqLo[:], r.R[8:13])
	} else {
		copy(r.usrLo[:], r.R[8:13])
	}

	r.CPSR = r.CPSR&^ModeMask | uint32(target)

	// Load the set for the mode being entered.
	idx = bankIndex(target)
	r.R[13] = r.bankR13[idx]
	r.R[14] = r.bankR14[idx]
	if target == ModeFIQ {
		copy(r.R[8:13], r.fiqLo[:])
	} else if current == ModeFIQ {
		copy(r.R[8:13], r.usrLo[:])
	}
	return nil
}

// SetCPSR replaces the whole CPSR, switching register banks if the
// mode field changes. An invalid mode pattern is rejected without
// touching any state.
func (r *RegFile) SetCPSR(v uint32) error {
	target := Mode(v & ModeMask)
	if !target.Valid() {
		return fmt.Errorf("CPSR write with invalid mode field %#02x", uint8(target))
	}
	if err := r.SwitchMode(target); err != nil {
		return err
	}
	r.CPSR = v
	return nil
}

// ReadUser returns register i from the User-mode bank regardless of
// the current mode. Used by the S-bit forms of the block transfers.
func (r *RegFile) ReadUser(i int) uint32 {
	m := r.Mode()
	switch {
	case i < 8 || i == 15:
		return r.R[i]
	case i < 13:
		if m == ModeFIQ {
			return r.usrLo[i-8]
		}
		return r.R[i]
	default: // R13, R14
		if m == ModeUser || m == ModeSystem {
			return r.R[i]
		}
		if i == 13 {
			return r.bankR13[0]
		}
		return r.bankR14[0]
	}
}

// WriteUser writes register i in the User-mode bank regardless of the
// current mode.
func (r *RegFile) WriteUser(i int, v uint32) {
	m := r.Mode()
	switch {
	case i < 8 || i == 15:
		r.R[i] = v
	case i < 13:
		if m == ModeFIQ {
			r.usrLo[i-8] = v
		} else {
			r.R[i] = v
		}
	default:
		if m == ModeUser || m == ModeSystem {
			r.R[i] = v
		} else if i == 13 {
			r.bankR13[0] = v
		} else {
			r.bankR14[0] = v
		}
	}
}
