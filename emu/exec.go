package emu

import (
	"math/bits"

	"github.com/agbsim/agbsim/insts"
)

// execute dispatches a decoded instruction. It returns the extra
// cycles charged beyond the step's base cycle.
//
// Both instruction sets share this path: the Thumb decoder has already
// expanded its groups into the common vocabulary, and the only width
// dependence left is the software-visible program counter offset.
func (c *CPU) execute(bus Bus, inst *insts.Instruction, thumb bool, raw uint32) (uint64, error) {
	switch inst.Format {
	case insts.FormatDataProcessing:
		return c.executeDataProcessing(inst, thumb)
	case insts.FormatMultiply:
		return c.executeMultiply(inst)
	case insts.FormatMultiplyLong:
		return c.executeMultiplyLong(inst)
	case insts.FormatPSRTransfer:
		return c.executePSRTransfer(inst)
	case insts.FormatSingleTransfer:
		return c.executeSingleTransfer(bus, inst, thumb)
	case insts.FormatHalfwordTransfer:
		return c.executeHalfwordTransfer(bus, inst, thumb)
	case insts.FormatBlockTransfer:
		return c.executeBlockTransfer(bus, inst, thumb)
	case insts.FormatBranch:
		return c.executeBranch(inst, thumb)
	case insts.FormatBranchExchange:
		return c.executeBranchExchange(inst, thumb)
	case insts.FormatLongBranch:
		return c.executeLongBranch(inst)
	case insts.FormatSwap:
		return c.executeSwap(bus, inst)
	case insts.FormatSWI:
		c.enterException(ExcSWI, c.regs.R[15])
		return ExceptionCycles, nil
	default:
		// Unrecognized encodings take the architectural Undefined
		// path so software can install a handler.
		width := uint32(4)
		if thumb {
			width = 2
		}
		c.hook.UndefinedEncoding(raw, thumb, c.regs.R[15]-width)
		c.enterException(ExcUndefined, c.regs.R[15])
		return ExceptionCycles, nil
	}
}

// readOperand reads a register as a data operand. R15 reads as the
// current instruction's address plus two instruction widths, the value
// the prefetch pipeline makes visible to software; alignPC additionally
// masks it to a word boundary for the Thumb PC-relative forms.
func (c *CPU) readOperand(r uint8, thumb, alignPC bool) uint32 {
	v := c.regs.R[r]
	if r == 15 {
		if thumb {
			v += 2
		} else {
			v += 4
		}
		if alignPC {
			v &^= 3
		}
	}
	return v
}

// branchTo writes the program counter, realigning to the current
// instruction set. Any prefetched instruction is discarded: the next
// step fetches from the new address.
func (c *CPU) branchTo(target uint32) {
	if c.regs.Thumb() {
		c.regs.R[15] = target &^ 1
	} else {
		c.regs.R[15] = target &^ 3
	}
}

func (c *CPU) executeDataProcessing(inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	_, _, carry, _ := regs.Flags()

	// Operand2 and the shifter carry-out.
	op2 := inst.Imm
	shCarry := carry
	if inst.ImmOperand {
		if inst.RotateImm != 0 {
			shCarry = op2&(1<<31) != 0
		}
	} else {
		val := c.readOperand(inst.Rm, thumb, false)
		if inst.RegShift {
			op2, shCarry = shiftRegister(val, inst.ShiftType, uint8(regs.R[inst.Rs]), carry)
		} else {
			op2, shCarry = shiftImmediate(val, inst.ShiftType, inst.ShiftAmount, carry)
		}
	}

	op1 := c.readOperand(inst.Rn, thumb, inst.AlignPC)

	var (
		res        uint32
		cOut, vOut bool
		arith      bool
		writeRd    = true
	)
	switch inst.Op {
	case insts.OpAND:
		res = op1 & op2
	case insts.OpEOR:
		res = op1 ^ op2
	case insts.OpSUB:
		res, cOut, vOut = subFlags(op1, op2)
		arith = true
	case insts.OpRSB:
		res, cOut, vOut = subFlags(op2, op1)
		arith = true
	case insts.OpADD:
		res, cOut, vOut = addFlags(op1, op2)
		arith = true
	case insts.OpADC:
		res, cOut, vOut = adcFlags(op1, op2, carry)
		arith = true
	case insts.OpSBC:
		res, cOut, vOut = sbcFlags(op1, op2, carry)
		arith = true
	case insts.OpRSC:
		res, cOut, vOut = sbcFlags(op2, op1, carry)
		arith = true
	case insts.OpTST:
		res = op1 & op2
		writeRd = false
	case insts.OpTEQ:
		res = op1 ^ op2
		writeRd = false
	case insts.OpCMP:
		res, cOut, vOut = subFlags(op1, op2)
		arith = true
		writeRd = false
	case insts.OpCMN:
		res, cOut, vOut = addFlags(op1, op2)
		arith = true
		writeRd = false
	case insts.OpORR:
		res = op1 | op2
	case insts.OpMOV:
		res = op2
	case insts.OpBIC:
		res = op1 &^ op2
	case insts.OpMVN:
		res = ^op2
	}

	if inst.SetFlags {
		if writeRd && inst.Rd == 15 {
			// S with R15 as destination is the exception return
			// form: the SPSR comes back wholesale.
			if err := regs.SetCPSR(regs.SPSR()); err != nil {
				return 0, err
			}
		} else {
			regs.SetNZ(res)
			if arith {
				regs.SetC(cOut)
				regs.SetV(vOut)
			} else {
				regs.SetC(shCarry)
			}
		}
	}

	if writeRd {
		if inst.Rd == 15 {
			c.branchTo(res)
		} else {
			regs.R[inst.Rd] = res
		}
	}
	return 0, nil
}

func (c *CPU) executeMultiply(inst *insts.Instruction) (uint64, error) {
	regs := c.regs
	res := regs.R[inst.Rm] * regs.R[inst.Rs]
	if inst.Op == insts.OpMLA {
		res += regs.R[inst.Rn]
	}
	regs.R[inst.Rd] = res
	if inst.SetFlags {
		regs.SetNZ(res)
	}
	return 0, nil
}

func (c *CPU) executeMultiplyLong(inst *insts.Instruction) (uint64, error) {
	regs := c.regs
	var res uint64
	switch inst.Op {
	case insts.OpSMULL, insts.OpSMLAL:
		res = uint64(int64(int32(regs.R[inst.Rm])) * int64(int32(regs.R[inst.Rs])))
	default:
		res = uint64(regs.R[inst.Rm]) * uint64(regs.R[inst.Rs])
	}
	if inst.Op == insts.OpUMLAL || inst.Op == insts.OpSMLAL {
		res += uint64(regs.R[inst.Rd])<<32 | uint64(regs.R[inst.Rn])
	}
	regs.R[inst.Rd] = uint32(res >> 32) // RdHi
	regs.R[inst.Rn] = uint32(res)       // RdLo
	if inst.SetFlags {
		regs.CPSR &^= FlagN | FlagZ
		if res == 0 {
			regs.CPSR |= FlagZ
		}
		if res&(1<<63) != 0 {
			regs.CPSR |= FlagN
		}
	}
	return 0, nil
}

func (c *CPU) executePSRTransfer(inst *insts.Instruction) (uint64, error) {
	regs := c.regs

	if inst.Op == insts.OpMRS {
		if inst.SPSR {
			regs.R[inst.Rd] = regs.SPSR()
		} else {
			regs.R[inst.Rd] = regs.CPSR
		}
		return 0, nil
	}

	// MSR with a field mask.
	op := inst.Imm
	if !inst.ImmOperand {
		op = regs.R[inst.Rm]
	}
	var mask uint32
	if inst.FieldMask&0x8 != 0 {
		mask |= 0xFF000000
	}
	if inst.FieldMask&0x4 != 0 {
		mask |= 0x00FF0000
	}
	if inst.FieldMask&0x2 != 0 {
		mask |= 0x0000FF00
	}
	if inst.FieldMask&0x1 != 0 {
		mask |= 0x000000FF
	}

	if inst.SPSR {
		regs.SetSPSR(regs.SPSR()&^mask | op&mask)
		return 0, nil
	}
	if regs.Mode() == ModeUser {
		// User mode may touch only the flag field.
		mask &= 0xF0000000
	}
	return 0, regs.SetCPSR(regs.CPSR&^mask | op&mask)
}

func (c *CPU) executeSingleTransfer(bus Bus, inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	base := c.readOperand(inst.Rn, thumb, inst.AlignPC)

	off := inst.Imm
	if !inst.ImmOperand {
		_, _, carry, _ := regs.Flags()
		off, _ = shiftImmediate(c.readOperand(inst.Rm, thumb, false), inst.ShiftType, inst.ShiftAmount, carry)
	}

	offsetBase := base + off
	if !inst.Up {
		offsetBase = base - off
	}
	addr := base
	if inst.Pre {
		addr = offsetBase
	}

	width := 4
	if inst.Byte {
		width = 1
	}
	cyc := c.model.MemCycles(addr, width)

	if inst.Load {
		var v uint32
		if inst.Byte {
			v = uint32(bus.Read8(addr))
		} else {
			v = bus.Read32(addr)
		}
		if wb := !inst.Pre || inst.Writeback; wb && inst.Rn != inst.Rd {
			regs.R[inst.Rn] = offsetBase
		}
		if inst.Rd == 15 {
			c.branchTo(v)
		} else {
			regs.R[inst.Rd] = v
		}
		return cyc, nil
	}

	v := c.readOperand(inst.Rd, thumb, false)
	if inst.Byte {
		bus.Write8(addr, uint8(v))
	} else {
		bus.Write32(addr, v)
	}
	if !inst.Pre || inst.Writeback {
		regs.R[inst.Rn] = offsetBase
	}
	return cyc, nil
}

func (c *CPU) executeHalfwordTransfer(bus Bus, inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	base := c.readOperand(inst.Rn, thumb, false)

	off := inst.Imm
	if !inst.ImmOperand {
		off = c.readOperand(inst.Rm, thumb, false)
	}

	offsetBase := base + off
	if !inst.Up {
		offsetBase = base - off
	}
	addr := base
	if inst.Pre {
		addr = offsetBase
	}

	width := 2
	if inst.Op == insts.OpLDRSB {
		width = 1
	}
	cyc := c.model.MemCycles(addr, width)

	if inst.Load {
		var v uint32
		switch inst.Op {
		case insts.OpLDRH:
			v = uint32(bus.Read16(addr))
		case insts.OpLDRSB:
			v = uint32(int32(int8(bus.Read8(addr))))
		default: // OpLDRSH
			v = uint32(int32(int16(bus.Read16(addr))))
		}
		if wb := !inst.Pre || inst.Writeback; wb && inst.Rn != inst.Rd {
			regs.R[inst.Rn] = offsetBase
		}
		if inst.Rd == 15 {
			c.branchTo(v)
		} else {
			regs.R[inst.Rd] = v
		}
		return cyc, nil
	}

	bus.Write16(addr, uint16(c.readOperand(inst.Rd, thumb, false)))
	if !inst.Pre || inst.Writeback {
		regs.R[inst.Rn] = offsetBase
	}
	return cyc, nil
}

func (c *CPU) executeBlockTransfer(bus Bus, inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	base := regs.R[inst.Rn]
	count := uint32(bits.OnesCount16(inst.RegList))
	span := count * 4

	// Resolve the four addressing variants to a single ascending walk.
	var addr, final uint32
	switch {
	case inst.Up && !inst.Pre: // increment after
		addr, final = base, base+span
	case inst.Up && inst.Pre: // increment before
		addr, final = base+4, base+span
	case !inst.Up && !inst.Pre: // decrement after
		addr, final = base-span+4, base-span
	default: // decrement before
		addr, final = base-span, base-span
	}

	loadsPC := inst.Load && inst.RegList&(1<<15) != 0
	userBank := inst.UserBank && !loadsPC

	var cyc uint64
	var pcValue uint32
	for i := 0; i < 16; i++ {
		if inst.RegList&(1<<i) == 0 {
			continue
		}
		cyc += c.model.MemCycles(addr, 4)
		if inst.Load {
			v := bus.Read32(addr)
			switch {
			case i == 15:
				pcValue = v
			case userBank:
				regs.WriteUser(i, v)
			default:
				regs.R[i] = v
			}
		} else {
			var v uint32
			if userBank {
				v = regs.ReadUser(i)
			} else {
				v = c.readOperand(uint8(i), thumb, false)
			}
			bus.Write32(addr, v)
		}
		addr += 4
	}

	if inst.Writeback && !(inst.Load && inst.RegList&(1<<inst.Rn) != 0) {
		regs.R[inst.Rn] = final
	}

	if loadsPC {
		if inst.UserBank {
			// The S form with R15 in the list restores the CPSR
			// alongside the jump.
			if err := regs.SetCPSR(regs.SPSR()); err != nil {
				return cyc, err
			}
		}
		c.branchTo(pcValue)
	}
	return cyc, nil
}

func (c *CPU) executeBranch(inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	width := uint32(4)
	if thumb {
		width = 2
	}
	if inst.Link {
		regs.R[14] = regs.R[15] // address of the following instruction
	}
	c.branchTo(regs.R[15] + width + uint32(inst.BranchOffset))
	return 0, nil
}

// executeLongBranch handles the two halves of the Thumb BL pair. The
// prefix stages the upper offset in R14; the suffix completes the jump
// and leaves the return address, with its Thumb bit set, in R14.
func (c *CPU) executeLongBranch(inst *insts.Instruction) (uint64, error) {
	regs := c.regs
	if inst.BLPrefix {
		off := int32(inst.Imm<<21) >> 9 // sign-extended, shifted to bits 22-12
		regs.R[14] = regs.R[15] + 2 + uint32(off)
		return 0, nil
	}
	ret := regs.R[15] | 1
	c.branchTo(regs.R[14] + inst.Imm<<1)
	regs.R[14] = ret
	return 0, nil
}

func (c *CPU) executeBranchExchange(inst *insts.Instruction, thumb bool) (uint64, error) {
	regs := c.regs
	v := c.readOperand(inst.Rm, thumb, false)
	if v&1 != 0 {
		regs.CPSR |= FlagT
	} else {
		regs.CPSR &^= FlagT
	}
	c.branchTo(v)
	return 0, nil
}

func (c *CPU) executeSwap(bus Bus, inst *insts.Instruction) (uint64, error) {
	regs := c.regs
	addr := regs.R[inst.Rn]

	width := 4
	if inst.Byte {
		width = 1
	}
	cyc := 2 * c.model.MemCycles(addr, width)

	if inst.Byte {
		old := bus.Read8(addr)
		bus.Write8(addr, uint8(regs.R[inst.Rm]))
		regs.R[inst.Rd] = uint32(old)
	} else {
		old := bus.Read32(addr)
		bus.Write32(addr, regs.R[inst.Rm])
		regs.R[inst.Rd] = old
	}
	return cyc, nil
}
