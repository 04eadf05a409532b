package insts

// DecodeThumb decodes a 16-bit Thumb instruction into the shared
// operation vocabulary. Apart from the conditional branch group every
// Thumb instruction executes unconditionally, so Cond defaults to AL.
//
// The Thumb set is a compressed view of the ARM set: each group below
// expands to the ARM operation it aliases (a shift-by-immediate move,
// a flag-setting ADD, a block transfer on R13, ...). Expanding here
// keeps a single executor for both instruction sets.
func (d *Decoder) DecodeThumb(half uint16) *Instruction {
	inst := &Instruction{Cond: CondAL}

	switch {
	case half&0xF800 == 0x1800: // add/subtract
		d.decodeThumbAddSub(half, inst)
	case half&0xE000 == 0x0000: // move shifted register
		d.decodeThumbShifted(half, inst)
	case half&0xE000 == 0x2000: // move/compare/add/subtract immediate
		d.decodeThumbImmediate(half, inst)
	case half&0xFC00 == 0x4000: // ALU operations
		d.decodeThumbALU(half, inst)
	case half&0xFC00 == 0x4400: // hi register operations / branch exchange
		d.decodeThumbHiReg(half, inst)
	case half&0xF800 == 0x4800: // PC-relative load
		d.decodeThumbPCRelLoad(half, inst)
	case half&0xF200 == 0x5000: // load/store with register offset
		d.decodeThumbRegOffset(half, inst)
	case half&0xF200 == 0x5200: // load/store sign-extended byte/halfword
		d.decodeThumbSignExt(half, inst)
	case half&0xE000 == 0x6000: // load/store with immediate offset
		d.decodeThumbImmOffset(half, inst)
	case half&0xF000 == 0x8000: // load/store halfword
		d.decodeThumbHalfword(half, inst)
	case half&0xF000 == 0x9000: // SP-relative load/store
		d.decodeThumbSPRel(half, inst)
	case half&0xF000 == 0xA000: // load address
		d.decodeThumbLoadAddress(half, inst)
	case half&0xFF00 == 0xB000: // add offset to stack pointer
		d.decodeThumbAdjustSP(half, inst)
	case half&0xF600 == 0xB400: // push/pop registers
		d.decodeThumbPushPop(half, inst)
	case half&0xF000 == 0xC000: // multiple load/store
		d.decodeThumbMultiple(half, inst)
	case half&0xFF00 == 0xDF00: // software interrupt
		inst.Format = FormatSWI
		inst.Op = OpSWI
		inst.Comment = uint32(half & 0xFF)
	case half&0xF000 == 0xD000: // conditional branch
		d.decodeThumbCondBranch(half, inst)
	case half&0xF800 == 0xE000: // unconditional branch
		inst.Format = FormatBranch
		inst.Op = OpB
		inst.BranchOffset = int32(half&0x7FF) << 21 >> 20
	case half&0xF000 == 0xF000: // long branch with link
		inst.Format = FormatLongBranch
		inst.Op = OpB
		inst.Link = true
		inst.BLPrefix = half&0x0800 == 0
		inst.Imm = uint32(half & 0x7FF)
	default:
		inst.Op = OpUndefined
		inst.Format = FormatUndefined
	}

	return inst
}

func (d *Decoder) decodeThumbShifted(half uint16, inst *Instruction) {
	inst.Format = FormatDataProcessing
	inst.Op = OpMOV
	inst.SetFlags = true
	inst.Rd = uint8(half & 0x7)
	inst.Rm = uint8((half >> 3) & 0x7)
	inst.ShiftType = ShiftType((half >> 11) & 0x3)
	// An encoded amount of 0 keeps the ARM meaning: LSR/ASR by 32.
	inst.ShiftAmount = uint8((half >> 6) & 0x1F)
}

func (d *Decoder) decodeThumbAddSub(half uint16, inst *Instruction) {
	inst.Format = FormatDataProcessing
	if half&0x0200 != 0 {
		inst.Op = OpSUB
	} else {
		inst.Op = OpADD
	}
	inst.SetFlags = true
	inst.Rd = uint8(half & 0x7)
	inst.Rn = uint8((half >> 3) & 0x7)
	if half&0x0400 != 0 { // 3-bit immediate
		inst.ImmOperand = true
		inst.Imm = uint32((half >> 6) & 0x7)
	} else {
		inst.Rm = uint8((half >> 6) & 0x7)
	}
}

func (d *Decoder) decodeThumbImmediate(half uint16, inst *Instruction) {
	inst.Format = FormatDataProcessing
	switch (half >> 11) & 0x3 {
	case 0:
		inst.Op = OpMOV
	case 1:
		inst.Op = OpCMP
	case 2:
		inst.Op = OpADD
	case 3:
		inst.Op = OpSUB
	}
	inst.SetFlags = true
	inst.Rd = uint8((half >> 8) & 0x7)
	inst.Rn = inst.Rd
	inst.ImmOperand = true
	inst.Imm = uint32(half & 0xFF)
}

func (d *Decoder) decodeThumbALU(half uint16, inst *Instruction) {
	rd := uint8(half & 0x7)
	rs := uint8((half >> 3) & 0x7)

	op := (half >> 6) & 0xF
	switch op {
	case 2, 3, 4, 7: // LSL, LSR, ASR, ROR by register
		inst.Format = FormatDataProcessing
		inst.Op = OpMOV
		inst.SetFlags = true
		inst.Rd = rd
		inst.Rm = rd
		inst.RegShift = true
		inst.Rs = rs
		switch op {
		case 2:
			inst.ShiftType = ShiftLSL
		case 3:
			inst.ShiftType = ShiftLSR
		case 4:
			inst.ShiftType = ShiftASR
		case 7:
			inst.ShiftType = ShiftROR
		}
	case 9: // NEG expands to RSB Rd, Rs, #0
		inst.Format = FormatDataProcessing
		inst.Op = OpRSB
		inst.SetFlags = true
		inst.Rd = rd
		inst.Rn = rs
		inst.ImmOperand = true
	case 13: // MUL
		inst.Format = FormatMultiply
		inst.Op = OpMUL
		inst.SetFlags = true
		inst.Rd = rd
		inst.Rm = rd
		inst.Rs = rs
	default:
		inst.Format = FormatDataProcessing
		inst.SetFlags = true
		inst.Rd = rd
		inst.Rn = rd
		inst.Rm = rs
		switch op {
		case 0:
			inst.Op = OpAND
		case 1:
			inst.Op = OpEOR
		case 5:
			inst.Op = OpADC
		case 6:
			inst.Op = OpSBC
		case 8:
			inst.Op = OpTST
		case 10:
			inst.Op = OpCMP
		case 11:
			inst.Op = OpCMN
		case 12:
			inst.Op = OpORR
		case 14:
			inst.Op = OpBIC
		case 15:
			inst.Op = OpMVN
		}
	}
}

func (d *Decoder) decodeThumbHiReg(half uint16, inst *Instruction) {
	rd := uint8(half&0x7) | uint8(half>>4)&0x8
	rm := uint8((half >> 3) & 0xF)

	switch (half >> 8) & 0x3 {
	case 0: // ADD without flag update
		inst.Format = FormatDataProcessing
		inst.Op = OpADD
		inst.Rd = rd
		inst.Rn = rd
		inst.Rm = rm
	case 1: // CMP
		inst.Format = FormatDataProcessing
		inst.Op = OpCMP
		inst.SetFlags = true
		inst.Rn = rd
		inst.Rm = rm
	case 2: // MOV without flag update
		inst.Format = FormatDataProcessing
		inst.Op = OpMOV
		inst.Rd = rd
		inst.Rm = rm
	case 3:
		inst.Format = FormatBranchExchange
		inst.Op = OpBX
		inst.Rm = rm
	}
}

func (d *Decoder) decodeThumbPCRelLoad(half uint16, inst *Instruction) {
	inst.Format = FormatSingleTransfer
	inst.Op = OpLDR
	inst.Load = true
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8((half >> 8) & 0x7)
	inst.Rn = 15
	inst.AlignPC = true
	inst.ImmOperand = true
	inst.Imm = uint32(half&0xFF) * 4
}

func (d *Decoder) decodeThumbRegOffset(half uint16, inst *Instruction) {
	inst.Format = FormatSingleTransfer
	inst.Load = half&0x0800 != 0
	inst.Byte = half&0x0400 != 0
	if inst.Load {
		inst.Op = OpLDR
	} else {
		inst.Op = OpSTR
	}
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8(half & 0x7)
	inst.Rn = uint8((half >> 3) & 0x7)
	inst.Rm = uint8((half >> 6) & 0x7)
}

func (d *Decoder) decodeThumbSignExt(half uint16, inst *Instruction) {
	inst.Format = FormatHalfwordTransfer
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8(half & 0x7)
	inst.Rn = uint8((half >> 3) & 0x7)
	inst.Rm = uint8((half >> 6) & 0x7)

	h := half&0x0800 != 0
	s := half&0x0400 != 0
	switch {
	case !s && !h:
		inst.Op = OpSTRH
	case !s && h:
		inst.Op = OpLDRH
		inst.Load = true
	case s && !h:
		inst.Op = OpLDRSB
		inst.Load = true
	default:
		inst.Op = OpLDRSH
		inst.Load = true
	}
}

func (d *Decoder) decodeThumbImmOffset(half uint16, inst *Instruction) {
	inst.Format = FormatSingleTransfer
	inst.Byte = half&0x1000 != 0
	inst.Load = half&0x0800 != 0
	if inst.Load {
		inst.Op = OpLDR
	} else {
		inst.Op = OpSTR
	}
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8(half & 0x7)
	inst.Rn = uint8((half >> 3) & 0x7)
	inst.ImmOperand = true
	inst.Imm = uint32((half >> 6) & 0x1F)
	if !inst.Byte {
		inst.Imm *= 4
	}
}

func (d *Decoder) decodeThumbHalfword(half uint16, inst *Instruction) {
	inst.Format = FormatHalfwordTransfer
	inst.Load = half&0x0800 != 0
	if inst.Load {
		inst.Op = OpLDRH
	} else {
		inst.Op = OpSTRH
	}
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8(half & 0x7)
	inst.Rn = uint8((half >> 3) & 0x7)
	inst.ImmOperand = true
	inst.Imm = uint32((half>>6)&0x1F) * 2
}

func (d *Decoder) decodeThumbSPRel(half uint16, inst *Instruction) {
	inst.Format = FormatSingleTransfer
	inst.Load = half&0x0800 != 0
	if inst.Load {
		inst.Op = OpLDR
	} else {
		inst.Op = OpSTR
	}
	inst.Pre = true
	inst.Up = true
	inst.Rd = uint8((half >> 8) & 0x7)
	inst.Rn = 13
	inst.ImmOperand = true
	inst.Imm = uint32(half&0xFF) * 4
}

func (d *Decoder) decodeThumbLoadAddress(half uint16, inst *Instruction) {
	inst.Format = FormatDataProcessing
	inst.Op = OpADD
	inst.Rd = uint8((half >> 8) & 0x7)
	inst.ImmOperand = true
	inst.Imm = uint32(half&0xFF) * 4
	if half&0x0800 != 0 {
		inst.Rn = 13
	} else {
		inst.Rn = 15
		inst.AlignPC = true
	}
}

func (d *Decoder) decodeThumbAdjustSP(half uint16, inst *Instruction) {
	inst.Format = FormatDataProcessing
	if half&0x80 != 0 {
		inst.Op = OpSUB
	} else {
		inst.Op = OpADD
	}
	inst.Rd = 13
	inst.Rn = 13
	inst.ImmOperand = true
	inst.Imm = uint32(half&0x7F) * 4
}

func (d *Decoder) decodeThumbPushPop(half uint16, inst *Instruction) {
	inst.Format = FormatBlockTransfer
	inst.Rn = 13
	inst.Writeback = true
	inst.RegList = uint16(half & 0xFF)
	if half&0x0800 != 0 { // POP expands to LDMIA R13!
		inst.Op = OpLDM
		inst.Load = true
		inst.Up = true
		if half&0x0100 != 0 {
			inst.RegList |= 1 << 15
		}
	} else { // PUSH expands to STMDB R13!
		inst.Op = OpSTM
		inst.Pre = true
		if half&0x0100 != 0 {
			inst.RegList |= 1 << 14
		}
	}
}

func (d *Decoder) decodeThumbMultiple(half uint16, inst *Instruction) {
	inst.Format = FormatBlockTransfer
	inst.Load = half&0x0800 != 0
	if inst.Load {
		inst.Op = OpLDM
	} else {
		inst.Op = OpSTM
	}
	inst.Up = true
	inst.Writeback = true
	inst.Rn = uint8((half >> 8) & 0x7)
	inst.RegList = uint16(half & 0xFF)
}

func (d *Decoder) decodeThumbCondBranch(half uint16, inst *Instruction) {
	inst.Format = FormatBranch
	inst.Op = OpB
	inst.Cond = Cond((half >> 8) & 0xF)
	inst.BranchOffset = int32(int8(half&0xFF)) * 2
}
