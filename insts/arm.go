package insts

// DecodeARM decodes a 32-bit ARM instruction word.
//
// Classification follows the manual's top-level bit patterns. The order
// of the predicates matters: the multiply, swap, halfword and PSR
// transfer encodings all live inside the space that a naive reading
// would classify as data processing.
func (d *Decoder) DecodeARM(word uint32) *Instruction {
	inst := &Instruction{
		Cond: Cond((word >> 28) & 0xF),
	}

	switch {
	case isBranchExchange(word):
		d.decodeBranchExchange(word, inst)
	case isSwap(word):
		d.decodeSwap(word, inst)
	case isMultiply(word):
		d.decodeMultiply(word, inst)
	case isMultiplyLong(word):
		d.decodeMultiplyLong(word, inst)
	case isHalfwordTransfer(word):
		d.decodeHalfwordTransfer(word, inst)
	case isMRS(word):
		d.decodeMRS(word, inst)
	case isMSR(word):
		d.decodeMSR(word, inst)
	case isDataProcessing(word):
		d.decodeDataProcessing(word, inst)
	case isSingleTransfer(word):
		d.decodeSingleTransfer(word, inst)
	case isBlockTransfer(word):
		d.decodeBlockTransfer(word, inst)
	case isBranch(word):
		d.decodeBranch(word, inst)
	case isSWI(word):
		d.decodeSWI(word, inst)
	default:
		inst.Op = OpUndefined
		inst.Format = FormatUndefined
	}

	return inst
}

func isBranchExchange(word uint32) bool {
	return word&0x0FFFFFF0 == 0x012FFF10
}

func isSwap(word uint32) bool {
	return word&0x0FB00FF0 == 0x01000090
}

func isMultiply(word uint32) bool {
	return word&0x0FC000F0 == 0x00000090
}

func isMultiplyLong(word uint32) bool {
	return word&0x0F8000F0 == 0x00800090
}

func isHalfwordTransfer(word uint32) bool {
	// Bits 27-25 are 000, bits 7 and 4 are set, and the SH field
	// (bits 6-5) is non-zero. SH == 00 belongs to multiply/swap.
	return word&0x0E000090 == 0x00000090 && word&0x60 != 0
}

func isMRS(word uint32) bool {
	return word&0x0FBF0FFF == 0x010F0000
}

func isMSR(word uint32) bool {
	// Covers both the register form (I = 0) and immediate form (I = 1).
	return word&0x0DB0F000 == 0x0120F000
}

func isDataProcessing(word uint32) bool {
	if word&0x0C000000 != 0 {
		return false
	}
	// A compare-class opcode without S set is not a valid data
	// processing encoding; what remains of that space after the PSR
	// transfer predicates is undefined.
	op := (word >> 21) & 0xF
	if op >= 8 && op <= 11 && word&(1<<20) == 0 {
		return false
	}
	return true
}

func isSingleTransfer(word uint32) bool {
	if word&0x0C000000 != 0x04000000 {
		return false
	}
	// Register offset with bit 4 set is the undefined-instruction space.
	return !(word&(1<<25) != 0 && word&(1<<4) != 0)
}

func isBlockTransfer(word uint32) bool {
	return word&0x0E000000 == 0x08000000
}

func isBranch(word uint32) bool {
	return word&0x0E000000 == 0x0A000000
}

func isSWI(word uint32) bool {
	return word&0x0F000000 == 0x0F000000
}

func (d *Decoder) decodeDataProcessing(word uint32, inst *Instruction) {
	inst.Format = FormatDataProcessing
	inst.Op = Op((word >> 21) & 0xF)
	inst.SetFlags = word&(1<<20) != 0
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)
	d.decodeOperand2(word, inst)
}

// decodeOperand2 fills the shifter description shared by data
// processing and the register-offset transfer forms.
func (d *Decoder) decodeOperand2(word uint32, inst *Instruction) {
	if word&(1<<25) != 0 { // rotated 8-bit immediate
		inst.ImmOperand = true
		inst.RotateImm = uint8((word >> 8) & 0xF)
		imm := word & 0xFF
		rot := uint32(inst.RotateImm) * 2
		inst.Imm = imm>>rot | imm<<(32-rot)
		return
	}
	inst.Rm = uint8(word & 0xF)
	inst.ShiftType = ShiftType((word >> 5) & 0x3)
	if word&(1<<4) != 0 { // register-specified amount
		inst.RegShift = true
		inst.Rs = uint8((word >> 8) & 0xF)
	} else {
		inst.ShiftAmount = uint8((word >> 7) & 0x1F)
	}
}

func (d *Decoder) decodeMultiply(word uint32, inst *Instruction) {
	inst.Format = FormatMultiply
	if word&(1<<21) != 0 {
		inst.Op = OpMLA
	} else {
		inst.Op = OpMUL
	}
	inst.SetFlags = word&(1<<20) != 0
	inst.Rd = uint8((word >> 16) & 0xF)
	inst.Rn = uint8((word >> 12) & 0xF) // accumulator
	inst.Rs = uint8((word >> 8) & 0xF)
	inst.Rm = uint8(word & 0xF)
}

func (d *Decoder) decodeMultiplyLong(word uint32, inst *Instruction) {
	inst.Format = FormatMultiplyLong
	signed := word&(1<<22) != 0
	accumulate := word&(1<<21) != 0
	switch {
	case signed && accumulate:
		inst.Op = OpSMLAL
	case signed:
		inst.Op = OpSMULL
	case accumulate:
		inst.Op = OpUMLAL
	default:
		inst.Op = OpUMULL
	}
	inst.SetFlags = word&(1<<20) != 0
	inst.Rd = uint8((word >> 16) & 0xF) // RdHi
	inst.Rn = uint8((word >> 12) & 0xF) // RdLo
	inst.Rs = uint8((word >> 8) & 0xF)
	inst.Rm = uint8(word & 0xF)
}

func (d *Decoder) decodeMRS(word uint32, inst *Instruction) {
	inst.Format = FormatPSRTransfer
	inst.Op = OpMRS
	inst.SPSR = word&(1<<22) != 0
	inst.Rd = uint8((word >> 12) & 0xF)
}

func (d *Decoder) decodeMSR(word uint32, inst *Instruction) {
	inst.Format = FormatPSRTransfer
	inst.Op = OpMSR
	inst.SPSR = word&(1<<22) != 0
	inst.FieldMask = uint8((word >> 16) & 0xF)
	if word&(1<<25) != 0 {
		inst.ImmOperand = true
		inst.RotateImm = uint8((word >> 8) & 0xF)
		imm := word & 0xFF
		rot := uint32(inst.RotateImm) * 2
		inst.Imm = imm>>rot | imm<<(32-rot)
	} else {
		inst.Rm = uint8(word & 0xF)
	}
}

func (d *Decoder) decodeSingleTransfer(word uint32, inst *Instruction) {
	inst.Format = FormatSingleTransfer
	inst.Pre = word&(1<<24) != 0
	inst.Up = word&(1<<23) != 0
	inst.Byte = word&(1<<22) != 0
	inst.Writeback = word&(1<<21) != 0
	inst.Load = word&(1<<20) != 0
	if inst.Load {
		inst.Op = OpLDR
	} else {
		inst.Op = OpSTR
	}
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)
	if word&(1<<25) == 0 { // bit 25 inverted relative to data processing
		inst.ImmOperand = true
		inst.Imm = word & 0xFFF
	} else {
		inst.Rm = uint8(word & 0xF)
		inst.ShiftType = ShiftType((word >> 5) & 0x3)
		inst.ShiftAmount = uint8((word >> 7) & 0x1F)
	}
}

func (d *Decoder) decodeHalfwordTransfer(word uint32, inst *Instruction) {
	inst.Format = FormatHalfwordTransfer
	inst.Pre = word&(1<<24) != 0
	inst.Up = word&(1<<23) != 0
	inst.Writeback = word&(1<<21) != 0
	inst.Load = word&(1<<20) != 0
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)

	sh := (word >> 5) & 0x3
	switch {
	case !inst.Load: // stores only come in the halfword flavor
		inst.Op = OpSTRH
	case sh == 0b01:
		inst.Op = OpLDRH
	case sh == 0b10:
		inst.Op = OpLDRSB
	default:
		inst.Op = OpLDRSH
	}

	if word&(1<<22) != 0 { // split 8-bit immediate
		inst.ImmOperand = true
		inst.Imm = (word>>4)&0xF0 | word&0xF
	} else {
		inst.Rm = uint8(word & 0xF)
	}
}

func (d *Decoder) decodeBlockTransfer(word uint32, inst *Instruction) {
	inst.Format = FormatBlockTransfer
	inst.Pre = word&(1<<24) != 0
	inst.Up = word&(1<<23) != 0
	inst.UserBank = word&(1<<22) != 0
	inst.Writeback = word&(1<<21) != 0
	inst.Load = word&(1<<20) != 0
	if inst.Load {
		inst.Op = OpLDM
	} else {
		inst.Op = OpSTM
	}
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.RegList = uint16(word & 0xFFFF)
}

func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	inst.Format = FormatBranch
	inst.Op = OpB
	inst.Link = word&(1<<24) != 0
	offset := int32(word&0xFFFFFF) << 8 >> 8 // sign-extend 24 bits
	inst.BranchOffset = offset << 2
}

func (d *Decoder) decodeBranchExchange(word uint32, inst *Instruction) {
	inst.Format = FormatBranchExchange
	inst.Op = OpBX
	inst.Rm = uint8(word & 0xF)
}

func (d *Decoder) decodeSwap(word uint32, inst *Instruction) {
	inst.Format = FormatSwap
	inst.Op = OpSWP
	inst.Byte = word&(1<<22) != 0
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Rd = uint8((word >> 12) & 0xF)
	inst.Rm = uint8(word & 0xF)
}

func (d *Decoder) decodeSWI(word uint32, inst *Instruction) {
	inst.Format = FormatSWI
	inst.Op = OpSWI
	inst.Comment = word & 0xFFFFFF
}
