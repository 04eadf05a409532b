// Package insts provides ARM7TDMI instruction definitions and decoding.
//
// This package implements decoding of the two ARM7TDMI instruction sets
// into one structured representation. The 32-bit ARM encoding and the
// 16-bit Thumb encoding share a single operation vocabulary: Thumb
// instructions decode into the same Instruction struct that the ARM
// decoder produces, with the narrower operand space already expanded.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.DecodeARM(0xE0821003) // ADD R1, R2, R3
//	fmt.Printf("Op: %v, Rd: %d, Rn: %d, Rm: %d\n", inst.Op, inst.Rd, inst.Rn, inst.Rm)
package insts

// Op represents an ARM7TDMI operation.
type Op uint8

// Data processing operations. The values match bits 24-21 of the ARM
// encoding so the decoder can assign them directly.
const (
	OpAND Op = iota // logical AND
	OpEOR           // logical exclusive OR
	OpSUB           // subtract
	OpRSB           // reverse subtract
	OpADD           // add
	OpADC           // add with carry
	OpSBC           // subtract with carry
	OpRSC           // reverse subtract with carry
	OpTST           // test bits
	OpTEQ           // test equality
	OpCMP           // compare
	OpCMN           // compare negative
	OpORR           // logical OR
	OpMOV           // move
	OpBIC           // bit clear
	OpMVN           // move not
)

// Remaining operations.
const (
	OpMUL Op = 16 + iota
	OpMLA
	OpUMULL
	OpUMLAL
	OpSMULL
	OpSMLAL
	OpMRS
	OpMSR
	OpLDR
	OpSTR
	OpLDRH
	OpSTRH
	OpLDRSB
	OpLDRSH
	OpLDM
	OpSTM
	OpB
	OpBX
	OpSWI
	OpSWP
	OpUndefined
)

// Format represents a top-level instruction class.
type Format uint8

// Instruction formats, mirroring the ARM manual's top-level grouping.
const (
	FormatUnknown          Format = iota
	FormatDataProcessing          // logic/arithmetic with Operand2
	FormatMultiply                // MUL, MLA
	FormatMultiplyLong            // UMULL, UMLAL, SMULL, SMLAL
	FormatPSRTransfer             // MRS, MSR
	FormatSingleTransfer          // LDR, STR (byte/word)
	FormatHalfwordTransfer        // LDRH, STRH, LDRSB, LDRSH
	FormatBlockTransfer           // LDM, STM
	FormatBranch                  // B, BL, and Thumb conditional branches
	FormatBranchExchange          // BX
	FormatSWI                     // software interrupt
	FormatSwap                    // SWP, SWPB
	FormatLongBranch              // Thumb two-half BL
	FormatUndefined               // unrecognized encoding
)

// Cond represents a 4-bit condition code gating execution.
type Cond uint8

// Condition codes.
const (
	CondEQ Cond = 0x0 // Equal (Z == 1)
	CondNE Cond = 0x1 // Not Equal (Z == 0)
	CondCS Cond = 0x2 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0x3 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0x4 // Minus / Negative (N == 1)
	CondPL Cond = 0x5 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0x6 // Overflow (V == 1)
	CondVC Cond = 0x7 // No overflow (V == 0)
	CondHI Cond = 0x8 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0x9 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0xA // Signed greater than or equal (N == V)
	CondLT Cond = 0xB // Signed less than (N != V)
	CondGT Cond = 0xC // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0xD // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0xE // Always
	CondNV Cond = 0xF // Never (reserved, must not gate as true)
)

// Passes reports whether the condition holds for the given flag state.
// It is a pure function of the four condition flags.
func (c Cond) Passes(n, z, carry, v bool) bool {
	switch c {
	case CondEQ:
		return z
	case CondNE:
		return !z
	case CondCS:
		return carry
	case CondCC:
		return !carry
	case CondMI:
		return n
	case CondPL:
		return !n
	case CondVS:
		return v
	case CondVC:
		return !v
	case CondHI:
		return carry && !z
	case CondLS:
		return !carry || z
	case CondGE:
		return n == v
	case CondLT:
		return n != v
	case CondGT:
		return !z && n == v
	case CondLE:
		return z || n != v
	case CondAL:
		return true
	default: // CondNV
		return false
	}
}

// ShiftType represents a barrel shifter operation.
type ShiftType uint8

// Shift types.
const (
	ShiftLSL ShiftType = 0b00 // Logical shift left
	ShiftLSR ShiftType = 0b01 // Logical shift right
	ShiftASR ShiftType = 0b10 // Arithmetic shift right
	ShiftROR ShiftType = 0b11 // Rotate right
)

// Instruction represents a decoded ARM or Thumb instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Top-level class
	Cond   Cond   // Condition gating execution (CondAL for most Thumb)

	// Register fields. For multiply-long, Rd holds RdHi and Rn holds RdLo.
	Rd uint8 // Destination register
	Rn uint8 // First operand / base register
	Rm uint8 // Second operand / offset register
	Rs uint8 // Shift-amount register (register-specified shifts)

	SetFlags bool // S bit: update condition flags

	// Operand2 / offset description.
	ImmOperand  bool      // Operand2 or offset is an immediate
	Imm         uint32    // Immediate value (already rotated for ARM DP form)
	RotateImm   uint8     // Rotation applied to the 8-bit DP immediate
	ShiftType   ShiftType // Shift applied to Rm
	ShiftAmount uint8     // Immediate shift amount
	RegShift    bool      // Shift amount taken from the low byte of Rs

	// Memory transfer controls.
	Load      bool // L: load (vs. store)
	Pre       bool // P: pre-indexed addressing
	Up        bool // U: add offset (vs. subtract)
	Byte      bool // B: byte transfer (vs. word)
	Writeback bool // W: write address back to base
	UserBank  bool // S bit of block transfer: user-bank registers / CPSR restore
	AlignPC   bool // Thumb PC-relative form: force word alignment of the base

	RegList uint16 // Block transfer register mask

	// PSR transfer controls.
	SPSR      bool  // Target/source is SPSR (vs. CPSR)
	FieldMask uint8 // MSR field mask (bits 19-16 of the encoding)

	// Branch fields.
	BranchOffset int32 // Signed offset in bytes, already scaled
	Link         bool  // Store return address in R14
	BLPrefix     bool  // First half of a Thumb long branch

	Comment uint32 // SWI comment field
}

// Decoder decodes ARM7TDMI machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}
