package emu

import (
	"github.com/agbsim/agbsim/insts"
)

// StepResult represents the result of executing a single step.
type StepResult struct {
	// Cycles is the coarse cost of the step, consumed by the frame
	// driver for pacing.
	Cycles uint64

	// Err is set if the step hit a fault the architecture cannot
	// express, such as a CPSR write with an invalid mode field.
	Err error
}

// CPU executes ARM7TDMI instructions functionally. All mutable state
// lives in the register file; the bus and interrupt controller are
// supplied per step.
type CPU struct {
	regs    *RegFile
	decoder *insts.Decoder
	hook    Hook
	model   CycleModel

	cycleCount       uint64
	instructionCount uint64
}

// Option is a functional option for configuring the CPU.
type Option func(*CPU)

// WithHook installs an observability hook.
func WithHook(h Hook) Option {
	return func(c *CPU) {
		c.hook = h
	}
}

// WithCycleModel sets the memory cycle model. The default charges one
// cycle per access regardless of region.
func WithCycleModel(m CycleModel) Option {
	return func(c *CPU) {
		c.model = m
	}
}

// New creates a CPU in the power-on state.
func New(opts ...Option) *CPU {
	c := &CPU{
		regs:    NewRegFile(),
		decoder: insts.NewDecoder(),
		hook:    nopHook{},
		model:   FlatCycles{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Regs returns the CPU's register file.
func (c *CPU) Regs() *RegFile {
	return c.regs
}

// CycleCount returns the number of cycles charged since reset.
func (c *CPU) CycleCount() uint64 {
	return c.cycleCount
}

// InstructionCount returns the number of instructions executed since
// reset. Steps consumed by interrupt entry do not count.
func (c *CPU) InstructionCount() uint64 {
	return c.instructionCount
}

// Reset performs a synchronous full reset back to the power-on state.
func (c *CPU) Reset() {
	c.regs.Reset()
	c.cycleCount = 0
	c.instructionCount = 0
}

// instWidth returns the current instruction width in bytes.
func (c *CPU) instWidth() uint32 {
	if c.regs.Thumb() {
		return 2
	}
	return 4
}

// Step executes one step: take a pending interrupt if one is eligible,
// otherwise fetch, decode and execute a single instruction.
//
// Interrupt state is sampled exactly once, before any fetch; a request
// asserted during the executing instruction is observed on the next
// step. FIQ is evaluated first and masked only by its own disable bit.
func (c *CPU) Step(bus Bus, irq InterruptSource) StepResult {
	regs := c.regs

	if irq != nil {
		width := c.instWidth()
		if irq.PendingFIQ() && regs.CPSR&FlagF == 0 {
			c.enterException(ExcFIQ, regs.R[15]+width)
			return c.finish(StepResult{Cycles: 1 + ExceptionCycles})
		}
		if irq.PendingIRQ() && regs.CPSR&FlagI == 0 {
			c.enterException(ExcIRQ, regs.R[15]+width)
			return c.finish(StepResult{Cycles: 1 + ExceptionCycles})
		}
	}

	var (
		inst  *insts.Instruction
		raw   uint32
		thumb = regs.Thumb()
	)
	if thumb {
		half := bus.Read16(regs.R[15])
		regs.R[15] += 2
		raw = uint32(half)
		inst = c.decoder.DecodeThumb(half)
	} else {
		raw = bus.Read32(regs.R[15])
		regs.R[15] += 4
		inst = c.decoder.DecodeARM(raw)
	}
	c.instructionCount++

	if !inst.Cond.Passes(regs.Flags()) {
		// A false condition consumes the fetch cycle and nothing else.
		return c.finish(StepResult{Cycles: 1})
	}

	extra, err := c.execute(bus, inst, thumb, raw)
	return c.finish(StepResult{Cycles: 1 + extra, Err: err})
}

func (c *CPU) finish(res StepResult) StepResult {
	c.cycleCount += res.Cycles
	return res
}
