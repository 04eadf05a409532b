package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbsim/agbsim/emu"
)

// encodeMOVSShiftImm builds MOVS Rd, Rm, <type> #amount. An encoded
// amount of 0 selects the special zero-amount forms.
func encodeMOVSShiftImm(rd, rm, shiftType, amount uint32) uint32 {
	return 0xE1B00000 | rd<<12 | amount<<7 | shiftType<<5 | rm
}

// encodeMOVSShiftReg builds MOVS Rd, Rm, <type> Rs.
func encodeMOVSShiftReg(rd, rm, shiftType, rs uint32) uint32 {
	return 0xE1B00010 | rd<<12 | rs<<8 | shiftType<<5 | rm
}

var _ = Describe("Barrel shifter", func() {
	var (
		cpu  *emu.CPU
		bus  *testBus
		regs *emu.RegFile
	)

	const (
		lsl = 0
		lsr = 1
		asr = 2
		ror = 3
	)

	BeforeEach(func() {
		cpu = emu.New()
		bus = newTestBus()
		regs = cpu.Regs()
		regs.R[15] = 0x1000
	})

	step := func(word uint32) {
		bus.Write32(regs.R[15], word)
		res := cpu.Step(bus, nil)
		Expect(res.Err).To(BeNil())
	}

	carry := func() bool {
		_, _, c, _ := regs.Flags()
		return c
	}

	Describe("immediate amounts", func() {
		It("should shift left and set carry from the last bit shifted out", func() {
			regs.R[1] = 0xC0000001

			step(encodeMOVSShiftImm(0, 1, lsl, 1))

			Expect(regs.R[0]).To(Equal(uint32(0x80000002)))
			Expect(carry()).To(BeTrue())
		})

		It("should treat LSR #0 as a shift by 32", func() {
			regs.R[1] = 0x80000001

			step(encodeMOVSShiftImm(0, 1, lsr, 0))

			Expect(regs.R[0]).To(Equal(uint32(0)))
			Expect(carry()).To(BeTrue()) // bit 31 of the input
		})

		It("should treat ASR #0 as a shift by 32 replicating the sign", func() {
			regs.R[1] = 0x80000000

			step(encodeMOVSShiftImm(0, 1, asr, 0))

			Expect(regs.R[0]).To(Equal(uint32(0xFFFFFFFF)))
			Expect(carry()).To(BeTrue())
		})

		It("should propagate the sign on ASR of a negative value", func() {
			regs.R[1] = 0x80000004

			step(encodeMOVSShiftImm(0, 1, asr, 2))

			Expect(regs.R[0]).To(Equal(uint32(0xE0000001)))
			Expect(carry()).To(BeFalse())
		})

		It("should treat ROR #0 as rotate-right-extended through carry", func() {
			regs.R[1] = 0x00000002
			regs.SetC(true)

			step(encodeMOVSShiftImm(0, 1, ror, 0))

			Expect(regs.R[0]).To(Equal(uint32(0x80000001)))
			Expect(carry()).To(BeFalse()) // old bit 0
		})

		It("should rotate right by the encoded amount", func() {
			regs.R[1] = 0x000000F1

			step(encodeMOVSShiftImm(0, 1, ror, 4))

			Expect(regs.R[0]).To(Equal(uint32(0x1000000F)))
			Expect(carry()).To(BeFalse())
		})
	})

	Describe("register amounts", func() {
		It("should leave value and carry alone when the amount is 0", func() {
			regs.R[1] = 0x80000001
			regs.R[2] = 0
			regs.SetC(true)

			step(encodeMOVSShiftReg(0, 1, lsr, 2))

			Expect(regs.R[0]).To(Equal(uint32(0x80000001)))
			Expect(carry()).To(BeTrue())
		})

		It("should produce 0 with carry from bit 31 for LSR by exactly 32", func() {
			regs.R[1] = 0x80000001
			regs.R[2] = 32

			step(encodeMOVSShiftReg(0, 1, lsr, 2))

			Expect(regs.R[0]).To(Equal(uint32(0)))
			Expect(carry()).To(BeTrue())
		})

		It("should clear both value and carry for LSL beyond 32", func() {
			regs.R[1] = 0xFFFFFFFF
			regs.R[2] = 33
			regs.SetC(true)

			step(encodeMOVSShiftReg(0, 1, lsl, 2))

			Expect(regs.R[0]).To(Equal(uint32(0)))
			Expect(carry()).To(BeFalse())
		})

		It("should keep the value on ROR by a multiple of 32 with carry from bit 31", func() {
			regs.R[1] = 0x80000001
			regs.R[2] = 64
			regs.SetC(false)

			step(encodeMOVSShiftReg(0, 1, ror, 2))

			Expect(regs.R[0]).To(Equal(uint32(0x80000001)))
			Expect(carry()).To(BeTrue())
		})

		It("should saturate ASR past 32 to the sign bit", func() {
			regs.R[1] = 0x80000000
			regs.R[2] = 40

			step(encodeMOVSShiftReg(0, 1, asr, 2))

			Expect(regs.R[0]).To(Equal(uint32(0xFFFFFFFF)))
			Expect(carry()).To(BeTrue())
		})
	})
})
