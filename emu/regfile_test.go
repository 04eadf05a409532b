package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbsim/agbsim/emu"
)

var _ = Describe("RegFile", func() {
	var regs *emu.RegFile

	BeforeEach(func() {
		regs = emu.NewRegFile()
	})

	Describe("Reset", func() {
		It("should start in System mode, ARM state, at the cartridge entry point", func() {
			Expect(regs.Mode()).To(Equal(emu.ModeSystem))
			Expect(regs.Thumb()).To(BeFalse())
			Expect(regs.R[15]).To(Equal(uint32(0x08000000)))
		})

		It("should preload the per-mode stack pointers", func() {
			Expect(regs.R[13]).To(Equal(uint32(0x03007F00)))

			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			Expect(regs.R[13]).To(Equal(uint32(0x03007FA0)))

			Expect(regs.SwitchMode(emu.ModeSupervisor)).To(Succeed())
			Expect(regs.R[13]).To(Equal(uint32(0x03007FE0)))
		})
	})

	Describe("SwitchMode", func() {
		It("should bank R13 and R14 per mode and restore them on the way back", func() {
			regs.R[13] = 0x1111
			regs.R[14] = 0x2222

			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			regs.R[13] = 0x3333
			regs.R[14] = 0x4444

			Expect(regs.SwitchMode(emu.ModeSupervisor)).To(Succeed())
			regs.R[13] = 0x5555
			regs.R[14] = 0x6666

			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			Expect(regs.R[13]).To(Equal(uint32(0x3333)))
			Expect(regs.R[14]).To(Equal(uint32(0x4444)))

			Expect(regs.SwitchMode(emu.ModeSystem)).To(Succeed())
			Expect(regs.R[13]).To(Equal(uint32(0x1111)))
			Expect(regs.R[14]).To(Equal(uint32(0x2222)))
		})

		It("should share the R13/R14 slot between User and System", func() {
			regs.R[13] = 0xAAAA

			Expect(regs.SwitchMode(emu.ModeUser)).To(Succeed())
			Expect(regs.R[13]).To(Equal(uint32(0xAAAA)))
		})

		It("should bank R8-R12 only for FIQ", func() {
			regs.R[8] = 0x88
			regs.R[12] = 0xCC

			Expect(regs.SwitchMode(emu.ModeFIQ)).To(Succeed())
			regs.R[8] = 0xF8
			regs.R[12] = 0xFC

			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			Expect(regs.R[8]).To(Equal(uint32(0x88)))
			Expect(regs.R[12]).To(Equal(uint32(0xCC)))

			Expect(regs.SwitchMode(emu.ModeFIQ)).To(Succeed())
			Expect(regs.R[8]).To(Equal(uint32(0xF8)))
			Expect(regs.R[12]).To(Equal(uint32(0xFC)))
		})

		It("should leave R0-R7 untouched across every switch", func() {
			regs.R[0] = 0xD0
			regs.R[7] = 0xD7

			Expect(regs.SwitchMode(emu.ModeFIQ)).To(Succeed())
			Expect(regs.R[0]).To(Equal(uint32(0xD0)))
			Expect(regs.R[7]).To(Equal(uint32(0xD7)))
		})

		It("should preserve flags and the Thumb bit", func() {
			regs.CPSR |= emu.FlagN | emu.FlagC | emu.FlagT

			Expect(regs.SwitchMode(emu.ModeAbort)).To(Succeed())
			Expect(regs.CPSR & emu.FlagN).NotTo(BeZero())
			Expect(regs.CPSR & emu.FlagC).NotTo(BeZero())
			Expect(regs.Thumb()).To(BeTrue())
		})

		It("should reject an invalid mode pattern", func() {
			before := *regs

			Expect(regs.SwitchMode(emu.Mode(0x00))).To(HaveOccurred())
			Expect(*regs).To(Equal(before))
		})
	})

	Describe("SPSR", func() {
		It("should keep a distinct SPSR per privileged mode", func() {
			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			regs.SetSPSR(0x12345678&^0x1F | uint32(emu.ModeSystem))
			irqSPSR := regs.SPSR()

			Expect(regs.SwitchMode(emu.ModeSupervisor)).To(Succeed())
			regs.SetSPSR(uint32(emu.ModeUser))

			Expect(regs.SwitchMode(emu.ModeIRQ)).To(Succeed())
			Expect(regs.SPSR()).To(Equal(irqSPSR))
		})

		It("should read back the CPSR in the modes without an SPSR", func() {
			Expect(regs.SPSR()).To(Equal(regs.CPSR))

			Expect(regs.SwitchMode(emu.ModeUser)).To(Succeed())
			Expect(regs.SPSR()).To(Equal(regs.CPSR))
		})

		It("should drop SPSR writes in System mode", func() {
			before := regs.CPSR
			regs.SetSPSR(0xF0000000 | uint32(emu.ModeIRQ))

			Expect(regs.CPSR).To(Equal(before))
		})
	})

	Describe("SetCPSR", func() {
		It("should switch banks when the mode field changes", func() {
			regs.R[14] = 0x1234

			Expect(regs.SetCPSR(emu.FlagN | uint32(emu.ModeIRQ))).To(Succeed())
			Expect(regs.Mode()).To(Equal(emu.ModeIRQ))
			Expect(regs.CPSR & emu.FlagN).NotTo(BeZero())
			Expect(regs.R[14]).NotTo(Equal(uint32(0x1234)))

			Expect(regs.SetCPSR(uint32(emu.ModeSystem))).To(Succeed())
			Expect(regs.R[14]).To(Equal(uint32(0x1234)))
		})

		It("should reject an invalid mode field without touching state", func() {
			before := *regs

			Expect(regs.SetCPSR(uint32(0x03))).To(HaveOccurred())
			Expect(*regs).To(Equal(before))
		})
	})

	Describe("user bank access", func() {
		It("should reach the user R13/R14 from a privileged mode", func() {
			regs.R[13] = 0xA13
			regs.R[14] = 0xA14

			Expect(regs.SwitchMode(emu.ModeSupervisor)).To(Succeed())
			Expect(regs.ReadUser(13)).To(Equal(uint32(0xA13)))

			regs.WriteUser(14, 0xB14)
			Expect(regs.SwitchMode(emu.ModeSystem)).To(Succeed())
			Expect(regs.R[14]).To(Equal(uint32(0xB14)))
		})

		It("should reach the shared R8-R12 from FIQ mode", func() {
			regs.R[10] = 0xA10

			Expect(regs.SwitchMode(emu.ModeFIQ)).To(Succeed())
			regs.R[10] = 0xF10

			Expect(regs.ReadUser(10)).To(Equal(uint32(0xA10)))
			Expect(regs.R[10]).To(Equal(uint32(0xF10)))
		})
	})
})
