package gba_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbsim/agbsim/gba"
)

var _ = Describe("InterruptController", func() {
	var ic *gba.InterruptController

	BeforeEach(func() {
		ic = gba.NewInterruptController()
	})

	Describe("Request", func() {
		It("should set the request flag for the kind", func() {
			Expect(ic.Request(gba.IntVBlank)).To(Succeed())

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(1)))
		})

		It("should reject an out-of-range kind without touching the flags", func() {
			err := ic.Request(gba.InterruptKind(200))

			Expect(err).To(MatchError(gba.ErrUnknownInterrupt))
			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(0)))
		})
	})

	Describe("PendingIRQ", func() {
		It("should require the master enable, the individual enable, and a request", func() {
			Expect(ic.PendingIRQ()).To(BeFalse())

			Expect(ic.Request(gba.IntTimer0)).To(Succeed())
			Expect(ic.PendingIRQ()).To(BeFalse())

			ic.WriteReg(gba.RegIE, 1<<gba.IntTimer0)
			Expect(ic.PendingIRQ()).To(BeFalse())

			ic.WriteReg(gba.RegIME, 1)
			Expect(ic.PendingIRQ()).To(BeTrue())
		})

		It("should ignore requests that are not individually enabled", func() {
			ic.WriteReg(gba.RegIME, 1)
			ic.WriteReg(gba.RegIE, 1<<gba.IntVBlank)

			Expect(ic.Request(gba.IntKeypad)).To(Succeed())

			Expect(ic.PendingIRQ()).To(BeFalse())
		})
	})

	Describe("PendingFIQ", func() {
		It("should always report false", func() {
			ic.WriteReg(gba.RegIME, 1)
			ic.WriteReg(gba.RegIE, 0xFFFF)
			Expect(ic.Request(gba.IntVBlank)).To(Succeed())

			Expect(ic.PendingFIQ()).To(BeFalse())
		})
	})

	Describe("flag acknowledgement", func() {
		It("should clear exactly the bits written as 1", func() {
			Expect(ic.Request(gba.IntVBlank)).To(Succeed())
			Expect(ic.Request(gba.IntHBlank)).To(Succeed())

			ic.WriteReg(gba.RegIF, 1<<gba.IntVBlank)

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(1 << gba.IntHBlank)))
		})

		It("should leave the flags alone when writing zero", func() {
			Expect(ic.Request(gba.IntSerial)).To(Succeed())

			ic.WriteReg(gba.RegIF, 0)

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(1 << gba.IntSerial)))
		})

		It("should keep the other lane pending across a byte acknowledge", func() {
			Expect(ic.Request(gba.IntVBlank)).To(Succeed())
			Expect(ic.Request(gba.IntDMA0)).To(Succeed())

			ic.WriteRegByte(gba.RegIF, 1<<gba.IntVBlank)

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(1 << gba.IntDMA0)))
		})

		It("should acknowledge high-lane bits through an odd byte write", func() {
			Expect(ic.Request(gba.IntVBlank)).To(Succeed())
			Expect(ic.Request(gba.IntDMA0)).To(Succeed())

			ic.WriteRegByte(gba.RegIF+1, uint8(1<<gba.IntDMA0>>8))

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(1 << gba.IntVBlank)))
		})
	})

	Describe("registers", func() {
		It("should mask the enable register to the existing lines", func() {
			ic.WriteReg(gba.RegIE, 0xFFFF)

			Expect(ic.ReadReg(gba.RegIE)).To(Equal(uint16(0x3FFF)))
		})

		It("should expose only bit 0 of the master enable", func() {
			ic.WriteReg(gba.RegIME, 0xFFFF)

			Expect(ic.ReadReg(gba.RegIME)).To(Equal(uint16(1)))
		})
	})
})
