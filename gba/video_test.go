package gba_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbsim/agbsim/gba"
)

var _ = Describe("Video", func() {
	var (
		ic    *gba.InterruptController
		video *gba.Video
	)

	BeforeEach(func() {
		ic = gba.NewInterruptController()
		video = gba.NewVideo(ic)
	})

	Describe("scanline timing", func() {
		It("should raise the horizontal blanking flag at the end of the visible dots", func() {
			video.Tick(gba.VisibleDots - 1)
			Expect(video.ReadReg(gba.RegDISPSTAT) & 0x2).To(BeZero())

			video.Tick(1)
			Expect(video.ReadReg(gba.RegDISPSTAT) & 0x2).NotTo(BeZero())
		})

		It("should advance the scanline counter at the end of the line", func() {
			video.Tick(gba.DotsPerLine)

			Expect(video.ReadReg(gba.RegVCOUNT)).To(Equal(uint16(1)))
			Expect(video.ReadReg(gba.RegDISPSTAT) & 0x2).To(BeZero())
		})

		It("should enter vertical blanking on the first invisible line", func() {
			video.Tick(gba.DotsPerLine * gba.VisibleLines)

			Expect(video.InVBlank()).To(BeTrue())
			Expect(video.ReadReg(gba.RegVCOUNT)).To(Equal(uint16(gba.VisibleLines)))
		})

		It("should wrap at the end of the frame and leave vertical blanking", func() {
			video.Tick(gba.DotsPerFrame)

			Expect(video.ReadReg(gba.RegVCOUNT)).To(Equal(uint16(0)))
			Expect(video.InVBlank()).To(BeFalse())
		})
	})

	Describe("interrupt generation", func() {
		It("should request the V-blank interrupt when enabled", func() {
			video.WriteReg(gba.RegDISPSTAT, 1<<3)

			video.Tick(gba.DotsPerLine * gba.VisibleLines)

			Expect(ic.ReadReg(gba.RegIF) & (1 << gba.IntVBlank)).NotTo(BeZero())
		})

		It("should not request the V-blank interrupt when disabled", func() {
			video.Tick(gba.DotsPerLine * gba.VisibleLines)

			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(0)))
		})

		It("should request the H-blank interrupt when enabled", func() {
			video.WriteReg(gba.RegDISPSTAT, 1<<4)

			video.Tick(gba.VisibleDots)

			Expect(ic.ReadReg(gba.RegIF) & (1 << gba.IntHBlank)).NotTo(BeZero())
		})

		It("should request the V-count interrupt on the matching line", func() {
			video.WriteReg(gba.RegDISPSTAT, 1<<5|3<<8) // match line 3

			video.Tick(gba.DotsPerLine * 2)
			Expect(ic.ReadReg(gba.RegIF)).To(Equal(uint16(0)))

			video.Tick(gba.DotsPerLine)
			Expect(ic.ReadReg(gba.RegIF) & (1 << gba.IntVCount)).NotTo(BeZero())
			Expect(video.ReadReg(gba.RegDISPSTAT) & 0x4).NotTo(BeZero())
		})
	})

	Describe("registers", func() {
		It("should keep the status flag bits read-only", func() {
			video.WriteReg(gba.RegDISPSTAT, 0xFFFF)

			Expect(video.ReadReg(gba.RegDISPSTAT) & 0x7).To(BeZero())
		})

		It("should ignore writes to the scanline counter", func() {
			video.WriteReg(gba.RegVCOUNT, 99)

			Expect(video.ReadReg(gba.RegVCOUNT)).To(Equal(uint16(0)))
		})

		It("should store the picture-control registers", func() {
			video.WriteReg(gba.RegDISPCNT, 0x0403)

			Expect(video.ReadReg(gba.RegDISPCNT)).To(Equal(uint16(0x0403)))
		})
	})
})
