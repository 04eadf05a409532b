package insts_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbsim/agbsim/insts"
)

var _ = Describe("Cond", func() {
	Describe("Passes", func() {
		It("should match the architectural predicate for every flag combination", func() {
			// Expected results written out independently from the
			// manual's condition table.
			expected := map[insts.Cond]func(n, z, c, v bool) bool{
				insts.CondEQ: func(n, z, c, v bool) bool { return z },
				insts.CondNE: func(n, z, c, v bool) bool { return !z },
				insts.CondCS: func(n, z, c, v bool) bool { return c },
				insts.CondCC: func(n, z, c, v bool) bool { return !c },
				insts.CondMI: func(n, z, c, v bool) bool { return n },
				insts.CondPL: func(n, z, c, v bool) bool { return !n },
				insts.CondVS: func(n, z, c, v bool) bool { return v },
				insts.CondVC: func(n, z, c, v bool) bool { return !v },
				insts.CondHI: func(n, z, c, v bool) bool { return c && !z },
				insts.CondLS: func(n, z, c, v bool) bool { return !c || z },
				insts.CondGE: func(n, z, c, v bool) bool { return n == v },
				insts.CondLT: func(n, z, c, v bool) bool { return n != v },
				insts.CondGT: func(n, z, c, v bool) bool { return !z && n == v },
				insts.CondLE: func(n, z, c, v bool) bool { return z || n != v },
			}

			for cond, want := range expected {
				for bits := 0; bits < 16; bits++ {
					n := bits&8 != 0
					z := bits&4 != 0
					c := bits&2 != 0
					v := bits&1 != 0

					Expect(cond.Passes(n, z, c, v)).To(
						Equal(want(n, z, c, v)),
						fmt.Sprintf("cond %#X with N=%v Z=%v C=%v V=%v", uint8(cond), n, z, c, v))
				}
			}
		})

		It("should always pass for AL", func() {
			for bits := 0; bits < 16; bits++ {
				Expect(insts.CondAL.Passes(bits&8 != 0, bits&4 != 0, bits&2 != 0, bits&1 != 0)).To(BeTrue())
			}
		})

		It("should never pass for the reserved NV code", func() {
			for bits := 0; bits < 16; bits++ {
				Expect(insts.CondNV.Passes(bits&8 != 0, bits&4 != 0, bits&2 != 0, bits&1 != 0)).To(BeFalse())
			}
		})

		It("should distinguish signed and unsigned comparisons", func() {
			// After CMP 1, 2: N=1, C=0 (borrow), Z=0, V=0.
			Expect(insts.CondLT.Passes(true, false, false, false)).To(BeTrue())
			Expect(insts.CondCC.Passes(true, false, false, false)).To(BeTrue())
			Expect(insts.CondGE.Passes(true, false, false, false)).To(BeFalse())

			// After CMP -1, 1: N=1, C=1, Z=0, V=0. Unsigned sees
			// 0xFFFFFFFF > 1, signed sees -1 < 1.
			Expect(insts.CondHI.Passes(true, false, true, false)).To(BeTrue())
			Expect(insts.CondLT.Passes(true, false, true, false)).To(BeTrue())
		})
	})
})
