package gba

import (
	"errors"
	"fmt"
)

// InterruptKind identifies one line into the interrupt controller.
type InterruptKind uint8

const (
	IntVBlank InterruptKind = iota
	IntHBlank
	IntVCount
	IntTimer0
	IntTimer1
	IntTimer2
	IntTimer3
	IntSerial
	IntDMA0
	IntDMA1
	IntDMA2
	IntDMA3
	IntKeypad
	IntGamePak

	numInterruptKinds
)

var interruptNames = [numInterruptKinds]string{
	"vblank", "hblank", "vcount",
	"timer0", "timer1", "timer2", "timer3",
	"serial",
	"dma0", "dma1", "dma2", "dma3",
	"keypad", "gamepak",
}

func (k InterruptKind) String() string {
	if k < numInterruptKinds {
		return interruptNames[k]
	}
	return fmt.Sprintf("interrupt(%d)", uint8(k))
}

// ErrUnknownInterrupt is returned by Request for an out-of-range kind.
var ErrUnknownInterrupt = errors.New("unknown interrupt kind")

// Interrupt controller register offsets within the I/O window.
const (
	RegIE  = 0x200 // individual enable mask
	RegIF  = 0x202 // request flags, write-1-to-clear
	RegIME = 0x208 // master enable, bit 0
)

// InterruptController tracks requested and enabled interrupt lines
// and answers the CPU core's pending query. Peripherals raise lines
// through Request; software acknowledges them by writing 1 bits to
// the flags register.
type InterruptController struct {
	enable uint16 // IE
	flags  uint16 // IF
	master bool   // IME bit 0
}

func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Request marks kind as pending. The flags register is untouched when
// kind is out of range.
func (ic *InterruptController) Request(kind InterruptKind) error {
	if kind >= numInterruptKinds {
		return fmt.Errorf("%w: %d", ErrUnknownInterrupt, uint8(kind))
	}
	ic.flags |= 1 << kind
	return nil
}

// PendingIRQ reports whether any requested interrupt is individually
// enabled while the master enable is set. The CPU's own I bit is
// checked by the core, not here.
func (ic *InterruptController) PendingIRQ() bool {
	return ic.master && ic.enable&ic.flags != 0
}

// PendingFIQ always reports false: this hardware wires no peripheral
// to the fast interrupt line. The core still arbitrates FIQ first.
func (ic *InterruptController) PendingFIQ() bool {
	return false
}

// ReadReg and WriteReg implement the controller's slice of the I/O
// register window.
func (ic *InterruptController) ReadReg(off uint32) uint16 {
	switch off {
	case RegIE:
		return ic.enable
	case RegIF:
		return ic.flags
	case RegIME:
		if ic.master {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (ic *InterruptController) WriteReg(off uint32, v uint16) {
	switch off {
	case RegIE:
		ic.enable = v & (1<<numInterruptKinds - 1)
	case RegIF:
		// Writing a 1 bit acknowledges that request.
		ic.flags &^= v
	case RegIME:
		ic.master = v&1 != 0
	}
}

// WriteRegByte stores one byte lane of a register. For the flags
// register the acknowledge applies to the written lane only; the other
// lane's pending bits stay pending.
func (ic *InterruptController) WriteRegByte(off uint32, v uint8) {
	reg := off &^ 1
	shift := (off & 1) * 8
	if reg == RegIF {
		ic.flags &^= uint16(v) << shift
		return
	}
	r := ic.ReadReg(reg)
	ic.WriteReg(reg, r&^(0xFF<<shift)|uint16(v)<<shift)
}

func (ic *InterruptController) Reset() {
	ic.enable = 0
	ic.flags = 0
	ic.master = false
}
