// Package waitstate charges memory accesses by the wait-state class
// of the region they touch. It implements the CPU core's cycle-model
// contract at category granularity.
package waitstate

// Table maps addresses to access costs according to a Config.
type Table struct {
	cfg Config
}

// New builds a Table. cfg must have passed Validate.
func New(cfg *Config) *Table {
	return &Table{cfg: *cfg}
}

// MemCycles returns the cost in cycles of an access of the given
// width at addr. The external work RAM and the cartridge sit on
// 16-bit buses, so 32-bit accesses there pay the halfword cost twice.
func (t *Table) MemCycles(addr uint32, width int) uint64 {
	switch addr >> 24 {
	case 0x00:
		return t.cfg.BIOS
	case 0x02:
		return t.narrowBus(t.cfg.EWRAM, width)
	case 0x03:
		return t.cfg.IWRAM
	case 0x04:
		return t.cfg.IO
	case 0x05:
		return t.cfg.Palette
	case 0x06:
		return t.cfg.VRAM
	case 0x07:
		return t.cfg.OAM
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D:
		return t.narrowBus(t.cfg.ROM, width)
	case 0x0E:
		return t.cfg.SRAM
	default:
		return 1
	}
}

func (t *Table) narrowBus(cost uint64, width int) uint64 {
	if width == 4 {
		return 2 * cost
	}
	return cost
}
