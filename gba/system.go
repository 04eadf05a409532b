package gba

import (
	"github.com/agbsim/agbsim/emu"
)

// ioMap splits the I/O register window between the components that
// own its registers. Unclaimed registers read as zero and drop writes.
type ioMap struct {
	irq   *InterruptController
	video *Video
}

func (m *ioMap) ReadReg(off uint32) uint16 {
	switch {
	case off < 0x60:
		return m.video.ReadReg(off)
	case off == RegIE || off == RegIF || off == RegIME:
		return m.irq.ReadReg(off)
	default:
		return 0
	}
}

func (m *ioMap) WriteReg(off uint32, v uint16) {
	switch {
	case off < 0x60:
		m.video.WriteReg(off, v)
	case off == RegIE || off == RegIF || off == RegIME:
		m.irq.WriteReg(off, v)
	}
}

func (m *ioMap) WriteRegByte(off uint32, v uint8) {
	reg := off &^ 1
	switch {
	case reg < 0x60:
		m.video.WriteRegByte(off, v)
	case reg == RegIE || reg == RegIF || reg == RegIME:
		m.irq.WriteRegByte(off, v)
	}
}

// System wires the CPU core to the console: the memory bus, the
// interrupt controller and the display timing generator. The CPU
// never holds a reference to any of them; they are passed into each
// step through the bus and interrupt-source contracts.
type System struct {
	CPU   *emu.CPU
	Mem   *Memory
	IRQ   *InterruptController
	Video *Video
}

// Option configures a System during construction.
type Option func(*systemConfig)

type systemConfig struct {
	bios    []byte
	cpuOpts []emu.Option
}

// WithBIOS installs a BIOS image in the first region. Without one the
// region reads as zero, which is enough for images that never call
// into it.
func WithBIOS(bios []byte) Option {
	return func(c *systemConfig) { c.bios = bios }
}

// WithCPUOptions forwards options to the CPU core constructor.
func WithCPUOptions(opts ...emu.Option) Option {
	return func(c *systemConfig) { c.cpuOpts = append(c.cpuOpts, opts...) }
}

// NewSystem builds a machine around a cartridge image. The image is
// expected to have been validated by the loader.
func NewSystem(rom []byte, opts ...Option) *System {
	var cfg systemConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	irq := NewInterruptController()
	video := NewVideo(irq)
	mem := NewMemory(cfg.bios, rom, &ioMap{irq: irq, video: video})

	return &System{
		CPU:   emu.New(cfg.cpuOpts...),
		Mem:   mem,
		IRQ:   irq,
		Video: video,
	}
}

// Step executes one CPU step and advances the display by the cycles
// it consumed.
func (s *System) Step() emu.StepResult {
	res := s.CPU.Step(s.Mem, s.IRQ)
	s.Video.Tick(res.Cycles)
	return res
}

// RunFrame steps the machine for one full display frame. It stops
// early on the first step error.
func (s *System) RunFrame() error {
	var elapsed uint64
	for elapsed < DotsPerFrame {
		res := s.Step()
		if res.Err != nil {
			return res.Err
		}
		elapsed += res.Cycles
	}
	return nil
}

// Reset returns the machine to its power-on state. Memory contents
// other than the register files are preserved, matching a warm reset.
func (s *System) Reset() {
	s.CPU.Reset()
	s.IRQ.Reset()
	s.Video.Reset()
}
