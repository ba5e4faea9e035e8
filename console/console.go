// Package console wires the CPU, PPU, mapper and controllers from the
// other packages into a single runnable NES: the Console type is the
// whole machine's external API.
package console

import (
	"errors"
	"fmt"

	"github.com/bdwalton/gintendo/cartridge"
	"github.com/bdwalton/gintendo/controller"
	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/mos6502"
	"github.com/bdwalton/gintendo/ppu"
)

// Driver-misuse errors: distinguishable from cartridge/CPU failures so
// callers can errors.Is against the specific failure class.
var (
	ErrNotPoweredOn      = errors.New("console: not powered on")
	ErrUnsupportedMapper = errors.New("console: unsupported mapper")
)

// Console is a fully wired NES: bus, cpu, ppu and mapper, powered on
// from a decoded cartridge.
type Console struct {
	b *bus
}

// PowerOn constructs a Console from a decoded cartridge: mapper, then
// ppu, then cpu, matching real hardware's reset ordering.
func PowerOn(cart *cartridge.Cartridge) (*Console, error) {
	m, err := mappers.New(cart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedMapper, err)
	}

	b := newBus(m)
	m.Reset()
	b.ppu.Reset()
	b.cpu.Reset()

	return &Console{b: b}, nil
}

// Reset reinitialises mapper, ppu and cpu state without reconstructing
// the machine (the cartridge's PRG/CHR and any loaded SaveRAM survive).
func (c *Console) Reset() error {
	if c.b == nil {
		return ErrNotPoweredOn
	}
	c.b.mapper.Reset()
	c.b.ppu.Reset()
	c.b.cpu.Reset()
	return nil
}

// Step executes exactly one CPU instruction (or interrupt dispatch),
// advances the PPU by 3x that many sub-cycles, and reports whether a
// full frame just finished rendering.
func (c *Console) Step() (cycles uint32, frameComplete bool, err error) {
	if c.b == nil {
		return 0, false, ErrNotPoweredOn
	}
	b := c.b

	b.cpu.SetIRQLine(b.mapper.ConsumeIRQ())
	if b.ppu.NMILine() {
		b.cpu.NMI()
		b.ppu.AcknowledgeNMI()
	}

	cycles, err = b.cpu.Step()
	if err != nil {
		return cycles, false, err
	}

	for i := uint32(0); i < cycles*3; i++ {
		b.ppu.Tick()
	}
	b.cpuCycles += uint64(cycles)

	return cycles, b.ppu.ConsumeFrameComplete(), nil
}

// Frame repeatedly Steps until a frame completes or an error occurs.
func (c *Console) Frame() error {
	for {
		_, done, err := c.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Framebuffer returns the palette-index buffer (0..63) for the most
// recently rendered frame; nil if the console is not powered on.
func (c *Console) Framebuffer() *[256 * 240]uint8 {
	if c.b == nil {
		return nil
	}
	return c.b.ppu.Framebuffer()
}

// SetButton injects host input for pad 0 or 1.
func (c *Console) SetButton(pad int, button controller.Button, pressed bool) {
	if c.b == nil {
		return
	}
	switch pad {
	case 0:
		c.b.pad1.SetButton(button, pressed)
	case 1:
		c.b.pad2.SetButton(button, pressed)
	}
}

// SaveRAM returns the cartridge's battery-backed PRG-RAM, or nil if the
// cartridge has none.
func (c *Console) SaveRAM() []byte {
	if c.b == nil {
		return nil
	}
	return c.b.mapper.SaveRAM()
}

// LoadRAM restores previously saved battery-backed PRG-RAM.
func (c *Console) LoadRAM(data []byte) {
	if c.b == nil {
		return
	}
	c.b.mapper.LoadRAM(data)
}

// CPU exposes the wired CPU for the interactive debug shell (register
// display and breakpoint PC checks).
func (c *Console) CPU() *mos6502.CPU { return c.b.cpu }

// PPU exposes the wired PPU for the debug shell's status display.
func (c *Console) PPU() *ppu.PPU { return c.b.ppu }

// Peek reads a CPU address with the same side effects a real CPU read
// would have (e.g. draining the PPUDATA buffer); used by the debug
// shell's memory dump, never by the core's own stepping.
func (c *Console) Peek(addr uint16) uint8 {
	if c.b == nil {
		return 0
	}
	return c.b.Read(addr)
}

// PeekCHR reads a pattern-table address (0x0000..0x1FFF) directly from
// the mapper's CHR store, via the same non-observing path the coarse
// renderer uses, so the debug shell's pattern-table dump never perturbs
// MMC3's address-line-12 IRQ counter.
func (c *Console) PeekCHR(addr uint16) uint8 {
	if c.b == nil {
		return 0
	}
	return c.b.mapper.PPUPeek(addr)
}
