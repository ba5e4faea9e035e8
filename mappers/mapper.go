// Package mappers implements cartridge logic: PRG/CHR banking, optional
// battery-backed PRG-RAM, nametable mirroring, and (for MMC3) a
// scanline-synchronous IRQ line driven by PPU address-line-12 activity.
package mappers

import (
	"fmt"

	"github.com/bdwalton/gintendo/cartridge"
)

// Mapper is the narrow capability set the Bus and PPU need from
// cartridge logic. The set of supported mappers is fixed at compile
// time, so New below is a plain switch rather than a runtime registry.
type Mapper interface {
	// CPURead/CPUWrite resolve addresses in 0x4020..0xFFFF: PRG-RAM (if
	// present) and PRG-ROM, plus any mapper register writes.
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, v uint8)

	// PPURead/PPUWrite resolve pattern-table addresses (0x0000..0x1FFF).
	// Implementations that care about address line 12 (MMC3) observe it
	// here, since every PPU pattern access that corresponds to a real,
	// individually-clocked hardware fetch is routed through these.
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, v uint8)

	// PPUPeek resolves a pattern-table address exactly like PPURead, but
	// without tripping any address-line-12 observation. The coarse
	// scanline renderer uses this for its bulk per-pixel tile/sprite
	// fetches, which stand in for many real fetches at once and must not
	// each be treated as a distinct bus access for IRQ-counter purposes;
	// the single synthesised edge per scanline (see ppu package) is the
	// sole A12 signal the coarse render path produces.
	PPUPeek(addr uint16) uint8

	Mirroring() cartridge.Mirroring
	Reset()

	// ConsumeIRQ reports whether the mapper's IRQ line is currently
	// asserted. It does not clear the line; only an explicit
	// acknowledgement write (mapper-specific) does that.
	ConsumeIRQ() bool

	Battery() bool
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New selects and constructs the Mapper implementation named by the
// cartridge's header.
func New(cart *cartridge.Cartridge) (Mapper, error) {
	switch cart.MapperID {
	case 0:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 4:
		return newMMC3(cart), nil
	default:
		return nil, fmt.Errorf("%w: mapper %d", cartridge.ErrUnsupportedMapper, cart.MapperID)
	}
}

const prgRAMSize = 0x2000 // 8 KiB at $6000..$7FFF

// prgRAM is the shared battery-backable SRAM window every mapper in this
// set exposes identically at $6000..$7FFF.
type prgRAM struct {
	data    []byte
	battery bool
}

func newPRGRAM(battery bool) prgRAM {
	return prgRAM{data: make([]byte, prgRAMSize), battery: battery}
}

func (r *prgRAM) read(addr uint16) uint8  { return r.data[addr&0x1FFF] }
func (r *prgRAM) write(addr uint16, v uint8) { r.data[addr&0x1FFF] = v }

func (r *prgRAM) Battery() bool { return r.battery }
func (r *prgRAM) SaveRAM() []byte {
	if !r.battery {
		return nil
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

func (r *prgRAM) LoadRAM(data []byte) {
	if !r.battery {
		return
	}
	copy(r.data, data)
}

// chrStore holds pattern-table memory, which is either fixed ROM or
// writable RAM allocated when the cartridge supplied no CHR data.
type chrStore struct {
	data   []byte
	isRAM  bool
}

func newCHRStore(chr []byte) chrStore {
	if len(chr) == 0 {
		return chrStore{data: make([]byte, 0x2000), isRAM: true}
	}
	return chrStore{data: chr}
}

func (c *chrStore) read(addr int) uint8 {
	return c.data[addr%len(c.data)]
}

func (c *chrStore) write(addr int, v uint8) {
	if !c.isRAM {
		return
	}
	c.data[addr%len(c.data)] = v
}
