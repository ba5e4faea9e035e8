package mappers

import "github.com/bdwalton/gintendo/cartridge"

// nrom implements mapper 0 (NROM): no banking at all. PRG is 16 or 32
// KiB, mirrored twice into $8000..$FFFF when 16 KiB.
type nrom struct {
	prg       []byte
	chr       chrStore
	ram       prgRAM
	mirroring cartridge.Mirroring
}

func newNROM(cart *cartridge.Cartridge) *nrom {
	return &nrom{
		prg:       cart.PRG,
		chr:       newCHRStore(cart.CHR),
		ram:       newPRGRAM(cart.Battery),
		mirroring: cart.Mirroring,
	}
}

func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.ram.read(addr)
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	default:
		return 0
	}
}

func (m *nrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.ram.write(addr, v)
	}
	// Writes to $8000..$FFFF have no effect: NROM has no registers.
}

func (m *nrom) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *nrom) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }
func (m *nrom) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }

func (m *nrom) Mirroring() cartridge.Mirroring { return m.mirroring }
func (m *nrom) Reset()                         {}
func (m *nrom) ConsumeIRQ() bool               { return false }

func (m *nrom) Battery() bool       { return m.ram.Battery() }
func (m *nrom) SaveRAM() []byte     { return m.ram.SaveRAM() }
func (m *nrom) LoadRAM(data []byte) { m.ram.LoadRAM(data) }
