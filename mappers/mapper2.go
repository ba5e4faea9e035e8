package mappers

import "github.com/bdwalton/gintendo/cartridge"

// uxrom implements mapper 2 (UxROM): a single switchable 16 KiB PRG
// bank at $8000..$BFFF, with the last 16 KiB bank fixed at
// $C000..$FFFF. CHR is fixed ROM or RAM with no banking.
type uxrom struct {
	prg       []byte
	chr       chrStore
	ram       prgRAM
	mirroring cartridge.Mirroring

	bank     int
	numBanks int
}

func newUxROM(cart *cartridge.Cartridge) *uxrom {
	return &uxrom{
		prg:       cart.PRG,
		chr:       newCHRStore(cart.CHR),
		ram:       newPRGRAM(cart.Battery),
		mirroring: cart.Mirroring,
		numBanks:  len(cart.PRG) / 0x4000,
	}
}

func (m *uxrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.ram.read(addr)
	case addr >= 0x8000 && addr < 0xC000:
		return m.prg[m.bank*0x4000+int(addr-0x8000)]
	case addr >= 0xC000:
		last := m.numBanks - 1
		return m.prg[last*0x4000+int(addr-0xC000)]
	default:
		return 0
	}
}

func (m *uxrom) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.ram.write(addr, v)
	case addr >= 0x8000:
		m.bank = int(v) % m.numBanks
	}
}

func (m *uxrom) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *uxrom) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }
func (m *uxrom) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }

func (m *uxrom) Mirroring() cartridge.Mirroring { return m.mirroring }
func (m *uxrom) Reset()                         { m.bank = 0 }
func (m *uxrom) ConsumeIRQ() bool               { return false }

func (m *uxrom) Battery() bool       { return m.ram.Battery() }
func (m *uxrom) SaveRAM() []byte     { return m.ram.SaveRAM() }
func (m *uxrom) LoadRAM(data []byte) { m.ram.LoadRAM(data) }
