package mappers

import "github.com/bdwalton/gintendo/cartridge"

// mmc1 implements mapper 1 (MMC1): a 5-bit serial shift register loaded
// one bit at a time (LSB first) by consecutive writes to $8000..$FFFF.
// The fifth write commits the accumulated value into one of four
// registers selected by the write address, then the shift register
// resets for the next sequence. A write with bit 7 set resets the
// shift register immediately and forces PRG mode 3.
type mmc1 struct {
	prg []byte
	chr chrStore
	ram prgRAM

	numPRGBanks16k int
	numCHRPages4k  int

	shift      uint8
	shiftCount uint8

	control  uint8 // [4]=chrMode [3:2]=prgMode [1:0]=mirroring
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8
}

func newMMC1(cart *cartridge.Cartridge) *mmc1 {
	m := &mmc1{
		prg:            cart.PRG,
		chr:            newCHRStore(cart.CHR),
		ram:            newPRGRAM(cart.Battery),
		numPRGBanks16k: len(cart.PRG) / 0x4000,
	}
	m.numCHRPages4k = len(m.chr.data) / 0x1000
	if m.numCHRPages4k == 0 {
		m.numCHRPages4k = 1
	}
	m.Reset()
	return m
}

func (m *mmc1) Reset() {
	m.shift = 0
	m.shiftCount = 0
	m.control = 0x0C // PRG mode 3 forced, per boundary behaviour in spec
	m.chrBank0 = 0
	m.chrBank1 = 0
	m.prgBank = 0
}

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.ram.read(addr)
	case addr >= 0x8000:
		bank, offset := m.prgWindow(addr)
		return m.prg[bank*0x4000+offset]
	default:
		return 0
	}
}

// prgWindow resolves a CPU address in $8000..$FFFF to a (bank, offset)
// pair according to the current PRG mode.
func (m *mmc1) prgWindow(addr uint16) (bank, offset int) {
	offset = int(addr & 0x3FFF)
	prgMode := (m.control >> 2) & 0x03
	last := m.numPRGBanks16k - 1

	switch prgMode {
	case 0, 1: // 32 KiB switch: ignore low bit of the bank register
		base := int(m.prgBank>>1) * 2
		if addr < 0xC000 {
			return (base) % m.numPRGBanks16k, offset
		}
		return (base + 1) % m.numPRGBanks16k, offset
	case 2: // fixed first bank at $8000, switch at $C000
		if addr < 0xC000 {
			return 0, offset
		}
		return int(m.prgBank) % m.numPRGBanks16k, offset
	default: // 3: switch at $8000, fixed last bank at $C000
		if addr < 0xC000 {
			return int(m.prgBank) % m.numPRGBanks16k, offset
		}
		return last, offset
	}
}

func (m *mmc1) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.ram.write(addr, v)
		return
	}
	if addr < 0x8000 {
		return
	}

	if v&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shift = (m.shift >> 1) | ((v & 1) << 4)
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	value := m.shift
	switch {
	case addr < 0xA000:
		m.control = value
	case addr < 0xC000:
		m.chrBank0 = value
	case addr < 0xE000:
		m.chrBank1 = value
	default:
		m.prgBank = value & 0x1F
	}
	m.shift = 0
	m.shiftCount = 0
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	return m.chr.read(m.chrOffset(addr))
}

func (m *mmc1) PPUWrite(addr uint16, v uint8) {
	m.chr.write(m.chrOffset(addr), v)
}

func (m *mmc1) PPUPeek(addr uint16) uint8 {
	return m.chr.read(m.chrOffset(addr))
}

func (m *mmc1) chrOffset(addr uint16) int {
	if m.control&0x10 == 0 {
		// 8 KiB mode: chrBank0 with its LSB cleared selects the page.
		base := int(m.chrBank0&0xFE) % m.numCHRPages4k
		return base*0x1000 + int(addr&0x1FFF)
	}
	if addr < 0x1000 {
		return (int(m.chrBank0) % m.numCHRPages4k) * 0x1000 + int(addr&0x0FFF)
	}
	return (int(m.chrBank1) % m.numCHRPages4k) * 0x1000 + int(addr&0x0FFF)
}

func (m *mmc1) Mirroring() cartridge.Mirroring {
	switch m.control & 0x03 {
	case 0, 1: // one-screen A/B: approximated as the nearer of H/V per spec
		if m.control&0x03 == 1 {
			return cartridge.MirrorVertical
		}
		return cartridge.MirrorHorizontal
	case 2:
		return cartridge.MirrorVertical
	default:
		return cartridge.MirrorHorizontal
	}
}

func (m *mmc1) ConsumeIRQ() bool { return false }

func (m *mmc1) Battery() bool       { return m.ram.Battery() }
func (m *mmc1) SaveRAM() []byte     { return m.ram.SaveRAM() }
func (m *mmc1) LoadRAM(data []byte) { m.ram.LoadRAM(data) }
