package mappers

import "github.com/bdwalton/gintendo/cartridge"

// mmc3 implements mapper 4 (MMC3): eight bank-select/bank-data
// registers addressed via even/odd writes in four 0x2000-sized windows,
// plus a scanline-synchronous IRQ counter clocked by rising edges on
// PPU address line 12. The PPU either taps PPURead/PPUWrite directly
// (per-cycle rendering) or synthesises one qualifying edge per visible
// scanline (coarse rendering) — either way this mapper only needs to
// watch the addresses it's handed.
type mmc3 struct {
	prg []byte
	chr chrStore
	ram prgRAM

	numPRG8k int
	numCHR1k int

	bankSelect uint8 // bit2:0 = target register, bit6 = prgMode, bit7 = chrMode
	registers  [8]uint8
	mirroring  uint8 // 0 = vertical, 1 = horizontal (hardware convention)

	irqLatch        uint8
	irqCounter       uint8
	irqEnabled      bool
	irqPending      bool
	irqReloadPending bool

	a12Prev     bool
	a12LowRun   int
}

func newMMC3(cart *cartridge.Cartridge) *mmc3 {
	m := &mmc3{
		prg:      cart.PRG,
		chr:      newCHRStore(cart.CHR),
		ram:      newPRGRAM(cart.Battery),
		numPRG8k: len(cart.PRG) / 0x2000,
	}
	m.numCHR1k = len(m.chr.data) / 0x400
	if m.numCHR1k == 0 {
		m.numCHR1k = 1
	}
	if cart.Mirroring == cartridge.MirrorHorizontal {
		m.mirroring = 1
	}
	m.Reset()
	return m
}

func (m *mmc3) Reset() {
	m.bankSelect = 0
	m.registers = [8]uint8{}
	m.irqLatch = 0
	m.irqCounter = 0
	m.irqEnabled = false
	m.irqPending = false
	m.irqReloadPending = false
	m.a12Prev = false
	m.a12LowRun = 0
}

func (m *mmc3) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.ram.read(addr)
	case addr >= 0x8000:
		bank, offset := m.prgWindow(addr)
		return m.prg[bank*0x2000+offset]
	default:
		return 0
	}
}

func (m *mmc3) prgWindow(addr uint16) (bank, offset int) {
	offset = int(addr & 0x1FFF)
	window := (addr - 0x8000) / 0x2000 // 0..3
	last := m.numPRG8k - 1
	secondLast := last - 1
	if secondLast < 0 {
		secondLast = 0
	}

	r6 := int(m.registers[6]) % m.numPRG8k
	r7 := int(m.registers[7]) % m.numPRG8k

	prgMode := (m.bankSelect >> 6) & 1
	if prgMode == 0 {
		switch window {
		case 0:
			return r6, offset
		case 1:
			return r7, offset
		case 2:
			return secondLast, offset
		default:
			return last, offset
		}
	}
	switch window {
	case 0:
		return secondLast, offset
	case 1:
		return r7, offset
	case 2:
		return r6, offset
	default:
		return last, offset
	}
}

func (m *mmc3) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.ram.write(addr, v)
	case addr >= 0x8000 && addr < 0xA000:
		if addr%2 == 0 {
			m.bankSelect = v
		} else {
			m.registers[m.bankSelect&0x07] = v
		}
	case addr >= 0xA000 && addr < 0xC000:
		if addr%2 == 0 {
			m.mirroring = v & 1
		}
		// PRG-RAM enable/write-protect (odd address) is tracked by
		// hardware but not enforced here: nothing in this emulator's
		// scope depends on rejecting a write-protected SRAM write.
	case addr >= 0xC000 && addr < 0xE000:
		if addr%2 == 0 {
			m.irqLatch = v
		} else {
			m.irqCounter = 0
			m.irqReloadPending = true
		}
	default: // 0xE000..0xFFFF
		if addr%2 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) PPURead(addr uint16) uint8 {
	m.observeA12(addr)
	return m.chr.read(m.chrOffset(addr))
}

func (m *mmc3) PPUWrite(addr uint16, v uint8) {
	m.observeA12(addr)
	m.chr.write(m.chrOffset(addr), v)
}

// PPUPeek resolves CHR for the coarse renderer's bulk per-pixel fetches.
// It deliberately skips observeA12: those fetches stand in for many real
// accesses at once and the scanline's one A12 edge is already produced by
// synthesizeA12Edge in the ppu package.
func (m *mmc3) PPUPeek(addr uint16) uint8 {
	return m.chr.read(m.chrOffset(addr))
}

func (m *mmc3) observeA12(addr uint16) {
	a12 := addr&0x1000 != 0
	if a12 && !m.a12Prev && m.a12LowRun >= 8 {
		m.clockIRQ()
	}
	if a12 {
		m.a12LowRun = 0
	} else {
		m.a12LowRun++
	}
	m.a12Prev = a12
}

func (m *mmc3) clockIRQ() {
	if m.irqReloadPending || m.irqCounter == 0 {
		m.irqCounter = m.irqLatch
		m.irqReloadPending = false
	} else {
		m.irqCounter--
	}
	if m.irqEnabled && m.irqCounter == 0 {
		m.irqPending = true
	}
}

func (m *mmc3) chrOffset(addr uint16) int {
	chrMode := (m.bankSelect >> 7) & 1
	slot1k := int(addr / 0x400) // 0..7
	r := func(i int) int { return int(m.registers[i]) % m.numCHR1k }

	var page int
	if chrMode == 0 {
		switch slot1k {
		case 0:
			page = (r(0) &^ 1)
		case 1:
			page = (r(0) &^ 1) + 1
		case 2:
			page = (r(1) &^ 1)
		case 3:
			page = (r(1) &^ 1) + 1
		default:
			page = r(slot1k - 2) // R2..R5 at $1000..$1FFF
		}
	} else {
		switch slot1k {
		case 0, 1, 2, 3:
			page = r(slot1k + 2) // R2..R5 at $0000..$0FFF
		case 4:
			page = (r(0) &^ 1)
		case 5:
			page = (r(0) &^ 1) + 1
		case 6:
			page = (r(1) &^ 1)
		default:
			page = (r(1) &^ 1) + 1
		}
	}
	return (page%m.numCHR1k)*0x400 + int(addr&0x3FF)
}

func (m *mmc3) Mirroring() cartridge.Mirroring {
	if m.mirroring == 1 {
		return cartridge.MirrorHorizontal
	}
	return cartridge.MirrorVertical
}

func (m *mmc3) ConsumeIRQ() bool { return m.irqPending }

func (m *mmc3) Battery() bool       { return m.ram.Battery() }
func (m *mmc3) SaveRAM() []byte     { return m.ram.SaveRAM() }
func (m *mmc3) LoadRAM(data []byte) { m.ram.LoadRAM(data) }
