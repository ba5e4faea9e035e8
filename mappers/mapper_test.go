package mappers

import (
	"testing"

	"github.com/bdwalton/gintendo/cartridge"
)

func bankedPRG(banks int, bankSize int) []byte {
	prg := make([]byte, banks*bankSize)
	for b := 0; b < banks; b++ {
		prg[b*bankSize] = uint8(b)
	}
	return prg
}

func TestNROMMirrorsSmallBank(t *testing.T) {
	cart := &cartridge.Cartridge{
		MapperID: 0,
		PRG:      bankedPRG(1, 0x4000),
		CHR:      make([]byte, 0x2000),
	}
	m := newNROM(cart)
	if got := m.CPURead(0x8000); got != 0 {
		t.Errorf("CPURead(0x8000) = %d, want 0", got)
	}
	if got := m.CPURead(0xC000); got != 0 {
		t.Errorf("CPURead(0xC000) = %d, want 0 (16 KiB PRG must mirror into the second window)", got)
	}
}

// Scenario D from the specification: MMC1 PRG banking.
func TestMMC1PRGBankingScenarioD(t *testing.T) {
	cart := &cartridge.Cartridge{
		MapperID: 1,
		PRG:      bankedPRG(4, 0x4000),
		CHR:      make([]byte, 0x2000),
	}
	m := newMMC1(cart)

	if got := m.CPURead(0x8000); got != 0x00 {
		t.Errorf("after reset, CPURead(0x8000) = %#x, want 0x00", got)
	}
	if got := m.CPURead(0xC000); got != 0x03 {
		t.Errorf("after reset, CPURead(0xC000) = %#x, want 0x03", got)
	}

	writeMMC1(m, 0xE000, 2)
	if got := m.CPURead(0x8000); got != 0x02 {
		t.Errorf("after PRG bank write, CPURead(0x8000) = %#x, want 0x02", got)
	}
	if got := m.CPURead(0xC000); got != 0x03 {
		t.Errorf("after PRG bank write, CPURead(0xC000) = %#x, want 0x03 (fixed last bank)", got)
	}
}

func writeMMC1(m *mmc1, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		bit := (value >> i) & 1
		m.CPUWrite(addr, bit)
	}
}

// Scenario C from the specification: MMC3 scanline IRQ.
func TestMMC3ScanlineIRQScenarioC(t *testing.T) {
	cart := &cartridge.Cartridge{
		MapperID: 4,
		PRG:      bankedPRG(8, 0x2000),
		CHR:      make([]byte, 0x2000),
	}
	m := newMMC3(cart)

	m.CPUWrite(0xC000, 2) // latch = 2
	m.CPUWrite(0xC001, 0) // reload pending
	m.CPUWrite(0xE001, 0) // enable

	tapOneScanline := func() {
		for i := 0; i < 8; i++ {
			m.PPURead(0x0000)
		}
		m.PPURead(0x1000)
	}

	tapOneScanline()
	if m.ConsumeIRQ() {
		t.Fatalf("IRQ asserted after first (reload) scanline, want not asserted")
	}
	if m.irqCounter != 2 {
		t.Errorf("counter after reload = %d, want 2", m.irqCounter)
	}

	tapOneScanline()
	if m.ConsumeIRQ() {
		t.Fatalf("IRQ asserted after second scanline, want not asserted")
	}
	if m.irqCounter != 1 {
		t.Errorf("counter after second scanline = %d, want 1", m.irqCounter)
	}

	tapOneScanline()
	if !m.ConsumeIRQ() {
		t.Fatalf("IRQ not asserted after third scanline, want asserted")
	}

	tapOneScanline()
	if !m.ConsumeIRQ() {
		t.Errorf("IRQ should remain asserted until acknowledged via $E000")
	}

	m.CPUWrite(0xE000, 0)
	if m.ConsumeIRQ() {
		t.Errorf("IRQ should be acknowledged after writing $E000")
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	cart := &cartridge.Cartridge{
		MapperID: 2,
		PRG:      bankedPRG(4, 0x4000),
		CHR:      make([]byte, 0x2000),
	}
	m := newUxROM(cart)
	if got := m.CPURead(0xC000); got != 0x03 {
		t.Errorf("fixed last bank at $C000 = %#x, want 0x03", got)
	}
	m.CPUWrite(0x8000, 1)
	if got := m.CPURead(0x8000); got != 0x01 {
		t.Errorf("after selecting bank 1, CPURead(0x8000) = %#x, want 0x01", got)
	}
}
