package console

import (
	"math"

	"github.com/bdwalton/gintendo/cartridge"
	"github.com/bdwalton/gintendo/controller"
	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/mos6502"
	"github.com/bdwalton/gintendo/ppu"
)

const (
	nesBaseMemory = 0x800 // 2KB built-in RAM

	maxAddress        = math.MaxUint16
	maxNESBaseRAM     = 0x1FFF
	maxPPURegMirrored = 0x3FFF
	maxIORegion       = 0x4020
	maxSRAM           = 0x6000
	oamDMARegister    = 0x4014
	controller1Port   = 0x4016
	controller2Port   = 0x4017
)

// bus wires the CPU, PPU, mapper and controllers into the single NES
// address space. It is the only thing that can see all four; the CPU
// and PPU only ever see the narrow Bus/ppu.Bus interfaces they were
// constructed with.
type bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	mapper mappers.Mapper

	ram  [nesBaseMemory]uint8
	pad1 controller.Controller
	pad2 controller.Controller

	cpuCycles uint64 // total CPU cycles elapsed, for DMA odd/even parity
}

func newBus(m mappers.Mapper) *bus {
	b := &bus{mapper: m}
	b.cpu = mos6502.New(b)
	b.ppu = ppu.New(b)
	return b
}

// Read services every CPU address per the memory map in §4.2.
func (b *bus) Read(addr uint16) uint8 {
	switch {
	case addr <= maxNESBaseRAM:
		return b.ram[addr&0x07FF]
	case addr <= maxPPURegMirrored:
		return b.ppu.ReadRegister((addr - 0x2000) & 0x0007)
	case addr == controller1Port:
		return b.pad1.Read()
	case addr == controller2Port:
		return b.pad2.Read()
	case addr < maxIORegion:
		return 0 // APU and unimplemented I/O read back as 0
	case addr < maxSRAM:
		return 0
	case addr <= maxAddress:
		return b.mapper.CPURead(addr)
	}
	return 0
}

// Write services every CPU address write per the memory map in §4.2.
func (b *bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= maxNESBaseRAM:
		b.ram[addr&0x07FF] = v
	case addr <= maxPPURegMirrored:
		b.ppu.WriteRegister((addr-0x2000)&0x0007, v)
	case addr == oamDMARegister:
		b.doOAMDMA(v)
	case addr == controller1Port:
		b.pad1.Write(v)
		b.pad2.Write(v)
	case addr == controller2Port:
		// writes to $4017 are the APU frame counter, out of scope
	case addr < maxIORegion:
		// remaining APU registers, ignored
	case addr < maxSRAM:
		// nothing mapped below cartridge SRAM
	case addr <= maxAddress:
		b.mapper.CPUWrite(addr, v)
	}
}

// doOAMDMA copies the 256-byte page starting at page<<8 into OAM and
// folds the DMA's cycle cost into the CPU's next reported Step: 513
// cycles, plus one more if the DMA began on an odd CPU cycle.
func (b *bus) doOAMDMA(page uint8) {
	base := uint16(page) << 8
	var data [256]uint8
	for i := range data {
		data[i] = b.Read(base + uint16(i))
	}
	b.ppu.OAMDMA(data[:])

	cycles := uint32(513)
	if b.cpuCycles%2 != 0 {
		cycles++
	}
	b.cpu.AddDMACycles(cycles)
}

// PPURead/PPUWrite/PPUPeek/Mirroring implement ppu.Bus by forwarding
// pattern table accesses and mirroring queries straight to the mapper.
func (b *bus) PPURead(addr uint16) uint8      { return b.mapper.PPURead(addr) }
func (b *bus) PPUWrite(addr uint16, v uint8)  { b.mapper.PPUWrite(addr, v) }
func (b *bus) PPUPeek(addr uint16) uint8      { return b.mapper.PPUPeek(addr) }
func (b *bus) Mirroring() cartridge.Mirroring { return b.mapper.Mirroring() }
