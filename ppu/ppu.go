// Package ppu implements the NES Picture Processing Unit: the eight
// memory-mapped registers, nametable/palette RAM, OAM, the "loopy"
// scroll registers, and scanline/frame timing that drives NMI and,
// indirectly, the mapper's address-line-12 IRQ filter.
package ppu

import "github.com/bdwalton/gintendo/cartridge"

const (
	vramSize    = 2048 // CIRAM: two physical nametables, mirrored per cartridge wiring
	oamSize     = 256
	paletteSize = 32

	screenWidth  = 256
	screenHeight = 240

	cyclesPerScanline = 341
	scanlinesPerFrame = 262
)

// Register offsets, relative to $2000.
const (
	RegPPUCTRL   = 0x0
	RegPPUMASK   = 0x1
	RegPPUSTATUS = 0x2
	RegOAMADDR   = 0x3
	RegOAMDATA   = 0x4
	RegPPUSCROLL = 0x5
	RegPPUADDR   = 0x6
	RegPPUDATA   = 0x7
)

// PPUCTRL bits.
const (
	ctrlSpriteSize  = 1 << 5
	ctrlBGPattern   = 1 << 4
	ctrlSpritePattn = 1 << 3
	ctrlIncrement32 = 1 << 2
	ctrlNMIEnable   = 1 << 7
)

// PPUMASK bits.
const (
	maskShowBGLeft  = 1 << 1
	maskShowSprLeft = 1 << 2
	maskShowBG      = 1 << 3
	maskShowSprites = 1 << 4
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

// Bus is the narrow view of cartridge logic the PPU needs: pattern
// table access and nametable mirroring. Owned by whatever composes
// the PPU (the system bus); never stored as an owning reference back
// the other way.
type Bus interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, v uint8)

	// PPUPeek resolves a pattern-table address like PPURead, but without
	// counting as a distinct hardware fetch for mapper IRQ purposes. The
	// coarse scanline renderer's bulk per-pixel fetches use this; during
	// rendering only synthesizeA12Edge below drives the mapper's real A12
	// tap (CPU accesses through PPUDATA use PPURead/PPUWrite as well).
	PPUPeek(addr uint16) uint8

	Mirroring() cartridge.Mirroring
}

// PPU renders scanline-at-a-time: at cycle 256 of every visible
// scanline it composites the full 256-pixel row from the loopy scroll
// state at that moment, mirroring the point in real hardware where
// that scanline's background fetches are done. This trades per-pixel
// shifter fidelity for a much simpler implementation while preserving
// VBlank/NMI timing, the synthesised A12 edge, sprite-0 hit and
// left-edge clipping, per the documented coarse-rendering trade-off.
type PPU struct {
	bus Bus

	vram    [vramSize]uint8
	palette [paletteSize]uint8
	oam     [oamSize]uint8
	oamAddr uint8

	ctrl, mask, status uint8

	v, t loopy
	x    uint8 // fine X scroll, 3 bits
	w    bool  // write-toggle latch

	readBuffer uint8

	scanline int32 // -1..260
	scandot  int32 // 0..340

	nmiLine    bool
	frameReady bool

	framebuffer [screenWidth * screenHeight]uint8 // palette indices 0..63
}

// New constructs a PPU wired to bus, powered on at the start of the
// pre-render line.
func New(bus Bus) *PPU {
	p := &PPU{bus: bus, scanline: -1}
	return p
}

// Reset reinitialises PPU register state without reallocating.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.v, p.t = loopy{}, loopy{}
	p.x, p.w = 0, false
	p.oamAddr = 0
	p.readBuffer = 0
	p.scanline, p.scandot = -1, 0
	p.nmiLine = false
	p.frameReady = false
}

// Framebuffer returns the palette-index buffer (values 0..63, one byte
// per pixel, row-major) for the most recently rendered frame. Turning
// an index into an RGB color is a host-shell concern via SystemPalette.
func (p *PPU) Framebuffer() *[screenWidth * screenHeight]uint8 { return &p.framebuffer }

// NMILine reports whether the PPU currently asserts NMI.
func (p *PPU) NMILine() bool { return p.nmiLine }

// AcknowledgeNMI clears the asserted NMI line. The driver calls this
// immediately after dispatching the interrupt to the CPU.
func (p *PPU) AcknowledgeNMI() { p.nmiLine = false }

// ConsumeFrameComplete reports and clears whether the scanline counter
// has wrapped from 260 back to -1 since the last call, i.e. whether a
// full frame has just finished rendering.
func (p *PPU) ConsumeFrameComplete() bool {
	v := p.frameReady
	p.frameReady = false
	return v
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

func (p *PPU) bgEnabled() bool { return p.mask&maskShowBG != 0 }

// ReadRegister services a CPU read of $2000+reg (reg already folded
// into 0..7 by the bus's mirroring).
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg {
	case RegPPUSTATUS:
		v := p.status
		p.status &^= statusVBlank
		p.w = false
		return v
	case RegOAMDATA:
		return p.oam[p.oamAddr]
	case RegPPUDATA:
		return p.readPPUDATA()
	default:
		return 0 // write-only registers read back as 0
	}
}

// WriteRegister services a CPU write of $2000+reg.
func (p *PPU) WriteRegister(reg uint16, val uint8) {
	switch reg {
	case RegPPUCTRL:
		p.ctrl = val
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(val&0x03) << 10)
	case RegPPUMASK:
		p.mask = val
	case RegOAMADDR:
		p.oamAddr = val
	case RegOAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case RegPPUSCROLL:
		if !p.w {
			p.t.setCoarseX(uint16(val) >> 3)
			p.x = val & 0x07
		} else {
			p.t.setCoarseY(uint16(val) >> 3)
			p.t.setFineY(uint16(val) & 0x07)
		}
		p.w = !p.w
	case RegPPUADDR:
		if !p.w {
			p.t.data = (p.t.data &^ 0x7F00) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data &^ 0x00FF) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case RegPPUDATA:
		p.writeVRAM(p.v.data, val)
		p.advanceVRAMAddr()
	}
}

// OAMDMA copies 256 bytes into OAM starting at the current OAMADDR,
// wrapping through uint8 overflow, per the $4014 DMA contract.
func (p *PPU) OAMDMA(data []uint8) {
	for _, b := range data {
		p.oam[p.oamAddr] = b
		p.oamAddr++
	}
}

func (p *PPU) advanceVRAMAddr() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v.data += 32
	} else {
		p.v.data++
	}
}

func (p *PPU) readPPUDATA() uint8 {
	addr := p.v.data & 0x3FFF
	if addr >= 0x3F00 {
		result := p.readPalette(addr)
		p.readBuffer = p.readVRAM((addr - 0x1000) & 0x3FFF)
		p.advanceVRAMAddr()
		return result
	}
	result := p.readBuffer
	p.readBuffer = p.readVRAM(addr)
	p.advanceVRAMAddr()
	return result
}

// readVRAM/writeVRAM resolve the full $0000..$3FFF PPU address space:
// pattern tables through the mapper, nametables through CIRAM (mapper
// mirroring decides physical placement), and palette RAM directly.
func (p *PPU) readVRAM(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.bus.PPURead(addr)
	case addr < 0x3F00:
		return p.vram[p.nametableOffset(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		p.bus.PPUWrite(addr, v)
	case addr < 0x3F00:
		p.vram[p.nametableOffset(addr)] = v
	default:
		p.writePalette(addr, v)
	}
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, v uint8) {
	p.palette[paletteIndex(addr)] = v
}

// paletteIndex folds the $3F00..$3FFF mirror and the backdrop-color
// aliasing of sprite palette entries 0x10/0x14/0x18/0x1C onto their
// background counterparts.
func paletteIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % 0x20
	if i >= 0x10 && i%4 == 0 {
		i -= 0x10
	}
	return i
}

// nametableOffset maps a logical $2000..$2FFF nametable address into
// the 2 KiB physical CIRAM array according to cartridge mirroring.
func (p *PPU) nametableOffset(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	table := a / 0x400 // 0..3, logical nametable index
	offset := a % 0x400

	switch p.bus.Mirroring() {
	case cartridge.MirrorHorizontal:
		return (table/2)*0x400 + offset
	case cartridge.MirrorVertical:
		return (table%2)*0x400 + offset
	default:
		// Four-screen needs 2 KiB of extra cartridge VRAM this
		// implementation doesn't model; approximate as vertical.
		return (table%2)*0x400 + offset
	}
}

// Tick advances the PPU by one dot (1/3 of a CPU cycle). The driver
// is expected to call this 3 times per CPU cycle.
func (p *PPU) Tick() {
	switch {
	case p.scanline == -1:
		p.tickPreRender()
	case p.scanline >= 0 && p.scanline <= 239:
		p.tickVisible()
	case p.scanline == 241 && p.scandot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiLine = true
		}
	}

	p.scandot++
	if p.scandot >= cyclesPerScanline {
		p.scandot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame-1 {
			p.scanline = -1
			p.frameReady = true
		}
	}
}

func (p *PPU) tickPreRender() {
	if p.scandot == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
	}
	if p.bgEnabled() && p.scandot >= 280 && p.scandot <= 304 {
		p.v.copyVerticalFrom(&p.t)
	}
}

func (p *PPU) tickVisible() {
	if p.scandot == 256 {
		p.renderScanline(int(p.scanline))
		if p.bgEnabled() {
			p.v.copyHorizontalFrom(&p.t)
		}
		if p.bgEnabled() {
			p.synthesizeA12Edge()
		}
	}
}

// synthesizeA12Edge performs the access pattern one background-tile
// fetch burst produces on real hardware: several pattern-table reads
// with address line 12 low followed by one with it high. This is the
// single synthesised edge per visible scanline the coarse rendering
// model commits to (see package doc and the design note in
// DESIGN.md); it is what lets MMC3's scanline IRQ counter clock
// correctly without a per-cycle fetch pipeline.
func (p *PPU) synthesizeA12Edge() {
	for i := 0; i < 8; i++ {
		p.bus.PPURead(0x0000)
	}
	p.bus.PPURead(0x1000)
}
