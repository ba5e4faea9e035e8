package ppu

// RGB is an entry in the fixed NES master palette.
type RGB struct{ R, G, B uint8 }

// SystemPalette is the standard 64-entry 2C02 RGB approximation. A host
// shell uses this to turn a Framebuffer palette index into a color;
// the core itself never produces RGB pixels.
var SystemPalette = [64]RGB{
	{0x80, 0x80, 0x80}, {0x00, 0x3D, 0xA6}, {0x00, 0x12, 0xB0}, {0x44, 0x00, 0x96}, {0xA1, 0x00, 0x5E},
	{0xC7, 0x00, 0x28}, {0xBA, 0x06, 0x00}, {0x8C, 0x17, 0x00}, {0x5C, 0x2F, 0x00}, {0x10, 0x45, 0x00},
	{0x05, 0x4A, 0x00}, {0x00, 0x47, 0x2E}, {0x00, 0x41, 0x66}, {0x00, 0x00, 0x00}, {0x05, 0x05, 0x05}, {0x05, 0x05, 0x05},
	{0xC7, 0xC7, 0xC7}, {0x00, 0x77, 0xFF}, {0x21, 0x55, 0xFF}, {0x82, 0x37, 0xFA}, {0xEB, 0x2F, 0xB5},
	{0xFF, 0x29, 0x50}, {0xFF, 0x22, 0x00}, {0xD6, 0x32, 0x00}, {0xC4, 0x62, 0x00}, {0x35, 0x80, 0x00},
	{0x05, 0x8F, 0x00}, {0x00, 0x8A, 0x55}, {0x00, 0x99, 0xCC}, {0x21, 0x21, 0x21}, {0x09, 0x09, 0x09}, {0x09, 0x09, 0x09},
	{0xFF, 0xFF, 0xFF}, {0x0F, 0xD7, 0xFF}, {0x69, 0xA2, 0xFF}, {0xD4, 0x80, 0xFF}, {0xFF, 0x45, 0xF3},
	{0xFF, 0x61, 0x8B}, {0xFF, 0x88, 0x33}, {0xFF, 0x9C, 0x12}, {0xFA, 0xBC, 0x20}, {0x9F, 0xE3, 0x0E},
	{0x2B, 0xF0, 0x35}, {0x0C, 0xF0, 0xA4}, {0x05, 0xFB, 0xFF}, {0x5E, 0x5E, 0x5E}, {0x0D, 0x0D, 0x0D}, {0x0D, 0x0D, 0x0D},
	{0xFF, 0xFF, 0xFF}, {0xA6, 0xFC, 0xFF}, {0xB3, 0xEC, 0xFF}, {0xDA, 0xAB, 0xEB}, {0xFF, 0xA8, 0xF9},
	{0xFF, 0xAB, 0xB3}, {0xFF, 0xD2, 0xB0}, {0xFF, 0xEF, 0xA6}, {0xFF, 0xF7, 0x9C}, {0xD7, 0xE8, 0x95},
	{0xA6, 0xED, 0xAF}, {0xA2, 0xF2, 0xDA}, {0x99, 0xFF, 0xFC}, {0xDD, 0xDD, 0xDD}, {0x11, 0x11, 0x11}, {0x11, 0x11, 0x11},
}

// spriteSlot is one entry of the per-scanline secondary OAM.
type spriteSlot struct {
	o        oam
	oamIndex int
}

// renderScanline composites one full 256-pixel row of background and
// sprites into the framebuffer, reading v/t/x exactly as they stand
// at this scanline's cycle-256 checkpoint.
func (p *PPU) renderScanline(scanline int) {
	var bgOpaque [screenWidth]bool
	var bgPixel [screenWidth]uint8

	if p.bgEnabled() {
		p.renderBackgroundRow(scanline, &bgOpaque, &bgPixel)
	} else {
		backdrop := p.readPalette(0x3F00)
		for x := 0; x < screenWidth; x++ {
			bgPixel[x] = backdrop
		}
	}

	if p.mask&maskShowSprites != 0 {
		p.renderSpriteRow(scanline, &bgOpaque, &bgPixel)
	}

	base := scanline * screenWidth
	for x := 0; x < screenWidth; x++ {
		p.framebuffer[base+x] = bgPixel[x] & 0x3F
	}
}

func (p *PPU) renderBackgroundRow(scanline int, bgOpaque *[screenWidth]bool, bgPixel *[screenWidth]uint8) {
	bgTable := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		bgTable = 0x1000
	}
	clipLeft := p.mask&maskShowBGLeft == 0

	scrollX0 := int(p.v.nametableX())*256 + int(p.v.coarseX())*8 + int(p.x)
	scrollY0 := int(p.v.nametableY())*240 + int(p.v.coarseY())*8 + int(p.v.fineY())

	for x := 0; x < screenWidth; x++ {
		absX := (scrollX0 + x) % 512
		absY := (scrollY0 + scanline) % 480

		ntX := (absX / 256) & 1
		ntY := (absY / 240) & 1
		ntIndex := ntY*2 + ntX

		tileCol := (absX % 256) / 8
		tileRow := (absY % 240) / 8
		fineX := (absX % 256) % 8
		fineY := (absY % 240) % 8

		ntBase := uint16(0x2000 + ntIndex*0x400)
		tileAddr := ntBase + uint16(tileRow*32+tileCol)
		tileID := p.vram[p.nametableOffset(tileAddr)]

		attrAddr := ntBase + 0x3C0 + uint16((tileRow/4)*8+(tileCol/4))
		attrByte := p.vram[p.nametableOffset(attrAddr)]
		shift := uint(((tileRow%4)/2)*4 + ((tileCol%4)/2)*2)
		paletteSel := (attrByte >> shift) & 0x03

		patAddr := bgTable + uint16(tileID)*16 + uint16(fineY)
		lo := p.bus.PPUPeek(patAddr)
		hi := p.bus.PPUPeek(patAddr + 8)
		bit := uint(7 - fineX)
		pixel := ((hi>>bit)&1)<<1 | (lo>>bit)&1

		if pixel == 0 || (clipLeft && x < 8) {
			bgPixel[x] = p.readPalette(0x3F00)
			bgOpaque[x] = false
			continue
		}
		bgPixel[x] = p.readPalette(0x3F00 + uint16(paletteSel)*4 + uint16(pixel))
		bgOpaque[x] = true
	}
}

func (p *PPU) renderSpriteRow(scanline int, bgOpaque *[screenWidth]bool, bgPixel *[screenWidth]uint8) {
	height := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		height = 16
	}

	var slots []spriteSlot
	for i := 0; i < 64; i++ {
		o := OAMFromBytes(p.oam[i*4 : i*4+4])
		row := scanline - (int(o.y) + 1) // sprite data is delayed by one scanline
		if row < 0 || row >= height {
			continue
		}
		if len(slots) == 8 {
			p.status |= statusSpriteOverflow
			break
		}
		slots = append(slots, spriteSlot{o: o, oamIndex: i})
	}

	clipLeft := p.mask&maskShowSprLeft == 0
	sprTable := uint16(0)
	if p.ctrl&ctrlSpritePattn != 0 {
		sprTable = 0x1000
	}

	// Draw in reverse priority order so slot 0 (highest priority) wins
	// the final write for a given x.
	for i := len(slots) - 1; i >= 0; i-- {
		s := slots[i]
		row := scanline - (int(s.o.y) + 1)
		if s.o.flipV {
			row = height - 1 - row
		}

		tileID := uint16(s.o.tileId)
		table := sprTable
		if height == 16 {
			table = uint16(tileID&1) * 0x1000
			tileID &^= 1
			if row >= 8 {
				tileID++
				row -= 8
			}
		}
		patAddr := table + tileID*16 + uint16(row)
		lo := p.bus.PPUPeek(patAddr)
		hi := p.bus.PPUPeek(patAddr + 8)

		for col := 0; col < 8; col++ {
			x := int(s.o.x) + col
			if x < 0 || x >= screenWidth || (clipLeft && x < 8) {
				continue
			}
			bit := col
			if !s.o.flipH {
				bit = 7 - col
			}
			pixel := ((hi>>uint(bit))&1)<<1 | (lo>>uint(bit))&1
			if pixel == 0 {
				continue
			}

			if s.oamIndex == 0 && bgOpaque[x] {
				p.status |= statusSprite0Hit
			}
			if s.o.renderP == FRONT || !bgOpaque[x] {
				bgPixel[x] = p.readPalette(0x3F10 + uint16(s.o.palette)*4 + uint16(pixel))
			}
		}
	}
}
