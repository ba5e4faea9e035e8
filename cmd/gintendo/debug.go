package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/bdwalton/gintendo/cartridge"
	"github.com/bdwalton/gintendo/console"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

func debugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <rom-path>",
		Short: "Interactive breakpoint/step debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebug(args[0])
		},
	}
	return cmd
}

func runDebug(romPath string) error {
	cart, err := cartridge.Load(romPath)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}
	c, err := console.PowerOn(cart)
	if err != nil {
		return fmt.Errorf("powering on: %w", err)
	}

	breaks := make(map[uint16]struct{})
	in := bufio.NewReader(os.Stdin)

	for {
		printRegisters(c)
		fmt.Println("(b)reakpoint add  (c)lear breakpoints  (r)un to breakpoint")
		fmt.Println("(s)tep one instruction  (e) reset  (m)emory dump  (u) ppu status")
		fmt.Println("(p) dump pattern table to png  (q)uit")
		fmt.Print("> ")

		line, err := in.ReadString('\n')
		if err != nil {
			return nil
		}
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case 'b', 'B':
			breaks[readAddress(in, "breakpoint (e.g. c000): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'e', 'E':
			if err := c.Reset(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case 'm', 'M':
			low := readAddress(in, "low address: ")
			high := readAddress(in, "high address: ")
			dumpMemory(c, low, high)
		case 'p', 'P':
			table := readTableIndex(in)
			path := readPath(in)
			if err := dumpPatternTable(c, table, path); err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else {
				fmt.Printf("wrote pattern table %d to %s\n", table, path)
			}
		case 'q', 'Q':
			return nil
		case 'r', 'R':
			for {
				if _, _, err := c.Step(); err != nil {
					fmt.Fprintln(os.Stderr, err)
					break
				}
				if _, atBreak := breaks[c.CPU().PC()]; atBreak {
					break
				}
			}
		case 's', 'S':
			if _, _, err := c.Step(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case 'u', 'U':
			fmt.Printf("PPU: nmiLine=%v\n\n", c.PPU().NMILine())
		}
	}
}

func printRegisters(c *console.Console) {
	cpu := c.CPU()
	fmt.Printf("\nPC=$%04X A=$%02X X=$%02X Y=$%02X SP=$%02X P=$%02X halted=%v\n\n",
		cpu.PC(), cpu.A(), cpu.X(), cpu.Y(), cpu.SP(), cpu.P(), cpu.Halted())
}

func dumpMemory(c *console.Console, low, high uint16) {
	fmt.Println()
	col := 0
	for addr := uint32(low); addr <= uint32(high) && addr <= 0xFFFF; addr++ {
		fmt.Printf("$%04X:%02X ", addr, c.Peek(uint16(addr)))
		col++
		if col%8 == 0 {
			fmt.Println()
		}
	}
	fmt.Println()
}

func readAddress(in *bufio.Reader, prompt string) uint16 {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	var a uint16
	fmt.Sscanf(line, "%x", &a)
	return a
}

func readTableIndex(in *bufio.Reader) int {
	fmt.Print("pattern table (0 or 1): ")
	line, _ := in.ReadString('\n')
	n, _ := strconv.Atoi(strings.TrimSpace(line))
	return n
}

func readPath(in *bufio.Reader) string {
	fmt.Print("output png path: ")
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

const (
	patternTableTiles  = 16
	patternTileSize    = 8
	patternTableNative = patternTableTiles * patternTileSize // 128px square
	patternDumpScale   = 4
)

// dumpPatternTable renders one 4 KiB pattern table (0 or 1) as a 16x16
// grid of 8x8 tiles, each pixel shaded by its raw 2-bit color index
// (palette attributes aren't part of CHR data), then upscales the
// result with nearest-neighbor interpolation so individual pixels stay
// sharp instead of blurring into each other.
func dumpPatternTable(c *console.Console, table int, path string) error {
	native := image.NewGray(image.Rect(0, 0, patternTableNative, patternTableNative))
	base := uint16(table&1) * 0x1000

	for tile := 0; tile < 256; tile++ {
		originX := (tile % patternTableTiles) * patternTileSize
		originY := (tile / patternTableTiles) * patternTileSize
		tileAddr := base + uint16(tile)*16
		for row := 0; row < patternTileSize; row++ {
			lo := c.PeekCHR(tileAddr + uint16(row))
			hi := c.PeekCHR(tileAddr + uint16(row) + 8)
			for col := 0; col < patternTileSize; col++ {
				bit := uint(7 - col)
				px := ((hi>>bit)&1)<<1 | (lo>>bit)&1
				native.SetGray(originX+col, originY+row, color.Gray{Y: px * 85})
			}
		}
	}

	side := patternTableNative * patternDumpScale
	scaled := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), native, native.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, scaled)
}
