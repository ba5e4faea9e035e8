package main

import (
	"fmt"
	"os"

	"github.com/bdwalton/gintendo/cartridge"
	"github.com/bdwalton/gintendo/console"
	"github.com/bdwalton/gintendo/controller"
	"github.com/bdwalton/gintendo/ppu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

func runCmd() *cobra.Command {
	var scale int
	var savePath string

	cmd := &cobra.Command{
		Use:   "run <rom-path>",
		Short: "Run a cartridge in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(args[0], scale, savePath)
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 2, "window scale factor")
	cmd.Flags().StringVar(&savePath, "save", "", "battery-RAM save file (defaults to <rom>.sav)")
	return cmd
}

func runGame(romPath string, scale int, savePath string) error {
	cart, err := cartridge.Load(romPath)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	c, err := console.PowerOn(cart)
	if err != nil {
		return fmt.Errorf("powering on: %w", err)
	}

	if savePath == "" {
		savePath = romPath + ".sav"
	}
	if cart.Battery {
		if data, err := os.ReadFile(savePath); err == nil {
			c.LoadRAM(data)
		}
	}

	g := &game{console: c}
	ebiten.SetWindowSize(screenWidth*scale, screenHeight*scale)
	ebiten.SetWindowTitle("gintendo: " + romPath)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(g)

	if cart.Battery {
		if data := c.SaveRAM(); data != nil {
			if err := os.WriteFile(savePath, data, 0o644); err != nil {
				return fmt.Errorf("writing save file: %w", err)
			}
		}
	}
	return runErr
}

// keyMap translates host keyboard keys to NES controller buttons for
// pad 0. Translating input belongs to this outer shell, never to the
// controller package itself.
var keyMap = map[ebiten.Key]controller.Button{
	ebiten.KeyZ:     controller.ButtonA,
	ebiten.KeyX:     controller.ButtonB,
	ebiten.KeyShift: controller.ButtonSelect,
	ebiten.KeyEnter: controller.ButtonStart,
	ebiten.KeyUp:    controller.ButtonUp,
	ebiten.KeyDown:  controller.ButtonDown,
	ebiten.KeyLeft:  controller.ButtonLeft,
	ebiten.KeyRight: controller.ButtonRight,
}

// game implements ebiten.Game, translating real-time frames and key
// state into calls on the core, which otherwise has no notion of
// either.
type game struct {
	console *console.Console
	pixels  [screenWidth * screenHeight * 4]byte
}

func (g *game) Update() error {
	for key, button := range keyMap {
		g.console.SetButton(0, button, ebiten.IsKeyPressed(key))
	}
	return g.console.Frame()
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.console.Framebuffer()
	for i, idx := range fb {
		c := ppu.SystemPalette[idx&0x3F]
		g.pixels[i*4] = c.R
		g.pixels[i*4+1] = c.G
		g.pixels[i*4+2] = c.B
		g.pixels[i*4+3] = 0xFF
	}
	screen.WritePixels(g.pixels[:])
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
