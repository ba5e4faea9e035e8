// Command gintendo is the host shell: it loads an iNES cartridge, wires
// up the emulator core, and drives it in real time through ebiten.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gintendo",
		Short:         "A MOS 6502 / 2C02 NES emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())
	root.AddCommand(debugCmd())
	return root
}
