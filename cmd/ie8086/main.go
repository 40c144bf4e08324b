// Command ie8086 boots a raw 16-bit boot sector image under the emulator
// core in pkg/machine and runs it to completion or until interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotley/ie8086/pkg/machine"
)

func main() {
	var (
		diskPath      string
		ignoreMagic   bool
		silent        bool
		sync_         bool
		clocksPerTick int64
	)

	rootCmd := &cobra.Command{
		Use:   "ie8086 [boot-image]",
		Short: "Intel 8086 real-mode emulator with a minimal BIOS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading boot image: %w", err)
			}

			var disk []byte
			if diskPath != "" {
				disk, err = os.ReadFile(diskPath)
				if err != nil {
					return fmt.Errorf("reading disk image: %w", err)
				}
			}

			m := machine.New(machine.Config{
				IgnoreMagic:   ignoreMagic,
				Silent:        silent,
				Sync:          sync_,
				ClocksPerTick: clocksPerTick,
			})
			if err := m.Boot(image, disk); err != nil {
				return fmt.Errorf("boot: %w", err)
			}

			if sync_ {
				m.Run()
				return nil
			}

			host := machine.NewKeyboardHost(m)
			host.Start()
			defer host.Stop()
			m.Run()
			return nil
		},
	}

	rootCmd.Flags().StringVar(&diskPath, "disk", "", "floppy disk image for INT 13h reads")
	rootCmd.Flags().BoolVar(&ignoreMagic, "ignore-magic", false, "boot even without a 0x55AA signature")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "suppress informational logging")
	rootCmd.Flags().BoolVar(&sync_, "sync", false, "run the scheduler synchronously (no real-time waits, no live keyboard)")
	rootCmd.Flags().Int64Var(&clocksPerTick, "clocks-per-tick", 1000, "instructions executed per scheduler tick in async mode")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
