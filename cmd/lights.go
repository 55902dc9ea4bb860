package cmd

import (
	"fmt"

	"github.com/nickysemenza/gola"
	"github.com/spf13/cobra"
)

var dumpUniverse int

// lightsCmd groups the OLA helpers
var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "DMX lighting helpers",
}

// lightsDumpCmd prints the DMX values OLA holds for a universe
var lightsDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the DMX values of a universe",
	Long:  "Read back the DMX values OLA is sending on a universe, e.g. to check the beat lights are patched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := gola.New(cfg.Lighting.OLAAddress)
		if err != nil {
			return fmt.Errorf("could not connect to OLA at %s: %w", cfg.Lighting.OLAAddress, err)
		}
		defer client.Close()

		x, err := client.GetDmx(dumpUniverse)
		if err != nil {
			return fmt.Errorf("GetDmx: %d: %w", dumpUniverse, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "universe %d: %v\n", dumpUniverse, x.Data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lightsCmd)
	lightsCmd.AddCommand(lightsDumpCmd)

	lightsDumpCmd.Flags().IntVar(&dumpUniverse, "universe", 1, "DMX universe to dump")
}
