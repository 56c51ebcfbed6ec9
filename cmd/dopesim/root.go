// Command dopesim drives the Ballistic Core Engine from the command line:
// synthetic sensor simulation, sensor-log replay, and offline magnetometer
// calibration fitting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dopesim",
	Short: "Ballistic Core Engine simulation and calibration toolkit",
	Long:  "dopesim drives a dope.Engine from synthetic or recorded sensor streams and reports the resulting firing solution trajectory.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(calibrateMagCmd)
}

func main() {
	Execute()
}
