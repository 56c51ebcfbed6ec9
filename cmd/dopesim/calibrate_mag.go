package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/koenig-jacob/DOPE/internal/magcal"
)

var calibrateMagInput string

// calibrateMagCmd fits a hard-iron/soft-iron magnetometer calibration from
// a CSV of raw (mx, my, mz) samples collected while rotating the device
// through as many orientations as practical. This is the offline,
// non-hot-path companion to magcal.Calibrator.Apply.
var calibrateMagCmd = &cobra.Command{
	Use:   "calibrate-mag",
	Short: "Fit a hard-iron/soft-iron magnetometer calibration from raw samples",
	Long:  "calibrate-mag reads a CSV of raw magnetometer samples (mx,my,mz per row, no header) and prints the fitted hard-iron offset and soft-iron correction matrix.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if calibrateMagInput == "" {
			return fmt.Errorf("--input is required")
		}

		f, err := os.Open(calibrateMagInput)
		if err != nil {
			return err
		}
		defer f.Close()

		r := csv.NewReader(f)
		rows, err := r.ReadAll()
		if err != nil {
			return err
		}

		samples := make([]magcal.Sample, 0, len(rows))
		for _, row := range rows {
			if len(row) < 3 {
				continue
			}
			x, err1 := strconv.ParseFloat(row[0], 64)
			y, err2 := strconv.ParseFloat(row[1], 64)
			z, err3 := strconv.ParseFloat(row[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			samples = append(samples, magcal.Sample{X: x, Y: y, Z: z})
		}

		hardIron, softIron, err := magcal.FitEllipsoid(samples)
		if err != nil {
			return fmt.Errorf("fitting calibration from %d samples: %w", len(samples), err)
		}

		fmt.Printf("hard_iron: [%.4f, %.4f, %.4f]\n", hardIron[0], hardIron[1], hardIron[2])
		fmt.Println("soft_iron:")
		for _, row := range softIron {
			fmt.Printf("  [%.4f, %.4f, %.4f]\n", row[0], row[1], row[2])
		}
		return nil
	},
}

func init() {
	calibrateMagCmd.Flags().StringVar(&calibrateMagInput, "input", "", "Path to a CSV of raw mx,my,mz magnetometer samples")
	calibrateMagCmd.MarkFlagRequired("input")
}
