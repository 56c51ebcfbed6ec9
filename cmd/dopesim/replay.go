package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/koenig-jacob/DOPE"
	"github.com/koenig-jacob/DOPE/internal/preset"
)

var (
	replayInput      string
	replayPresetPath string
)

// replayCmd replays a recorded sensor log. Expected CSV columns:
// timestamp_us,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z,imu_valid,
// mag_x,mag_y,mag_z,mag_valid,baro_pa,baro_c,baro_valid,
// lrf_range_m,lrf_confidence,lrf_valid
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded sensor log through an engine",
	Long:  "replay feeds rows from a CSV sensor log back through a dope.Engine in order, printing the resulting mode/fault flags and firing solution at the end of the log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("--input is required")
		}

		e := dope.NewEngine()
		if replayPresetPath != "" {
			p, err := preset.Load(replayPresetPath)
			if err != nil {
				return fmt.Errorf("loading preset: %w", err)
			}
			p.ApplyTo(e)
		}

		f, err := os.Open(replayInput)
		if err != nil {
			return err
		}
		defer f.Close()

		r := csv.NewReader(f)
		rows, err := r.ReadAll()
		if err != nil {
			return err
		}
		if len(rows) < 2 {
			return fmt.Errorf("expected a header row plus at least one data row")
		}

		for _, row := range rows[1:] {
			frame, err := parseSensorFrameRow(row)
			if err != nil {
				return err
			}
			e.Update(frame)
		}

		sol := e.GetSolution()
		fmt.Printf("mode=%s faults=%#x diags=%#x elevation_moa=%.3f windage_moa=%.3f\n",
			e.GetMode(), e.GetFaultFlags(), e.GetDiagFlags(), sol.HoldElevationMOA, sol.HoldWindageMOA)
		return nil
	},
}

func parseSensorFrameRow(row []string) (*dope.SensorFrame, error) {
	if len(row) < 18 {
		return nil, fmt.Errorf("expected 18 columns, got %d", len(row))
	}

	f := func(i int) float64 {
		v, _ := strconv.ParseFloat(row[i], 64)
		return v
	}
	b := func(i int) bool {
		v, _ := strconv.ParseBool(row[i])
		return v
	}
	u := func(i int) uint64 {
		v, _ := strconv.ParseUint(row[i], 10, 64)
		return v
	}

	return &dope.SensorFrame{
		TimestampUS: u(0),
		AccelX:      f(1), AccelY: f(2), AccelZ: f(3),
		GyroX: f(4), GyroY: f(5), GyroZ: f(6),
		IMUValid: b(7),
		MagX:     f(8), MagY: f(9), MagZ: f(10),
		MagValid:          b(11),
		BaroPressurePa:    f(12),
		BaroTemperatureC:  f(13),
		BaroValid:         b(14),
		LRFRangeM:         f(15),
		LRFConfidence:     f(16),
		LRFValid:          b(17),
		LRFTimestampUS:    u(0),
	}, nil
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to a recorded sensor log CSV")
	replayCmd.Flags().StringVar(&replayPresetPath, "preset", "", "Optional bullet/zero preset YAML to apply before replay")
	replayCmd.MarkFlagRequired("input")
}
