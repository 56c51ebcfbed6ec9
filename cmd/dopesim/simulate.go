package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/koenig-jacob/DOPE"
	"github.com/koenig-jacob/DOPE/internal/preset"
)

var (
	simPresetPath  string
	simStartRangeM float64
	simEndRangeM   float64
	simStepM       float64
	simGyroNoise   float64
	simAccelNoise  float64
	simSettleHz    float64
	simSettleSec   float64
	simOutPath     string
	simRunID       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive an engine with synthetic IMU/LRF frames and export the trajectory",
	Long:  "simulate feeds a dope.Engine with a steady, lightly-noised IMU stream to let the AHRS settle, then steps a laser-rangefinder reading across a range sweep, writing the resulting firing solution at each step as CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := simRunID
		if runID == "" {
			runID = uuid.NewString()
		}
		log.Printf("[dopesim] run_id=%s starting simulate: preset=%s range=%.0f..%.0fm", runID, simPresetPath, simStartRangeM, simEndRangeM)

		p, err := preset.Load(simPresetPath)
		if err != nil {
			return fmt.Errorf("loading preset: %w", err)
		}

		e := dope.NewEngine()
		p.ApplyTo(e)

		out := os.Stdout
		if simOutPath != "" {
			f, err := os.Create(simOutPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		w := csv.NewWriter(out)
		defer w.Flush()

		if err := w.Write([]string{
			"range_m", "hold_elevation_moa", "hold_windage_moa",
			"tof_ms", "velocity_ms", "energy_j", "mode",
		}); err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(1))
		dt := time.Duration(float64(time.Second) / simSettleHz)
		ts := uint64(0)
		settleTicks := int(simSettleSec * simSettleHz)

		for i := 0; i < settleTicks; i++ {
			ts += uint64(dt.Microseconds())
			e.Update(&dope.SensorFrame{
				TimestampUS: ts,
				AccelX:      rng.NormFloat64() * simAccelNoise,
				AccelY:      rng.NormFloat64() * simAccelNoise,
				AccelZ:      dope.Gravity + rng.NormFloat64()*simAccelNoise,
				GyroX:       rng.NormFloat64() * simGyroNoise,
				GyroY:       rng.NormFloat64() * simGyroNoise,
				GyroZ:       rng.NormFloat64() * simGyroNoise,
				IMUValid:    true,
			})
		}

		if simStepM <= 0 {
			return fmt.Errorf("--step must be > 0")
		}

		for r := simStartRangeM; r <= simEndRangeM; r += simStepM {
			ts += uint64(dt.Microseconds())
			e.Update(&dope.SensorFrame{
				TimestampUS:    ts,
				LRFValid:       true,
				LRFRangeM:      r,
				LRFTimestampUS: ts,
				LRFConfidence:  0.95,
			})

			sol := e.GetSolution()
			row := []string{
				strconv.FormatFloat(r, 'f', 1, 64),
				strconv.FormatFloat(sol.HoldElevationMOA, 'f', 3, 64),
				strconv.FormatFloat(sol.HoldWindageMOA, 'f', 3, 64),
				strconv.FormatFloat(sol.TOFMs, 'f', 1, 64),
				strconv.FormatFloat(sol.VelocityAtTargetMS, 'f', 1, 64),
				strconv.FormatFloat(sol.EnergyAtTargetJ, 'f', 1, 64),
				sol.SolutionMode.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simPresetPath, "preset", "", "Path to a bullet/zero preset YAML file (required)")
	simulateCmd.Flags().Float64Var(&simStartRangeM, "start", 100, "First range in the sweep, meters")
	simulateCmd.Flags().Float64Var(&simEndRangeM, "end", 1000, "Last range in the sweep, meters")
	simulateCmd.Flags().Float64Var(&simStepM, "step", 100, "Range step, meters")
	simulateCmd.Flags().Float64Var(&simGyroNoise, "gyro-noise", 0.002, "Gyro noise standard deviation, rad/s")
	simulateCmd.Flags().Float64Var(&simAccelNoise, "accel-noise", 0.02, "Accelerometer noise standard deviation, m/s^2")
	simulateCmd.Flags().Float64Var(&simSettleHz, "settle-hz", 100, "IMU sample rate during the AHRS settle period")
	simulateCmd.Flags().Float64Var(&simSettleSec, "settle-sec", 2, "AHRS settle duration, seconds")
	simulateCmd.Flags().StringVar(&simOutPath, "out", "", "Output CSV path (default stdout)")
	simulateCmd.Flags().StringVar(&simRunID, "run-id", "", "Tag log lines with this run ID (default: a generated UUID)")
	simulateCmd.MarkFlagRequired("preset")
}
