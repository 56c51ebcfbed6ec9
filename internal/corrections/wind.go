// Package corrections implements wind decomposition and cant (roll)
// correction of a firing solution's elevation/windage holds.
package corrections

import "math"

const degToRad = math.Pi / 180.0

// Wind holds a manually-set wind speed and heading (the direction the wind
// comes FROM, degrees true) and decomposes it relative to a firing azimuth.
type Wind struct {
	speedMS    float64
	headingDeg float64
	isSet      bool
}

// SetWind installs a wind speed (m/s) and heading (degrees true, direction
// the wind blows FROM).
func (w *Wind) SetWind(speedMS, headingDeg float64) {
	w.speedMS = speedMS
	w.headingDeg = headingDeg
	w.isSet = true
}

// IsSet reports whether a wind value has ever been supplied.
func (w *Wind) IsSet() bool { return w.isSet }

// GetSpeed returns the configured wind speed in m/s.
func (w *Wind) GetSpeed() float64 { return w.speedMS }

// GetHeading returns the configured wind heading in degrees true.
func (w *Wind) GetHeading() float64 { return w.headingDeg }

// Decompose resolves the wind into headwind (positive = into the shooter's
// face) and crosswind (positive = right-to-left) components relative to the
// given firing azimuth (degrees true).
func (w *Wind) Decompose(azimuthDeg float64) (headwindMS, crosswindMS float64) {
	if !w.isSet || w.speedMS < 0.001 {
		return 0, 0
	}

	angleRad := (w.headingDeg - azimuthDeg) * degToRad
	headwindMS = w.speedMS * math.Cos(angleRad)
	crosswindMS = w.speedMS * math.Sin(angleRad)
	return
}
