// Package magcal applies magnetometer hard-iron/soft-iron calibration,
// detects field disturbance, and computes true heading. The per-frame path
// (Apply, ComputeHeading) uses only fixed arrays; FitEllipsoid is an offline
// batch helper kept off that path.
package magcal

import "math"

// Expected Earth field magnitude band, in microtesla.
const (
	MinFieldUT = 20.0
	MaxFieldUT = 70.0
)

// Calibrator holds the current hard/soft-iron calibration and declination,
// and tracks whether the last Apply() call saw a disturbed field.
type Calibrator struct {
	hardIron    [3]float64
	softIron    [3][3]float64
	declination float64
	disturbed   bool
}

// New returns a Calibrator initialized to identity calibration.
func New() *Calibrator {
	c := &Calibrator{}
	c.Reset()
	return c
}

// Reset restores identity hard/soft-iron calibration and zero declination.
func (c *Calibrator) Reset() {
	c.hardIron = [3]float64{0, 0, 0}
	c.softIron = [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	c.declination = 0
	c.disturbed = false
}

// SetCalibration installs a hard-iron offset vector and a row-major 3x3
// soft-iron correction matrix.
func (c *Calibrator) SetCalibration(hardIron [3]float64, softIron [3][3]float64) {
	c.hardIron = hardIron
	c.softIron = softIron
}

// SetDeclination sets magnetic declination in degrees, east positive.
func (c *Calibrator) SetDeclination(deg float64) { c.declination = deg }

// GetDeclination returns the configured declination in degrees.
func (c *Calibrator) GetDeclination() float64 { return c.declination }

// IsDisturbed reports whether the last Apply() call found the corrected
// field magnitude outside the expected Earth-field band.
func (c *Calibrator) IsDisturbed() bool { return c.disturbed }

// Apply calibrates a raw magnetometer reading in place and reports whether
// the resulting field magnitude falls within the expected band.
func (c *Calibrator) Apply(mx, my, mz *float64) bool {
	cx := *mx - c.hardIron[0]
	cy := *my - c.hardIron[1]
	cz := *mz - c.hardIron[2]

	nx := c.softIron[0][0]*cx + c.softIron[0][1]*cy + c.softIron[0][2]*cz
	ny := c.softIron[1][0]*cx + c.softIron[1][1]*cy + c.softIron[1][2]*cz
	nz := c.softIron[2][0]*cx + c.softIron[2][1]*cy + c.softIron[2][2]*cz

	*mx, *my, *mz = nx, ny, nz

	fieldMag := math.Sqrt(nx*nx + ny*ny + nz*nz)
	c.disturbed = fieldMag < MinFieldUT || fieldMag > MaxFieldUT
	return !c.disturbed
}

// ComputeHeading converts an AHRS yaw (radians) plus declination into a
// true heading in degrees, normalized to [0, 360).
func (c *Calibrator) ComputeHeading(yawRad float64) float64 {
	heading := yawRad*(180.0/math.Pi) + c.declination
	for heading < 0.0 {
		heading += 360.0
	}
	for heading >= 360.0 {
		heading -= 360.0
	}
	return heading
}
