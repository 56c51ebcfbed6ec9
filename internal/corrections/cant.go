package corrections

import "math"

// ApplyCant rotates an uncorrected elevation hold into the canted sight
// plane: a rifle rolled by cantAngleRad sees its vertical hold reduced by
// cos(theta), with a spurious horizontal component of sin(theta) appearing
// in its place.
func ApplyCant(cantAngleRad, elevationMOA float64) (elevOut, windOut float64) {
	elevOut = elevationMOA * math.Cos(cantAngleRad)
	windOut = elevationMOA * math.Sin(cantAngleRad)
	return
}
