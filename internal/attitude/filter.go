// Package attitude implements the swappable Madgwick/Mahony orientation
// filters and the manager that owns bias correction and static/dynamic
// motion detection around them.
package attitude

import "math"

// Quaternion is a scalar-first orientation quaternion.
type Quaternion struct {
	W, X, Y, Z float64
}

func (q *Quaternion) normalize() {
	norm := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if norm > 0 {
		inv := 1.0 / norm
		q.W *= inv
		q.X *= inv
		q.Y *= inv
		q.Z *= inv
	}
}

// Filter is implemented by each concrete fusion algorithm. The engine
// selects one at runtime.
type Filter interface {
	Update(ax, ay, az, gx, gy, gz, mx, my, mz float64, useMag bool, dt float64)
	Reset()
	Quaternion() Quaternion
}

// Pitch returns the nose-up pitch angle in radians from a quaternion.
func Pitch(q Quaternion) float64 {
	sinp := 2.0 * (q.W*q.Y - q.Z*q.X)
	if sinp > 1.0 {
		sinp = 1.0
	}
	if sinp < -1.0 {
		sinp = -1.0
	}
	return math.Asin(sinp)
}

// Roll returns the right-wing-down roll angle in radians from a quaternion.
func Roll(q Quaternion) float64 {
	sinrCosp := 2.0 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1.0 - 2.0*(q.X*q.X+q.Y*q.Y)
	return math.Atan2(sinrCosp, cosrCosp)
}

// Yaw returns the clockwise-from-north yaw angle in radians from a
// quaternion.
func Yaw(q Quaternion) float64 {
	sinyCosp := 2.0 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1.0 - 2.0*(q.Y*q.Y+q.Z*q.Z)
	return math.Atan2(sinyCosp, cosyCosp)
}
