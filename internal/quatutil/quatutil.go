// Package quatutil provides diagnostic orientation helpers built on
// github.com/westphae/quaternion. Nothing here sits on the engine's
// per-frame hot path — it exists for callers that want to rotate a vector
// by the last-observed orientation for display or logging purposes.
package quatutil

import "github.com/westphae/quaternion"

// RotateWorld rotates the body-frame vector (vx, vy, vz) into the world
// frame using the orientation quaternion (w, x, y, z), via the standard
// sandwich product q * v * conj(q).
func RotateWorld(w, x, y, z, vx, vy, vz float64) (outX, outY, outZ float64) {
	q := quaternion.Quaternion{W: w, X: x, Y: y, Z: z}
	v := quaternion.Quaternion{X: vx, Y: vy, Z: vz}
	rotated := quaternion.Prod(q, v, quaternion.Conj(q))
	return rotated.X, rotated.Y, rotated.Z
}

// RotateBody rotates the world-frame vector (vx, vy, vz) into the body
// frame using the orientation quaternion (w, x, y, z), the inverse of
// RotateWorld.
func RotateBody(w, x, y, z, vx, vy, vz float64) (outX, outY, outZ float64) {
	q := quaternion.Quaternion{W: w, X: x, Y: y, Z: z}
	v := quaternion.Quaternion{X: vx, Y: vy, Z: vz}
	rotated := quaternion.Prod(quaternion.Conj(q), v, q)
	return rotated.X, rotated.Y, rotated.Z
}
