package magcal

import (
	"fmt"

	"github.com/skelterjohn/go.matrix"
)

// Sample is one raw magnetometer reading collected while slowly rotating
// the device through as many orientations as practical.
type Sample struct {
	X, Y, Z float64
}

// FitEllipsoid performs an offline least-squares ellipsoid fit over a batch
// of raw magnetometer samples and returns the hard-iron offset and soft-iron
// correction matrix that recenters and rescales them onto a sphere. This is
// not on the per-update hot path: it runs once per calibration session,
// typically from a command-line calibration routine, over a batch gathered
// by rotating the device through many orientations.
//
// The fit solves the general quadric
//
//	Ax^2 + By^2 + Cz^2 + Dxy + Exz + Fyz + Gx + Hy + Iz = 1
//
// for (A..I) via the normal equations, then derives the offset from the
// quadric's center and a soft-iron matrix from its shape matrix.
func FitEllipsoid(samples []Sample) (hardIron [3]float64, softIron [3][3]float64, err error) {
	n := len(samples)
	if n < 9 {
		return hardIron, softIron, fmt.Errorf("magcal: need at least 9 samples to fit an ellipsoid, got %d", n)
	}

	design := matrix.Zeros(n, 9)
	target := matrix.Zeros(n, 1)
	for i, s := range samples {
		x, y, z := s.X, s.Y, s.Z
		design.Set(i, 0, x*x)
		design.Set(i, 1, y*y)
		design.Set(i, 2, z*z)
		design.Set(i, 3, x*y)
		design.Set(i, 4, x*z)
		design.Set(i, 5, y*z)
		design.Set(i, 6, x)
		design.Set(i, 7, y)
		design.Set(i, 8, z)
		target.Set(i, 0, 1.0)
	}

	dt := design.Transpose()
	normal := matrix.Product(dt, design)
	rhs := matrix.Product(dt, target)

	normalInv, invErr := normal.Inverse()
	if invErr != nil {
		return hardIron, softIron, fmt.Errorf("magcal: ill-conditioned sample set: %w", invErr)
	}
	coeffs := matrix.Product(normalInv, rhs)

	a := coeffs.Get(0, 0)
	b := coeffs.Get(1, 0)
	c := coeffs.Get(2, 0)
	d := coeffs.Get(3, 0)
	e := coeffs.Get(4, 0)
	f := coeffs.Get(5, 0)
	g := coeffs.Get(6, 0)
	h := coeffs.Get(7, 0)
	i := coeffs.Get(8, 0)

	// Shape matrix of the quadric form.
	shape := matrix.Zeros(3, 3)
	shape.Set(0, 0, a)
	shape.Set(0, 1, d/2)
	shape.Set(0, 2, e/2)
	shape.Set(1, 0, d/2)
	shape.Set(1, 1, b)
	shape.Set(1, 2, f/2)
	shape.Set(2, 0, e/2)
	shape.Set(2, 1, f/2)
	shape.Set(2, 2, c)

	shapeInv, invErr := shape.Inverse()
	if invErr != nil {
		return hardIron, softIron, fmt.Errorf("magcal: degenerate ellipsoid shape: %w", invErr)
	}

	linear := matrix.Zeros(3, 1)
	linear.Set(0, 0, g)
	linear.Set(1, 0, h)
	linear.Set(2, 0, i)

	center := matrix.Product(shapeInv, matrix.Scaled(linear, -0.5))
	hardIron[0] = center.Get(0, 0)
	hardIron[1] = center.Get(1, 0)
	hardIron[2] = center.Get(2, 0)

	// soft_iron is taken as the normalized square root of the shape matrix,
	// scaled so the fitted ellipsoid maps back onto a sphere. A first-order
	// approximation (sufficient at calibration time, not the hot path) uses
	// the shape matrix itself normalized by its trace.
	trace := a + b + c
	if trace == 0 {
		trace = 1
	}
	scale := 3.0 / trace
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			softIron[r][col] = shape.Get(r, col) * scale
		}
	}

	return hardIron, softIron, nil
}
