package attitude

import "math"

// DefaultMadgwickBeta is the filter's default gradient-descent gain.
const DefaultMadgwickBeta = 0.1

// Madgwick implements S. Madgwick's gradient-descent orientation filter
// ("An efficient orientation filter for inertial and inertial/magnetic
// sensor arrays", 2010), in both 6-axis (accel+gyro) and 9-axis
// (accel+gyro+mag) form depending on whether useMag is set per update.
type Madgwick struct {
	q    Quaternion
	beta float64
}

// NewMadgwick returns a filter reset to identity orientation with the
// default beta gain.
func NewMadgwick() *Madgwick {
	m := &Madgwick{beta: DefaultMadgwickBeta}
	m.Reset()
	return m
}

// SetBeta overrides the gradient-descent feedback gain.
func (m *Madgwick) SetBeta(beta float64) { m.beta = beta }

func (m *Madgwick) Reset() {
	m.q = Quaternion{W: 1, X: 0, Y: 0, Z: 0}
	m.beta = DefaultMadgwickBeta
}

func (m *Madgwick) Quaternion() Quaternion { return m.q }

func (m *Madgwick) Update(ax, ay, az, gx, gy, gz, mx, my, mz float64, useMag bool, dt float64) {
	q0, q1, q2, q3 := m.q.W, m.q.X, m.q.Y, m.q.Z

	qDot0 := 0.5 * (-q1*gx - q2*gy - q3*gz)
	qDot1 := 0.5 * (q0*gx + q2*gz - q3*gy)
	qDot2 := 0.5 * (q0*gy - q1*gz + q3*gx)
	qDot3 := 0.5 * (q0*gz + q1*gy - q2*gx)

	aNorm := math.Sqrt(ax*ax + ay*ay + az*az)
	if aNorm > 0.001 {
		aInv := 1.0 / aNorm
		ax *= aInv
		ay *= aInv
		az *= aInv

		var s0, s1, s2, s3 float64

		if useMag {
			mNorm := math.Sqrt(mx*mx + my*my + mz*mz)
			if mNorm > 0.001 {
				mInv := 1.0 / mNorm
				mx *= mInv
				my *= mInv
				mz *= mInv

				_2q0 := 2.0 * q0
				_2q1 := 2.0 * q1
				_2q2 := 2.0 * q2
				_2q3 := 2.0 * q3
				q0q0 := q0 * q0
				q0q1 := q0 * q1
				q0q2 := q0 * q2
				q0q3 := q0 * q3
				q1q1 := q1 * q1
				q1q2 := q1 * q2
				q1q3 := q1 * q3
				q2q2 := q2 * q2
				q2q3 := q2 * q3
				q3q3 := q3 * q3

				hx := mx*(q0q0+q1q1-q2q2-q3q3) + 2.0*my*(q1q2-q0q3) + 2.0*mz*(q1q3+q0q2)
				hy := 2.0*mx*(q1q2+q0q3) + my*(q0q0-q1q1+q2q2-q3q3) + 2.0*mz*(q2q3-q0q1)
				_2bx := math.Sqrt(hx*hx + hy*hy)
				_2bz := 2.0*mx*(q1q3-q0q2) + 2.0*my*(q2q3+q0q1) + mz*(q0q0-q1q1-q2q2+q3q3)

				s0 = -_2q2*(2.0*q1q3-_2q0*q2-ax) +
					_2q1*(2.0*q0q1+_2q2*q3-ay) -
					_2bz*q2*(_2bx*(0.5-q2q2-q3q3)+_2bz*(q1q3-q0q2)-mx) +
					(-_2bx*q3+_2bz*q1)*(_2bx*(q1q2-q0q3)+_2bz*(q0q1+q2q3)-my) +
					_2bx*q2*(_2bx*(q0q2+q1q3)+_2bz*(0.5-q1q1-q2q2)-mz)
				s1 = _2q3*(2.0*q1q3-_2q0*q2-ax) +
					_2q0*(2.0*q0q1+_2q2*q3-ay) -
					4.0*q1*(1.0-2.0*q1q1-2.0*q2q2-az) +
					_2bz*q3*(_2bx*(0.5-q2q2-q3q3)+_2bz*(q1q3-q0q2)-mx) +
					(_2bx*q2+_2bz*q0)*(_2bx*(q1q2-q0q3)+_2bz*(q0q1+q2q3)-my) +
					(_2bx*q3-4.0*_2bz*q1)*(_2bx*(q0q2+q1q3)+_2bz*(0.5-q1q1-q2q2)-mz)
				s2 = -_2q0*(2.0*q1q3-_2q0*q2-ax) +
					_2q3*(2.0*q0q1+_2q2*q3-ay) -
					4.0*q2*(1.0-2.0*q1q1-2.0*q2q2-az) +
					(-4.0*_2bx*q2-_2bz*q0)*(_2bx*(0.5-q2q2-q3q3)+_2bz*(q1q3-q0q2)-mx) +
					(_2bx*q1+_2bz*q3)*(_2bx*(q1q2-q0q3)+_2bz*(q0q1+q2q3)-my) +
					(_2bx*q0-4.0*_2bz*q2)*(_2bx*(q0q2+q1q3)+_2bz*(0.5-q1q1-q2q2)-mz)
				s3 = _2q1*(2.0*q1q3-_2q0*q2-ax) +
					_2q2*(2.0*q0q1+_2q2*q3-ay) +
					(-4.0*_2bx*q3+_2bz*q1)*(_2bx*(0.5-q2q2-q3q3)+_2bz*(q1q3-q0q2)-mx) +
					(-_2bx*q0+_2bz*q2)*(_2bx*(q1q2-q0q3)+_2bz*(q0q1+q2q3)-my) +
					_2bx*q1*(_2bx*(q0q2+q1q3)+_2bz*(0.5-q1q1-q2q2)-mz)
			}
		} else {
			_2q0 := 2.0 * q0
			_2q1 := 2.0 * q1
			_2q2 := 2.0 * q2
			_2q3 := 2.0 * q3
			_4q0 := 4.0 * q0
			_4q1 := 4.0 * q1
			_4q2 := 4.0 * q2
			_8q1 := 8.0 * q1
			_8q2 := 8.0 * q2
			q0q0 := q0 * q0
			q1q1 := q1 * q1
			q2q2 := q2 * q2
			q3q3 := q3 * q3

			s0 = _4q0*q2q2 + _2q2*ax + _4q0*q1q1 - _2q1*ay
			s1 = _4q1*q3q3 - _2q3*ax + 4.0*q0q0*q1 - _2q0*ay - _4q1 + _8q1*q1q1 + _8q1*q2q2 + _4q1*az
			s2 = 4.0*q0q0*q2 + _2q0*ax + _4q2*q3q3 - _2q3*ay - _4q2 + _8q2*q1q1 + _8q2*q2q2 + _4q2*az
			s3 = 4.0*q1q1*q3 - _2q1*ax + 4.0*q2q2*q3 - _2q2*ay
		}

		sNorm := math.Sqrt(s0*s0 + s1*s1 + s2*s2 + s3*s3)
		if sNorm > 0.001 {
			sInv := 1.0 / sNorm
			s0 *= sInv
			s1 *= sInv
			s2 *= sInv
			s3 *= sInv
		}

		qDot0 -= m.beta * s0
		qDot1 -= m.beta * s1
		qDot2 -= m.beta * s2
		qDot3 -= m.beta * s3
	}

	q0 += qDot0 * dt
	q1 += qDot1 * dt
	q2 += qDot2 * dt
	q3 += qDot3 * dt

	m.q = Quaternion{W: q0, X: q1, Y: q2, Z: q3}
	m.q.normalize()
}
