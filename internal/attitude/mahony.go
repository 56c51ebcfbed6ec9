package attitude

import "math"

// Default Mahony PI-controller gains.
const (
	DefaultMahonyKp = 2.0
	DefaultMahonyKi = 0.005
)

// Mahony implements R. Mahony's nonlinear complementary filter on SO(3)
// ("Nonlinear Complementary Filters on the Special Orthogonal Group", 2008).
type Mahony struct {
	q  Quaternion
	kp float64
	ki float64

	integralFBX, integralFBY, integralFBZ float64
}

// NewMahony returns a filter reset to identity orientation with the
// default Kp/Ki gains.
func NewMahony() *Mahony {
	m := &Mahony{kp: DefaultMahonyKp, ki: DefaultMahonyKi}
	m.Reset()
	return m
}

// SetGains overrides the proportional/integral feedback gains.
func (m *Mahony) SetGains(kp, ki float64) {
	m.kp = kp
	m.ki = ki
}

func (m *Mahony) Reset() {
	m.q = Quaternion{W: 1, X: 0, Y: 0, Z: 0}
	m.integralFBX, m.integralFBY, m.integralFBZ = 0, 0, 0
	m.kp = DefaultMahonyKp
	m.ki = DefaultMahonyKi
}

func (m *Mahony) Quaternion() Quaternion { return m.q }

func (m *Mahony) Update(ax, ay, az, gx, gy, gz, mx, my, mz float64, useMag bool, dt float64) {
	q0, q1, q2, q3 := m.q.W, m.q.X, m.q.Y, m.q.Z

	var ex, ey, ez float64

	aNorm := math.Sqrt(ax*ax + ay*ay + az*az)
	if aNorm > 0.001 {
		aInv := 1.0 / aNorm
		ax *= aInv
		ay *= aInv
		az *= aInv

		vx := 2.0 * (q1*q3 - q0*q2)
		vy := 2.0 * (q0*q1 + q2*q3)
		vz := q0*q0 - q1*q1 - q2*q2 + q3*q3

		ex += ay*vz - az*vy
		ey += az*vx - ax*vz
		ez += ax*vy - ay*vx
	}

	if useMag {
		mNorm := math.Sqrt(mx*mx + my*my + mz*mz)
		if mNorm > 0.001 {
			mInv := 1.0 / mNorm
			mx *= mInv
			my *= mInv
			mz *= mInv

			hx := 2.0 * (mx*(0.5-q2*q2-q3*q3) + my*(q1*q2-q0*q3) + mz*(q1*q3+q0*q2))
			hy := 2.0 * (mx*(q1*q2+q0*q3) + my*(0.5-q1*q1-q3*q3) + mz*(q2*q3-q0*q1))
			bx := math.Sqrt(hx*hx + hy*hy)
			bz := 2.0 * (mx*(q1*q3-q0*q2) + my*(q2*q3+q0*q1) + mz*(0.5-q1*q1-q2*q2))

			wx := bx*(0.5-q2*q2-q3*q3) + bz*(q1*q3-q0*q2)
			wy := bx*(q1*q2-q0*q3) + bz*(q0*q1+q2*q3)
			wz := bx*(q0*q2+q1*q3) + bz*(0.5-q1*q1-q2*q2)

			ex += my*wz - mz*wy
			ey += mz*wx - mx*wz
			ez += mx*wy - my*wx
		}
	}

	if m.ki > 0 {
		m.integralFBX += m.ki * ex * dt
		m.integralFBY += m.ki * ey * dt
		m.integralFBZ += m.ki * ez * dt
		gx += m.integralFBX
		gy += m.integralFBY
		gz += m.integralFBZ
	}

	gx += m.kp * ex
	gy += m.kp * ey
	gz += m.kp * ez

	qDot0 := 0.5 * (-q1*gx - q2*gy - q3*gz)
	qDot1 := 0.5 * (q0*gx + q2*gz - q3*gy)
	qDot2 := 0.5 * (q0*gy - q1*gz + q3*gx)
	qDot3 := 0.5 * (q0*gz + q1*gy - q2*gx)

	q0 += qDot0 * dt
	q1 += qDot1 * dt
	q2 += qDot2 * dt
	q3 += qDot3 * dt

	m.q = Quaternion{W: q0, X: q1, Y: q2, Z: q3}
	m.q.normalize()
}
