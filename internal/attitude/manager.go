package attitude

import "math"

// StaticWindow is the ring-buffer size used for static/dynamic detection.
const StaticWindow = 64

// StaticThreshold is the accelerometer-magnitude variance threshold, in
// (m/s^2)^2, below which the device is considered stationary.
const StaticThreshold = 0.05

// Algorithm selects which concrete Filter the Manager drives.
type Algorithm uint8

const (
	AlgoMadgwick Algorithm = 0
	AlgoMahony   Algorithm = 1
)

// Manager owns both filters, applies IMU bias correction ahead of fusion,
// and tracks static/dynamic motion via a fixed-size ring buffer of
// bias-corrected accelerometer magnitude.
// madgwick and mahony are held by value so a Manager never needs separate
// allocation. A zero-value Manager's filters start from an all-zero
// quaternion with zero gains; Reset (or New) sets identity and default gains.
type Manager struct {
	algorithm Algorithm
	madgwick  Madgwick
	mahony    Mahony

	accelBias [3]float64
	gyroBias  [3]float64

	accelMagBuf [StaticWindow]float64
	bufIndex    int
	sampleCount uint32
	isStatic    bool
}

// New returns a manager reset to identity orientation, zero bias, and the
// Madgwick algorithm. A Manager held by value must be Reset before its
// first Update.
func New() *Manager {
	m := &Manager{}
	m.Reset()
	return m
}

// Reset clears filters, bias, and static-detection state.
func (m *Manager) Reset() {
	m.madgwick.Reset()
	m.mahony.Reset()
	m.accelMagBuf = [StaticWindow]float64{}
	m.bufIndex = 0
	m.sampleCount = 0
	m.isStatic = false
	m.accelBias = [3]float64{0, 0, 0}
	m.gyroBias = [3]float64{0, 0, 0}
}

// SetAlgorithm selects which filter drives subsequent Update calls.
func (m *Manager) SetAlgorithm(algo Algorithm) { m.algorithm = algo }

func (m *Manager) activeFilter() Filter {
	if m.algorithm == AlgoMahony {
		return &m.mahony
	}
	return &m.madgwick
}

// Update feeds raw (uncorrected) IMU and magnetometer data; bias is applied
// internally before fusion and static detection.
func (m *Manager) Update(ax, ay, az, gx, gy, gz, mx, my, mz float64, useMag bool, dt float64) {
	ax -= m.accelBias[0]
	ay -= m.accelBias[1]
	az -= m.accelBias[2]
	gx -= m.gyroBias[0]
	gy -= m.gyroBias[1]
	gz -= m.gyroBias[2]

	m.activeFilter().Update(ax, ay, az, gx, gy, gz, mx, my, mz, useMag, dt)
	m.updateStaticDetection(ax, ay, az)
}

// SetAccelBias installs an accelerometer bias vector (sensor frame).
func (m *Manager) SetAccelBias(bias [3]float64) { m.accelBias = bias }

// SetGyroBias installs a gyroscope bias vector (sensor frame).
func (m *Manager) SetGyroBias(bias [3]float64) { m.gyroBias = bias }

// CaptureGyroBias sets the gyro bias directly to a caller-supplied raw
// reading. The caller (the engine) is responsible for holding the device
// stationary and for sourcing the raw, pre-bias gyro reading to capture.
func (m *Manager) CaptureGyroBias(raw [3]float64) { m.gyroBias = raw }

func (m *Manager) Quaternion() Quaternion { return m.activeFilter().Quaternion() }
func (m *Manager) Pitch() float64         { return Pitch(m.Quaternion()) }
func (m *Manager) Roll() float64          { return Roll(m.Quaternion()) }
func (m *Manager) Yaw() float64           { return Yaw(m.Quaternion()) }

// IsStatic reports whether the device is approximately stationary, based
// on the most recent ring-buffer variance computation.
func (m *Manager) IsStatic() bool { return m.isStatic }

// IsStable reports whether the AHRS has converged enough for a valid
// solution: the ring buffer must be full and the device must currently be
// held steady.
func (m *Manager) IsStable() bool {
	return m.sampleCount >= StaticWindow && m.isStatic
}

func (m *Manager) updateStaticDetection(ax, ay, az float64) {
	mag := math.Sqrt(ax*ax + ay*ay + az*az)
	m.accelMagBuf[m.bufIndex] = mag
	m.bufIndex = (m.bufIndex + 1) % StaticWindow

	if m.sampleCount < StaticWindow {
		m.sampleCount++
	}
	if m.sampleCount < StaticWindow {
		m.isStatic = false
		return
	}

	var sum float64
	for _, v := range m.accelMagBuf {
		sum += v
	}
	mean := sum / float64(StaticWindow)

	var variance float64
	for _, v := range m.accelMagBuf {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(StaticWindow)

	m.isStatic = variance < StaticThreshold
}
