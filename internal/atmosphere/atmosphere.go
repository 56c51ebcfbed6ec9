// Package atmosphere models air density, speed of sound, and the 4-factor
// ballistic-coefficient correction used to adapt a bullet's standard-
// conditions BC to the current firing environment.
package atmosphere

import "math"

// Standard reference constants.
const (
	StdAirDensity   = 1.2250   // kg/m^3, ISA sea level
	SpeedOfSound15C = 340.29   // m/s, reference
	RDryAir         = 287.05   // J/(kg*K)
	KelvinOffset    = 273.15
	StdPressurePa   = 101325.0

	DefaultAltitudeM    = 0.0
	DefaultPressurePa   = 101325.0
	DefaultTemperatureC = 15.0
	DefaultHumidity     = 0.50

	// Imperial conversions used only internally, to stay faithful to the
	// reference Army Metro / Litz formulas this correction is drawn from.
	mToFt      = 3.28084
	paToInHg   = 0.00029530
	cToFOffset = 32.0
	cToFScale  = 1.8

	recomputeBCFactorDelta = 0.0015
	recomputeDensityDelta  = 0.005
	recomputeSOSDelta      = 0.75
)

// Diagnostic bits, mirrored from the root package's Diag* constants so this
// package stays import-free of the caller's API surface.
const (
	DiagDefaultPressure uint32 = 1 << 1
	DiagDefaultTemp     uint32 = 1 << 2
	DiagDefaultHumidity uint32 = 1 << 3
	DiagDefaultAltitude uint32 = 1 << 4
)

// DefaultOverrides is the subset of caller-supplied fallback values this
// package consumes. It mirrors the root package's DefaultOverrides shape.
type DefaultOverrides struct {
	UseAltitude bool
	AltitudeM   float64

	UsePressure bool
	PressurePa  float64

	UseTemperature bool
	TemperatureC   float64

	UseHumidity      bool
	HumidityFraction float64
}

// Model tracks live atmospheric state from barometer readings and/or
// caller-supplied defaults, and derives air density, speed of sound, and
// the BC correction factor.
type Model struct {
	pressurePa   float64
	temperatureC float64
	humidity     float64
	altitudeM    float64

	airDensity   float64
	speedOfSound float64

	baroOffsetPa float64

	hasBaroPressure    bool
	hasBaroTemperature bool
	hasBaroHumidity    bool
	hasOverrideAlt     bool
	hasOverridePress   bool
	hasOverrideTemp    bool
	hasOverrideHumid   bool

	hadInvalidInput   bool
	zeroRecomputeHint bool

	lastBCFactor float64
	diagFlags    uint32
}

// New returns an atmosphere model initialized to ISA defaults.
func New() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset restores ISA defaults and clears all calibration/override state.
func (m *Model) Reset() {
	m.pressurePa = DefaultPressurePa
	m.temperatureC = DefaultTemperatureC
	m.humidity = DefaultHumidity
	m.altitudeM = DefaultAltitudeM
	m.baroOffsetPa = 0

	m.hasBaroPressure = false
	m.hasBaroTemperature = false
	m.hasBaroHumidity = false
	m.hasOverrideAlt = false
	m.hasOverridePress = false
	m.hasOverrideTemp = false
	m.hasOverrideHumid = false
	m.hadInvalidInput = false
	m.zeroRecomputeHint = false
	m.lastBCFactor = 1.0

	m.recompute()
	m.lastBCFactor = m.CorrectBC(1.0)
	m.zeroRecomputeHint = false
}

// ConsumeZeroRecomputeHint returns and clears the pending "atmosphere
// changed enough to justify a zero recompute" flag.
func (m *Model) ConsumeZeroRecomputeHint() bool {
	pending := m.zeroRecomputeHint
	m.zeroRecomputeHint = false
	return pending
}

// HadInvalidInput reports whether the most recent update sanitized a
// non-physical input.
func (m *Model) HadInvalidInput() bool { return m.hadInvalidInput }

// UpdateFromBaro feeds a barometer reading. Pass humidity < 0 if the sensor
// doesn't report relative humidity.
func (m *Model) UpdateFromBaro(pressurePa, temperatureC, humidity float64) {
	m.hadInvalidInput = false
	m.hasBaroPressure = true
	m.hasBaroTemperature = true

	corrected := pressurePa + m.baroOffsetPa
	if !isFinite(corrected) {
		corrected = DefaultPressurePa
		m.hadInvalidInput = true
	}
	if corrected < 1000.0 {
		corrected = 1000.0
		m.hadInvalidInput = true
	}
	if corrected > 120000.0 {
		corrected = 120000.0
		m.hadInvalidInput = true
	}
	m.pressurePa = corrected

	safeTemp := temperatureC
	if !isFinite(safeTemp) {
		safeTemp = DefaultTemperatureC
		m.hadInvalidInput = true
	}
	if safeTemp < -80.0 {
		safeTemp = -80.0
		m.hadInvalidInput = true
	}
	if safeTemp > 80.0 {
		safeTemp = 80.0
		m.hadInvalidInput = true
	}
	m.temperatureC = safeTemp

	if humidity >= 0.0 && humidity <= 1.0 {
		m.hasBaroHumidity = true
		m.humidity = humidity
	} else if humidity >= 0.0 {
		m.hadInvalidInput = true
		m.hasBaroHumidity = true
		if isFinite(humidity) {
			if humidity < 0.0 {
				m.humidity = 0.0
			} else if humidity > 1.0 {
				m.humidity = 1.0
			}
		} else {
			m.humidity = DefaultHumidity
		}
	}

	m.recompute()
}

// ApplyDefaults applies caller-supplied fallback values. A value only takes
// effect for pressure/temperature/humidity if no live baro reading has
// already set that field this session.
func (m *Model) ApplyDefaults(ovr DefaultOverrides) {
	if ovr.UseAltitude {
		m.hasOverrideAlt = true
		m.altitudeM = ovr.AltitudeM
	}
	if ovr.UsePressure {
		m.hasOverridePress = true
		if !m.hasBaroPressure {
			m.pressurePa = ovr.PressurePa
		}
	}
	if ovr.UseTemperature {
		m.hasOverrideTemp = true
		if !m.hasBaroTemperature {
			m.temperatureC = ovr.TemperatureC
		}
	}
	if ovr.UseHumidity {
		m.hasOverrideHumid = true
		if !m.hasBaroHumidity {
			m.humidity = ovr.HumidityFraction
		}
	}
	m.recompute()
}

// CalibrateBaro captures the current pressure reading as standard sea level,
// a simplistic field calibration.
func (m *Model) CalibrateBaro() {
	m.baroOffsetPa = StdPressurePa - (m.pressurePa - m.baroOffsetPa)
	m.recompute()
}

func (m *Model) recompute() {
	prevDensity := m.airDensity
	prevSOS := m.speedOfSound
	prevBCFactor := m.lastBCFactor

	m.diagFlags = 0
	if !m.hasBaroPressure && !m.hasOverridePress {
		m.diagFlags |= DiagDefaultPressure
	}
	if !m.hasBaroTemperature && !m.hasOverrideTemp {
		m.diagFlags |= DiagDefaultTemp
	}
	if !m.hasBaroHumidity && !m.hasOverrideHumid {
		m.diagFlags |= DiagDefaultHumidity
	}
	if !m.hasOverrideAlt {
		m.diagFlags |= DiagDefaultAltitude
	}

	tKelvin := m.temperatureC + KelvinOffset
	if tKelvin < 1.0 {
		tKelvin = 1.0
	}

	pressurePa := m.pressurePa
	if !isFinite(pressurePa) || pressurePa < 1000.0 {
		pressurePa = 1000.0
		m.hadInvalidInput = true
	}

	humidity := m.humidity
	if !isFinite(humidity) {
		humidity = DefaultHumidity
		m.hadInvalidInput = true
	}
	if humidity < 0.0 {
		humidity = 0.0
		m.hadInvalidInput = true
	}
	if humidity > 1.0 {
		humidity = 1.0
		m.hadInvalidInput = true
	}

	// Buck-equation vapor pressure approximation.
	eSat := 611.21 * math.Exp((18.678-m.temperatureC/234.5)*(m.temperatureC/(257.14+m.temperatureC)))
	eVapor := humidity * eSat

	// Virtual temperature accounting for humidity.
	tVirtual := tKelvin * (1.0 + 0.378*eVapor/pressurePa)
	if !isFinite(tVirtual) || tVirtual < 1.0 {
		tVirtual = 1.0
		m.hadInvalidInput = true
	}

	m.airDensity = pressurePa / (RDryAir * tVirtual)
	m.speedOfSound = 20.05 * math.Sqrt(tVirtual)

	currentBCFactor := m.CorrectBC(1.0)
	if math.Abs(currentBCFactor-prevBCFactor) >= recomputeBCFactorDelta ||
		math.Abs(m.airDensity-prevDensity) >= recomputeDensityDelta ||
		math.Abs(m.speedOfSound-prevSOS) >= recomputeSOSDelta {
		m.zeroRecomputeHint = true
	}
	m.lastBCFactor = currentBCFactor
}

// CorrectBC applies the 4-factor (altitude/temperature/pressure/humidity)
// Litz/Army-Metro BC correction to a standard-conditions BC.
func (m *Model) CorrectBC(bcStandard float64) float64 {
	altFt := m.altitudeM * mToFt
	pressInHg := m.pressurePa * paToInHg
	tempF := m.temperatureC*cToFScale + cToFOffset

	const stdPressInHg = 29.5300
	const stdTempF = 59.0

	fa := 1.0 - 3.158e-5*altFt
	if fa < 0.5 {
		fa = 0.5
	}

	ft := (tempF - stdTempF) / (stdTempF + 460.0)
	fp := (stdPressInHg - pressInHg) / stdPressInHg

	humidityPct := m.humidity * 100.0
	fr := 1.0 + 0.00002*(humidityPct-50.0)

	bcCorrected := bcStandard * fa * (1.0 + ft - fp) * fr
	if bcCorrected < 0.01 {
		bcCorrected = 0.01
	}
	return bcCorrected
}

func (m *Model) GetAirDensity() float64   { return m.airDensity }
func (m *Model) GetSpeedOfSound() float64 { return m.speedOfSound }
func (m *Model) GetPressure() float64     { return m.pressurePa }
func (m *Model) GetTemperature() float64  { return m.temperatureC }
func (m *Model) GetHumidity() float64     { return m.humidity }
func (m *Model) GetAltitude() float64     { return m.altitudeM }
func (m *Model) GetDiagFlags() uint32     { return m.diagFlags }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
