package dope

import "math"

// Version identifies the engine's revision for caller diagnostics.
const Version = "1.3"

// Maximum trajectory range in meters and the corresponding table size
// (1-meter resolution from 0 to MaxRangeM inclusive).
const (
	MaxRangeM      = 2500
	TrajTableSize  = MaxRangeM + 1
)

// ISA standard atmosphere defaults.
const (
	DefaultAltitudeM    = 0.0
	DefaultPressurePa   = 101325.0
	DefaultTemperatureC = 15.0
	DefaultHumidity     = 0.50
	DefaultWindSpeedMS  = 0.0
	DefaultWindHeading  = 0.0
)

// Physical constants.
const (
	OmegaEarth      = 7.2921e-5 // rad/s
	Gravity         = 9.80665   // m/s^2
	RDryAir         = 287.05   // J/(kg*K)
	SpeedOfSound15C = 340.29   // m/s
	StdAirDensity   = 1.2250   // kg/m^3
	LapseRate       = 0.0065   // K/m
	StdPressurePa   = 101325.0 // Pa
	KelvinOffset    = 273.15

	DegToRad  = math.Pi / 180.0
	RadToDeg  = 180.0 / math.Pi
	MOAToRad  = math.Pi / (180.0 * 60.0)
	RadToMOA  = (180.0 * 60.0) / math.Pi
	GrainsToKg = 6.479891e-5
	InchesToM  = 0.0254
	MMToM      = 0.001
)

// AHRS configuration.
const (
	AHRSStaticWindow      = 64
	AHRSStaticThreshold   = 0.05 // (m/s^2)^2
	MadgwickDefaultBeta   = 0.1
	MahonyDefaultKp       = 2.0
	MahonyDefaultKi       = 0.005
)

// LRF staleness / confidence.
const (
	LRFStaleUS        uint64  = 2000000 // 2 seconds
	LRFMinConfidence  float64 = 0.50
	LRFFilterAlpha    float64 = 0.2 // exposed for caller introspection
)

// Solver configuration.
const (
	MinVelocity = 30.0 // m/s

	// BallisticDragConstant is a legacy tuning parameter from an older
	// model. It is not physically derived and must not be "corrected" —
	// every downstream BC and drag value in this engine is calibrated
	// against it.
	BallisticDragConstant = 900.0

	ExternalReferenceDragScale = 0.84
	DefaultDragReferenceScale  = 1.0

	MaxSolverIterations = 500000
	DTMin               = 0.00001 // 10 us
	DTMax                = 0.001   // 1 ms
	MaxStepDistanceM     = 0.25
	ZeroToleranceM       = 0.001
	ZeroMaxIterations    = 50

	ZeroRecomputeBCFactorDelta = 0.0015
	ZeroRecomputeDensityDelta  = 0.005
	ZeroRecomputeSOSDelta      = 0.75
)

// Magnetometer configuration.
const (
	MagMinFieldUT = 20.0
	MagMaxFieldUT = 70.0
)
