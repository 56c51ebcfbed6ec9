package dope

// Mode is the engine's top-level operating mode.
type Mode uint32

const (
	ModeIdle          Mode = 0 // insufficient data for a solution
	ModeSolutionReady Mode = 1 // valid firing solution available
	ModeFault         Mode = 2 // required inputs missing or invalid
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSolutionReady:
		return "SOLUTION_READY"
	case ModeFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Fault flags — hard conditions that force the engine into ModeFault, plus
// FaultSensorInvalid, which is reported but never forces ModeFault on its own.
const (
	FaultNone            uint32 = 0
	FaultNoRange         uint32 = 1 << 0
	FaultNoBullet        uint32 = 1 << 1
	FaultNoMV            uint32 = 1 << 2
	FaultNoBC            uint32 = 1 << 3
	FaultZeroUnsolvable  uint32 = 1 << 4
	FaultAHRSUnstable    uint32 = 1 << 5
	FaultSensorInvalid   uint32 = 1 << 6
)

// Diagnostic flags — informational, never force a mode change on their own.
const (
	DiagNone             uint32 = 0
	DiagCoriolisDisabled uint32 = 1 << 0
	DiagDefaultPressure  uint32 = 1 << 1
	DiagDefaultTemp      uint32 = 1 << 2
	DiagDefaultHumidity  uint32 = 1 << 3
	DiagDefaultAltitude  uint32 = 1 << 4
	DiagDefaultWind      uint32 = 1 << 5
	DiagMagSuppressed    uint32 = 1 << 6
	DiagLRFStale         uint32 = 1 << 7
)

// DragModel selects a standard drag curve for the bullet.
type DragModel uint8

const (
	DragG1 DragModel = 1
	DragG2 DragModel = 2
	DragG3 DragModel = 3
	DragG4 DragModel = 4
	DragG5 DragModel = 5
	DragG6 DragModel = 6
	DragG7 DragModel = 7
	DragG8 DragModel = 8
)

// AHRSAlgorithm selects the attitude fusion algorithm.
type AHRSAlgorithm uint8

const (
	AlgoMadgwick AHRSAlgorithm = 0
	AlgoMahony   AHRSAlgorithm = 1
)

// Quaternion is a scalar-first orientation quaternion (w, x, y, z).
type Quaternion struct {
	W, X, Y, Z float64
}

// SensorFrame is one tick of raw sensor readings fed into Update.
type SensorFrame struct {
	TimestampUS uint64

	// IMU
	AccelX, AccelY, AccelZ float64 // m/s^2
	GyroX, GyroY, GyroZ    float64 // rad/s
	IMUValid               bool

	// Magnetometer
	MagX, MagY, MagZ float64 // uT
	MagValid         bool

	// Barometer
	BaroPressurePa    float64
	BaroTemperatureC  float64
	BaroHumidity      float64 // 0.0-1.0, only meaningful if BaroHumidityValid
	BaroValid         bool
	BaroHumidityValid bool

	// Laser rangefinder
	LRFRangeM      float64
	LRFTimestampUS uint64
	LRFConfidence  float64
	LRFValid       bool

	// Zoom encoder
	EncoderFocalLengthMM float64
	EncoderValid         bool
}

// DefaultOverrides supplies caller-provided fallback atmosphere/wind/location
// values used when a live sensor reading isn't available for that field.
type DefaultOverrides struct {
	UseAltitude bool
	AltitudeM   float64

	UsePressure bool
	PressurePa  float64

	UseTemperature bool
	TemperatureC   float64

	UseHumidity      bool
	HumidityFraction float64

	UseWind        bool
	WindSpeedMS    float64
	WindHeadingDeg float64

	UseLatitude bool
	LatitudeDeg float64
}

// BulletProfile describes the projectile and its muzzle behavior.
type BulletProfile struct {
	BC                  float64
	DragModel            DragModel
	MuzzleVelocityMS     float64
	BarrelLengthIn       float64
	MVAdjustmentFactor   float64 // fps per inch deviation from 24"
	MassGrains           float64
	LengthMM             float64
	CaliberInches        float64
	TwistRateInches      float64 // signed: positive = RH, negative = LH
}

// ZeroConfig is the range and sight geometry a rifle is zeroed at.
type ZeroConfig struct {
	ZeroRangeM    float64
	SightHeightMM float64
}

// BoresightOffset is a mechanical misalignment between optic and bore.
type BoresightOffset struct {
	VerticalMOA   float64
	HorizontalMOA float64
}

// FiringSolution is the engine's published output. Callers receive a copy —
// never a pointer into engine-owned memory.
type FiringSolution struct {
	SolutionMode    Mode
	FaultFlags      uint32
	DefaultsActive  uint32

	HoldElevationMOA float64
	HoldWindageMOA   float64

	RangeM           float64
	HorizontalRangeM float64
	TOFMs            float64
	VelocityAtTargetMS float64
	EnergyAtTargetJ    float64

	CoriolisWindageMOA  float64
	CoriolisElevationMOA float64
	SpinDriftMOA         float64

	// Itemised windage contributors; they sum to HoldWindageMOA.
	WindOnlyWindageMOA  float64
	EarthSpinWindageMOA float64
	OffsetsWindageMOA   float64
	CantWindageMOA      float64

	CantAngleDeg   float64
	HeadingDegTrue float64

	AirDensityKgM3 float64
}
