package dope

import (
	"math"

	"github.com/koenig-jacob/DOPE/internal/atmosphere"
	"github.com/koenig-jacob/DOPE/internal/attitude"
	"github.com/koenig-jacob/DOPE/internal/corrections"
	"github.com/koenig-jacob/DOPE/internal/dragtable"
	"github.com/koenig-jacob/DOPE/internal/magcal"
	"github.com/koenig-jacob/DOPE/internal/trajectory"
)

// hardFaultMask is the subset of fault flags that force ModeFault. A
// sensor-input latch alone is diagnostic; it never blocks a solution.
const hardFaultMask = FaultNoRange | FaultNoBullet | FaultNoMV | FaultNoBC | FaultAHRSUnstable | FaultZeroUnsolvable

// Engine is the top-level orchestrator: it fuses sensor frames into a
// continuously-published firing solution. Engine performs zero dynamic
// allocation after Init and is not safe for concurrent use — callers drive
// it single-threaded, one Update per frame.
type Engine struct {
	initialized bool

	ahrs   attitude.Manager
	mag    magcal.Calibrator
	atmo   atmosphere.Model
	wind   corrections.Wind
	solver trajectory.Solver

	mode       Mode
	faultFlags uint32
	diagFlags  uint32

	solution FiringSolution

	bullet BulletProfile
	zero   ZeroConfig
	overrides DefaultOverrides

	hasBullet    bool
	hasZero      bool
	hasRange     bool
	hasLatitude  bool
	hasOverrides bool

	zeroAngleRad float64
	zeroDirty    bool

	lrfRangeM         float64
	lrfRangeFilteredM float64
	lrfTimestampUS    uint64
	lrfQuaternion     Quaternion

	latitudeDeg float64
	boresight   BoresightOffset
	reticle     BoresightOffset

	lastGyro           [3]float64
	lastIMUTimestampUS uint64
	firstUpdate        bool

	hadInvalidSensorInput bool
	externalReferenceMode bool
}

// NewEngine returns an initialized engine ready to accept sensor frames.
func NewEngine() *Engine {
	e := &Engine{}
	e.Init()
	return e
}

// Init resets the engine to its startup state. Init must be the first call
// on an Engine; every other method no-ops (and reports IDLE) until Init has
// run, including on a bare zero-value Engine{} that skipped NewEngine.
func (e *Engine) Init() {
	e.ahrs.Reset()
	e.mag.Reset()
	e.atmo.Reset()
	e.solver.Reset()

	e.mode = ModeIdle
	e.faultFlags = 0
	e.diagFlags = 0

	e.solution = FiringSolution{}
	e.bullet = BulletProfile{}
	e.zero = ZeroConfig{}
	e.overrides = DefaultOverrides{}

	e.hasBullet = false
	e.hasZero = false
	e.hasRange = false
	e.hasLatitude = false
	e.hasOverrides = false

	e.zeroAngleRad = 0
	e.zeroDirty = true

	e.lrfRangeM = 0
	e.lrfRangeFilteredM = 0
	e.lrfTimestampUS = 0
	e.lrfQuaternion = Quaternion{W: 1}

	e.latitudeDeg = 0
	e.boresight = BoresightOffset{}
	e.reticle = BoresightOffset{}

	e.lastGyro = [3]float64{}
	e.lastIMUTimestampUS = 0
	e.firstUpdate = true
	e.hadInvalidSensorInput = false
	e.externalReferenceMode = false

	e.solution.SolutionMode = ModeIdle
	e.initialized = true
}

// Update feeds one sensor frame through AHRS/atmosphere/range fusion and
// re-evaluates the engine's state machine and (if sufficient data is
// available) the published firing solution.
func (e *Engine) Update(frame *SensorFrame) {
	if !e.initialized || frame == nil {
		return
	}

	e.hadInvalidSensorInput = false
	nowUS := frame.TimestampUS

	if frame.IMUValid {
		imuFinite := isFinite(frame.AccelX) && isFinite(frame.AccelY) && isFinite(frame.AccelZ) &&
			isFinite(frame.GyroX) && isFinite(frame.GyroY) && isFinite(frame.GyroZ)
		if !imuFinite {
			e.hadInvalidSensorInput = true
		}

		dt := 0.01
		if !e.firstUpdate && nowUS > e.lastIMUTimestampUS {
			dt = float64(nowUS-e.lastIMUTimestampUS) * 1e-6
			if dt > 0.1 {
				dt = 0.1
			}
			if dt < 0.0001 {
				dt = 0.0001
			}
		}
		e.firstUpdate = false
		e.lastIMUTimestampUS = nowUS

		if imuFinite {
			e.lastGyro = [3]float64{frame.GyroX, frame.GyroY, frame.GyroZ}
		}

		mx, my, mz := frame.MagX, frame.MagY, frame.MagZ
		useMag := false
		if frame.MagValid {
			magFinite := isFinite(mx) && isFinite(my) && isFinite(mz)
			if !magFinite {
				e.hadInvalidSensorInput = true
			} else {
				useMag = e.mag.Apply(&mx, &my, &mz)
			}
		}

		if imuFinite {
			e.ahrs.Update(frame.AccelX, frame.AccelY, frame.AccelZ,
				frame.GyroX, frame.GyroY, frame.GyroZ,
				mx, my, mz, useMag, dt)
		}
	}

	if frame.BaroValid {
		humidity := -1.0
		if frame.BaroHumidityValid {
			humidity = frame.BaroHumidity
		}
		e.atmo.UpdateFromBaro(frame.BaroPressurePa, frame.BaroTemperatureC, humidity)
		if e.atmo.ConsumeZeroRecomputeHint() {
			e.zeroDirty = true
		}
	}

	if frame.LRFValid {
		if !isFinite(frame.LRFRangeM) {
			e.hadInvalidSensorInput = true
		}

		rangeValid := isFinite(frame.LRFRangeM) && frame.LRFRangeM > 0.0 && frame.LRFRangeM <= float64(MaxRangeM)

		confidence := frame.LRFConfidence
		confidenceProvided := confidence > 0.0
		confidenceInRange := isFinite(confidence) && confidence >= 0.0 && confidence <= 1.0
		confidenceValid := !confidenceProvided || (confidenceInRange && confidence >= LRFMinConfidence)

		if confidenceProvided && !confidenceInRange {
			e.hadInvalidSensorInput = true
		}

		if rangeValid && confidenceValid {
			if !e.hasRange {
				e.lrfRangeFilteredM = frame.LRFRangeM
			} else {
				e.lrfRangeFilteredM = LRFFilterAlpha*frame.LRFRangeM + (1.0-LRFFilterAlpha)*e.lrfRangeFilteredM
			}
			e.lrfRangeM = frame.LRFRangeM
			e.lrfTimestampUS = frame.LRFTimestampUS
			q := e.ahrs.Quaternion()
			e.lrfQuaternion = Quaternion{W: q.W, X: q.X, Y: q.Y, Z: q.Z}
			e.hasRange = true
		}
	}

	e.evaluateState(nowUS)
}

// SetBulletProfile installs the projectile/muzzle profile and marks the
// zero angle dirty, since it depends on bullet ballistics.
func (e *Engine) SetBulletProfile(profile BulletProfile) {
	if !e.initialized {
		return
	}
	e.bullet = profile
	e.hasBullet = true
	e.zeroDirty = true
}

// SetZeroConfig installs the zero range/sight geometry and marks the zero
// angle dirty.
func (e *Engine) SetZeroConfig(config ZeroConfig) {
	if !e.initialized {
		return
	}
	e.zero = config
	e.hasZero = true
	e.zeroDirty = true
}

// SetWindManual installs a manually observed wind speed/heading.
func (e *Engine) SetWindManual(speedMS, headingDeg float64) {
	if !e.initialized {
		return
	}
	e.wind.SetWind(speedMS, headingDeg)
}

// SetLatitude installs the firing position's latitude, enabling Coriolis/
// Eotvos correction. NaN disables it.
func (e *Engine) SetLatitude(latitudeDeg float64) {
	if !e.initialized {
		return
	}
	if math.IsNaN(latitudeDeg) {
		e.hasLatitude = false
		return
	}
	e.latitudeDeg = latitudeDeg
	e.hasLatitude = true
}

// SetDefaultOverrides installs caller-supplied fallback values used when a
// live sensor reading is unavailable, and marks the zero angle dirty since
// the atmosphere model may have changed.
func (e *Engine) SetDefaultOverrides(defaults DefaultOverrides) {
	if !e.initialized {
		return
	}
	e.overrides = defaults
	e.hasOverrides = true
	e.atmo.ApplyDefaults(atmosphere.DefaultOverrides{
		UseAltitude: defaults.UseAltitude, AltitudeM: defaults.AltitudeM,
		UsePressure: defaults.UsePressure, PressurePa: defaults.PressurePa,
		UseTemperature: defaults.UseTemperature, TemperatureC: defaults.TemperatureC,
		UseHumidity: defaults.UseHumidity, HumidityFraction: defaults.HumidityFraction,
	})

	if defaults.UseLatitude {
		e.SetLatitude(defaults.LatitudeDeg)
	}
	if defaults.UseWind {
		e.wind.SetWind(defaults.WindSpeedMS, defaults.WindHeadingDeg)
	}

	e.zeroDirty = true
}

// SetIMUBias installs per-axis accelerometer and gyroscope bias corrections.
func (e *Engine) SetIMUBias(accelBias, gyroBias [3]float64) {
	if !e.initialized {
		return
	}
	e.ahrs.SetAccelBias(accelBias)
	e.ahrs.SetGyroBias(gyroBias)
}

// SetMagCalibration installs hard-iron/soft-iron magnetometer calibration.
func (e *Engine) SetMagCalibration(hardIron [3]float64, softIron [3][3]float64) {
	if !e.initialized {
		return
	}
	e.mag.SetCalibration(hardIron, softIron)
}

// SetBoresightOffset installs a mechanical optic-to-bore misalignment.
func (e *Engine) SetBoresightOffset(verticalMOA, horizontalMOA float64) {
	if !e.initialized {
		return
	}
	e.boresight = BoresightOffset{VerticalMOA: verticalMOA, HorizontalMOA: horizontalMOA}
}

// SetReticleMechanicalOffset installs a reticle mechanical offset.
func (e *Engine) SetReticleMechanicalOffset(verticalMOA, horizontalMOA float64) {
	if !e.initialized {
		return
	}
	e.reticle = BoresightOffset{VerticalMOA: verticalMOA, HorizontalMOA: horizontalMOA}
}

// CalibrateBaro sets the barometer's pressure offset so the current reading
// maps to standard sea-level pressure, and marks the zero angle dirty.
func (e *Engine) CalibrateBaro() {
	if !e.initialized {
		return
	}
	e.atmo.CalibrateBaro()
	e.zeroDirty = true
}

// CalibrateGyro captures the most recently observed raw gyro reading as
// the AHRS gyro bias. This consolidates what the original firmware exposed
// as two redundantly named entry points into one operation.
func (e *Engine) CalibrateGyro() {
	if !e.initialized {
		return
	}
	e.ahrs.CaptureGyroBias(e.lastGyro)
}

// SetAHRSAlgorithm selects the attitude fusion algorithm.
func (e *Engine) SetAHRSAlgorithm(algo AHRSAlgorithm) {
	if !e.initialized {
		return
	}
	switch algo {
	case AlgoMahony:
		e.ahrs.SetAlgorithm(attitude.AlgoMahony)
	default:
		e.ahrs.SetAlgorithm(attitude.AlgoMadgwick)
	}
}

// SetMagDeclination installs the local magnetic declination in degrees.
func (e *Engine) SetMagDeclination(declinationDeg float64) {
	if !e.initialized {
		return
	}
	e.mag.SetDeclination(declinationDeg)
}

// SetExternalReferenceMode toggles the drag-reference scale used to align
// the solver's output against an external ballistic reference table.
func (e *Engine) SetExternalReferenceMode(enabled bool) {
	if !e.initialized {
		return
	}
	e.externalReferenceMode = enabled
}

// GetSolution returns a copy of the most recently computed firing solution.
func (e *Engine) GetSolution() FiringSolution {
	return e.solution
}

// GetMode returns the engine's current top-level mode.
func (e *Engine) GetMode() Mode {
	return e.mode
}

// GetFaultFlags returns the current fault bitmap, including the non-hard
// FaultSensorInvalid bit.
func (e *Engine) GetFaultFlags() uint32 {
	return e.faultFlags
}

// GetDiagFlags returns the current soft-diagnostic bitmap.
func (e *Engine) GetDiagFlags() uint32 {
	return e.diagFlags
}

func (e *Engine) evaluateState(nowUS uint64) {
	e.faultFlags = 0
	e.diagFlags = e.atmo.GetDiagFlags()

	if !e.hasRange {
		e.faultFlags |= FaultNoRange
	} else if nowUS > e.lrfTimestampUS+LRFStaleUS {
		e.hasRange = false
		e.faultFlags |= FaultNoRange
		e.diagFlags |= DiagLRFStale
	}

	if !e.hasBullet {
		e.faultFlags |= FaultNoBullet
	} else {
		if e.bullet.MuzzleVelocityMS < 1.0 {
			e.faultFlags |= FaultNoMV
		}
		if e.bullet.BC < 0.001 {
			e.faultFlags |= FaultNoBC
		}
		if e.hasZero && (e.zero.ZeroRangeM < 1.0 || e.zero.ZeroRangeM > float64(MaxRangeM)) {
			e.faultFlags |= FaultZeroUnsolvable
		}
	}

	if !e.ahrs.IsStable() {
		e.faultFlags |= FaultAHRSUnstable
	}

	if !e.hasLatitude {
		e.diagFlags |= DiagCoriolisDisabled
	}

	if e.mag.IsDisturbed() {
		e.diagFlags |= DiagMagSuppressed
	}

	if !e.wind.IsSet() {
		e.diagFlags |= DiagDefaultWind
	}

	if e.atmo.HadInvalidInput() || e.hadInvalidSensorInput {
		e.faultFlags |= FaultSensorInvalid
	}

	if e.faultFlags&hardFaultMask != 0 {
		e.mode = ModeFault
		e.solution.SolutionMode = ModeFault
		e.solution.FaultFlags = e.faultFlags
		e.solution.DefaultsActive = e.diagFlags
		return
	}

	if e.hasRange && e.hasBullet && e.bullet.MuzzleVelocityMS > 1.0 && e.bullet.BC > 0.001 {
		e.computeSolution()
	} else {
		e.mode = ModeIdle
		e.solution.SolutionMode = ModeIdle
		e.solution.FaultFlags = e.faultFlags
		e.solution.DefaultsActive = e.diagFlags
	}
}

func (e *Engine) computeSolution() {
	if e.zeroDirty {
		e.recomputeZero()
	}

	if e.faultFlags&FaultZeroUnsolvable != 0 {
		e.mode = ModeFault
		e.solution.SolutionMode = ModeFault
		e.solution.FaultFlags = e.faultFlags
		e.solution.DefaultsActive = e.diagFlags
		return
	}

	pitch := e.ahrs.Pitch()
	roll := e.ahrs.Roll()
	yaw := e.ahrs.Yaw()
	headingTrue := e.mag.ComputeHeading(yaw)

	params := e.buildSolverParams(e.lrfRangeFilteredM)
	params.LaunchAngleRad = e.zeroAngleRad + pitch

	result := e.solver.Integrate(params)
	if !result.Valid {
		e.faultFlags |= FaultZeroUnsolvable
		e.mode = ModeFault
		e.solution.SolutionMode = ModeFault
		e.solution.FaultFlags = e.faultFlags
		e.solution.DefaultsActive = e.diagFlags
		return
	}

	rng := e.lrfRangeM
	dropMOA := 0.0
	windFromWindMOA := 0.0

	if rng > 0.0 {
		sightH := 0.0
		if e.hasZero {
			sightH = e.zero.SightHeightMM * MMToM
		}
		zeroRangeM := rng
		if e.hasZero && e.zero.ZeroRangeM > 0.0 {
			zeroRangeM = e.zero.ZeroRangeM
		}
		sightLineDrop := sightH - (sightH/zeroRangeM)*rng

		relativeDrop := result.DropAtTargetM - sightLineDrop

		dropMOA = -(relativeDrop / rng) * RadToMOA
		windFromWindMOA = -(result.WindageAtTargetM / rng) * RadToMOA
	}

	windageEarthSpinMOA := result.CoriolisWindMOA + result.SpinDriftMOA
	windageOffsetsMOA := e.boresight.HorizontalMOA + e.reticle.HorizontalMOA

	dropMOA += result.CoriolisElevMOA
	windageMOA := windFromWindMOA + windageEarthSpinMOA

	dropMOA += e.boresight.VerticalMOA + e.reticle.VerticalMOA
	windageMOA += windageOffsetsMOA

	windageBeforeCantMOA := windageMOA
	cantElev, cantWind := corrections.ApplyCant(roll, dropMOA)
	dropMOA = cantElev
	windageMOA += cantWind
	windageCantMOA := windageMOA - windageBeforeCantMOA

	e.mode = ModeSolutionReady
	e.solution.SolutionMode = ModeSolutionReady
	e.solution.FaultFlags = e.faultFlags
	e.solution.DefaultsActive = e.diagFlags

	e.solution.HoldElevationMOA = dropMOA
	e.solution.HoldWindageMOA = windageMOA

	e.solution.RangeM = rng
	e.solution.HorizontalRangeM = result.HorizontalRangeM
	e.solution.TOFMs = result.TOFs * 1000.0
	e.solution.VelocityAtTargetMS = result.VelocityAtTargetMS
	e.solution.EnergyAtTargetJ = result.EnergyAtTargetJ

	e.solution.CoriolisWindageMOA = result.CoriolisWindMOA
	e.solution.CoriolisElevationMOA = result.CoriolisElevMOA
	e.solution.SpinDriftMOA = result.SpinDriftMOA
	e.solution.WindOnlyWindageMOA = windFromWindMOA
	e.solution.EarthSpinWindageMOA = windageEarthSpinMOA
	e.solution.OffsetsWindageMOA = windageOffsetsMOA
	e.solution.CantWindageMOA = windageCantMOA

	e.solution.CantAngleDeg = roll * RadToDeg
	e.solution.HeadingDegTrue = headingTrue
	e.solution.AirDensityKgM3 = e.atmo.GetAirDensity()
}

func (e *Engine) recomputeZero() {
	e.zeroDirty = false

	if !e.hasBullet || !e.hasZero {
		e.zeroAngleRad = 0
		return
	}

	if e.zero.ZeroRangeM < 1.0 || e.zero.ZeroRangeM > float64(MaxRangeM) {
		e.faultFlags |= FaultZeroUnsolvable
		e.zeroAngleRad = 0
		return
	}

	params := e.buildSolverParams(e.zero.ZeroRangeM)
	angle, ok := e.solver.SolveZeroAngle(params, e.zero.ZeroRangeM)
	if !ok {
		e.faultFlags |= FaultZeroUnsolvable
		e.zeroAngleRad = 0
		return
	}
	e.zeroAngleRad = angle
}

func (e *Engine) buildSolverParams(rangeM float64) trajectory.Params {
	var p trajectory.Params

	p.BC = e.atmo.CorrectBC(e.bullet.BC)
	p.DragModel = dragtable.Model(e.bullet.DragModel)

	baseMVFps := e.bullet.MuzzleVelocityMS * 3.28084
	barrelLengthDeltaIn := e.bullet.BarrelLengthIn - 24.0
	mvAdjustmentFpsPerIn := math.Abs(e.bullet.MVAdjustmentFactor)
	adjustedMVFps := baseMVFps + (barrelLengthDeltaIn * mvAdjustmentFpsPerIn)
	p.MuzzleVelocityMS = adjustedMVFps * 0.3048

	p.BulletMassKg = e.bullet.MassGrains * GrainsToKg
	if e.hasZero {
		p.SightHeightM = e.zero.SightHeightMM * MMToM
	}

	p.AirDensity = e.atmo.GetAirDensity()
	p.SpeedOfSound = e.atmo.GetSpeedOfSound()
	if e.externalReferenceMode {
		p.DragReferenceScale = ExternalReferenceDragScale
	} else {
		p.DragReferenceScale = DefaultDragReferenceScale
	}
	p.TargetRangeM = rangeM
	p.LaunchAngleRad = 0

	heading := e.mag.ComputeHeading(e.ahrs.Yaw())
	p.HeadwindMS, p.CrosswindMS = e.wind.Decompose(heading)

	if e.hasLatitude {
		p.CoriolisEnabled = true
		p.CoriolisLatRad = e.latitudeDeg * DegToRad
		p.AzimuthRad = heading * DegToRad
	} else {
		p.CoriolisEnabled = false
	}

	if math.Abs(e.bullet.TwistRateInches) > 0.1 {
		p.SpinDriftEnabled = true
		p.TwistRateInches = e.bullet.TwistRateInches
		p.CaliberM = e.bullet.CaliberInches * InchesToM
	} else {
		p.SpinDriftEnabled = false
	}

	return p
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
