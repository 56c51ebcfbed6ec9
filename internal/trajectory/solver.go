// Package trajectory implements the fixed-footprint adaptive-step RK4
// point-mass trajectory solver: per-meter trajectory table, zero-angle
// binary search, and Coriolis/Eotvos and spin-drift corrections.
package trajectory

import (
	"math"

	"github.com/koenig-jacob/DOPE/internal/dragtable"
)

// Table size constants — 1-meter resolution from 0 to MaxRangeM inclusive.
const (
	MaxRangeM     = 2500
	TrajTableSize = MaxRangeM + 1
)

// Solver tuning constants, carried forward exactly from the reference
// model this package reimplements.
const (
	Gravity = 9.80665 // m/s^2
	OmegaEarth = 7.2921e-5 // rad/s

	RadToMOA = (180.0 * 60.0) / math.Pi
	DegToRad = math.Pi / 180.0

	MinVelocity = 30.0 // m/s

	// BallisticDragConstant is a legacy, non-physical tuning parameter.
	// Every BC this solver consumes is calibrated against it; it must
	// never be "corrected" independently of the rest of the model.
	BallisticDragConstant = 900.0
	StdAirDensity         = 1.2250 // kg/m^3, matches internal/atmosphere

	MaxSolverIterations = 500000
	DTMin                = 0.00001
	DTMax                = 0.001
	MaxStepDistanceM     = 0.25
	ZeroToleranceM       = 0.001
	ZeroMaxIterations    = 50
)

// Point is one per-meter trajectory record.
type Point struct {
	DropM      float64 // vertical drop from bore line, negative = below
	WindageM   float64 // lateral deflection, positive = right
	VelocityMS float64
	TOFs       float64
	EnergyJ    float64
}

// Params is the complete input to a single trajectory solve.
type Params struct {
	BC               float64
	DragModel        dragtable.Model
	MuzzleVelocityMS float64
	BulletMassKg     float64
	SightHeightM     float64

	AirDensity          float64
	SpeedOfSound        float64
	DragReferenceScale  float64

	LaunchAngleRad float64
	TargetRangeM   float64

	HeadwindMS  float64
	CrosswindMS float64

	CoriolisLatRad  float64
	AzimuthRad      float64
	CoriolisEnabled bool

	TwistRateInches   float64
	CaliberM          float64
	SpinDriftEnabled  bool
}

// Result is the output of a single trajectory solve at the target range.
type Result struct {
	Valid               bool
	DropAtTargetM       float64
	WindageAtTargetM    float64
	TOFs                float64
	VelocityAtTargetMS  float64
	EnergyAtTargetJ     float64
	HorizontalRangeM    float64

	CoriolisElevMOA float64
	CoriolisWindMOA float64
	SpinDriftMOA    float64
}

// Solver owns the static per-meter trajectory table and last valid-range
// high-water mark. It performs zero dynamic allocation after construction.
type Solver struct {
	table         [TrajTableSize]Point
	maxValidRange int
}

// New returns a solver with a zeroed trajectory table.
func New() *Solver {
	return &Solver{}
}

// Reset clears the trajectory table.
func (s *Solver) Reset() {
	s.table = [TrajTableSize]Point{}
	s.maxValidRange = 0
}

// GetPointAt returns the trajectory point at the given range in meters, and
// whether it is valid. Only meaningful after Integrate has been called.
func (s *Solver) GetPointAt(rangeM int) (Point, bool) {
	if rangeM < 0 || rangeM > s.maxValidRange || rangeM >= TrajTableSize {
		return Point{}, false
	}
	return s.table[rangeM], true
}

// SolveZeroAngle binary-searches for the launch angle that makes the
// trajectory intersect the line of sight at zeroRangeM, accounting for
// sight height above the bore. Returns (angle, true) or (0, false) if
// unsolvable.
func (s *Solver) SolveZeroAngle(params Params, zeroRangeM float64) (float64, bool) {
	if zeroRangeM < 1.0 || zeroRangeM > MaxRangeM {
		return 0, false
	}

	lo := -5.0 * DegToRad
	hi := 5.0 * DegToRad

	sightH := params.SightHeightM
	targetDrop := -sightH

	bestAngle := 0.0
	solved := false

	for i := 0; i < ZeroMaxIterations; i++ {
		mid := (lo + hi) * 0.5
		p := params
		p.LaunchAngleRad = mid

		drop, ok := s.integrateToRange(p, zeroRangeM, false)
		if !ok {
			// Bullet didn't reach — needs more angle.
			lo = mid
			continue
		}

		if drop > targetDrop {
			hi = mid
		} else {
			lo = mid
		}

		bestAngle = mid

		if math.Abs(drop-targetDrop) < ZeroToleranceM {
			solved = true
			break
		}
	}

	if !solved {
		p := params
		p.LaunchAngleRad = bestAngle
		if drop, ok := s.integrateToRange(p, zeroRangeM, false); ok && math.Abs(drop-targetDrop) < ZeroToleranceM {
			solved = true
		}
	}

	if !solved {
		return 0, false
	}
	return bestAngle, true
}

// Integrate runs the full trajectory, filling the per-meter table, and
// returns the result at the target range plus spin-drift and Coriolis/
// Eotvos corrections.
func (s *Solver) Integrate(params Params) Result {
	var result Result

	if params.TargetRangeM < 1.0 || params.TargetRangeM > MaxRangeM {
		return result
	}

	_, ok := s.integrateToRange(params, params.TargetRangeM, true)
	if !ok {
		return result
	}

	targetIdx := int(params.TargetRangeM)
	if targetIdx < 0 || targetIdx >= TrajTableSize {
		return result
	}

	tp := s.table[targetIdx]

	result.Valid = true
	result.DropAtTargetM = tp.DropM
	result.WindageAtTargetM = tp.WindageM
	result.TOFs = tp.TOFs
	result.VelocityAtTargetMS = tp.VelocityMS
	result.EnergyAtTargetJ = tp.EnergyJ
	result.HorizontalRangeM = params.TargetRangeM * math.Cos(params.LaunchAngleRad)

	// Spin drift via the Litz TOF^1.83 approximation. The stability factor
	// is fixed at a representative average rather than derived from bullet
	// geometry/twist/velocity.
	result.SpinDriftMOA = 0
	if params.SpinDriftEnabled && math.Abs(params.TwistRateInches) > 0.1 {
		const sg = 1.5
		driftM := 0.0254 * 1.25 * (sg + 1.2) * math.Pow(tp.TOFs, 1.83)
		if params.TwistRateInches < 0.0 {
			driftM = -driftM
		}
		if params.TargetRangeM > 0 {
			result.SpinDriftMOA = (driftM / params.TargetRangeM) * RadToMOA
		}
	}

	result.CoriolisElevMOA = 0
	result.CoriolisWindMOA = 0
	if params.CoriolisEnabled {
		lat := params.CoriolisLatRad
		azi := params.AzimuthRad
		tof := tp.TOFs
		rng := params.TargetRangeM

		coriolisHz := OmegaEarth * rng * tof * math.Sin(lat)
		coriolisVt := OmegaEarth * rng * tof * math.Cos(lat) * math.Sin(azi)

		if rng > 0 {
			result.CoriolisWindMOA = (coriolisHz / rng) * RadToMOA
			result.CoriolisElevMOA = (coriolisVt / rng) * RadToMOA
		}
	}

	return result
}

func computeAcceleration(params Params, vx, vy, vz float64) (ax, ay, az float64) {
	vxRel := vx + params.HeadwindMS
	vzRel := vz - params.CrosswindMS
	vRel := math.Sqrt(vxRel*vxRel + vy*vy + vzRel*vzRel)

	if vRel < 1.0 {
		return 0, -Gravity, 0
	}

	decel := dragtable.GetDeceleration(vRel, params.SpeedOfSound, params.BC, params.DragModel, params.AirDensity, StdAirDensity, BallisticDragConstant)

	dragScale := params.DragReferenceScale
	if !isFinite(dragScale) || dragScale <= 0 {
		dragScale = 1.0
	}
	if dragScale < 0.2 {
		dragScale = 0.2
	}
	if dragScale > 2.0 {
		dragScale = 2.0
	}
	decel *= dragScale

	ax = -decel * (vxRel / vRel)
	ay = -decel*(vy/vRel) - Gravity
	az = -decel * (vzRel / vRel)
	return
}

// integrateToRange runs the adaptive-step RK4 integration out to rangeM,
// optionally filling the per-meter table, and returns the vertical drop at
// that range, or false if the bullet never reached it.
func (s *Solver) integrateToRange(params Params, rangeM float64, fillTable bool) (float64, bool) {
	vx := params.MuzzleVelocityMS * math.Cos(params.LaunchAngleRad)
	vy := params.MuzzleVelocityMS * math.Sin(params.LaunchAngleRad)
	vz := 0.0

	x, y, z := 0.0, 0.0, 0.0
	t := 0.0

	lastRangeIndex := 0
	if fillTable {
		s.table[0] = Point{
			DropM:      0,
			WindageM:   0,
			VelocityMS: params.MuzzleVelocityMS,
			TOFs:       0,
			EnergyJ:    0.5 * params.BulletMassKg * params.MuzzleVelocityMS * params.MuzzleVelocityMS,
		}
	}

	iteration := 0

	for x < rangeM && iteration < MaxSolverIterations {
		iteration++

		v := math.Sqrt(vx*vx + vy*vy + vz*vz)
		if v < MinVelocity {
			break
		}

		mach := v / params.SpeedOfSound
		var dt float64
		if mach > 0.9 && mach < 1.2 {
			dt = DTMin
		} else {
			dt = 0.5 / v
		}

		dtFromStep := MaxStepDistanceM / v
		if dt > dtFromStep {
			dt = dtFromStep
		}
		if dt < DTMin {
			dt = DTMin
		}
		if dt > DTMax {
			dt = DTMax
		}

		ax1, ay1, az1 := computeAcceleration(params, vx, vy, vz)
		k1vx, k1vy, k1vz := ax1, ay1, az1
		k1x, k1y, k1z := vx, vy, vz

		vxK2 := vx + 0.5*dt*k1vx
		vyK2 := vy + 0.5*dt*k1vy
		vzK2 := vz + 0.5*dt*k1vz
		ax2, ay2, az2 := computeAcceleration(params, vxK2, vyK2, vzK2)
		k2vx, k2vy, k2vz := ax2, ay2, az2
		k2x, k2y, k2z := vxK2, vyK2, vzK2

		vxK3 := vx + 0.5*dt*k2vx
		vyK3 := vy + 0.5*dt*k2vy
		vzK3 := vz + 0.5*dt*k2vz
		ax3, ay3, az3 := computeAcceleration(params, vxK3, vyK3, vzK3)
		k3vx, k3vy, k3vz := ax3, ay3, az3
		k3x, k3y, k3z := vxK3, vyK3, vzK3

		vxK4 := vx + dt*k3vx
		vyK4 := vy + dt*k3vy
		vzK4 := vz + dt*k3vz
		ax4, ay4, az4 := computeAcceleration(params, vxK4, vyK4, vzK4)
		k4vx, k4vy, k4vz := ax4, ay4, az4
		k4x, k4y, k4z := vxK4, vyK4, vzK4

		x += (dt / 6.0) * (k1x + 2.0*k2x + 2.0*k3x + k4x)
		vx += (dt / 6.0) * (k1vx + 2.0*k2vx + 2.0*k3vx + k4vx)
		y += (dt / 6.0) * (k1y + 2.0*k2y + 2.0*k3y + k4y)
		vy += (dt / 6.0) * (k1vy + 2.0*k2vy + 2.0*k3vy + k4vy)
		z += (dt / 6.0) * (k1z + 2.0*k2z + 2.0*k3z + k4z)
		vz += (dt / 6.0) * (k1vz + 2.0*k2vz + 2.0*k3vz + k4vz)
		t += dt

		if fillTable {
			currentRange := int(x)
			for lastRangeIndex < currentRange && lastRangeIndex < TrajTableSize-1 {
				lastRangeIndex++
				vCurrent := math.Sqrt(vx*vx + vy*vy + vz*vz)
				s.table[lastRangeIndex] = Point{
					DropM:      y,
					WindageM:   z,
					VelocityMS: vCurrent,
					TOFs:       t,
					EnergyJ:    0.5 * params.BulletMassKg * vCurrent * vCurrent,
				}
			}
			s.maxValidRange = lastRangeIndex
		}
	}

	if x < rangeM {
		return 0, false
	}
	return y, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
