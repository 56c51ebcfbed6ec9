package trajectory

import (
	"math"
	"testing"

	"github.com/koenig-jacob/DOPE/internal/dragtable"
)

func baseParams() Params {
	return Params{
		BC:                 0.5,
		DragModel:          dragtable.G7,
		MuzzleVelocityMS:   850,
		BulletMassKg:       0.0108,
		SightHeightM:       0.05,
		AirDensity:         StdAirDensity,
		SpeedOfSound:       340.29,
		DragReferenceScale: 1.0,
		TargetRangeM:       500,
	}
}

func TestIntegrateFlatFireDropsAndLosesVelocity(t *testing.T) {
	s := New()
	p := baseParams()
	r := s.Integrate(p)
	if !r.Valid {
		t.Fatal("expected valid solve")
	}
	if r.DropAtTargetM >= 0 {
		t.Errorf("expected negative drop (below bore line) at 500m, got %v", r.DropAtTargetM)
	}
	if r.VelocityAtTargetMS >= p.MuzzleVelocityMS {
		t.Errorf("expected velocity loss to drag, got %v >= %v", r.VelocityAtTargetMS, p.MuzzleVelocityMS)
	}
	if r.TOFs <= 0 {
		t.Errorf("expected positive time of flight, got %v", r.TOFs)
	}
}

func TestIntegrateOutOfRangeIsInvalid(t *testing.T) {
	s := New()
	p := baseParams()
	p.TargetRangeM = 0
	r := s.Integrate(p)
	if r.Valid {
		t.Error("expected invalid result for zero target range")
	}
	p.TargetRangeM = MaxRangeM + 1
	r = s.Integrate(p)
	if r.Valid {
		t.Error("expected invalid result for out-of-bounds target range")
	}
}

func TestSolveZeroAngleConverges(t *testing.T) {
	s := New()
	p := baseParams()
	angle, ok := s.SolveZeroAngle(p, 100)
	if !ok {
		t.Fatal("expected zero angle to converge")
	}
	if angle <= 0 {
		t.Errorf("expected a small positive launch angle to compensate for drop, got %v", angle)
	}

	// Verify the solved angle actually zeroes at the requested range.
	p.LaunchAngleRad = angle
	p.TargetRangeM = 100
	drop, ok := s.integrateToRange(p, 100, false)
	if !ok {
		t.Fatal("expected integration to reach the zero range")
	}
	if math.Abs(drop+p.SightHeightM) > 0.01 {
		t.Errorf("expected drop ~ -sightHeight at zero range, got drop=%v sightHeight=%v", drop, p.SightHeightM)
	}
}

func TestSpinDriftSignFollowsTwistDirection(t *testing.T) {
	s := New()
	p := baseParams()
	p.SpinDriftEnabled = true
	p.TwistRateInches = 10 // right-hand twist

	r := s.Integrate(p)
	if r.SpinDriftMOA <= 0 {
		t.Errorf("expected positive spin drift for right-hand twist, got %v", r.SpinDriftMOA)
	}

	p.TwistRateInches = -10 // left-hand twist
	r2 := s.Integrate(p)
	if r2.SpinDriftMOA >= 0 {
		t.Errorf("expected negative spin drift for left-hand twist, got %v", r2.SpinDriftMOA)
	}
}

func TestSpinDriftDisabledIsZero(t *testing.T) {
	s := New()
	p := baseParams()
	p.SpinDriftEnabled = false
	p.TwistRateInches = 10
	r := s.Integrate(p)
	if r.SpinDriftMOA != 0 {
		t.Errorf("expected zero spin drift when disabled, got %v", r.SpinDriftMOA)
	}
}

func TestCoriolisDisabledIsZero(t *testing.T) {
	s := New()
	p := baseParams()
	p.CoriolisEnabled = false
	p.CoriolisLatRad = 45 * DegToRad
	r := s.Integrate(p)
	if r.CoriolisElevMOA != 0 || r.CoriolisWindMOA != 0 {
		t.Error("expected zero Coriolis correction when disabled")
	}
}

func TestCoriolisSignFlipsWithHemisphere(t *testing.T) {
	s := New()
	p := baseParams()
	p.CoriolisEnabled = true
	p.AzimuthRad = 0

	p.CoriolisLatRad = 45 * DegToRad
	rNorth := s.Integrate(p)

	p.CoriolisLatRad = -45 * DegToRad
	rSouth := s.Integrate(p)

	if rNorth.CoriolisWindMOA == 0 || rSouth.CoriolisWindMOA == 0 {
		t.Fatal("expected nonzero Coriolis windage in both hemispheres")
	}
	if (rNorth.CoriolisWindMOA > 0) == (rSouth.CoriolisWindMOA > 0) {
		t.Errorf("expected Coriolis windage sign to flip between hemispheres: north=%v south=%v", rNorth.CoriolisWindMOA, rSouth.CoriolisWindMOA)
	}
}

func TestTableFillsMonotonicTimeOfFlight(t *testing.T) {
	s := New()
	p := baseParams()
	p.TargetRangeM = 300
	r := s.Integrate(p)
	if !r.Valid {
		t.Fatal("expected valid solve")
	}

	lastTOF := 0.0
	for i := 0; i <= 300; i += 50 {
		pt, ok := s.GetPointAt(i)
		if !ok {
			t.Fatalf("expected table entry at %dm", i)
		}
		if pt.TOFs < lastTOF {
			t.Errorf("expected monotonic TOF, got %v after %v at %dm", pt.TOFs, lastTOF, i)
		}
		lastTOF = pt.TOFs
	}
}

func TestWindDeflectsDownrangeWindage(t *testing.T) {
	s := New()
	p := baseParams()
	p.CrosswindMS = 5
	r := s.Integrate(p)
	if r.WindageAtTargetM == 0 {
		t.Error("expected nonzero windage under crosswind")
	}
}

func TestMuzzleVelocityBelowFloorFailsImmediately(t *testing.T) {
	s := New()
	p := baseParams()
	p.MuzzleVelocityMS = 20 // below MinVelocity
	r := s.Integrate(p)
	if r.Valid {
		t.Error("expected invalid result when muzzle velocity starts below the floor")
	}
}
