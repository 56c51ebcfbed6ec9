package dope

import (
	"math"
	"testing"
)

func steadyIMUFrame(ts uint64) *SensorFrame {
	return &SensorFrame{
		TimestampUS: ts,
		AccelX:      0, AccelY: 0, AccelZ: Gravity,
		GyroX: 0, GyroY: 0, GyroZ: 0,
		IMUValid: true,
	}
}

func settleAHRS(e *Engine, n int) {
	ts := uint64(0)
	for i := 0; i < n; i++ {
		ts += 10000
		e.Update(steadyIMUFrame(ts))
	}
}

func baseBullet() BulletProfile {
	return BulletProfile{
		BC:               0.5,
		DragModel:        DragG7,
		MuzzleVelocityMS: 850,
		BarrelLengthIn:   24,
		MassGrains:       175,
		CaliberInches:    0.308,
		TwistRateInches:  11,
	}
}

func TestIdleWithNoInputs(t *testing.T) {
	e := NewEngine()
	if e.GetMode() != ModeIdle {
		t.Errorf("expected IDLE before any data, got %v", e.GetMode())
	}
}

func TestFaultNoBulletBlocksSolution(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.Update(&SensorFrame{TimestampUS: 1000000, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9})
	if e.GetMode() != ModeFault {
		t.Fatalf("expected FAULT without a bullet profile, got %v", e.GetMode())
	}
	if e.GetFaultFlags()&FaultNoBullet == 0 {
		t.Error("expected FaultNoBullet set")
	}
}

func TestSolutionReadyWithFullInputs(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 100, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetMode() != ModeSolutionReady {
		t.Fatalf("expected SOLUTION_READY, got %v (faults=%b)", e.GetMode(), e.GetFaultFlags())
	}

	sol := e.GetSolution()
	if sol.RangeM != 300 {
		t.Errorf("expected range 300, got %v", sol.RangeM)
	}
	if sol.TOFMs <= 0 {
		t.Errorf("expected positive time of flight, got %v", sol.TOFMs)
	}
}

func TestCoriolisDisabledWithoutLatitude(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 100, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetDiagFlags()&DiagCoriolisDisabled == 0 {
		t.Error("expected DiagCoriolisDisabled without a latitude set")
	}
	sol := e.GetSolution()
	if sol.CoriolisElevationMOA != 0 || sol.CoriolisWindageMOA != 0 {
		t.Error("expected zero Coriolis correction without a latitude set")
	}
}

func TestCoriolisEnabledAfterSetLatitude(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 1000, SightHeightMM: 50})
	e.SetLatitude(45)

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 1000, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetDiagFlags()&DiagCoriolisDisabled != 0 {
		t.Error("expected Coriolis enabled once latitude is set")
	}
}

func TestLatitudeNaNDisablesCoriolis(t *testing.T) {
	e := NewEngine()
	e.SetLatitude(45)
	e.SetLatitude(math.NaN())
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetDiagFlags()&DiagCoriolisDisabled == 0 {
		t.Error("expected NaN latitude to disable Coriolis correction")
	}
}

func TestLRFStalenessFaultsRange(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})

	e.Update(&SensorFrame{TimestampUS: 1000000, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: 1000000})
	if e.GetMode() != ModeSolutionReady {
		t.Fatalf("expected SOLUTION_READY right after a fresh range, got %v", e.GetMode())
	}

	// Advance time just past LRFStaleUS with no new LRF reading.
	e.Update(&SensorFrame{TimestampUS: 1000000 + LRFStaleUS + 1})
	if e.GetFaultFlags()&FaultNoRange == 0 {
		t.Error("expected FaultNoRange once the LRF reading goes stale")
	}
	if e.GetDiagFlags()&DiagLRFStale == 0 {
		t.Error("expected DiagLRFStale once the LRF reading goes stale")
	}
}

func TestInvalidZeroRangeFaultsZeroUnsolvable(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: -5, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetFaultFlags()&FaultZeroUnsolvable == 0 {
		t.Error("expected FaultZeroUnsolvable for a non-physical zero range")
	}
	if e.GetMode() != ModeFault {
		t.Errorf("expected FAULT mode, got %v", e.GetMode())
	}
}

func TestBoresightAndReticleOffsetsShiftHold(t *testing.T) {
	e1 := NewEngine()
	settleAHRS(e1, 70)
	e1.SetBulletProfile(baseBullet())
	e1.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	ts := uint64(800000)
	e1.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})
	base := e1.GetSolution()

	e2 := NewEngine()
	settleAHRS(e2, 70)
	e2.SetBulletProfile(baseBullet())
	e2.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	e2.SetBoresightOffset(2, 1)
	e2.SetReticleMechanicalOffset(1, 0.5)
	e2.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})
	offset := e2.GetSolution()

	if math.Abs(offset.HoldElevationMOA-base.HoldElevationMOA-3) > 0.05 {
		t.Errorf("expected elevation hold shifted by 3 MOA, got base=%v offset=%v", base.HoldElevationMOA, offset.HoldElevationMOA)
	}
	if math.Abs(offset.OffsetsWindageMOA-1.5) > 1e-9 {
		t.Errorf("expected 1.5 MOA of windage offset itemized, got %v", offset.OffsetsWindageMOA)
	}
}

func TestAtmosphereOverrideDirtiesZero(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})
	firstHold := e.GetSolution().HoldElevationMOA

	e.SetDefaultOverrides(DefaultOverrides{UseAltitude: true, AltitudeM: 3000})
	ts2 := ts + 10000
	e.Update(&SensorFrame{TimestampUS: ts2, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts2})
	secondHold := e.GetSolution().HoldElevationMOA

	if firstHold == secondHold {
		t.Error("expected altitude override to change the solved hold")
	}
}

func TestAHRSUnstableBeforeWindowFills(t *testing.T) {
	e := NewEngine()
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	e.Update(&SensorFrame{TimestampUS: 800000, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: 800000})

	if e.GetFaultFlags()&FaultAHRSUnstable == 0 {
		t.Error("expected FaultAHRSUnstable before the static window fills")
	}
	if e.GetMode() != ModeFault {
		t.Errorf("expected FAULT mode, got %v", e.GetMode())
	}
}

func TestZeroValueEngineNoOpsBeforeInit(t *testing.T) {
	var e Engine

	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	e.Update(&SensorFrame{TimestampUS: 800000, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: 800000})

	if e.GetMode() != ModeIdle {
		t.Fatalf("expected IDLE on an uninitialized engine, got %v", e.GetMode())
	}
	if e.GetFaultFlags() != FaultNone || e.GetDiagFlags() != DiagNone {
		t.Errorf("expected no flags set on an uninitialized engine, got faults=%#x diags=%#x", e.GetFaultFlags(), e.GetDiagFlags())
	}
	if (e.GetSolution() != FiringSolution{}) {
		t.Error("expected Set* and Update calls before Init to have no effect on state")
	}

	e.Init()
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	settleAHRS(&e, 70)
	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.9, LRFTimestampUS: ts})

	if e.GetMode() != ModeSolutionReady {
		t.Fatalf("expected the same calls to take effect once Init has run, got %v", e.GetMode())
	}
}

func TestExternalReferenceModeReducesElevationAndTOF(t *testing.T) {
	e1 := NewEngine()
	settleAHRS(e1, 70)
	e1.SetBulletProfile(baseBullet())
	e1.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	ts := uint64(800000)
	e1.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 800, LRFConfidence: 0.9, LRFTimestampUS: ts})
	base := e1.GetSolution()

	e2 := NewEngine()
	settleAHRS(e2, 70)
	e2.SetExternalReferenceMode(true)
	e2.SetBulletProfile(baseBullet())
	e2.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})
	e2.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 800, LRFConfidence: 0.9, LRFTimestampUS: ts})
	external := e2.GetSolution()

	if math.Abs(external.HoldElevationMOA) >= math.Abs(base.HoldElevationMOA) {
		t.Errorf("expected external-reference mode to reduce elevation hold magnitude, got base=%v external=%v",
			base.HoldElevationMOA, external.HoldElevationMOA)
	}
	if external.TOFMs >= base.TOFMs {
		t.Errorf("expected external-reference mode to reduce time of flight, got base=%v external=%v",
			base.TOFMs, external.TOFMs)
	}
}

func TestLowConfidenceLRFFaultsNoRangeWhenItsTheOnlySource(t *testing.T) {
	e := NewEngine()
	settleAHRS(e, 70)
	e.SetBulletProfile(baseBullet())
	e.SetZeroConfig(ZeroConfig{ZeroRangeM: 300, SightHeightMM: 50})

	ts := uint64(800000)
	e.Update(&SensorFrame{TimestampUS: ts, LRFValid: true, LRFRangeM: 300, LRFConfidence: 0.2, LRFTimestampUS: ts})

	if e.GetFaultFlags()&FaultNoRange == 0 {
		t.Error("expected FaultNoRange for a below-threshold LRF confidence reading")
	}
	if e.GetMode() != ModeFault {
		t.Errorf("expected FAULT mode with no usable range source, got %v", e.GetMode())
	}
}

func TestCalibrateGyroUsesLastRawReading(t *testing.T) {
	e := NewEngine()
	e.Update(&SensorFrame{TimestampUS: 10000, AccelX: 0, AccelY: 0, AccelZ: Gravity, GyroX: 0.02, GyroY: -0.01, GyroZ: 0.005, IMUValid: true})
	e.CalibrateGyro()
	if e.lastGyro != [3]float64{0.02, -0.01, 0.005} {
		t.Errorf("expected captured bias to match last raw gyro reading, got %v", e.lastGyro)
	}
}
