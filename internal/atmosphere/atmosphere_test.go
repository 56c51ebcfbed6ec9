package atmosphere

import "testing"

func TestNewMatchesISADefaults(t *testing.T) {
	m := New()
	if got := m.GetAirDensity(); got < 1.2 || got > 1.25 {
		t.Errorf("expected ISA-ish air density, got %v", got)
	}
	if got := m.GetSpeedOfSound(); got < 330 || got > 345 {
		t.Errorf("expected ISA-ish speed of sound, got %v", got)
	}
}

func TestUpdateFromBaroRejectsNonPhysicalPressure(t *testing.T) {
	m := New()
	m.UpdateFromBaro(1.0, 15.0, 0.5)
	if !m.HadInvalidInput() {
		t.Error("expected invalid-input flag for near-zero pressure")
	}
	if m.GetPressure() != 1000.0 {
		t.Errorf("expected pressure clamped to 1000 Pa, got %v", m.GetPressure())
	}
}

func TestUpdateFromBaroWithoutHumidityKeepsDefaultDiag(t *testing.T) {
	m := New()
	m.UpdateFromBaro(95000, 10, -1)
	if m.GetDiagFlags()&DiagDefaultHumidity == 0 {
		t.Error("expected default-humidity diag flag when humidity unavailable")
	}
}

func TestApplyDefaultsDoesNotOverrideLiveBaro(t *testing.T) {
	m := New()
	m.UpdateFromBaro(90000, 5, 0.3)
	m.ApplyDefaults(DefaultOverrides{UsePressure: true, PressurePa: 101325})
	if m.GetPressure() != 90000 {
		t.Errorf("live baro pressure should win over override, got %v", m.GetPressure())
	}
}

func TestCorrectBCDecreasesWithAltitude(t *testing.T) {
	sea := New()
	high := New()
	high.ApplyDefaults(DefaultOverrides{UseAltitude: true, AltitudeM: 3000})

	bcSea := sea.CorrectBC(0.5)
	bcHigh := high.CorrectBC(0.5)
	if bcHigh >= bcSea {
		t.Errorf("expected BC correction to drop at altitude: sea=%v high=%v", bcSea, bcHigh)
	}
}

func TestCalibrateBaroNormalizesToStandardPressure(t *testing.T) {
	m := New()
	m.UpdateFromBaro(95000, 15, 0.5)
	m.CalibrateBaro()
	if got := m.GetPressure(); got < 94999 || got > 95001 {
		t.Errorf("calibration should not change the raw reading itself, got %v", got)
	}
	m.UpdateFromBaro(95000, 15, 0.5)
	if got := m.GetPressure(); got < 101324 || got > 101326 {
		t.Errorf("expected the next reading to be normalized to standard pressure, got %v", got)
	}
}

func TestZeroRecomputeHintFiresOnLargeAtmosphereShift(t *testing.T) {
	m := New()
	m.ConsumeZeroRecomputeHint()
	m.UpdateFromBaro(80000, -20, 0.1)
	if !m.ConsumeZeroRecomputeHint() {
		t.Error("expected a large atmosphere shift to raise the zero-recompute hint")
	}
	if m.ConsumeZeroRecomputeHint() {
		t.Error("hint should be one-shot: consuming it must clear it")
	}
}
