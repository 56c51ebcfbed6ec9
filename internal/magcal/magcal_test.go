package magcal

import "testing"

func TestApplyIdentityCalibrationPassesThroughWithinBand(t *testing.T) {
	c := New()
	mx, my, mz := 25.0, 0.0, 0.0
	ok := c.Apply(&mx, &my, &mz)
	if !ok {
		t.Error("expected field within band to be accepted")
	}
	if c.IsDisturbed() {
		t.Error("expected IsDisturbed to be false")
	}
}

func TestApplyFlagsWeakFieldAsDisturbed(t *testing.T) {
	c := New()
	mx, my, mz := 1.0, 1.0, 1.0
	ok := c.Apply(&mx, &my, &mz)
	if ok {
		t.Error("expected weak field to be rejected")
	}
	if !c.IsDisturbed() {
		t.Error("expected IsDisturbed to be true")
	}
}

func TestApplySubtractsHardIronAndAppliesSoftIron(t *testing.T) {
	c := New()
	c.SetCalibration([3]float64{5, 5, 5}, [3][3]float64{
		{2, 0, 0},
		{0, 2, 0},
		{0, 0, 2},
	})
	mx, my, mz := 10.0, 10.0, 10.0
	c.Apply(&mx, &my, &mz)
	if mx != 10 || my != 10 || mz != 10 {
		t.Errorf("expected (10,10,10), got (%v,%v,%v)", mx, my, mz)
	}
}

func TestComputeHeadingNormalizesToPositiveRange(t *testing.T) {
	c := New()
	c.SetDeclination(-10)
	h := c.ComputeHeading(0)
	if h != 350 {
		t.Errorf("expected 350 degrees, got %v", h)
	}
}

func TestFitEllipsoidRejectsTooFewSamples(t *testing.T) {
	_, _, err := FitEllipsoid([]Sample{{X: 1, Y: 0, Z: 0}})
	if err == nil {
		t.Error("expected error for too few samples")
	}
}
