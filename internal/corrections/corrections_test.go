package corrections

import (
	"math"
	"testing"
)

func TestWindUnsetDecomposesToZero(t *testing.T) {
	var w Wind
	hw, cw := w.Decompose(90)
	if hw != 0 || cw != 0 {
		t.Errorf("expected zero components when unset, got hw=%v cw=%v", hw, cw)
	}
}

func TestWindDirectlyBehindDecomposesToPureHeadwind(t *testing.T) {
	var w Wind
	w.SetWind(5, 180) // wind from behind shooter, firing azimuth 0
	hw, cw := w.Decompose(0)
	if math.Abs(hw+5) > 1e-6 {
		t.Errorf("expected headwind ~ -5 (tailwind), got %v", hw)
	}
	if math.Abs(cw) > 1e-6 {
		t.Errorf("expected zero crosswind, got %v", cw)
	}
}

func TestWindFromRightIsPureCrosswind(t *testing.T) {
	var w Wind
	w.SetWind(5, 90) // wind from the right relative to azimuth 0
	hw, cw := w.Decompose(0)
	if math.Abs(hw) > 1e-6 {
		t.Errorf("expected zero headwind, got %v", hw)
	}
	if cw == 0 {
		t.Error("expected nonzero crosswind")
	}
}

func TestApplyCantAtZeroAngleIsNoOp(t *testing.T) {
	elev, wind := ApplyCant(0, 10)
	if elev != 10 || wind != 0 {
		t.Errorf("expected (10,0) at zero cant, got (%v,%v)", elev, wind)
	}
}

func TestApplyCantAt90DegreesMovesAllToWindage(t *testing.T) {
	elev, wind := ApplyCant(math.Pi/2, 10)
	if math.Abs(elev) > 1e-6 {
		t.Errorf("expected ~zero residual elevation at 90deg cant, got %v", elev)
	}
	if math.Abs(wind-10) > 1e-6 {
		t.Errorf("expected full 10 MOA to move to windage, got %v", wind)
	}
}
