package dragtable

import "testing"

func TestGetCdClampsBelowAndAboveTable(t *testing.T) {
	below := GetCd(G1, -1.0)
	if below != g1Table[0].Cd {
		t.Errorf("expected clamp to first point %v, got %v", g1Table[0].Cd, below)
	}

	above := GetCd(G1, 50.0)
	last := g1Table[len(g1Table)-1].Cd
	if above != last {
		t.Errorf("expected clamp to last point %v, got %v", last, above)
	}
}

func TestGetCdInterpolatesBetweenPoints(t *testing.T) {
	mid := (g1Table[0].Mach + g1Table[1].Mach) / 2
	cd := GetCd(G1, mid)
	if cd <= g1Table[1].Cd || cd >= g1Table[0].Cd {
		t.Errorf("expected interpolated value between neighbors, got %v", cd)
	}
}

func TestGetDecelerationBelowVelocityFloorIsZero(t *testing.T) {
	d := GetDeceleration(0.5, 340, 0.5, G1, 1.225, 1.225, 900.0)
	if d != 0 {
		t.Errorf("expected zero deceleration below velocity floor, got %v", d)
	}
}

func TestGetDecelerationBelowBCFloorIsZero(t *testing.T) {
	d := GetDeceleration(500, 340, 0.0001, G1, 1.225, 1.225, 900.0)
	if d != 0 {
		t.Errorf("expected zero deceleration below BC floor, got %v", d)
	}
}

func TestGetDecelerationScalesWithVelocitySquared(t *testing.T) {
	d1 := GetDeceleration(300, 340, 0.5, G1, 1.225, 1.225, 900.0)
	d2 := GetDeceleration(600, 340, 0.5, G1, 1.225, 1.225, 900.0)
	if d2 <= d1 {
		t.Errorf("expected deceleration to increase with velocity: d1=%v d2=%v", d1, d2)
	}
}

func TestAllModelsResolve(t *testing.T) {
	models := []Model{G1, G2, G3, G4, G5, G6, G7, G8}
	for _, m := range models {
		if GetCd(m, 1.0) <= 0 {
			t.Errorf("model %v returned non-positive Cd at Mach 1.0", m)
		}
	}
}
