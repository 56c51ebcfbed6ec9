// Package dragtable implements drag-coefficient lookup for the standard
// G1-G8 reference projectile families.
package dragtable

// Point is one (Mach, Cd) sample of a standard drag curve.
type Point struct {
	Mach float64
	Cd   float64
}

// Model selects a standard drag curve.
type Model uint8

const (
	G1 Model = 1
	G2 Model = 2
	G3 Model = 3
	G4 Model = 4
	G5 Model = 5
	G6 Model = 6
	G7 Model = 7
	G8 Model = 8
)

func tableFor(m Model) []Point {
	switch m {
	case G2:
		return g2Table
	case G3:
		return g3Table
	case G4:
		return g4Table
	case G5:
		return g5Table
	case G6:
		return g6Table
	case G7:
		return g7Table
	case G8:
		return g8Table
	default:
		return g1Table
	}
}

// GetCd returns the drag coefficient for a drag model at the given Mach
// number, via binary search plus linear interpolation over the fixed table.
func GetCd(model Model, mach float64) float64 {
	if mach < 0 {
		mach = 0
	}
	return interpolate(tableFor(model), mach)
}

func interpolate(table []Point, mach float64) float64 {
	n := len(table)
	if mach <= table[0].Mach {
		return table[0].Cd
	}
	if mach >= table[n-1].Mach {
		return table[n-1].Cd
	}

	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if table[mid].Mach <= mach {
			lo = mid
		} else {
			hi = mid
		}
	}

	frac := (mach - table[lo].Mach) / (table[hi].Mach - table[lo].Mach)
	return table[lo].Cd + frac*(table[hi].Cd-table[lo].Cd)
}

// GetDeceleration computes the drag deceleration magnitude (m/s^2, positive)
// of a projectile at velocityMS using the classic BC-scaled drag formula:
//
//	a = (Cd(mach) / BC) * (rho / rho_std) * v^2 / dragConstant
//
// dragConstant and stdAirDensity are legacy/reference calibration constants
// owned by the caller (see the trajectory package); they are not physically
// derived here and this function applies them exactly as supplied.
func GetDeceleration(velocityMS, speedOfSound, bcCorrected float64, model Model, airDensity, stdAirDensity, dragConstant float64) float64 {
	if velocityMS < 1.0 {
		return 0
	}
	if bcCorrected < 0.001 {
		return 0
	}

	mach := velocityMS / speedOfSound
	cd := GetCd(model, mach)

	densityRatio := airDensity / stdAirDensity
	return (cd * densityRatio * velocityMS * velocityMS) / (bcCorrected * dragConstant)
}
