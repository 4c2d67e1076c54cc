package cvd

import "fmt"

// Deficiency is the cone type missing (or weakened) in a color vision
// deficiency.
type Deficiency int

const (
	Protan Deficiency = iota // long wavelength cones
	Deutan                   // medium wavelength cones
	Tritan                   // short wavelength cones
)

var deficiencyNames = [...]string{
	Protan: "protan",
	Deutan: "deutan",
	Tritan: "tritan",
}

func (d Deficiency) String() string {
	if d < 0 || int(d) >= len(deficiencyNames) {
		return fmt.Sprintf("Deficiency(%d)", int(d))
	}
	return deficiencyNames[d]
}

func ParseDeficiency(s string) (Deficiency, error) {
	for d, name := range deficiencyNames {
		if name == s {
			return Deficiency(d), nil
		}
	}
	return 0, fmt.Errorf("unknown deficiency %q", s)
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [9]float64

func (m *Mat3) MulVec(v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Params are the Brettel 1997 half-plane projections for one deficiency,
// expressed directly in linear RGB.
type Params struct {
	CVDFromRGB1           Mat3
	CVDFromRGB2           Mat3
	SeparationPlaneNormal [3]float64
}

// brettelParams are measured constants and never modified.
var brettelParams = [...]Params{
	Protan: {
		CVDFromRGB1: Mat3{
			0.14510, 1.20165, -0.34675,
			0.10447, 0.85316, 0.04237,
			0.00429, -0.00603, 1.00174,
		},
		CVDFromRGB2: Mat3{
			0.14115, 1.16782, -0.30897,
			0.10495, 0.85730, 0.03776,
			0.00431, -0.00586, 1.00155,
		},
		SeparationPlaneNormal: [3]float64{0.00048, 0.00416, -0.00464},
	},
	Deutan: {
		CVDFromRGB1: Mat3{
			0.36198, 0.86755, -0.22953,
			0.26099, 0.64512, 0.09389,
			-0.01975, 0.02686, 0.99289,
		},
		CVDFromRGB2: Mat3{
			0.37009, 0.88540, -0.25549,
			0.25767, 0.63782, 0.10451,
			-0.01950, 0.02741, 0.99209,
		},
		SeparationPlaneNormal: [3]float64{-0.00293, -0.00645, 0.00938},
	},
	Tritan: {
		CVDFromRGB1: Mat3{
			1.01354, 0.14268, -0.15622,
			-0.01181, 0.87561, 0.13619,
			0.07707, 0.81208, 0.11085,
		},
		CVDFromRGB2: Mat3{
			0.93337, 0.19999, -0.13336,
			0.05809, 0.82565, 0.11626,
			-0.37923, 1.13825, 0.24098,
		},
		SeparationPlaneNormal: [3]float64{0.03960, -0.02831, -0.01129},
	},
}

// ParamsFor returns a copy of the projection constants for d.
func ParamsFor(d Deficiency) Params {
	return brettelParams[d]
}
