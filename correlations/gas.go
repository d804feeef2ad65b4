package correlations

import (
	"math"

	"github.com/notargets/gopipe/units"
)

// gasEquation holds the constants of the general flow equation
//
//	Q = C·E·(Tsc/Psc)^a·[(P1² - e^s·P2²)/(SG^g·T·Le·Z)]^n·D^d
//
// in scf/day, psia, °R, miles and inches
type gasEquation struct {
	C, a, g, n, d float64
}

var (
	weymouth   = gasEquation{C: 433.5, a: 1, g: 1, n: 0.5, d: 2.667}
	panhandleA = gasEquation{C: 435.87, a: 1.0788, g: 0.8539, n: 0.5394, d: 2.6182}
	panhandleB = gasEquation{C: 737, a: 1.02, g: 0.961, n: 0.51, d: 2.52}
)

const (
	standardTemperatureR = 520.
	standardPressurePsi  = 14.7
)

// slope is the elevation correction s = 0.0375·SG·Δh/T
func slope(SG, elevationFt, temperatureR float64) float64 {
	if temperatureR <= 0 {
		return 0
	}
	return 0.0375 * SG * elevationFt / temperatureR
}

// correctedLength is Le = (e^s - 1)·L/s
func correctedLength(length, s float64) float64 {
	if s == 0 {
		return length
	}
	return (math.Exp(s) - 1) * length / s
}

// StandardFlowRate converts an actual volumetric rate at a state into
// standard cubic feet per day
func StandardFlowRate(flowRate float64, st State) float64 {
	if st.SpecificGravity <= 0 {
		return 0
	}
	mass := flowRate * st.Density
	return units.ToSCFPerDay(mass / (st.SpecificGravity * units.StandardAirDensity))
}

func gasPressureDrop(eq gasEquation, g Geometry, st State, flowRate float64) float64 {
	var (
		P1  = units.ToPsi(st.Pressure)
		T   = units.ToRankine(st.Temperature)
		Z   = st.Z
		SG  = st.SpecificGravity
		Q   = StandardFlowRate(math.Max(flowRate, 0), st)
		s   = slope(SG, units.ToFeet(g.Elevation), T)
		Le  = correctedLength(units.ToMiles(g.Length), s)
		den = eq.C * g.efficiency() * math.Pow(standardTemperatureR/standardPressurePsi, eq.a) *
			math.Pow(units.ToInches(g.Diameter), eq.d)
	)
	if Z <= 0 {
		Z = 1
	}
	diff := math.Pow(Q/den, 1/eq.n) * math.Pow(SG, eq.g) * Le * T * Z
	P2sq := math.Max(0, (P1*P1-diff)/math.Exp(s))
	return units.Psi(P1 - math.Sqrt(P2sq))
}
