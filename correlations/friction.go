package correlations

import (
	"math"

	"github.com/notargets/gopipe/units"
	"github.com/notargets/gopipe/utils"
)

func ReynoldsNumber(flowRate, diameter, density, viscosity float64) float64 {
	if diameter <= 0 || viscosity <= 0 {
		return 0
	}
	velocity := flowRate / (math.Pi * diameter * diameter / 4)
	return density * math.Abs(velocity) * diameter / viscosity
}

// FrictionFactor is the Darcy friction factor: laminar below Re 2000, Blasius
// for smooth pipes up to Re 1e5, Colebrook-White otherwise
func FrictionFactor(Re, relativeRoughness float64) float64 {
	switch {
	case Re <= 0:
		return 0
	case Re < 2000:
		return 64 / Re
	case relativeRoughness == 0 && Re <= 1e5:
		return 0.3164 * math.Pow(Re, -0.25)
	}
	f := 0.02
	for i := 0; i < 50; i++ {
		rhs := -2 * math.Log10(relativeRoughness/3.7+2.51/(Re*math.Sqrt(f)))
		fNew := 1 / utils.POW(rhs, 2)
		if math.Abs(fNew-f) < 1e-6 {
			return fNew
		}
		f = fNew
	}
	return f
}

// darcyWeisbach is the friction loss divided by E² plus the hydrostatic head
func darcyWeisbach(g Geometry, st State, flowRate float64) (dp float64) {
	var (
		v  = flowRate / g.Area()
		Re = ReynoldsNumber(flowRate, g.Diameter, st.Density, st.Viscosity)
		f  = FrictionFactor(Re, g.RelativeRoughness)
		E  = g.efficiency()
	)
	dp = f * (g.Length / g.Diameter) * 0.5 * st.Density * v * math.Abs(v) / (E * E)
	dp += st.Density * units.StandardGravity * g.Elevation
	return
}
