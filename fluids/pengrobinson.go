package fluids

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopipe/units"
)

// CompressibilityFactor solves the Peng-Robinson cubic for the vapour root
func (gc GasComponent) CompressibilityFactor(pressure, temperature float64) (Z float64, err error) {
	var (
		R     = units.GasConstant
		Tc    = gc.CriticalTemperature
		Pc    = gc.CriticalPressure
		w     = gc.AcentricFactor
		kappa = 0.37464 + 1.54226*w - 0.26992*w*w
		alpha = math.Pow(1+kappa*(1-math.Sqrt(temperature/Tc)), 2)
		a     = 0.45724 * R * R * Tc * Tc / Pc * alpha
		b     = 0.07780 * R * Tc / Pc
		RT    = R * temperature
		A     = a * pressure / (RT * RT)
		B     = b * pressure / RT
	)
	// Z³ + c2·Z² + c1·Z + c0 = 0
	c2 := -(1 - B)
	c1 := A - 3*B*B - 2*B
	c0 := -(A*B - B*B - B*B*B)
	roots, err := cubicRealRoots(c2, c1, c0)
	if err != nil {
		return
	}
	Z = math.Inf(-1)
	for _, r := range roots {
		if r > B && r > Z {
			Z = r
		}
	}
	if math.IsInf(Z, -1) {
		err = fmt.Errorf("%w: no physical Peng-Robinson root at P = %g Pa, T = %g K",
			ErrOutOfRange, pressure, temperature)
	}
	return
}

// cubicRealRoots finds the real eigenvalues of the companion matrix of a
// monic cubic
func cubicRealRoots(c2, c1, c0 float64) (roots []float64, err error) {
	var (
		companion = mat.NewDense(3, 3, []float64{
			-c2, -c1, -c0,
			1, 0, 0,
			0, 1, 0,
		})
		eig mat.Eigen
	)
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		err = fmt.Errorf("%w: eigen decomposition failed", ErrOutOfRange)
		return
	}
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) <= 1e-10*math.Max(1, math.Abs(real(v))) {
			roots = append(roots, real(v))
		}
	}
	return
}

func (gc GasComponent) properties(pressure, temperature float64) (p Properties, err error) {
	var (
		Z  float64
		R  = units.GasConstant
		MW = gc.MolecularWeight
	)
	if Z, err = gc.CompressibilityFactor(pressure, temperature); err != nil {
		return
	}
	rho := pressure * MW / (Z * R * temperature)
	p = Properties{
		Density:               rho,
		Viscosity:             leeGonzalezEakin(MW, temperature, rho),
		CompressibilityFactor: Z,
		SpecificGravity:       MW / units.AirMolecularWeight,
		Temperature:           temperature,
		JouleThomson:          gc.jouleThomson(pressure, temperature),
	}
	return
}

// leeGonzalezEakin returns the gas viscosity in Pa·s. The correlation is
// written in °R, g/mol and g/cm³ and yields centipoise.
func leeGonzalezEakin(MW, temperature, density float64) float64 {
	var (
		T   = units.ToRankine(temperature)
		M   = MW * 1000
		rho = density / 1000
		K   = (9.4 + 0.02*M) * math.Pow(T, 1.5) / (209 + 19*M + T)
		X   = 3.5 + 986/T + 0.01*M
		Y   = 2.4 - 0.2*X
	)
	return 1e-4 * K * math.Exp(X*math.Pow(rho, Y)) * 1e-3
}

// HeatCapacityAt is the ideal gas molar Cp in J/(mol·K)
func (gc GasComponent) HeatCapacityAt(temperature float64) float64 {
	c := gc.HeatCapacity
	T := temperature
	return units.GasConstant * (c[0] + c[1]*T + c[2]*T*T + c[3]/(T*T))
}

// jouleThomson is μ_JT = R·T²/(P·Cp)·(∂Z/∂T)_P. A failed evaluation of Z
// near the derivative stencil gives zero, the cooling effect is dropped.
func (gc GasComponent) jouleThomson(pressure, temperature float64) float64 {
	var failed bool
	zOfT := func(T float64) float64 {
		Z, err := gc.CompressibilityFactor(pressure, T)
		if err != nil {
			failed = true
			return 0
		}
		return Z
	}
	dZdT := fd.Derivative(zOfT, temperature, &fd.Settings{
		Formula: fd.Central,
		Step:    1e-3 * temperature,
	})
	cp := gc.HeatCapacityAt(temperature)
	if failed || cp <= 0 {
		return 0
	}
	return units.GasConstant * temperature * temperature / (pressure * cp) * dZdT
}
