package fluids

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

// GasComponent holds the Peng-Robinson constants and the ideal gas heat
// capacity Cp/R = A + B·T + C·T² + D/T²
type GasComponent struct {
	CriticalTemperature float64 // K
	CriticalPressure    float64 // Pa
	AcentricFactor      float64
	MolecularWeight     float64 // kg/mol
	HeatCapacity        [4]float64
}

// LiquidComponent is a slightly compressible liquid,
// ρ = ρ0·(1 - β·(T - T0)) + C·(P - P0), with a Vogel viscosity
// μ = A·exp(B/(T - C))
type LiquidComponent struct {
	MolecularWeight      float64 // kg/mol
	ReferenceDensity     float64 // ρ0, kg/m³
	ReferencePressure    float64 // P0, Pa
	ReferenceTemperature float64 // T0, K
	Compressibility      float64 // C, kg/(m³·Pa)
	ThermalExpansion     float64 // β, 1/K
	Vogel                [3]float64
}

// Library is the default Oracle, built from component tables
type Library struct {
	Gases   map[string]GasComponent
	Liquids map[string]LiquidComponent
}

var Default = NewLibrary()

func NewLibrary() *Library {
	return &Library{
		Gases: map[string]GasComponent{
			"methane":        {190.56, 4.599e6, 0.011, 0.016043, [4]float64{1.702, 9.081e-3, -2.164e-6, 0}},
			"ethane":         {305.32, 4.872e6, 0.099, 0.030070, [4]float64{1.131, 19.225e-3, -5.561e-6, 0}},
			"propane":        {369.83, 4.248e6, 0.152, 0.044097, [4]float64{1.213, 28.785e-3, -8.824e-6, 0}},
			"nitrogen":       {126.2, 3.398e6, 0.037, 0.028014, [4]float64{3.280, 0.593e-3, 0, 0.040e5}},
			"carbon dioxide": {304.21, 7.383e6, 0.224, 0.044010, [4]float64{5.457, 1.045e-3, 0, -1.157e5}},
			"air":            {132.5, 3.77e6, 0.035, 0.028965, [4]float64{3.355, 0.575e-3, 0, -0.016e5}},
			"hydrogen":       {33.19, 1.313e6, -0.216, 0.002016, [4]float64{3.249, 0.422e-3, 0, 0.083e5}},
		},
		Liquids: map[string]LiquidComponent{
			"water":  {0.018015, 998.2, 101325, 293.15, 4.5e-7, 2.07e-4, [3]float64{2.414e-5, 570.58, 140}},
			"diesel": {0.2, 832, 101325, 288.15, 5.5e-7, 8.3e-4, [3]float64{4.19e-6, 2000, 0}},
		},
	}
}

// Names lists every known fluid, sorted
func (lib *Library) Names() (names []string) {
	for name := range lib.Gases {
		names = append(names, name)
	}
	for name := range lib.Liquids {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// PhaseOf reports the phase a named fluid is modelled in
func (lib *Library) PhaseOf(name string) (ph types.Phase, err error) {
	key := normalize(name)
	if _, ok := lib.Gases[key]; ok {
		return types.PhaseGas, nil
	}
	if _, ok := lib.Liquids[key]; ok {
		return types.PhaseLiquid, nil
	}
	err = fmt.Errorf("%w: %q", ErrUnknownFluid, name)
	return
}

func (lib *Library) PropertiesAt(f Fluid, pressure, temperature float64) (p Properties, err error) {
	if pressure <= 0 || temperature <= 0 {
		err = fmt.Errorf("%w: P = %g Pa, T = %g K", ErrOutOfRange, pressure, temperature)
		return
	}
	key := normalize(f.Name)
	switch f.Phase {
	case types.PhaseGas:
		gc, ok := lib.Gases[key]
		if !ok {
			err = lib.unknown(f)
			return
		}
		if f.MolecularWeight > 0 {
			gc.MolecularWeight = f.MolecularWeight
		}
		return gc.properties(pressure, temperature)
	case types.PhaseLiquid:
		lc, ok := lib.Liquids[key]
		if !ok {
			err = lib.unknown(f)
			return
		}
		return lc.properties(pressure, temperature)
	}
	err = fmt.Errorf("%w: %s", ErrPhaseUnsupported, f.Phase)
	return
}

func (lib *Library) unknown(f Fluid) error {
	if _, perr := lib.PhaseOf(f.Name); perr == nil {
		return fmt.Errorf("%w: %s as %s", ErrPhaseUnsupported, f.Name, f.Phase)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFluid, f.Name)
}

func (lc LiquidComponent) properties(pressure, temperature float64) (p Properties, err error) {
	var (
		rho = lc.ReferenceDensity*(1-lc.ThermalExpansion*(temperature-lc.ReferenceTemperature)) +
			lc.Compressibility*(pressure-lc.ReferencePressure)
		A, B, C = lc.Vogel[0], lc.Vogel[1], lc.Vogel[2]
	)
	if rho <= 0 || temperature <= C {
		err = fmt.Errorf("%w: liquid at P = %g Pa, T = %g K", ErrOutOfRange, pressure, temperature)
		return
	}
	p = Properties{
		Density:         rho,
		Viscosity:       A * math.Exp(B/(temperature-C)),
		SpecificGravity: rho / units.WaterDensity,
		Temperature:     temperature,
	}
	return
}
