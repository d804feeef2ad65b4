// Package fluids describes the fluids carried by a pipeline and provides the
// property oracle the flow solver consults at every point of a solve.
package fluids

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/gopipe/types"
)

var (
	ErrUnknownFluid     = errors.New("fluids: unknown fluid")
	ErrPhaseUnsupported = errors.New("fluids: phase not supported for fluid")
	ErrOutOfRange       = errors.New("fluids: state out of range")
)

// Fluid names a fluid, its phase and the reference state it was specified at
type Fluid struct {
	Name            string
	Phase           types.Phase
	Pressure        float64 // Pa
	Temperature     float64 // K
	MolecularWeight float64 // kg/mol, zero uses the component value
}

// Properties are evaluated at one (pressure, temperature) state. Values are
// never modified after construction, so a *Properties can be shared.
type Properties struct {
	Density               float64 // kg/m³
	Viscosity             float64 // Pa·s
	CompressibilityFactor float64 // zero for liquids
	SpecificGravity       float64 // against air for gases, water for liquids
	Temperature           float64 // K
	JouleThomson          float64 // K/Pa
}

// Oracle must be a pure function of its inputs, the solver caches its results
type Oracle interface {
	PropertiesAt(f Fluid, pressure, temperature float64) (Properties, error)
}

// NewFluid checks the name and phase against the default library
func NewFluid(name string, phase types.Phase, pressure, temperature float64) (f *Fluid, err error) {
	return Default.NewFluid(name, phase, pressure, temperature)
}

func (lib *Library) NewFluid(name string, phase types.Phase, pressure, temperature float64) (f *Fluid, err error) {
	var (
		key = normalize(name)
		mw  float64
	)
	switch phase {
	case types.PhaseGas:
		gc, ok := lib.Gases[key]
		if !ok {
			if _, isLiquid := lib.Liquids[key]; isLiquid {
				err = fmt.Errorf("%w: %s as %s", ErrPhaseUnsupported, name, phase)
				return
			}
			err = fmt.Errorf("%w: %q", ErrUnknownFluid, name)
			return
		}
		mw = gc.MolecularWeight
	case types.PhaseLiquid:
		lc, ok := lib.Liquids[key]
		if !ok {
			if _, isGas := lib.Gases[key]; isGas {
				err = fmt.Errorf("%w: %s as %s", ErrPhaseUnsupported, name, phase)
				return
			}
			err = fmt.Errorf("%w: %q", ErrUnknownFluid, name)
			return
		}
		mw = lc.MolecularWeight
	default:
		err = fmt.Errorf("%w: %s", ErrPhaseUnsupported, phase)
		return
	}
	if pressure <= 0 || temperature <= 0 {
		err = fmt.Errorf("%w: reference state P = %g Pa, T = %g K", ErrOutOfRange, pressure, temperature)
		return
	}
	f = &Fluid{
		Name:            key,
		Phase:           phase,
		Pressure:        pressure,
		Temperature:     temperature,
		MolecularWeight: mw,
	}
	return
}

func (f *Fluid) IsGas() bool { return f.Phase == types.PhaseGas }

func (f *Fluid) String() string {
	return fmt.Sprintf("%s (%s) at %.6g Pa, %.5g K", f.Name, f.Phase, f.Pressure, f.Temperature)
}

var aliases = map[string]string{
	"ch4":           "methane",
	"natural gas":   "methane",
	"c2h6":          "ethane",
	"c3h8":          "propane",
	"n2":            "nitrogen",
	"co2":           "carbon dioxide",
	"carbondioxide": "carbon dioxide",
	"h2":            "hydrogen",
	"h2o":           "water",
	"diesel fuel":   "diesel",
}

func normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}
