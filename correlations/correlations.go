// Package correlations computes pipe and connector pressure drops. All
// arguments and results are SI, the gas equations convert to oilfield units
// internally.
package correlations

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

var (
	ErrUnsupportedEquation = errors.New("correlations: unsupported flow equation")
	ErrInvalidGeometry     = errors.New("correlations: invalid geometry")
)

type Geometry struct {
	Length            float64 // m
	Diameter          float64 // m
	RelativeRoughness float64 // roughness / diameter
	Efficiency        float64 // (0, 1], zero is taken as 1
	Elevation         float64 // m, outlet above inlet is positive
}

// State is the fluid state at the inlet of the span being evaluated
type State struct {
	Pressure        float64 // Pa
	Temperature     float64 // K
	Density         float64 // kg/m³
	Viscosity       float64 // Pa·s
	Z               float64
	SpecificGravity float64
}

func (g Geometry) Area() float64 {
	return math.Pi * g.Diameter * g.Diameter / 4
}

func (g Geometry) validate() error {
	if g.Length < 0 || g.Diameter <= 0 {
		return fmt.Errorf("%w: length %g m, diameter %g m", ErrInvalidGeometry, g.Length, g.Diameter)
	}
	return nil
}

func (g Geometry) efficiency() float64 {
	if g.Efficiency <= 0 {
		return 1
	}
	return g.Efficiency
}

// SelectEquation picks a correlation from the pressure ratio, phase, flow
// type and pipe size. Liquids and incompressible flow always use
// Darcy-Weisbach, as do short gas lines with a small pressure ratio.
func SelectEquation(pressureDrop, upstreamPressure, diameter, length float64,
	phase types.Phase, flowType types.FlowType) types.FlowEquation {
	if flowType == types.FlowIncompressible || phase == types.PhaseLiquid {
		return types.DarcyWeisbach
	}
	var (
		ratio = math.Inf(1)
		miles = units.ToMiles(length)
	)
	if upstreamPressure > 0 {
		ratio = pressureDrop / upstreamPressure
	}
	switch {
	case ratio <= 0.1 && miles <= 10:
		return types.DarcyWeisbach
	case miles > 20:
		if diameter >= units.Inches(12) {
			return types.ModifiedPanhandleA
		}
		return types.ModifiedPanhandleB
	}
	return types.Weymouth
}

// PressureDrop over a pipe span for a volumetric flow rate at the inlet state
func PressureDrop(eq types.FlowEquation, g Geometry, st State, flowRate float64) (dp float64, err error) {
	if err = g.validate(); err != nil {
		return
	}
	switch eq {
	case types.DarcyWeisbach:
		return darcyWeisbach(g, st, flowRate), nil
	case types.Weymouth:
		return gasPressureDrop(weymouth, g, st, flowRate), nil
	case types.ModifiedPanhandleA:
		return gasPressureDrop(panhandleA, g, st, flowRate), nil
	case types.ModifiedPanhandleB:
		return gasPressureDrop(panhandleB, g, st, flowRate), nil
	}
	err = fmt.Errorf("%w: %s", ErrUnsupportedEquation, eq)
	return
}
