package fluids

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

func TestGasProperties(t *testing.T) {
	lib := NewLibrary()
	methane, err := lib.NewFluid("Methane", types.PhaseGas, units.Psi(1000), units.Celsius(20))
	require.NoError(t, err)
	assert.Equal(t, "methane", methane.Name)
	assert.InDelta(t, 0.016043, methane.MolecularWeight, 1e-9)
	{ // Near the ideal gas limit
		p, err := lib.PropertiesAt(*methane, 1000, units.Celsius(20))
		require.NoError(t, err)
		assert.InDelta(t, 1, p.CompressibilityFactor, 1e-3)
		ideal := 1000 * 0.016043 / (units.GasConstant * units.Celsius(20))
		assert.InDelta(t, ideal, p.Density, ideal*1e-3)
	}
	{ // Pipeline conditions
		p, err := lib.PropertiesAt(*methane, units.Psi(1000), units.Celsius(20))
		require.NoError(t, err)
		assert.True(t, p.CompressibilityFactor > 0.8 && p.CompressibilityFactor < 0.95)
		assert.True(t, p.Density > 45 && p.Density < 60)
		assert.True(t, p.Viscosity > 1e-5 && p.Viscosity < 2e-5)
		assert.InDelta(t, 0.5539, p.SpecificGravity, 1e-3)
		// Real methane cools by roughly 0.4 K/bar here
		assert.True(t, p.JouleThomson > 1e-6 && p.JouleThomson < 1e-5)
		assert.Equal(t, units.Celsius(20), p.Temperature)
	}
	{ // Molecular weight override
		heavy := *methane
		heavy.MolecularWeight = 0.020
		p, err := lib.PropertiesAt(heavy, units.Psi(1000), units.Celsius(20))
		require.NoError(t, err)
		assert.InDelta(t, 0.020/units.AirMolecularWeight, p.SpecificGravity, 1e-12)
	}
	{ // Cubic roots
		roots, err := cubicRealRoots(-6, 11, -6) // (Z-1)(Z-2)(Z-3)
		require.NoError(t, err)
		assert.Len(t, roots, 3)
		var sum float64
		for _, r := range roots {
			sum += r
		}
		assert.InDelta(t, 6, sum, 1e-9)
	}
}

func TestLiquidProperties(t *testing.T) {
	lib := NewLibrary()
	water, err := lib.NewFluid("H2O", types.PhaseLiquid, units.AtmosphericPressure, units.Celsius(20))
	require.NoError(t, err)
	p, err := lib.PropertiesAt(*water, 101325, 293.15)
	require.NoError(t, err)
	assert.InDelta(t, 998.2, p.Density, 1e-9)
	assert.InDelta(t, 1.0e-3, p.Viscosity, 0.05e-3)
	assert.Equal(t, 0., p.JouleThomson)
	assert.Equal(t, 0., p.CompressibilityFactor)
	pHigh, err := lib.PropertiesAt(*water, 101325+1e7, 293.15)
	require.NoError(t, err)
	assert.InDelta(t, 998.2+4.5, pHigh.Density, 1e-9)
	pHot, err := lib.PropertiesAt(*water, 101325, 333.15)
	require.NoError(t, err)
	assert.True(t, pHot.Density < p.Density)
	assert.True(t, pHot.Viscosity < p.Viscosity)
}

func TestFluidErrors(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.NewFluid("unobtainium", types.PhaseGas, 1e5, 300)
	assert.True(t, errors.Is(err, ErrUnknownFluid))
	_, err = lib.NewFluid("water", types.PhaseGas, 1e5, 300)
	assert.True(t, errors.Is(err, ErrPhaseUnsupported))
	_, err = lib.NewFluid("methane", types.PhaseLiquid, 1e5, 300)
	assert.True(t, errors.Is(err, ErrPhaseUnsupported))
	_, err = lib.NewFluid("methane", types.PhaseGas, 0, 300)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = lib.PropertiesAt(Fluid{Name: "air", Phase: types.PhaseGas}, -1, 300)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = lib.PropertiesAt(Fluid{Name: "water", Phase: types.PhaseLiquid}, 1e5, 100)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	ph, err := lib.PhaseOf("CO2")
	require.NoError(t, err)
	assert.Equal(t, types.PhaseGas, ph)
	assert.Contains(t, lib.Names(), "carbon dioxide")
	assert.Len(t, lib.Names(), 9)
}

// Oracle is satisfied by the library
var _ Oracle = (*Library)(nil)
