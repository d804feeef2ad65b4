package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Direction compatibility
		assert.True(t, East.Opposes(West))
		assert.True(t, West.Opposes(East))
		assert.True(t, North.Opposes(South))
		assert.False(t, East.Opposes(East))
		assert.False(t, East.Opposes(North))
		assert.True(t, DirectionsCompatible(East))
		assert.True(t, DirectionsCompatible(East, North, East))
		assert.False(t, DirectionsCompatible(East, North, West))
		assert.False(t, DirectionsCompatible(South, North))
	}
	{ // Name lookups
		ft, err := ParseFlowType(" Incompressible ")
		require.NoError(t, err)
		assert.Equal(t, FlowIncompressible, ft)
		_, err = ParseFlowType("sonic")
		assert.Error(t, err)
		assert.Panics(t, func() { NewFlowType("sonic") })

		fe, err := ParseFlowEquation("Modified Panhandle A")
		require.NoError(t, err)
		assert.Equal(t, ModifiedPanhandleA, fe)
		fe, err = ParseFlowEquation("")
		require.NoError(t, err)
		assert.Equal(t, EquationAuto, fe)

		assert.Equal(t, West, NewDirection("W"))
		vp, err := ParseValvePosition("end")
		require.NoError(t, err)
		assert.Equal(t, ValveEnd, vp)
		_, err = ParseValvePosition("middle")
		assert.Error(t, err)
		ph, err := ParsePhase("liquid")
		require.NoError(t, err)
		assert.Equal(t, PhaseLiquid, ph)
	}
	{ // Printing
		assert.Equal(t, "Weymouth", Weymouth.String())
		assert.Equal(t, "north", North.String())
		assert.Equal(t, "closed", ValveClosed.String())
		assert.Equal(t, "critical", SeverityCritical.String())
		assert.Equal(t, "FlowType(9)", FlowType(9).String())
	}
}
