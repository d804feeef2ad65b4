package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	assert.InDelta(t, 101352.93, Psi(14.7), 0.01)
	assert.InDelta(t, 14.7, ToPsi(Psi(14.7)), 1e-12)
	assert.InDelta(t, 293.15, Celsius(20), 1e-12)
	assert.InDelta(t, 288.7056, Fahrenheit(60), 1e-3)
	assert.InDelta(t, 60, ToFahrenheit(Fahrenheit(60)), 1e-9)
	assert.InDelta(t, 520, ToRankine(Rankine(520)), 1e-9)
	assert.InDelta(t, 12, ToInches(Feet(1)), 1e-12)
	assert.InDelta(t, 5280, ToFeet(Miles(1)), 1e-9)
	assert.InDelta(t, 1.2222, StandardAirDensity, 1e-3)
	assert.InDelta(t, 86400/CubicMetrePerSCF, ToSCFPerDay(1), 1e-6)
	assert.InDelta(t, 60, ToLitresPerMinute(1e-3), 1e-12)
}

func TestQuantityParsing(t *testing.T) {
	{ // Bare numbers are SI
		v, err := ToPressure(101325.)
		require.NoError(t, err)
		assert.Equal(t, 101325., v)
		v, err = ToLength(10)
		require.NoError(t, err)
		assert.Equal(t, 10., v)
		v, err = ToLength(nil)
		require.NoError(t, err)
		assert.Equal(t, 0., v)
	}
	{ // Unit suffixes
		v, err := ToPressure("1200 psi")
		require.NoError(t, err)
		assert.InDelta(t, Psi(1200), v, 1e-6)
		v, err = ToPressure("2 bar")
		require.NoError(t, err)
		assert.InDelta(t, 2e5, v, 1e-9)
		v, err = ToLength("0.3m")
		require.NoError(t, err)
		assert.InDelta(t, 0.3, v, 1e-12)
		v, err = ToLength("12 in")
		require.NoError(t, err)
		assert.InDelta(t, 0.3048, v, 1e-12)
		v, err = ToTemperature("20 degC")
		require.NoError(t, err)
		assert.InDelta(t, 293.15, v, 1e-9)
		v, err = ToTemperature("60 F")
		require.NoError(t, err)
		assert.InDelta(t, Fahrenheit(60), v, 1e-9)
		v, err = ToMassRate("3600 kg/h")
		require.NoError(t, err)
		assert.InDelta(t, 1, v, 1e-12)
		v, err = ToPressure("1e5 Pa")
		require.NoError(t, err)
		assert.InDelta(t, 1e5, v, 1e-9)
	}
	{ // Failures
		_, err := ToPressure("12 furlongs")
		assert.True(t, errors.Is(err, ErrUnknownUnit))
		_, err = ToLength("ten m")
		assert.Error(t, err)
		_, err = ToLength("1 2 3")
		assert.Error(t, err)
	}
}
