package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

var ErrUnknownUnit = errors.New("units: unknown unit")

// conversion maps a value in a named unit to SI as scale*v + offset
type conversion struct {
	scale, offset float64
}

var pressureUnits = map[string]conversion{
	"pa":   {1, 0},
	"kpa":  {1e3, 0},
	"mpa":  {1e6, 0},
	"bar":  {1e5, 0},
	"atm":  {101325, 0},
	"psi":  {PascalPerPsi, 0},
	"psia": {PascalPerPsi, 0},
}

var lengthUnits = map[string]conversion{
	"m":      {1, 0},
	"mm":     {1e-3, 0},
	"cm":     {1e-2, 0},
	"km":     {1e3, 0},
	"in":     {MetrePerInch, 0},
	"inch":   {MetrePerInch, 0},
	"inches": {MetrePerInch, 0},
	"ft":     {MetrePerFoot, 0},
	"feet":   {MetrePerFoot, 0},
	"mi":     {MetrePerMile, 0},
	"mile":   {MetrePerMile, 0},
	"miles":  {MetrePerMile, 0},
}

var temperatureUnits = map[string]conversion{
	"k":    {1, 0},
	"c":    {1, KelvinAtZeroC},
	"degc": {1, KelvinAtZeroC},
	"°c":   {1, KelvinAtZeroC},
	"f":    {1 / RankinePerKelvin, KelvinAtZeroC - 32/RankinePerKelvin},
	"degf": {1 / RankinePerKelvin, KelvinAtZeroC - 32/RankinePerKelvin},
	"°f":   {1 / RankinePerKelvin, KelvinAtZeroC - 32/RankinePerKelvin},
	"r":    {1 / RankinePerKelvin, 0},
	"degr": {1 / RankinePerKelvin, 0},
}

var massRateUnits = map[string]conversion{
	"kg/s":  {1, 0},
	"kg/h":  {1. / 3600, 0},
	"lb/s":  {0.45359237, 0},
	"lbm/s": {0.45359237, 0},
}

// ToPressure converts v to Pa. A bare number is taken as Pa, a string may
// carry a unit suffix such as "1200 psi".
func ToPressure(v interface{}) (float64, error) {
	return convert(v, pressureUnits, "pressure")
}

// ToLength converts v to m
func ToLength(v interface{}) (float64, error) {
	return convert(v, lengthUnits, "length")
}

// ToTemperature converts v to K
func ToTemperature(v interface{}) (float64, error) {
	return convert(v, temperatureUnits, "temperature")
}

// ToMassRate converts v to kg/s
func ToMassRate(v interface{}) (float64, error) {
	return convert(v, massRateUnits, "mass rate")
}

func convert(v interface{}, table map[string]conversion, dimension string) (si float64, err error) {
	if v == nil {
		return 0, nil
	}
	s, isString := v.(string)
	if !isString {
		return cast.ToFloat64E(v)
	}
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return 0, nil
	case 1:
		// Allow a suffix glued to the number, "10m" or "0.3m"
		num, unit := splitNumber(fields[0])
		fields = []string{num}
		if unit != "" {
			fields = append(fields, unit)
		}
	case 2:
	default:
		return 0, fmt.Errorf("unable to read %s %q", dimension, s)
	}
	var value float64
	if value, err = cast.ToFloat64E(fields[0]); err != nil {
		return 0, fmt.Errorf("unable to read %s %q: %w", dimension, s, err)
	}
	if len(fields) == 1 {
		return value, nil
	}
	c, ok := table[strings.ToLower(fields[1])]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a %s unit", ErrUnknownUnit, fields[1], dimension)
	}
	return c.scale*value + c.offset, nil
}

func splitNumber(s string) (num, unit string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' ||
			((c == 'e' || c == 'E') && i > 0 && i+1 < len(s) && (s[i+1] >= '0' && s[i+1] <= '9' || s[i+1] == '-' || s[i+1] == '+')) {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}
