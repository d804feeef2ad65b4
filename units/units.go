// Package units holds the SI and oilfield conversion factors used by the
// solver, and converts configuration values such as "1200 psi" into SI.
package units

const (
	PascalPerPsi       = 6894.757293168361
	MetrePerInch       = 0.0254
	MetrePerFoot       = 0.3048
	MetrePerMile       = 1609.344
	CubicMetrePerSCF   = 0.028316846592
	SecondsPerDay      = 86400.
	RankinePerKelvin   = 1.8
	KelvinAtZeroC      = 273.15
	StandardGravity    = 9.80665
	GasConstant        = 8.314462618 // J/(mol K)
	AirMolecularWeight = 0.0289647   // kg/mol
	WaterDensity       = 999.0       // kg/m³ at 60 °F
)

var (
	AtmosphericPressure       = Psi(14.7)
	StandardPressure          = Psi(14.7)
	StandardTemperature       = Rankine(520)
	StandardAirDensity        = StandardPressure * AirMolecularWeight / (GasConstant * StandardTemperature)
	DefaultAmbientTemperature = Celsius(15)
)

func Psi(v float64) float64        { return v * PascalPerPsi }
func ToPsi(pa float64) float64     { return pa / PascalPerPsi }
func Inches(v float64) float64     { return v * MetrePerInch }
func ToInches(m float64) float64   { return m / MetrePerInch }
func Feet(v float64) float64       { return v * MetrePerFoot }
func ToFeet(m float64) float64     { return m / MetrePerFoot }
func Miles(v float64) float64      { return v * MetrePerMile }
func ToMiles(m float64) float64    { return m / MetrePerMile }
func Celsius(v float64) float64    { return v + KelvinAtZeroC }
func ToCelsius(k float64) float64  { return k - KelvinAtZeroC }
func Fahrenheit(v float64) float64 { return (v-32)/RankinePerKelvin + KelvinAtZeroC }
func ToFahrenheit(k float64) float64 {
	return (k-KelvinAtZeroC)*RankinePerKelvin + 32
}
func Rankine(v float64) float64   { return v / RankinePerKelvin }
func ToRankine(k float64) float64 { return k * RankinePerKelvin }

// ToSCFPerDay converts a standard-condition volumetric rate in m³/s
func ToSCFPerDay(m3PerSecond float64) float64 {
	return m3PerSecond / CubicMetrePerSCF * SecondsPerDay
}

// ToLitresPerMinute converts m³/s
func ToLitresPerMinute(m3PerSecond float64) float64 {
	return m3PerSecond * 1000 * 60
}
