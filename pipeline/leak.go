package pipeline

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
	"github.com/notargets/gopipe/utils"
)

const (
	DefaultDischargeCoefficient = 0.6
	criticalPressureRatio       = 0.528
)

// Leak is an orifice in a pipe wall at a fractional location along the pipe
type Leak struct {
	Name                 string
	Location             float64 // fraction of the pipe length from the inlet
	Diameter             float64 // m
	DischargeCoefficient float64
	Active               bool
}

// NewLeak builds an active leak. An empty name gets a generated one, a zero
// discharge coefficient takes the default.
func NewLeak(name string, location, diameter, dischargeCoefficient float64) (lk *Leak, err error) {
	if dischargeCoefficient == 0 {
		dischargeCoefficient = DefaultDischargeCoefficient
	}
	if name == "" {
		name = "leak-" + uuid.NewString()[:8]
	}
	leak := &Leak{
		Name:                 name,
		Location:             location,
		Diameter:             diameter,
		DischargeCoefficient: dischargeCoefficient,
		Active:               true,
	}
	if err = leak.validate(); err != nil {
		return
	}
	lk = leak
	return
}

func (lk *Leak) validate() error {
	switch {
	case lk.Diameter <= 0 || math.IsNaN(lk.Diameter):
		return fmt.Errorf("%w: leak %s diameter %g m", ErrInvalidConfig, lk.Name, lk.Diameter)
	case !(lk.Location >= 0 && lk.Location <= 1):
		return fmt.Errorf("%w: leak %s location %g", ErrInvalidConfig, lk.Name, lk.Location)
	case !(lk.DischargeCoefficient >= 0.1 && lk.DischargeCoefficient <= 1):
		return fmt.Errorf("%w: leak %s discharge coefficient %g", ErrInvalidConfig, lk.Name, lk.DischargeCoefficient)
	}
	return nil
}

// NewLeakFromArea sizes the orifice from its opening area in m²
func NewLeakFromArea(name string, location, area, dischargeCoefficient float64) (*Leak, error) {
	if area <= 0 {
		return nil, fmt.Errorf("%w: leak area %g m²", ErrInvalidConfig, area)
	}
	return NewLeak(name, location, math.Sqrt(4*area/math.Pi), dischargeCoefficient)
}

func (lk *Leak) Area() float64 {
	return math.Pi * lk.Diameter * lk.Diameter / 4
}

// ComputeRate is the orifice volumetric rate Cd·A·sqrt(2ΔP/ρ) in m³/s
func (lk *Leak) ComputeRate(pipePressure, ambientPressure, density float64) float64 {
	dp := pipePressure - ambientPressure
	if !lk.Active || dp <= 0 || density <= 0 {
		return 0
	}
	return lk.DischargeCoefficient * lk.Area() * math.Sqrt(2*dp/density)
}

// ComputeChokedRate limits the driving pressure difference to the critical
// ratio, beyond which a gas jet is sonic and the rate stops growing
func (lk *Leak) ComputeChokedRate(pipePressure, ambientPressure, density float64) float64 {
	ambient := math.Max(ambientPressure, pipePressure*criticalPressureRatio)
	return lk.ComputeRate(pipePressure, ambient, density)
}

// Severity grades a leak on its size (60 %, saturating at 50 mm) and its rate
// (40 %, saturating at 1000 L/min)
func (lk *Leak) Severity(flowRate float64) types.LeakSeverity {
	var (
		diameterScore = utils.Clamp(lk.Diameter*1000/50, 0, 1) * 60
		flowScore     = utils.Clamp(units.ToLitresPerMinute(flowRate)/1000, 0, 1) * 40
		score         = diameterScore + flowScore
	)
	switch {
	case score < 10:
		return types.SeverityPinhole
	case score < 25:
		return types.SeveritySmall
	case score < 50:
		return types.SeverityModerate
	case score < 75:
		return types.SeverityLarge
	}
	return types.SeverityCritical
}

func (lk *Leak) Clone() *Leak {
	c := *lk
	return &c
}

func (lk *Leak) String() string {
	state := "active"
	if !lk.Active {
		state = "inactive"
	}
	return fmt.Sprintf("%s at %.3g, %.4g mm, Cd %.2g, %s",
		lk.Name, lk.Location, lk.Diameter*1000, lk.DischargeCoefficient, state)
}
