package pipeline

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

// PipeConfig describes a pipe before it is built. Zero values take defaults
// where a default exists.
type PipeConfig struct {
	Name            string
	Material        string
	Length          float64 // m
	Diameter        float64 // m, internal
	Roughness       float64 // m, absolute
	Efficiency      float64 // (0, 1], zero is 1
	Elevation       float64 // m, outlet above inlet is positive
	Direction       types.PipeDirection
	AmbientPressure float64 // Pa, zero is one atmosphere
	FlowType        types.FlowType
	Equation        types.FlowEquation // EquationAuto selects from the operating point
	IgnoreLeaks     bool

	UpstreamPressure    float64 // Pa
	DownstreamPressure  float64 // Pa
	UpstreamTemperature float64 // K, zero is 15 °C
}

type Pipe struct {
	name, material  string
	length          float64
	diameter        float64
	roughness       float64
	efficiency      float64
	elevation       float64
	direction       types.PipeDirection
	ambientPressure float64
	flowType        types.FlowType
	equation        types.FlowEquation
	ignoreLeaks     bool

	leaks      []*Leak
	startValve *Valve
	endValve   *Valve

	// Solved state, written by the flow solver
	upstreamPressure      float64
	downstreamPressure    float64
	upstreamTemperature   float64
	downstreamTemperature float64
	flowRate              float64 // m³/s at the inlet
	massRate              float64 // kg/s entering
	outletMassRate        float64 // kg/s leaving, after leaks
}

func NewPipe(cfg PipeConfig) (p *Pipe, err error) {
	if cfg.Efficiency == 0 {
		cfg.Efficiency = 1
	}
	if cfg.AmbientPressure == 0 {
		cfg.AmbientPressure = units.AtmosphericPressure
	}
	if cfg.UpstreamTemperature == 0 {
		cfg.UpstreamTemperature = units.DefaultAmbientTemperature
	}
	switch {
	case cfg.Length <= 0 || cfg.Diameter <= 0:
		err = fmt.Errorf("%w: pipe length %g m, diameter %g m", ErrInvalidConfig, cfg.Length, cfg.Diameter)
	case cfg.Roughness < 0 || cfg.Roughness >= cfg.Diameter:
		err = fmt.Errorf("%w: pipe roughness %g m", ErrInvalidConfig, cfg.Roughness)
	case cfg.Efficiency < 0 || cfg.Efficiency > 1:
		err = fmt.Errorf("%w: pipe efficiency %g", ErrInvalidConfig, cfg.Efficiency)
	case cfg.AmbientPressure < 0 || cfg.UpstreamPressure < 0 || cfg.DownstreamPressure < 0:
		err = fmt.Errorf("%w: negative pressure", ErrInvalidConfig)
	case cfg.UpstreamTemperature < 0:
		err = fmt.Errorf("%w: pipe temperature %g K", ErrInvalidConfig, cfg.UpstreamTemperature)
	case cfg.DownstreamPressure > cfg.UpstreamPressure:
		err = fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, cfg.UpstreamPressure, cfg.DownstreamPressure)
	}
	if err != nil {
		return
	}
	if cfg.Name == "" {
		cfg.Name = "pipe-" + uuid.NewString()[:8]
	}
	p = &Pipe{
		name:                  cfg.Name,
		material:              cfg.Material,
		length:                cfg.Length,
		diameter:              cfg.Diameter,
		roughness:             cfg.Roughness,
		efficiency:            cfg.Efficiency,
		elevation:             cfg.Elevation,
		direction:             cfg.Direction,
		ambientPressure:       cfg.AmbientPressure,
		flowType:              cfg.FlowType,
		equation:              cfg.Equation,
		ignoreLeaks:           cfg.IgnoreLeaks,
		upstreamPressure:      cfg.UpstreamPressure,
		downstreamPressure:    cfg.DownstreamPressure,
		upstreamTemperature:   cfg.UpstreamTemperature,
		downstreamTemperature: cfg.UpstreamTemperature,
	}
	return
}

func (p *Pipe) Name() string                   { return p.name }
func (p *Pipe) Material() string               { return p.material }
func (p *Pipe) Length() float64                { return p.length }
func (p *Pipe) Diameter() float64              { return p.diameter }
func (p *Pipe) Roughness() float64             { return p.roughness }
func (p *Pipe) Efficiency() float64            { return p.efficiency }
func (p *Pipe) Elevation() float64             { return p.elevation }
func (p *Pipe) Direction() types.PipeDirection { return p.direction }
func (p *Pipe) AmbientPressure() float64       { return p.ambientPressure }
func (p *Pipe) FlowType() types.FlowType       { return p.flowType }
func (p *Pipe) Equation() types.FlowEquation   { return p.equation }
func (p *Pipe) IgnoreLeaks() bool              { return p.ignoreLeaks }

func (p *Pipe) UpstreamPressure() float64      { return p.upstreamPressure }
func (p *Pipe) DownstreamPressure() float64    { return p.downstreamPressure }
func (p *Pipe) UpstreamTemperature() float64   { return p.upstreamTemperature }
func (p *Pipe) DownstreamTemperature() float64 { return p.downstreamTemperature }
func (p *Pipe) MassRate() float64              { return p.massRate }

func (p *Pipe) RelativeRoughness() float64 { return p.roughness / p.diameter }
func (p *Pipe) Area() float64              { return math.Pi * p.diameter * p.diameter / 4 }
func (p *Pipe) Volume() float64            { return p.Area() * p.length }
func (p *Pipe) PressureDrop() float64      { return p.upstreamPressure - p.downstreamPressure }

// FlowRate is the volumetric rate at the inlet, zero behind a closed start valve
func (p *Pipe) FlowRate() float64 {
	if p.IsStartClosed() {
		return 0
	}
	return p.flowRate
}

// OutletMassRate is what the pipe delivers downstream, zero behind a closed
// end valve
func (p *Pipe) OutletMassRate() float64 {
	if p.IsEndClosed() {
		return 0
	}
	return p.outletMassRate
}

// Velocity is the mean inlet velocity
func (p *Pipe) Velocity() float64 {
	return p.FlowRate() / p.Area()
}

func (p *Pipe) SetUpstreamPressure(pressure float64) error {
	if pressure < 0 {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidConfig, pressure)
	}
	if pressure < p.downstreamPressure {
		return fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, pressure, p.downstreamPressure)
	}
	p.upstreamPressure = pressure
	return nil
}

func (p *Pipe) SetDownstreamPressure(pressure float64) error {
	if pressure < 0 {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidConfig, pressure)
	}
	if pressure > p.upstreamPressure {
		return fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, p.upstreamPressure, pressure)
	}
	p.downstreamPressure = pressure
	return nil
}

func (p *Pipe) SetUpstreamTemperature(temperature float64) error {
	if temperature <= 0 {
		return fmt.Errorf("%w: temperature %g K", ErrInvalidConfig, temperature)
	}
	p.upstreamTemperature = temperature
	return nil
}

// setState is the solver's unchecked write of a solved pipe
func (p *Pipe) setState(inlet, outlet FlowState, flowRate float64) {
	p.upstreamPressure, p.upstreamTemperature = inlet.Pressure, inlet.Temperature
	p.downstreamPressure, p.downstreamTemperature = outlet.Pressure, outlet.Temperature
	p.flowRate = flowRate
	p.massRate = inlet.MassFlowRate
	p.outletMassRate = outlet.MassFlowRate
}

// zero marks a pipe as cut off from the source
func (p *Pipe) zero() {
	p.upstreamPressure, p.downstreamPressure = 0, 0
	p.zeroFlow()
}

func (p *Pipe) zeroFlow() {
	p.flowRate, p.massRate, p.outletMassRate = 0, 0, 0
}

// Leaks returns copies, mutate leaks through the pipe or pipeline methods
func (p *Pipe) Leaks() (leaks []*Leak) {
	leaks = make([]*Leak, len(p.leaks))
	for i, lk := range p.leaks {
		leaks[i] = lk.Clone()
	}
	return
}

func (p *Pipe) activeLeaks() (active []*Leak) {
	for _, lk := range p.leaks {
		if lk.Active {
			active = append(active, lk)
		}
	}
	return
}

func (p *Pipe) HasActiveLeaks() bool { return len(p.activeLeaks()) > 0 }

// IsLeaking is true when an active leak is losing fluid
func (p *Pipe) IsLeaking() bool {
	return !p.ignoreLeaks && p.HasActiveLeaks() && p.FlowRate() > 0
}

// AddLeak attaches a copy of lk
func (p *Pipe) AddLeak(lk *Leak) error {
	if lk == nil {
		return fmt.Errorf("%w: nil leak", ErrInvalidConfig)
	}
	if err := lk.validate(); err != nil {
		return err
	}
	if lk.Area() >= p.Area() {
		return fmt.Errorf("%w: leak %s area %g m² is not smaller than pipe %s area %g m²",
			ErrInvalidConfig, lk.Name, lk.Area(), p.name, p.Area())
	}
	p.leaks = append(p.leaks, lk.Clone())
	return nil
}

func (p *Pipe) RemoveLeak(index int) (lk *Leak, err error) {
	if index < 0 || index >= len(p.leaks) {
		err = fmt.Errorf("%w: leak %d of %d on pipe %s", ErrIndexOutOfRange, index, len(p.leaks), p.name)
		return
	}
	lk = p.leaks[index]
	p.leaks = append(p.leaks[:index:index], p.leaks[index+1:]...)
	return
}

func (p *Pipe) ClearLeaks() { p.leaks = nil }

func (p *Pipe) SetLeakActive(index int, active bool) error {
	if index < 0 || index >= len(p.leaks) {
		return fmt.Errorf("%w: leak %d of %d on pipe %s", ErrIndexOutOfRange, index, len(p.leaks), p.name)
	}
	p.leaks[index].Active = active
	return nil
}

func (p *Pipe) valveSlot(position types.ValvePosition) **Valve {
	if position == types.ValveEnd {
		return &p.endValve
	}
	return &p.startValve
}

// Valve returns a copy of the valve at position
func (p *Pipe) Valve(position types.ValvePosition) (v *Valve, err error) {
	if v = *p.valveSlot(position); v == nil {
		err = fmt.Errorf("%w: %s of pipe %s", ErrNoValve, position, p.name)
		return
	}
	v = v.Clone()
	return
}

func (p *Pipe) HasValve(position types.ValvePosition) bool { return *p.valveSlot(position) != nil }
func (p *Pipe) HasValves() bool                            { return p.startValve != nil || p.endValve != nil }
func (p *Pipe) IsStartClosed() bool                        { return p.startValve != nil && p.startValve.IsClosed() }
func (p *Pipe) IsEndClosed() bool                          { return p.endValve != nil && p.endValve.IsClosed() }

// AddValve installs a copy of v at its position, which must be free
func (p *Pipe) AddValve(v *Valve) error {
	if v == nil {
		return fmt.Errorf("%w: nil valve", ErrInvalidConfig)
	}
	slot := p.valveSlot(v.Position)
	if *slot != nil {
		return fmt.Errorf("%w: pipe %s already has a %s valve", ErrInvalidConfig, p.name, v.Position)
	}
	*slot = v.Clone()
	return nil
}

func (p *Pipe) RemoveValve(position types.ValvePosition) (v *Valve, err error) {
	slot := p.valveSlot(position)
	if v = *slot; v == nil {
		err = fmt.Errorf("%w: %s of pipe %s", ErrNoValve, position, p.name)
		return
	}
	*slot = nil
	return
}

func (p *Pipe) OpenValve(position types.ValvePosition) error {
	return p.operateValve(position, (*Valve).Open)
}

func (p *Pipe) CloseValve(position types.ValvePosition) error {
	return p.operateValve(position, (*Valve).Close)
}

func (p *Pipe) ToggleValve(position types.ValvePosition) error {
	return p.operateValve(position, (*Valve).Toggle)
}

func (p *Pipe) operateValve(position types.ValvePosition, op func(*Valve)) error {
	v := *p.valveSlot(position)
	if v == nil {
		return fmt.Errorf("%w: %s of pipe %s", ErrNoValve, position, p.name)
	}
	op(v)
	return nil
}

// Clone is a deep copy, leaks and valves included
func (p *Pipe) Clone() *Pipe {
	c := *p
	c.leaks = make([]*Leak, len(p.leaks))
	for i, lk := range p.leaks {
		c.leaks[i] = lk.Clone()
	}
	if p.startValve != nil {
		c.startValve = p.startValve.Clone()
	}
	if p.endValve != nil {
		c.endValve = p.endValve.Clone()
	}
	return &c
}

func (p *Pipe) String() string {
	return fmt.Sprintf("%s: %.4g m x %.4g m %s, %.1f -> %.1f psi, %.4g kg/s",
		p.name, p.length, p.diameter, p.direction,
		units.ToPsi(p.upstreamPressure), units.ToPsi(p.downstreamPressure), p.massRate)
}
