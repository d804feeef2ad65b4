// Package pipeline models pipes in series, their leaks and valves, and the
// solver that finds the steady flow between two boundary pressures.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/gopipe/fluids"
	"github.com/notargets/gopipe/logger"
	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
	"github.com/notargets/gopipe/utils"
)

const DefaultConnectorLength = 0.1 // m

type Options struct {
	Name                string
	UpstreamPressure    float64 // Pa, zero takes the first pipe's
	DownstreamPressure  float64 // Pa, zero takes the last pipe's
	UpstreamTemperature float64 // K, zero uses the fluid temperature
	ConnectorLength     float64 // m
	FlowType            types.FlowType
	IgnoreLeaks         bool
	Tolerance           float64 // Pa, on the downstream pressure
	MaxIterations       int
	CacheSize           int
	Oracle              fluids.Oracle    // nil is fluids.Default
	RootFinder          utils.RootFinder // nil is a Brent solver per pipeline
}

func DefaultOptions() Options {
	return Options{
		ConnectorLength: DefaultConnectorLength,
		FlowType:        types.FlowCompressible,
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		CacheSize:       DefaultCacheSize,
	}
}

// Pipeline owns its pipes, which are copies of those it was given, and the
// solver that keeps their state current. Every mutator validates first and
// leaves the pipeline unchanged when it returns an error, otherwise it
// re-solves.
type Pipeline struct {
	name                string
	pipes               []*Pipe
	fluid               *fluids.Fluid
	upstreamPressure    float64
	downstreamPressure  float64
	upstreamTemperature float64
	connectorLength     float64
	flowType            types.FlowType
	ignoreLeaks         bool
	opts                Options
	solver              *FlowSolver
	converged           bool
}

func NewPipeline(fluid *fluids.Fluid, pipes []*Pipe, opts Options) (pl *Pipeline, err error) {
	if opts.ConnectorLength == 0 {
		opts.ConnectorLength = DefaultConnectorLength
	}
	if opts.Oracle == nil {
		opts.Oracle = fluids.Default
	}
	if opts.Name == "" {
		opts.Name = "pipeline-" + uuid.NewString()[:8]
	}
	switch {
	case opts.ConnectorLength < 0:
		err = fmt.Errorf("%w: connector length %g m", ErrInvalidConfig, opts.ConnectorLength)
		return
	case opts.UpstreamTemperature < 0:
		err = fmt.Errorf("%w: upstream temperature %g K", ErrInvalidConfig, opts.UpstreamTemperature)
		return
	}
	for i, p := range pipes {
		if p == nil {
			err = fmt.Errorf("%w: pipe %d is nil", ErrInvalidConfig, i)
			return
		}
	}
	if err = checkConnections(pipes); err != nil {
		return
	}
	pl = &Pipeline{
		name:                opts.Name,
		fluid:               fluid,
		upstreamPressure:    opts.UpstreamPressure,
		downstreamPressure:  opts.DownstreamPressure,
		upstreamTemperature: opts.UpstreamTemperature,
		connectorLength:     opts.ConnectorLength,
		flowType:            opts.FlowType,
		ignoreLeaks:         opts.IgnoreLeaks,
		opts:                opts,
	}
	for _, p := range pipes {
		pl.pipes = append(pl.pipes, pl.adopt(p))
	}
	if len(pl.pipes) != 0 {
		if pl.upstreamPressure == 0 {
			pl.upstreamPressure = pl.pipes[0].upstreamPressure
		}
		if pl.downstreamPressure == 0 {
			pl.downstreamPressure = pl.pipes[len(pl.pipes)-1].downstreamPressure
		}
	}
	switch {
	case pl.upstreamPressure < 0 || pl.downstreamPressure < 0:
		err = fmt.Errorf("%w: negative boundary pressure", ErrInvalidConfig)
		return nil, err
	case pl.upstreamPressure < pl.downstreamPressure:
		err = fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, pl.upstreamPressure, pl.downstreamPressure)
		return nil, err
	}
	rootFinder := opts.RootFinder
	if rootFinder == nil {
		rootFinder = utils.NewBrent()
	}
	if pl.solver, err = newFlowSolver(pl, opts.Oracle, rootFinder, opts.CacheSize); err != nil {
		return nil, err
	}
	pl.Sync()
	return
}

// adopt copies p and applies the pipeline-wide settings to the copy
func (pl *Pipeline) adopt(p *Pipe) *Pipe {
	c := p.Clone()
	c.flowType = pl.flowType
	return c
}

func checkConnections(pipes []*Pipe) error {
	for i := 1; i < len(pipes); i++ {
		if !types.DirectionsCompatible(pipes[i-1].direction, pipes[i].direction) {
			return fmt.Errorf("%w: %s (%s) cannot feed %s (%s)", ErrConnection,
				pipes[i-1].name, pipes[i-1].direction, pipes[i].name, pipes[i].direction)
		}
	}
	return nil
}

func (pl *Pipeline) checkIndex(index int) error {
	if index < 0 || index >= len(pl.pipes) {
		return fmt.Errorf("%w: pipe %d of %d", ErrIndexOutOfRange, index, len(pl.pipes))
	}
	return nil
}

// Sync re-solves the pipeline with the configured tolerance and iteration
// limit and records whether it converged
func (pl *Pipeline) Sync() bool {
	pl.converged = pl.solver.SolvePipeline(pl.opts.Tolerance, pl.opts.MaxIterations)
	if !pl.converged {
		logger.Logger.Warnw("pipeline did not converge", "pipeline", pl.name)
	}
	return pl.converged
}

// invalidate drops cached segments and properties and re-solves
func (pl *Pipeline) invalidate() {
	pl.solver.ClearCache()
	pl.Sync()
}

func (pl *Pipeline) zeroFlow() {
	for _, p := range pl.pipes {
		p.zeroFlow()
	}
}

// AddPipe inserts a copy of p before index, or appends it when index is -1
// or the pipe count
func (pl *Pipeline) AddPipe(p *Pipe, index int) error {
	if p == nil {
		return fmt.Errorf("%w: nil pipe", ErrInvalidConfig)
	}
	if index == -1 {
		index = len(pl.pipes)
	}
	if index < 0 || index > len(pl.pipes) {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, index, len(pl.pipes))
	}
	pipes := make([]*Pipe, 0, len(pl.pipes)+1)
	pipes = append(pipes, pl.pipes[:index]...)
	pipes = append(pipes, pl.adopt(p))
	pipes = append(pipes, pl.pipes[index:]...)
	if err := checkConnections(pipes); err != nil {
		return err
	}
	pl.pipes = pipes
	logger.Logger.Infow("pipe added", "pipeline", pl.name, "pipe", p.name, "index", index)
	pl.invalidate()
	return nil
}

// RemovePipe takes out the pipe at index, provided its neighbours can join
func (pl *Pipeline) RemovePipe(index int) (removed *Pipe, err error) {
	if err = pl.checkIndex(index); err != nil {
		return
	}
	pipes := make([]*Pipe, 0, len(pl.pipes)-1)
	pipes = append(pipes, pl.pipes[:index]...)
	pipes = append(pipes, pl.pipes[index+1:]...)
	if err = checkConnections(pipes); err != nil {
		return
	}
	removed = pl.pipes[index]
	pl.pipes = pipes
	logger.Logger.Infow("pipe removed", "pipeline", pl.name, "pipe", removed.name, "index", index)
	pl.invalidate()
	return
}

func (pl *Pipeline) AddLeak(pipeIndex int, lk *Leak) error {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return err
	}
	if err := pl.pipes[pipeIndex].AddLeak(lk); err != nil {
		return err
	}
	pl.invalidate()
	return nil
}

func (pl *Pipeline) RemoveLeak(pipeIndex, leakIndex int) (lk *Leak, err error) {
	if err = pl.checkIndex(pipeIndex); err != nil {
		return
	}
	if lk, err = pl.pipes[pipeIndex].RemoveLeak(leakIndex); err != nil {
		return
	}
	pl.invalidate()
	return
}

// ClearLeaks removes every leak from every pipe
func (pl *Pipeline) ClearLeaks() {
	for _, p := range pl.pipes {
		p.ClearLeaks()
	}
	pl.invalidate()
}

func (pl *Pipeline) SetLeakActive(pipeIndex, leakIndex int, active bool) error {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return err
	}
	if err := pl.pipes[pipeIndex].SetLeakActive(leakIndex, active); err != nil {
		return err
	}
	pl.invalidate()
	return nil
}

func (pl *Pipeline) AddValve(pipeIndex int, v *Valve) error {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return err
	}
	if err := pl.pipes[pipeIndex].AddValve(v); err != nil {
		return err
	}
	pl.Sync()
	return nil
}

func (pl *Pipeline) RemoveValve(pipeIndex int, position types.ValvePosition) (v *Valve, err error) {
	if err = pl.checkIndex(pipeIndex); err != nil {
		return
	}
	if v, err = pl.pipes[pipeIndex].RemoveValve(position); err != nil {
		return
	}
	pl.Sync()
	return
}

func (pl *Pipeline) OpenValve(pipeIndex int, position types.ValvePosition) error {
	return pl.operateValve(pipeIndex, position, (*Pipe).OpenValve)
}

func (pl *Pipeline) CloseValve(pipeIndex int, position types.ValvePosition) error {
	return pl.operateValve(pipeIndex, position, (*Pipe).CloseValve)
}

func (pl *Pipeline) ToggleValve(pipeIndex int, position types.ValvePosition) error {
	return pl.operateValve(pipeIndex, position, (*Pipe).ToggleValve)
}

func (pl *Pipeline) operateValve(pipeIndex int, position types.ValvePosition,
	op func(*Pipe, types.ValvePosition) error) error {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return err
	}
	if err := op(pl.pipes[pipeIndex], position); err != nil {
		return err
	}
	pl.Sync()
	return nil
}

func (pl *Pipeline) OpenAllValves() {
	pl.eachValve((*Valve).Open)
}

func (pl *Pipeline) CloseAllValves() {
	pl.eachValve((*Valve).Close)
}

func (pl *Pipeline) eachValve(op func(*Valve)) {
	for _, p := range pl.pipes {
		for _, v := range []*Valve{p.startValve, p.endValve} {
			if v != nil {
				op(v)
			}
		}
	}
	pl.Sync()
}

func (pl *Pipeline) SetUpstreamPressure(pressure float64) error {
	if pressure < 0 {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidConfig, pressure)
	}
	if pressure < pl.downstreamPressure {
		return fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, pressure, pl.downstreamPressure)
	}
	pl.upstreamPressure = pressure
	pl.Sync()
	return nil
}

func (pl *Pipeline) SetDownstreamPressure(pressure float64) error {
	if pressure < 0 {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidConfig, pressure)
	}
	if pressure > pl.upstreamPressure {
		return fmt.Errorf("%w: %g Pa < %g Pa", ErrPressureOrder, pl.upstreamPressure, pressure)
	}
	pl.downstreamPressure = pressure
	pl.Sync()
	return nil
}

// SetUpstreamTemperature overrides the fluid temperature at the inlet
func (pl *Pipeline) SetUpstreamTemperature(temperature float64) error {
	if pl.fluid == nil {
		return ErrNoFluid
	}
	if temperature <= 0 {
		return fmt.Errorf("%w: temperature %g K", ErrInvalidConfig, temperature)
	}
	pl.upstreamTemperature = temperature
	pl.Sync()
	return nil
}

func (pl *Pipeline) SetFluid(fluid *fluids.Fluid) error {
	if fluid == nil {
		return ErrNoFluid
	}
	pl.fluid = fluid
	pl.invalidate()
	return nil
}

func (pl *Pipeline) SetFlowType(flowType types.FlowType) {
	pl.flowType = flowType
	for _, p := range pl.pipes {
		p.flowType = flowType
	}
	pl.invalidate()
}

func (pl *Pipeline) SetIgnoreLeaks(ignore bool) {
	pl.ignoreLeaks = ignore
	pl.invalidate()
}

func (pl *Pipeline) SetConnectorLength(length float64) error {
	if length <= 0 {
		return fmt.Errorf("%w: connector length %g m", ErrInvalidConfig, length)
	}
	pl.connectorLength = length
	pl.invalidate()
	return nil
}

func (pl *Pipeline) Name() string                { return pl.name }
func (pl *Pipeline) Len() int                    { return len(pl.pipes) }
func (pl *Pipeline) Fluid() *fluids.Fluid        { return pl.fluid }
func (pl *Pipeline) UpstreamPressure() float64   { return pl.upstreamPressure }
func (pl *Pipeline) DownstreamPressure() float64 { return pl.downstreamPressure }
func (pl *Pipeline) PressureDrop() float64       { return pl.upstreamPressure - pl.downstreamPressure }
func (pl *Pipeline) ConnectorLength() float64    { return pl.connectorLength }
func (pl *Pipeline) FlowType() types.FlowType    { return pl.flowType }
func (pl *Pipeline) IgnoreLeaks() bool           { return pl.ignoreLeaks }
func (pl *Pipeline) Converged() bool             { return pl.converged }
func (pl *Pipeline) Solver() *FlowSolver         { return pl.solver }

// UpstreamTemperature is the configured inlet temperature, else the fluid's
func (pl *Pipeline) UpstreamTemperature() float64 {
	if pl.upstreamTemperature > 0 || pl.fluid == nil {
		return pl.upstreamTemperature
	}
	return pl.fluid.Temperature
}

func (pl *Pipeline) DownstreamTemperature() float64 {
	if len(pl.pipes) == 0 {
		return 0
	}
	return pl.pipes[len(pl.pipes)-1].downstreamTemperature
}

// Pipes returns copies of the pipes in flow order
func (pl *Pipeline) Pipes() (pipes []*Pipe) {
	pipes = make([]*Pipe, len(pl.pipes))
	for i, p := range pl.pipes {
		pipes[i] = p.Clone()
	}
	return
}

// Pipe returns a copy of the pipe at index
func (pl *Pipeline) Pipe(index int) (*Pipe, error) {
	if err := pl.checkIndex(index); err != nil {
		return nil, err
	}
	return pl.pipes[index].Clone(), nil
}

func (pl *Pipeline) InletFlowRate() float64 {
	if len(pl.pipes) == 0 {
		return 0
	}
	return pl.pipes[0].FlowRate()
}

func (pl *Pipeline) InletMassRate() float64 {
	if len(pl.pipes) == 0 {
		return 0
	}
	return pl.pipes[0].massRate
}

func (pl *Pipeline) OutletMassRate() float64 {
	if len(pl.pipes) == 0 {
		return 0
	}
	return pl.pipes[len(pl.pipes)-1].OutletMassRate()
}

// OutletFlowRate is the delivered volumetric rate at the outlet state
func (pl *Pipeline) OutletFlowRate() float64 {
	if len(pl.pipes) == 0 {
		return 0
	}
	last := pl.pipes[len(pl.pipes)-1]
	mass := last.OutletMassRate()
	if mass <= 0 {
		return 0
	}
	props, err := pl.solver.Properties(last.downstreamPressure, last.downstreamTemperature)
	if err != nil {
		return 0
	}
	return mass / props.Density
}

func (pl *Pipeline) HasValves() bool {
	for _, p := range pl.pipes {
		if p.HasValves() {
			return true
		}
	}
	return false
}

func (pl *Pipeline) IsLeaking() bool {
	if pl.ignoreLeaks {
		return false
	}
	for _, p := range pl.pipes {
		if p.IsLeaking() {
			return true
		}
	}
	return false
}

// IsConnected reports whether the pipes at i and j could feed one another
func (pl *Pipeline) IsConnected(i, j int) bool {
	if pl.checkIndex(i) != nil || pl.checkIndex(j) != nil {
		return false
	}
	return types.DirectionsCompatible(pl.pipes[i].direction, pl.pipes[j].direction)
}

// EstimatePressureAt is the pressure at a fractional location of a pipe
func (pl *Pipeline) EstimatePressureAt(pipeIndex int, location float64) (float64, error) {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return 0, err
	}
	return pl.solver.EstimatePressureAt(pl.pipes[pipeIndex], location)
}

// PipeLeakRate is the volumetric loss of the active leaks of a pipe, in m³/s
func (pl *Pipeline) PipeLeakRate(pipeIndex int) (float64, error) {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return 0, err
	}
	q, _ := pl.solver.leakRates(pl.pipes[pipeIndex])
	return q, nil
}

// PipeLeakMassRate is the mass loss of the active leaks of a pipe, in kg/s
func (pl *Pipeline) PipeLeakMassRate(pipeIndex int) (float64, error) {
	if err := pl.checkIndex(pipeIndex); err != nil {
		return 0, err
	}
	_, m := pl.solver.leakRates(pl.pipes[pipeIndex])
	return m, nil
}

func (pl *Pipeline) LeakRate() (total float64) {
	for _, p := range pl.pipes {
		q, _ := pl.solver.leakRates(p)
		total += q
	}
	return
}

// ReynoldsNumber of a pipe at its inlet state
func (pl *Pipeline) ReynoldsNumber(pipeIndex int) (Re float64, err error) {
	if err = pl.checkIndex(pipeIndex); err != nil {
		return
	}
	p := pl.pipes[pipeIndex]
	if p.FlowRate() <= 0 {
		return
	}
	props, err := pl.solver.Properties(p.upstreamPressure, p.upstreamTemperature)
	if err != nil {
		return
	}
	return reynolds(p, props), nil
}

// Clone is an independent pipeline with its own solver and caches, solved
func (pl *Pipeline) Clone() (*Pipeline, error) {
	opts := pl.opts
	opts.Name = pl.name
	opts.UpstreamPressure = pl.upstreamPressure
	opts.DownstreamPressure = pl.downstreamPressure
	opts.UpstreamTemperature = pl.upstreamTemperature
	opts.ConnectorLength = pl.connectorLength
	opts.FlowType = pl.flowType
	opts.IgnoreLeaks = pl.ignoreLeaks
	var fluid *fluids.Fluid
	if pl.fluid != nil {
		f := *pl.fluid
		fluid = &f
	}
	return NewPipeline(fluid, pl.pipes, opts)
}

func (pl *Pipeline) String() string {
	return fmt.Sprintf("%s: %d pipes, %.1f -> %.1f psi, %.6g kg/s, converged %v",
		pl.name, len(pl.pipes), units.ToPsi(pl.upstreamPressure), units.ToPsi(pl.downstreamPressure),
		pl.InletMassRate(), pl.converged)
}
