package pipeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/gopipe/correlations"
	"github.com/notargets/gopipe/fluids"
	"github.com/notargets/gopipe/logger"
	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
	"github.com/notargets/gopipe/utils"
)

const (
	DefaultTolerance     = 100. // Pa
	DefaultMaxIterations = 100

	minMassFlow     = 0.001 // kg/s
	bracketAttempts = 6

	connectorRoughness      = 1e-4
	taperRoughness          = 1e-6
	taperAngleThreshold     = 15. // degrees
	straightConnectorLimit  = 0.02
	elbowEfficiencyFraction = 0.95
)

// FlowSolver finds the steady mass flow through a pipeline and writes the
// resulting state into its pipes. It belongs to one Pipeline and is not safe
// for concurrent use.
type FlowSolver struct {
	pipeline   *Pipeline
	properties *PropertyCache
	segments   *segmentCache
	rootFinder utils.RootFinder

	MassFlowRate float64 // converged inlet mass flow of the last solve, kg/s
	Evaluations  int     // objective evaluations of the last solve
}

func newFlowSolver(pl *Pipeline, oracle fluids.Oracle, rootFinder utils.RootFinder, cacheSize int) (fs *FlowSolver, err error) {
	fs = &FlowSolver{pipeline: pl, rootFinder: rootFinder}
	if fs.properties, err = NewPropertyCache(oracle, cacheSize); err != nil {
		return
	}
	fs.segments, err = newSegmentCache(cacheSize)
	return
}

func (fs *FlowSolver) ClearCache() {
	fs.properties.Purge()
	fs.segments.purge()
}

// Properties of the pipeline fluid at a state, through the cache
func (fs *FlowSolver) Properties(pressure, temperature float64) (*fluids.Properties, error) {
	if fs.pipeline.fluid == nil {
		return nil, ErrNoFluid
	}
	return fs.properties.Get(fs.pipeline.fluid, pressure, temperature)
}

func (fs *FlowSolver) ignoresLeaks(p *Pipe) bool {
	return p.ignoreLeaks || fs.pipeline.ignoreLeaks
}

// expands is true when the fluid cools on expansion through the pipe
func (fs *FlowSolver) expands(p *Pipe) bool {
	return fs.pipeline.fluid != nil && fs.pipeline.fluid.IsGas() && p.flowType == types.FlowCompressible
}

// EquationFor is the configured equation of p, or the one selected from the
// pipeline boundary pressures and the pipe geometry
func (fs *FlowSolver) EquationFor(p *Pipe) types.FlowEquation {
	if p.equation != types.EquationAuto {
		return p.equation
	}
	var (
		pl    = fs.pipeline
		phase = types.PhaseGas
	)
	if pl.fluid != nil {
		phase = pl.fluid.Phase
	}
	return correlations.SelectEquation(pl.upstreamPressure-pl.downstreamPressure, pl.upstreamPressure,
		p.diameter, p.length, phase, p.flowType)
}

// SegmentPipe splits p at its active leaks, ordered from the inlet. Every
// segment but the last ends in a leak; a leak at the current position gives a
// zero length segment.
func (fs *FlowSolver) SegmentPipe(p *Pipe) (segments []PipeSegment) {
	var (
		ok     bool
		active []*Leak
		pos    float64
	)
	if segments, ok = fs.segments.get(p); ok {
		return
	}
	if !fs.ignoresLeaks(p) {
		active = p.activeLeaks()
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Location < active[j].Location })
	for _, lk := range active {
		segments = append(segments, PipeSegment{
			Start:        pos,
			End:          lk.Location,
			Length:       (lk.Location - pos) * p.length,
			HasLeakAtEnd: true,
			Leak:         lk,
		})
		pos = lk.Location
	}
	if pos < 1 || len(segments) == 0 {
		segments = append(segments, PipeSegment{Start: pos, End: 1, Length: (1 - pos) * p.length})
	}
	fs.segments.add(p, segments)
	return
}

func correlationState(props *fluids.Properties, st FlowState) correlations.State {
	return correlations.State{
		Pressure:        st.Pressure,
		Temperature:     st.Temperature,
		Density:         props.Density,
		Viscosity:       props.Viscosity,
		Z:               props.CompressibilityFactor,
		SpecificGravity: props.SpecificGravity,
	}
}

// leakRate is the volumetric loss through lk, choked for expanding gas
func (fs *FlowSolver) leakRate(p *Pipe, lk *Leak, pressure, density float64) float64 {
	if fs.expands(p) {
		return lk.ComputeChokedRate(pressure, p.ambientPressure, density)
	}
	return lk.ComputeRate(pressure, p.ambientPressure, density)
}

// walkPipe carries the inlet state through the segments of p. visit, when
// set, sees every segment with its inlet and outlet states and stops the
// walk by returning false.
func (fs *FlowSolver) walkPipe(p *Pipe, inlet FlowState,
	visit func(seg PipeSegment, in, out FlowState) bool) (state FlowState) {
	var (
		eq      = fs.EquationFor(p)
		expands = fs.expands(p)
	)
	state = inlet
	state.Position = 0
	for _, seg := range fs.SegmentPipe(p) {
		in := state
		props, err := fs.Properties(in.Pressure, in.Temperature)
		if err != nil {
			logger.Logger.Debugw("no fluid properties, flow stops", "pipe", p.name, "error", err)
			return FlowState{Temperature: in.Temperature, Position: seg.Start}
		}
		g := correlations.Geometry{
			Length:            seg.Length,
			Diameter:          p.diameter,
			RelativeRoughness: p.RelativeRoughness(),
			Efficiency:        p.efficiency,
			Elevation:         p.elevation * seg.Length / p.length,
		}
		dp, err := correlations.PressureDrop(eq, g, correlationState(props, in), in.MassFlowRate/props.Density)
		if err != nil {
			logger.Logger.Errorw("pressure drop failed, segment taken as lossless", "pipe", p.name, "equation", eq, "error", err)
			dp = 0
		}
		state.Pressure = math.Max(0, in.Pressure-dp)
		if expands {
			state.Temperature = in.Temperature + props.JouleThomson*(state.Pressure-in.Pressure)
		}
		if seg.HasLeakAtEnd && state.Pressure > 0 {
			state.MassFlowRate -= fs.leakMassRate(p, seg.Leak, state)
			if state.MassFlowRate < 0 {
				logger.Logger.Warnw("leak exceeds pipe flow", "pipe", p.name, "leak", seg.Leak.Name)
				state.MassFlowRate = 0
			}
		}
		state.Position = seg.End
		if visit != nil && !visit(seg, in, state) {
			return
		}
		if state.Pressure <= 0 || state.MassFlowRate <= 0 {
			return
		}
	}
	return
}

// leakMassRate evaluates lk at the local state
func (fs *FlowSolver) leakMassRate(p *Pipe, lk *Leak, local FlowState) float64 {
	props, err := fs.Properties(local.Pressure, local.Temperature)
	if err != nil {
		logger.Logger.Debugw("no fluid properties at leak", "pipe", p.name, "leak", lk.Name, "error", err)
		return 0
	}
	return fs.leakRate(p, lk, local.Pressure, props.Density) * props.Density
}

// SolvePipe carries inlet through p and returns the outlet state. With
// setValues the solved state is written into p.
func (fs *FlowSolver) SolvePipe(p *Pipe, inlet FlowState, setValues bool) (outlet FlowState) {
	if p.IsStartClosed() || inlet.MassFlowRate <= 0 || fs.pipeline.fluid == nil {
		if setValues {
			p.zero()
		}
		return FlowState{Temperature: inlet.Temperature, Position: 1}
	}
	outlet = fs.walkPipe(p, inlet, nil)
	if setValues {
		var flowRate float64
		if props, err := fs.Properties(inlet.Pressure, inlet.Temperature); err == nil {
			flowRate = inlet.MassFlowRate / props.Density
		}
		p.setState(inlet, outlet, flowRate)
	}
	if p.IsEndClosed() {
		outlet.MassFlowRate = 0
	}
	return
}

// ConnectorPressureDrop is the loss in the fitting joining a to b. Pipes of
// nearly equal diameter are joined by a short straight run of a's equation,
// others by a taper. A change of direction doubles the fitting length.
func (fs *FlowSolver) ConnectorPressureDrop(a, b *Pipe, inlet FlowState) (dp float64) {
	if inlet.MassFlowRate <= 0 {
		return 0
	}
	props, err := fs.Properties(inlet.Pressure, inlet.Temperature)
	if err != nil {
		logger.Logger.Debugw("no fluid properties at connector", "from", a.name, "to", b.name, "error", err)
		return 0
	}
	var (
		q      = inlet.MassFlowRate / props.Density
		elbow  = a.direction != b.direction
		length = fs.pipeline.connectorLength
	)
	if elbow {
		length *= 2
	}
	if math.Abs(a.diameter-b.diameter)/a.diameter < straightConnectorLimit {
		g := correlations.Geometry{
			Length:            length,
			Diameter:          a.diameter,
			RelativeRoughness: connectorRoughness,
			Efficiency:        (a.efficiency + b.efficiency) / 2,
			Elevation:         a.elevation / a.length * length,
		}
		if elbow {
			g.Efficiency *= elbowEfficiencyFraction
		}
		st := correlationState(props, inlet)
		if dp, err = correlations.PressureDrop(fs.EquationFor(a), g, st, q); err != nil {
			dp, err = correlations.PressureDrop(types.DarcyWeisbach, g, st, q)
		}
	} else {
		dp, err = correlations.TaperedPressureDrop(q, a.diameter, b.diameter, length,
			props.Density, props.Viscosity, taperRoughness, taperAngleThreshold)
	}
	if err != nil {
		logger.Logger.Errorw("connector pressure drop failed, taken as lossless", "from", a.name, "to", b.name, "error", err)
		return 0
	}
	return
}

func (fs *FlowSolver) crossConnector(a, b *Pipe, inlet FlowState) (outlet FlowState) {
	outlet = inlet
	outlet.Position = 0
	dp := fs.ConnectorPressureDrop(a, b, inlet)
	if dp == 0 {
		return
	}
	outlet.Pressure = math.Max(0, inlet.Pressure-dp)
	if fs.expands(a) {
		if props, err := fs.Properties(inlet.Pressure, inlet.Temperature); err == nil {
			outlet.Temperature += props.JouleThomson * (outlet.Pressure - inlet.Pressure)
		}
	}
	return
}

// walk carries inlet through pipes in series and stops at the first pipe or
// connector that delivers no mass or no pressure. With commit the solved
// state is written and every pipe past the stop is zeroed.
func (fs *FlowSolver) walk(pipes []*Pipe, inlet FlowState, commit bool) (state FlowState) {
	state = inlet
	for i, p := range pipes {
		state = fs.SolvePipe(p, state, commit)
		if i < len(pipes)-1 && state.MassFlowRate > 0 && state.Pressure > 0 {
			state = fs.crossConnector(p, pipes[i+1], state)
		}
		if state.MassFlowRate <= 0 || state.Pressure <= 0 {
			if commit {
				for _, q := range pipes[i+1:] {
					q.zero()
				}
			}
			return
		}
	}
	return
}

// estimateInitialMassFlow is the Hagen-Poiseuille flow of the mean diameter
// over the total length, used to size the first bracket
func (fs *FlowSolver) estimateInitialMassFlow(pipes []*Pipe, inlet FlowState, target float64) float64 {
	props, err := fs.Properties(inlet.Pressure, inlet.Temperature)
	if err != nil || props.Viscosity <= 0 {
		return 1
	}
	dp := inlet.Pressure - target
	if dp <= 0 {
		return 0
	}
	var (
		diameters = make([]float64, len(pipes))
		lengths   = make([]float64, len(pipes))
	)
	for i, p := range pipes {
		diameters[i], lengths[i] = p.diameter, p.length
	}
	var (
		D = stat.Mean(diameters, nil)
		L = math.Max(floats.Sum(lengths), 0.001)
	)
	return math.Pi * utils.POW(D, 4) * dp / (128 * props.Viscosity * L) * props.Density
}

// bracket widens [lo, hi] around the initial guess until f changes sign
func bracket(f func(float64) float64, guess float64) (lo, hi float64, ok bool) {
	lo, hi = minMassFlow, math.Max(10*guess, 10)
	for attempt := 0; attempt < bracketAttempts; attempt++ {
		fLo, fHi := f(lo), f(hi)
		switch {
		case fLo*fHi <= 0:
			return lo, hi, true
		case fLo > 0 && fHi > 0:
			lo, hi = hi, hi*5
		case fLo < 0 && fHi < 0:
			hi, lo = lo, math.Max(minMassFlow, lo/5)
		default:
			if math.Abs(fLo) < 10 {
				lo *= 0.9
			}
			if math.Abs(fHi) < 10 {
				hi *= 1.1
			}
		}
	}
	return
}

// SolvePipeline finds the inlet mass flow that delivers the downstream
// boundary pressure and commits the solution to every pipe. A closed start
// valve cuts the pipeline there, the part upstream of it discharges to the
// atmosphere. Failures are logged and reported as false.
func (fs *FlowSolver) SolvePipeline(tolerance float64, maxIterations int) bool {
	var (
		pl     = fs.pipeline
		pipes  = pl.pipes
		target = pl.downstreamPressure
		log    = logger.Logger
	)
	fs.MassFlowRate, fs.Evaluations = 0, 0
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	switch {
	case len(pipes) == 0:
		log.Warnw("pipeline has no pipes", "pipeline", pl.name)
		return false
	case pl.fluid == nil:
		pl.zeroFlow()
		log.Warnw("pipeline has no fluid", "pipeline", pl.name)
		return false
	case pl.upstreamPressure <= 0 || pl.downstreamPressure <= 0:
		pl.zeroFlow()
		log.Warnw("boundary pressures must be positive", "pipeline", pl.name,
			"upstream", pl.upstreamPressure, "downstream", pl.downstreamPressure)
		return false
	}
	for k, p := range pipes {
		if !p.IsStartClosed() {
			continue
		}
		for _, q := range pipes[k:] {
			q.zero()
		}
		if k == 0 {
			log.Infow("start valve of the first pipe is closed", "pipeline", pl.name, "pipe", p.name)
			return true
		}
		log.Infow("closed start valve, upstream pipes discharge to atmosphere",
			"pipeline", pl.name, "pipe", p.name, "index", k)
		pipes, target = pipes[:k], units.AtmosphericPressure
		break
	}
	inlet := FlowState{Pressure: pl.upstreamPressure, Temperature: pl.UpstreamTemperature()}
	objective := func(massFlow float64) float64 {
		fs.Evaluations++
		if massFlow <= 0 {
			return inlet.Pressure - target
		}
		st := inlet
		st.MassFlowRate = massFlow
		return fs.walk(pipes, st, false).Pressure - target
	}
	guess := fs.estimateInitialMassFlow(pipes, inlet, target)
	lo, hi, ok := bracket(objective, guess)
	if !ok {
		log.Warnw("mass flow not bracketed", "pipeline", pl.name, "guess", guess, "lo", lo, "hi", hi)
		return false
	}
	massFlow, err := fs.rootFinder.FindRoot(objective, lo, hi, tolerance/inlet.Pressure, maxIterations)
	if err != nil {
		log.Warnw("mass flow did not converge", "pipeline", pl.name, "error", err)
		return false
	}
	inlet.MassFlowRate = massFlow
	outlet := fs.walk(pipes, inlet, true)
	fs.MassFlowRate = massFlow
	log.Infow("pipeline solved", "pipeline", pl.name, "massFlowRate", massFlow,
		"outletPressure", outlet.Pressure, "evaluations", fs.Evaluations)
	return true
}

// EstimatePressureAt replays the solved flow of p to a fractional location
// and interpolates within the segment that contains it
func (fs *FlowSolver) EstimatePressureAt(p *Pipe, location float64) (pressure float64, err error) {
	switch {
	case location < 0 || location > 1 || math.IsNaN(location):
		err = ErrInvalidLocation
		return
	case location == 0:
		return p.upstreamPressure, nil
	case location == 1:
		return p.downstreamPressure, nil
	case p.massRate == 0 || fs.pipeline.fluid == nil:
		return p.upstreamPressure + location*(p.downstreamPressure-p.upstreamPressure), nil
	}
	inlet := FlowState{
		Pressure:     p.upstreamPressure,
		Temperature:  p.upstreamTemperature,
		MassFlowRate: p.massRate,
	}
	fs.walkPipe(p, inlet, func(seg PipeSegment, in, out FlowState) bool {
		if !seg.Contains(location) {
			return true
		}
		pressure = in.Pressure
		if seg.End > seg.Start {
			pressure += (location - seg.Start) / (seg.End - seg.Start) * (out.Pressure - in.Pressure)
		}
		return false
	})
	return math.Max(0, pressure), nil
}

// localState estimates the pressure and temperature at a location of p
func (fs *FlowSolver) localState(p *Pipe, location float64) (st FlowState, err error) {
	if st.Pressure, err = fs.EstimatePressureAt(p, location); err != nil {
		return
	}
	st.Temperature = p.upstreamTemperature + location*(p.downstreamTemperature-p.upstreamTemperature)
	st.Position = location
	return
}

// leakRates sums the volumetric and mass losses of the active leaks of p at
// their local states
func (fs *FlowSolver) leakRates(p *Pipe) (volume, mass float64) {
	if fs.ignoresLeaks(p) || p.massRate <= 0 {
		return
	}
	for _, lk := range p.activeLeaks() {
		st, err := fs.localState(p, lk.Location)
		if err != nil || st.Pressure <= 0 {
			continue
		}
		props, err := fs.Properties(st.Pressure, st.Temperature)
		if err != nil {
			continue
		}
		q := fs.leakRate(p, lk, st.Pressure, props.Density)
		volume += q
		mass += q * props.Density
	}
	return
}
