package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopipe/fluids"
	"github.com/notargets/gopipe/pipeline"
	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

// Parameters obtained from the YAML input file. Quantities are bare SI
// numbers or strings carrying a unit such as "1200 psi".
type PipelineParameters struct {
	Title               string           `json:"Title"`
	Fluid               FluidParameters  `json:"Fluid"`
	UpstreamPressure    interface{}      `json:"UpstreamPressure"`
	DownstreamPressure  interface{}      `json:"DownstreamPressure"`
	UpstreamTemperature interface{}      `json:"UpstreamTemperature"` // Defaults to the fluid temperature
	ConnectorLength     interface{}      `json:"ConnectorLength"`
	FlowType            string           `json:"FlowType"`
	IgnoreLeaks         bool             `json:"IgnoreLeaks"`
	Pipes               []PipeParameters `json:"Pipes"`
}

type FluidParameters struct {
	Name            string      `json:"Name"`
	Phase           string      `json:"Phase"`
	Pressure        interface{} `json:"Pressure"`
	Temperature     interface{} `json:"Temperature"`
	MolecularWeight float64     `json:"MolecularWeight"` // kg/mol, overrides the library value
}

type PipeParameters struct {
	Name            string            `json:"Name"`
	Material        string            `json:"Material"`
	Length          interface{}       `json:"Length"`
	Diameter        interface{}       `json:"Diameter"`
	Roughness       interface{}       `json:"Roughness"`
	Efficiency      float64           `json:"Efficiency"`
	Elevation       interface{}       `json:"Elevation"`
	Direction       string            `json:"Direction"`
	Equation        string            `json:"Equation"`
	AmbientPressure interface{}       `json:"AmbientPressure"`
	IgnoreLeaks     bool              `json:"IgnoreLeaks"`
	Leaks           []LeakParameters  `json:"Leaks"`
	Valves          []ValveParameters `json:"Valves"`
}

type LeakParameters struct {
	Name                 string      `json:"Name"`
	Location             float64     `json:"Location"`
	Diameter             interface{} `json:"Diameter"`
	DischargeCoefficient float64     `json:"DischargeCoefficient"`
	Inactive             bool        `json:"Inactive"`
}

type ValveParameters struct {
	Name     string `json:"Name"`
	Position string `json:"Position"`
	State    string `json:"State"`
}

func (pp *PipelineParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

func (pp *PipelineParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%s, %s]\t\t= Fluid\n", pp.Fluid.Name, pp.Fluid.Phase)
	fmt.Printf("[%v]\t\t= Upstream Pressure\n", pp.UpstreamPressure)
	fmt.Printf("[%v]\t\t= Downstream Pressure\n", pp.DownstreamPressure)
	if pp.UpstreamTemperature != nil {
		fmt.Printf("[%v]\t\t= Upstream Temperature\n", pp.UpstreamTemperature)
	}
	if pp.FlowType != "" {
		fmt.Printf("[%s]\t= Flow Type\n", pp.FlowType)
	}
	for i, p := range pp.Pipes {
		fmt.Printf("Pipes[%d] = %s %v x %v %s, %d leaks, %d valves\n",
			i, p.Name, p.Length, p.Diameter, p.Direction, len(p.Leaks), len(p.Valves))
	}
}

// Build converts the parameters to SI and assembles a solved pipeline
func (pp *PipelineParameters) Build(opts pipeline.Options) (pl *pipeline.Pipeline, err error) {
	var (
		fluid *fluids.Fluid
		pipes []*pipeline.Pipe
	)
	if fluid, err = pp.Fluid.build(); err != nil {
		return
	}
	if opts.UpstreamPressure, err = units.ToPressure(pp.UpstreamPressure); err != nil {
		return
	}
	if opts.DownstreamPressure, err = units.ToPressure(pp.DownstreamPressure); err != nil {
		return
	}
	if opts.UpstreamTemperature, err = units.ToTemperature(pp.UpstreamTemperature); err != nil {
		return
	}
	if pp.ConnectorLength != nil {
		if opts.ConnectorLength, err = units.ToLength(pp.ConnectorLength); err != nil {
			return
		}
	}
	if pp.FlowType != "" {
		if opts.FlowType, err = types.ParseFlowType(pp.FlowType); err != nil {
			return
		}
	}
	opts.IgnoreLeaks = opts.IgnoreLeaks || pp.IgnoreLeaks
	if pp.Title != "" {
		opts.Name = pp.Title
	}
	for i, p := range pp.Pipes {
		var pipe *pipeline.Pipe
		if pipe, err = p.build(); err != nil {
			err = fmt.Errorf("pipe %d: %w", i, err)
			return
		}
		pipes = append(pipes, pipe)
	}
	return pipeline.NewPipeline(fluid, pipes, opts)
}

func (fp FluidParameters) build() (f *fluids.Fluid, err error) {
	var (
		phase = types.PhaseGas
		P, T  float64
	)
	if fp.Phase != "" {
		if phase, err = types.ParsePhase(fp.Phase); err != nil {
			return
		}
	}
	if P, err = units.ToPressure(fp.Pressure); err != nil {
		return
	}
	if T, err = units.ToTemperature(fp.Temperature); err != nil {
		return
	}
	if P == 0 {
		P = units.AtmosphericPressure
	}
	if T == 0 {
		T = units.DefaultAmbientTemperature
	}
	if f, err = fluids.NewFluid(fp.Name, phase, P, T); err != nil {
		return
	}
	if fp.MolecularWeight > 0 {
		f.MolecularWeight = fp.MolecularWeight
	}
	return
}

func (p PipeParameters) build() (pipe *pipeline.Pipe, err error) {
	cfg := pipeline.PipeConfig{
		Name:        p.Name,
		Material:    p.Material,
		Efficiency:  p.Efficiency,
		IgnoreLeaks: p.IgnoreLeaks,
	}
	for _, q := range []struct {
		dst  *float64
		v    interface{}
		conv func(interface{}) (float64, error)
	}{
		{&cfg.Length, p.Length, units.ToLength},
		{&cfg.Diameter, p.Diameter, units.ToLength},
		{&cfg.Roughness, p.Roughness, units.ToLength},
		{&cfg.Elevation, p.Elevation, units.ToLength},
		{&cfg.AmbientPressure, p.AmbientPressure, units.ToPressure},
	} {
		if *q.dst, err = q.conv(q.v); err != nil {
			return
		}
	}
	if p.Direction != "" {
		if cfg.Direction, err = types.ParseDirection(p.Direction); err != nil {
			return
		}
	}
	if cfg.Equation, err = types.ParseFlowEquation(p.Equation); err != nil {
		return
	}
	if pipe, err = pipeline.NewPipe(cfg); err != nil {
		return
	}
	for _, lp := range p.Leaks {
		var (
			d  float64
			lk *pipeline.Leak
		)
		if d, err = units.ToLength(lp.Diameter); err != nil {
			return
		}
		if lk, err = pipeline.NewLeak(lp.Name, lp.Location, d, lp.DischargeCoefficient); err != nil {
			return
		}
		lk.Active = !lp.Inactive
		if err = pipe.AddLeak(lk); err != nil {
			return
		}
	}
	for _, vp := range p.Valves {
		var (
			position types.ValvePosition
			state    = types.ValveOpen
		)
		if position, err = types.ParseValvePosition(vp.Position); err != nil {
			return
		}
		if vp.State != "" {
			if state, err = types.ParseValveState(vp.State); err != nil {
				return
			}
		}
		if err = pipe.AddValve(pipeline.NewValve(vp.Name, position, state)); err != nil {
			return
		}
	}
	return
}
