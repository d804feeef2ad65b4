package pipeline

import (
	"github.com/notargets/gopipe/correlations"
	"github.com/notargets/gopipe/fluids"
)

// LeakSnapshot reports one leak at its local pressure
type LeakSnapshot struct {
	Name     string  `json:"name"`
	Location float64 `json:"location"`
	Diameter float64 `json:"diameter"`
	Active   bool    `json:"active"`
	Pressure float64 `json:"pressure"`
	Rate     float64 `json:"rate"`
	Severity string  `json:"severity"`
}

type PipeSnapshot struct {
	Name                  string         `json:"name"`
	Direction             string         `json:"direction"`
	Equation              string         `json:"equation"`
	UpstreamPressure      float64        `json:"upstreamPressure"`
	DownstreamPressure    float64        `json:"downstreamPressure"`
	UpstreamTemperature   float64        `json:"upstreamTemperature"`
	DownstreamTemperature float64        `json:"downstreamTemperature"`
	FlowRate              float64        `json:"flowRate"`
	MassRate              float64        `json:"massRate"`
	OutletMassRate        float64        `json:"outletMassRate"`
	ReynoldsNumber        float64        `json:"reynoldsNumber"`
	StartValve            string         `json:"startValve,omitempty"`
	EndValve              string         `json:"endValve,omitempty"`
	Leaks                 []LeakSnapshot `json:"leaks,omitempty"`
}

// Snapshot is the solved state of a pipeline in SI units, shaped for
// serialization
type Snapshot struct {
	Name               string         `json:"name"`
	Fluid              string         `json:"fluid"`
	Converged          bool           `json:"converged"`
	UpstreamPressure   float64        `json:"upstreamPressure"`
	DownstreamPressure float64        `json:"downstreamPressure"`
	InletMassRate      float64        `json:"inletMassRate"`
	OutletMassRate     float64        `json:"outletMassRate"`
	LeakRate           float64        `json:"leakRate"`
	Pipes              []PipeSnapshot `json:"pipes"`
}

func reynolds(p *Pipe, props *fluids.Properties) float64 {
	return correlations.ReynoldsNumber(p.FlowRate(), p.diameter, props.Density, props.Viscosity)
}

func (pl *Pipeline) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Name:               pl.name,
		Converged:          pl.converged,
		UpstreamPressure:   pl.upstreamPressure,
		DownstreamPressure: pl.downstreamPressure,
		InletMassRate:      pl.InletMassRate(),
		OutletMassRate:     pl.OutletMassRate(),
		LeakRate:           pl.LeakRate(),
	}
	if pl.fluid != nil {
		snap.Fluid = pl.fluid.Name
	}
	for i, p := range pl.pipes {
		ps := PipeSnapshot{
			Name:                  p.name,
			Direction:             p.direction.String(),
			Equation:              pl.solver.EquationFor(p).String(),
			UpstreamPressure:      p.upstreamPressure,
			DownstreamPressure:    p.downstreamPressure,
			UpstreamTemperature:   p.upstreamTemperature,
			DownstreamTemperature: p.downstreamTemperature,
			FlowRate:              p.FlowRate(),
			MassRate:              p.massRate,
			OutletMassRate:        p.OutletMassRate(),
		}
		ps.ReynoldsNumber, _ = pl.ReynoldsNumber(i)
		if p.startValve != nil {
			ps.StartValve = p.startValve.State().String()
		}
		if p.endValve != nil {
			ps.EndValve = p.endValve.State().String()
		}
		for _, lk := range p.leaks {
			ls := LeakSnapshot{
				Name:     lk.Name,
				Location: lk.Location,
				Diameter: lk.Diameter,
				Active:   lk.Active,
			}
			if st, err := pl.solver.localState(p, lk.Location); err == nil {
				ls.Pressure = st.Pressure
				if props, err := pl.solver.Properties(st.Pressure, st.Temperature); err == nil && p.massRate > 0 &&
					!pl.solver.ignoresLeaks(p) {
					ls.Rate = pl.solver.leakRate(p, lk, st.Pressure, props.Density)
				}
			}
			ls.Severity = lk.Severity(ls.Rate).String()
			ps.Leaks = append(ps.Leaks, ls)
		}
		snap.Pipes = append(snap.Pipes, ps)
	}
	return
}
