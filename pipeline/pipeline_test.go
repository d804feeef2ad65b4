package pipeline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopipe/fluids"
	"github.com/notargets/gopipe/types"
	"github.com/notargets/gopipe/units"
)

// pressureTolerance covers the root finder tolerance on the mass flow
const pressureTolerance = 200. // Pa

func newTestPipe(t *testing.T, name string, dir types.PipeDirection) *Pipe {
	p, err := NewPipe(PipeConfig{
		Name:                name,
		Material:            "steel",
		Length:              100,
		Diameter:            0.1,
		Roughness:           4.5e-5,
		Direction:           dir,
		UpstreamPressure:    units.Psi(100),
		DownstreamPressure:  units.Psi(50),
		UpstreamTemperature: units.Celsius(20),
	})
	require.NoError(t, err)
	return p
}

func newWater(t *testing.T) *fluids.Fluid {
	water, err := fluids.NewFluid("water", types.PhaseLiquid, units.Psi(100), units.Celsius(20))
	require.NoError(t, err)
	return water
}

func waterOptions() Options {
	opts := DefaultOptions()
	opts.Name = "water"
	opts.UpstreamPressure = units.Psi(100)
	opts.DownstreamPressure = units.Psi(50)
	opts.FlowType = types.FlowIncompressible
	return opts
}

func newWaterPipeline(t *testing.T, dirs ...types.PipeDirection) *Pipeline {
	var pipes []*Pipe
	for i, dir := range dirs {
		pipes = append(pipes, newTestPipe(t, string(rune('a'+i)), dir))
	}
	pl, err := NewPipeline(newWater(t), pipes, waterOptions())
	require.NoError(t, err)
	return pl
}

func assertPressuresFall(t *testing.T, pl *Pipeline) {
	last := pl.UpstreamPressure()
	for _, p := range pl.pipes {
		assert.True(t, p.UpstreamPressure() <= last, p.Name())
		assert.True(t, p.DownstreamPressure() <= p.UpstreamPressure(), p.Name())
		last = p.DownstreamPressure()
	}
}

func TestMethaneScenario(t *testing.T) {
	methane, err := fluids.NewFluid("methane", types.PhaseGas, units.Psi(1000), units.Celsius(20))
	require.NoError(t, err)
	var pipes []*Pipe
	for _, geom := range [][2]float64{{10, 0.3}, {75, 0.2}, {60, 0.2}} {
		p, err := NewPipe(PipeConfig{Material: "steel", Length: geom[0], Diameter: geom[1], Roughness: 4.5e-5})
		require.NoError(t, err)
		pipes = append(pipes, p)
	}
	opts := DefaultOptions()
	opts.UpstreamPressure = units.Psi(1200)
	opts.DownstreamPressure = units.Psi(792)
	pl, err := NewPipeline(methane, pipes, opts)
	require.NoError(t, err)
	assert.True(t, pl.Converged())
	require.True(t, pl.Sync())
	first := pl.pipes[0]
	assert.True(t, first.DownstreamPressure() > units.Psi(792))
	assert.True(t, first.DownstreamPressure() < units.Psi(1200))
	assert.True(t, pl.InletFlowRate() > 0)
	assert.Equal(t, units.Psi(1200), first.UpstreamPressure())
	assertPressuresFall(t, pl)
	assert.InDelta(t, units.Psi(792), pl.pipes[2].DownstreamPressure(), pressureTolerance)
	assert.True(t, pl.DownstreamTemperature() < units.Celsius(20))
	for _, p := range pl.pipes {
		assert.Equal(t, types.Weymouth, pl.solver.EquationFor(p))
		assert.InDelta(t, pl.InletMassRate(), p.MassRate(), 1e-9)
	}
	{ // Repeated syncs agree
		before := pl.Snapshot()
		require.True(t, pl.Sync())
		assert.Equal(t, before, pl.Snapshot())
	}
}

func TestConservation(t *testing.T) {
	pl := newWaterPipeline(t, types.East, types.East, types.North)
	require.True(t, pl.Converged())
	assertPressuresFall(t, pl)
	for i, p := range pl.pipes {
		assert.Equal(t, p.MassRate(), p.OutletMassRate())
		if i > 0 {
			assert.Equal(t, pl.pipes[i-1].OutletMassRate(), p.MassRate())
		}
	}
	assert.InDelta(t, units.Psi(50), pl.pipes[2].DownstreamPressure(), pressureTolerance)
	assert.InDelta(t, pl.InletFlowRate(), pl.OutletFlowRate(), pl.InletFlowRate()*1e-3)
	assert.False(t, pl.IsLeaking())
	assert.Equal(t, 0., pl.LeakRate())
	Re, err := pl.ReynoldsNumber(0)
	require.NoError(t, err)
	assert.True(t, Re > 4000)
}

func TestLeakSubtraction(t *testing.T) {
	pl := newWaterPipeline(t, types.East)
	lk, err := NewLeak("half", 0.5, 0.01, 0.6)
	require.NoError(t, err)
	require.NoError(t, pl.AddLeak(0, lk))
	require.True(t, pl.Converged())
	p := pl.pipes[0]
	leaked, err := pl.PipeLeakMassRate(0)
	require.NoError(t, err)
	assert.True(t, leaked > 0)
	assert.InDelta(t, p.MassRate()-leaked, p.OutletMassRate(), 1e-9)
	assert.True(t, pl.IsLeaking())
	assert.True(t, pl.LeakRate() > 0)
	{ // Local pressures
		mid, err := pl.EstimatePressureAt(0, 0.5)
		require.NoError(t, err)
		assert.True(t, mid < p.UpstreamPressure() && mid > p.DownstreamPressure())
		quarter, err := pl.EstimatePressureAt(0, 0.25)
		require.NoError(t, err)
		assert.InDelta(t, (p.UpstreamPressure()+mid)/2, quarter, 1e-6)
		at, err := pl.EstimatePressureAt(0, 1)
		require.NoError(t, err)
		assert.Equal(t, p.DownstreamPressure(), at)
		_, err = pl.EstimatePressureAt(0, 1.5)
		assert.True(t, errors.Is(err, ErrInvalidLocation))
		_, err = pl.EstimatePressureAt(3, 0.5)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	}
	{ // Snapshot reports the leak
		snap := pl.Snapshot()
		require.Len(t, snap.Pipes, 1)
		require.Len(t, snap.Pipes[0].Leaks, 1)
		assert.True(t, snap.Pipes[0].Leaks[0].Rate > 0)
		assert.Equal(t, "Darcy-Weisbach", snap.Pipes[0].Equation)
		b, err := json.Marshal(snap)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"severity"`)
	}
	{ // Ignored leaks lose nothing
		pl.SetIgnoreLeaks(true)
		assert.Equal(t, p.MassRate(), p.OutletMassRate())
		assert.False(t, pl.IsLeaking())
		assert.Equal(t, 0., pl.LeakRate())
		pl.SetIgnoreLeaks(false)
		require.NoError(t, pl.SetLeakActive(0, 0, false))
		assert.Equal(t, p.MassRate(), p.OutletMassRate())
		removed, err := pl.RemoveLeak(0, 0)
		require.NoError(t, err)
		assert.Equal(t, "half", removed.Name)
	}
}

func TestStartValveBlocking(t *testing.T) {
	pl := newWaterPipeline(t, types.East, types.East, types.East)
	require.NoError(t, pl.AddValve(1, NewValve("v", types.ValveStart, types.ValveOpen)))
	open := pl.InletMassRate()
	require.NoError(t, pl.CloseValve(1, types.ValveStart))
	require.True(t, pl.Converged())
	for _, p := range pl.pipes[1:] {
		assert.Equal(t, 0., p.FlowRate())
		assert.Equal(t, 0., p.MassRate())
		assert.Equal(t, 0., p.UpstreamPressure())
		assert.Equal(t, 0., p.DownstreamPressure())
	}
	first := pl.pipes[0]
	assert.InDelta(t, units.AtmosphericPressure, first.DownstreamPressure(), pressureTolerance)
	assert.True(t, first.MassRate() > open)
	{ // Same as a single pipe open to the atmosphere
		opts := waterOptions()
		opts.DownstreamPressure = units.AtmosphericPressure
		alone, err := NewPipeline(newWater(t), []*Pipe{newTestPipe(t, "a", types.East)}, opts)
		require.NoError(t, err)
		assert.InDelta(t, alone.InletMassRate(), first.MassRate(), 1e-9)
	}
	{ // Closed at the inlet nothing flows
		require.NoError(t, pl.AddValve(0, NewValve("", types.ValveStart, types.ValveClosed)))
		assert.True(t, pl.Converged())
		for _, p := range pl.pipes {
			assert.Equal(t, 0., p.MassRate())
		}
	}
	{ // Opened again
		pl.OpenAllValves()
		assert.InDelta(t, open, pl.InletMassRate(), 1e-9)
		pl.CloseAllValves()
		assert.Equal(t, 0., pl.InletMassRate())
		require.NoError(t, pl.ToggleValve(0, types.ValveStart))
		require.NoError(t, pl.ToggleValve(1, types.ValveStart))
		assert.InDelta(t, open, pl.InletMassRate(), 1e-9)
	}
}

func TestEndValveBlocking(t *testing.T) {
	pl := newWaterPipeline(t, types.East, types.East, types.East)
	require.NoError(t, pl.AddValve(1, NewValve("v", types.ValveEnd, types.ValveClosed)))
	require.True(t, pl.Converged())
	assert.True(t, pl.HasValves())
	middle := pl.pipes[1]
	assert.True(t, middle.MassRate() > 0)
	assert.True(t, middle.FlowRate() > 0)
	assert.Equal(t, 0., middle.OutletMassRate())
	assert.InDelta(t, units.Psi(50), middle.DownstreamPressure(), pressureTolerance)
	last := pl.pipes[2]
	assert.Equal(t, 0., last.MassRate())
	assert.Equal(t, 0., last.DownstreamPressure())
	assert.Equal(t, 0., pl.OutletMassRate())
	assert.Equal(t, 0., pl.OutletFlowRate())
	removed, err := pl.RemoveValve(1, types.ValveEnd)
	require.NoError(t, err)
	assert.Equal(t, "v", removed.Name)
	assert.True(t, pl.OutletMassRate() > 0)
}

func TestMonotonicity(t *testing.T) {
	pl := newWaterPipeline(t, types.East, types.North)
	var last float64
	for _, psi := range []float64{60, 80, 100, 120, 140} {
		require.NoError(t, pl.SetUpstreamPressure(units.Psi(psi)))
		require.True(t, pl.Converged(), "%g psi", psi)
		assert.True(t, pl.InletMassRate() >= last, "%g psi", psi)
		last = pl.InletMassRate()
	}
}

func TestTopology(t *testing.T) {
	{ // Opposed neighbours are rejected
		_, err := NewPipeline(nil, []*Pipe{newTestPipe(t, "a", types.East), newTestPipe(t, "b", types.West)}, DefaultOptions())
		assert.True(t, errors.Is(err, ErrConnection))
	}
	pl := newWaterPipeline(t, types.East, types.East)
	names := func() (n []string) {
		for _, p := range pl.Pipes() {
			n = append(n, p.Name())
		}
		return
	}
	before := names()
	{ // A failed insert changes nothing
		err := pl.AddPipe(newTestPipe(t, "west", types.West), -1)
		assert.True(t, errors.Is(err, ErrConnection))
		assert.False(t, errors.Is(err, ErrInvalidConfig))
		err = pl.AddPipe(newTestPipe(t, "west", types.West), 0)
		assert.True(t, errors.Is(err, ErrConnection))
		assert.True(t, errors.Is(pl.AddPipe(newTestPipe(t, "x", types.East), 7), ErrIndexOutOfRange))
		assert.Equal(t, before, names())
	}
	{ // Inserted pipes are copies
		north := newTestPipe(t, "north", types.North)
		require.NoError(t, pl.AddPipe(north, 1))
		assert.Equal(t, []string{"a", "north", "b"}, names())
		assert.Equal(t, 0., north.MassRate())
		assert.True(t, pl.pipes[1].MassRate() > 0)
		assert.True(t, pl.IsConnected(0, 1))
	}
	{ // Removal that would join opposed pipes is refused
		require.NoError(t, pl.AddPipe(newTestPipe(t, "south", types.South), 0))
		_, err := pl.RemovePipe(1)
		assert.True(t, errors.Is(err, ErrConnection))
		assert.Equal(t, []string{"south", "a", "north", "b"}, names())
		assert.False(t, pl.IsConnected(0, 2))
		removed, err := pl.RemovePipe(2)
		require.NoError(t, err)
		assert.Equal(t, "north", removed.Name())
		assert.Equal(t, 3, pl.Len())
		_, err = pl.RemovePipe(3)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	}
}

func TestPipelineMutators(t *testing.T) {
	pl := newWaterPipeline(t, types.East)
	assert.True(t, errors.Is(pl.SetUpstreamPressure(units.Psi(10)), ErrPressureOrder))
	assert.True(t, errors.Is(pl.SetDownstreamPressure(units.Psi(200)), ErrPressureOrder))
	assert.True(t, errors.Is(pl.SetUpstreamPressure(-1), ErrInvalidConfig))
	assert.True(t, errors.Is(pl.SetFluid(nil), ErrNoFluid))
	assert.True(t, errors.Is(pl.SetConnectorLength(0), ErrInvalidConfig))
	assert.True(t, errors.Is(pl.SetUpstreamTemperature(0), ErrInvalidConfig))
	assert.True(t, errors.Is(pl.AddLeak(5, &Leak{Diameter: 0.01}), ErrIndexOutOfRange))
	{ // Hand-built leaks are checked like constructed ones
		err := pl.AddLeak(0, &Leak{Location: 1.5, Diameter: 0.01, DischargeCoefficient: 5, Active: true})
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.True(t, errors.Is(pl.AddLeak(0, &Leak{Location: 0.5, Active: true}), ErrInvalidConfig))
		assert.Empty(t, pl.pipes[0].Leaks())
		segs := pl.Solver().SegmentPipe(pl.pipes[0])
		require.Len(t, segs, 1)
		assert.Equal(t, 100., segs[0].Length)
	}
	_, err := pl.RemoveLeak(0, 0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.True(t, errors.Is(pl.OpenValve(0, types.ValveStart), ErrNoValve))
	_, err = pl.RemoveValve(0, types.ValveEnd)
	assert.True(t, errors.Is(err, ErrNoValve))
	require.NoError(t, pl.AddValve(0, NewValve("", types.ValveEnd, types.ValveOpen)))
	assert.True(t, errors.Is(pl.AddValve(0, NewValve("", types.ValveEnd, types.ValveOpen)), ErrInvalidConfig))
	_, err = pl.Pipe(1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	{ // A warmer inlet changes the water properties
		cold := pl.InletMassRate()
		require.NoError(t, pl.SetUpstreamTemperature(units.Celsius(60)))
		assert.Equal(t, units.Celsius(60), pl.UpstreamTemperature())
		assert.NotEqual(t, cold, pl.InletMassRate())
	}
	{ // Clones are independent
		c, err := pl.Clone()
		require.NoError(t, err)
		assert.InDelta(t, pl.InletMassRate(), c.InletMassRate(), 1e-12)
		require.NoError(t, c.SetDownstreamPressure(units.Psi(20)))
		assert.True(t, c.InletMassRate() > pl.InletMassRate())
		assert.Equal(t, units.Psi(50), pl.DownstreamPressure())
	}
	{ // Preconditions
		noFluid, err := NewPipeline(nil, []*Pipe{newTestPipe(t, "a", types.East)}, waterOptions())
		require.NoError(t, err)
		assert.False(t, noFluid.Converged())
		assert.True(t, errors.Is(noFluid.SetUpstreamTemperature(300), ErrNoFluid))
		mid, err := noFluid.EstimatePressureAt(0, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, units.Psi(75), mid, 1e-9)
		empty, err := NewPipeline(newWater(t), nil, waterOptions())
		require.NoError(t, err)
		assert.False(t, empty.Sync())
		_, err = NewPipeline(newWater(t), nil, Options{UpstreamPressure: 1, DownstreamPressure: 2})
		assert.True(t, errors.Is(err, ErrPressureOrder))
	}
}
