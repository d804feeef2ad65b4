package pipeline

import "fmt"

// PipeSegment is a stretch of pipe between leaks, as fractions of its length
type PipeSegment struct {
	Start, End   float64
	Length       float64 // m
	HasLeakAtEnd bool
	Leak         *Leak
}

func (s PipeSegment) Contains(location float64) bool {
	return location >= s.Start && location <= s.End
}

// FlowState is the fluid state at a point of a walk along the pipeline
type FlowState struct {
	Pressure     float64 // Pa
	Temperature  float64 // K
	MassFlowRate float64 // kg/s
	Position     float64 // fraction of the current pipe
}

func (fs FlowState) String() string {
	return fmt.Sprintf("P = %.6g Pa, T = %.5g K, m = %.6g kg/s at %.3g",
		fs.Pressure, fs.Temperature, fs.MassFlowRate, fs.Position)
}
