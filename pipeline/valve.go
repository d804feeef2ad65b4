package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/gopipe/types"
)

// Valve blocks flow at one end of a pipe when closed
type Valve struct {
	Name     string
	Position types.ValvePosition
	state    types.ValveState
}

func NewValve(name string, position types.ValvePosition, state types.ValveState) *Valve {
	if name == "" {
		name = "valve-" + uuid.NewString()[:8]
	}
	return &Valve{Name: name, Position: position, state: state}
}

func (v *Valve) Open()                   { v.state = types.ValveOpen }
func (v *Valve) Close()                  { v.state = types.ValveClosed }
func (v *Valve) State() types.ValveState { return v.state }
func (v *Valve) IsOpen() bool            { return v.state == types.ValveOpen }
func (v *Valve) IsClosed() bool          { return v.state == types.ValveClosed }

func (v *Valve) Toggle() {
	if v.IsOpen() {
		v.Close()
	} else {
		v.Open()
	}
}

func (v *Valve) Clone() *Valve {
	c := *v
	return &c
}

func (v *Valve) String() string {
	return fmt.Sprintf("%s (%s, %s)", v.Name, v.Position, v.state)
}
