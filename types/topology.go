package types

import (
	"fmt"
	"strings"
)

type PipeDirection uint8

const (
	East PipeDirection = iota
	West
	North
	South
)

var DirectionNames = map[string]PipeDirection{
	"east":  East,
	"e":     East,
	"west":  West,
	"w":     West,
	"north": North,
	"n":     North,
	"south": South,
	"s":     South,
}

var DirectionPrintNames = []string{"east", "west", "north", "south"}

func (pd PipeDirection) String() string {
	if int(pd) < len(DirectionPrintNames) {
		return DirectionPrintNames[pd]
	}
	return fmt.Sprintf("PipeDirection(%d)", pd)
}

func ParseDirection(label string) (pd PipeDirection, err error) {
	var ok bool
	if pd, ok = DirectionNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use direction named %q", label)
	}
	return
}

func NewDirection(label string) (pd PipeDirection) {
	var err error
	if pd, err = ParseDirection(label); err != nil {
		panic(err)
	}
	return
}

func (pd PipeDirection) Opposite() PipeDirection {
	switch pd {
	case East:
		return West
	case West:
		return East
	case North:
		return South
	default:
		return North
	}
}

// Opposes is true for NORTH/SOUTH and EAST/WEST pairs, which cannot be joined
func (pd PipeDirection) Opposes(other PipeDirection) bool {
	return pd != other && pd.Opposite() == other
}

// DirectionsCompatible checks every pair of directions, not only neighbors
func DirectionsCompatible(dirs ...PipeDirection) bool {
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if dirs[i].Opposes(dirs[j]) {
				return false
			}
		}
	}
	return true
}

type ValvePosition uint8

const (
	ValveStart ValvePosition = iota
	ValveEnd
)

var ValvePositionNames = map[string]ValvePosition{
	"start":      ValveStart,
	"inlet":      ValveStart,
	"upstream":   ValveStart,
	"end":        ValveEnd,
	"outlet":     ValveEnd,
	"downstream": ValveEnd,
}

func (vp ValvePosition) String() string {
	switch vp {
	case ValveStart:
		return "start"
	case ValveEnd:
		return "end"
	}
	return fmt.Sprintf("ValvePosition(%d)", vp)
}

func ParseValvePosition(label string) (vp ValvePosition, err error) {
	var ok bool
	if vp, ok = ValvePositionNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("valve position must be start or end, have %q", label)
	}
	return
}

type ValveState uint8

const (
	ValveOpen ValveState = iota
	ValveClosed
)

var ValveStateNames = map[string]ValveState{
	"open":   ValveOpen,
	"closed": ValveClosed,
	"close":  ValveClosed,
}

func (vs ValveState) String() string {
	switch vs {
	case ValveOpen:
		return "open"
	case ValveClosed:
		return "closed"
	}
	return fmt.Sprintf("ValveState(%d)", vs)
}

func ParseValveState(label string) (vs ValveState, err error) {
	var ok bool
	if vs, ok = ValveStateNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use valve state named %q", label)
	}
	return
}
