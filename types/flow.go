package types

import (
	"fmt"
	"strings"
)

type FlowType uint8

const (
	FlowCompressible FlowType = iota
	FlowIncompressible
)

var FlowTypeNames = map[string]FlowType{
	"compressible":   FlowCompressible,
	"incompressible": FlowIncompressible,
}

var FlowTypePrintNames = []string{"compressible", "incompressible"}

func (ft FlowType) String() string {
	if int(ft) < len(FlowTypePrintNames) {
		return FlowTypePrintNames[ft]
	}
	return fmt.Sprintf("FlowType(%d)", ft)
}

func ParseFlowType(label string) (ft FlowType, err error) {
	var ok bool
	if ft, ok = FlowTypeNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use flow type named %q", label)
	}
	return
}

func NewFlowType(label string) (ft FlowType) {
	var err error
	if ft, err = ParseFlowType(label); err != nil {
		panic(err)
	}
	return
}

// FlowEquation names the pressure drop correlation used for a pipe.
// EquationAuto defers the choice to the correlation selector.
type FlowEquation uint8

const (
	EquationAuto FlowEquation = iota
	DarcyWeisbach
	Weymouth
	ModifiedPanhandleA
	ModifiedPanhandleB
)

var FlowEquationNames = map[string]FlowEquation{
	"":                     EquationAuto,
	"auto":                 EquationAuto,
	"darcy-weisbach":       DarcyWeisbach,
	"darcy":                DarcyWeisbach,
	"weymouth":             Weymouth,
	"modified panhandle a": ModifiedPanhandleA,
	"panhandle a":          ModifiedPanhandleA,
	"panhandlea":           ModifiedPanhandleA,
	"modified panhandle b": ModifiedPanhandleB,
	"panhandle b":          ModifiedPanhandleB,
	"panhandleb":           ModifiedPanhandleB,
}

var FlowEquationPrintNames = []string{
	"Auto", "Darcy-Weisbach", "Weymouth", "Modified Panhandle A", "Modified Panhandle B",
}

func (fe FlowEquation) String() string {
	if int(fe) < len(FlowEquationPrintNames) {
		return FlowEquationPrintNames[fe]
	}
	return fmt.Sprintf("FlowEquation(%d)", fe)
}

func ParseFlowEquation(label string) (fe FlowEquation, err error) {
	var ok bool
	if fe, ok = FlowEquationNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use flow equation named %q", label)
	}
	return
}

type Phase uint8

const (
	PhaseGas Phase = iota
	PhaseLiquid
)

var PhaseNames = map[string]Phase{
	"gas":    PhaseGas,
	"vapor":  PhaseGas,
	"liquid": PhaseLiquid,
}

func (ph Phase) String() string {
	switch ph {
	case PhaseGas:
		return "gas"
	case PhaseLiquid:
		return "liquid"
	}
	return fmt.Sprintf("Phase(%d)", ph)
}

func ParsePhase(label string) (ph Phase, err error) {
	var ok bool
	if ph, ok = PhaseNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use phase named %q", label)
	}
	return
}

type LeakSeverity uint8

const (
	SeverityPinhole LeakSeverity = iota
	SeveritySmall
	SeverityModerate
	SeverityLarge
	SeverityCritical
)

var LeakSeverityPrintNames = []string{"pinhole", "small", "moderate", "large", "critical"}

func (ls LeakSeverity) String() string {
	if int(ls) < len(LeakSeverityPrintNames) {
		return LeakSeverityPrintNames[ls]
	}
	return fmt.Sprintf("LeakSeverity(%d)", ls)
}
