package pipeline

import "errors"

var (
	ErrInvalidConfig   = errors.New("pipeline: invalid configuration")
	ErrConnection      = errors.New("pipeline: incompatible pipe connection")
	ErrPressureOrder   = errors.New("pipeline: upstream pressure below downstream pressure")
	ErrNoValve         = errors.New("pipeline: no valve at position")
	ErrIndexOutOfRange = errors.New("pipeline: index out of range")
	ErrInvalidLocation = errors.New("pipeline: location outside [0, 1]")
	ErrNoFluid         = errors.New("pipeline: no fluid assigned")
)
