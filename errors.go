package heatmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every *ArgumentError.
	ErrInvalidArgument = errors.New("heatmap: invalid argument")

	// ErrUnsupportedMode is returned on the first render of a chart whose
	// type is neither "circle" nor "horizontal".
	ErrUnsupportedMode = errors.New(`heatmap: type not recognized, existing types are: "horizontal", "circle"`)

	// ErrBackend reports a renderer resource failure. Charts hand it to the
	// error handler and skip the frame.
	ErrBackend = errors.New("heatmap: backend failure")

	// ErrFallbackToCPU is returned by an Accelerator that cannot serve a
	// frame. The chart renders the frame with the software renderer instead.
	ErrFallbackToCPU = errors.New("heatmap: falling back to CPU rendering")
)

// ArgumentKind classifies an invalid argument.
type ArgumentKind uint8

const (
	// KindType means the value has the wrong type or is not a finite number.
	KindType ArgumentKind = iota

	// KindUndefined means no value was supplied.
	KindUndefined
)

// String returns the kind name.
func (k ArgumentKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("ArgumentKind(%d)", uint8(k))
	}
}

// ArgumentError is returned by setters and options that reject a value.
// The chart is left unchanged.
type ArgumentError struct {
	Op    string // operation, e.g. "SetZoom"
	Kind  ArgumentKind
	Value any
	Want  string // human readable expectation
}

func (e *ArgumentError) Error() string {
	want := e.Want
	if want == "" {
		want = "a finite number"
	}
	if e.Kind == KindUndefined {
		return fmt.Sprintf("heatmap: %s: parameter is undefined, must be %s", e.Op, want)
	}
	return fmt.Sprintf("heatmap: %s: wrong parameter value %v (%T), must be %s", e.Op, e.Value, e.Value, want)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }
