package calculator

import "errors"

var (
	// ErrInsufficientHistory is returned when the series is shorter than a required window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrNoStructure is returned when no swing high or swing low can be found.
	ErrNoStructure = errors.New("no market structure")
)
