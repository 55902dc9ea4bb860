package rhythm

import "errors"

var (
	ErrInvalidTempo       = errors.New("tempo must be a positive, finite number of beats per minute")
	ErrInvalidBarLength   = errors.New("bar length must be at least one beat")
	ErrInvalidSubdivision = errors.New("beat subdivision must be a positive integer")
)
