package radar

import (
	"errors"
	"fmt"
)

// ErrInvalidProtocol is returned when a protocol identifier is outside the
// closed set.
var ErrInvalidProtocol = errors.New("invalid protocol")

// ErrExhaustedCandidateSet is returned when a filtering step leaves no entry
// to target.
var ErrExhaustedCandidateSet = errors.New("no candidate target remains")

// ErrEmptyScan is returned when the scan handed to the first applied protocol
// class is empty.
//
// Invariant: errors.Is(ErrEmptyScan, ErrExhaustedCandidateSet) is true.
var ErrEmptyScan = fmt.Errorf("%w: scan is empty", ErrExhaustedCandidateSet)

func exhausted(stage Stage, p Protocol) error {
	return fmt.Errorf("%s stage (%s): %w", stage, p, ErrExhaustedCandidateSet)
}
