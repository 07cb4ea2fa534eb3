package builder

import (
	"errors"
	"fmt"
)

// Sentinel errors for builder configuration and build calls.
var (
	ErrNilFactory    = errors.New("entity factory is nil")
	ErrNegativeCount = errors.New("entity count is negative")
)

// MutationError reports the mutation that failed a build call. Index is the
// entity's position in the batch, Step the mutation's position in the chain,
// and State its label (a state name, or "with#N" for the Nth ad-hoc mutation).
// It unwraps to the error the mutation returned.
type MutationError struct {
	Index int
	Step  int
	State string
	Err   error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("entity %d: state %s (step %d): %v", e.Index, e.State, e.Step, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
