package builder

import (
	"slices"

	"github.com/tailored-agentic-units/fixture/entity"
)

// Factory constructs one fresh, unmutated entity per call.
type Factory[E any] func() E

// Construct snapshots args and returns a Factory calling ctor with them.
// Every call receives its own copy of the arguments, so a constructor that
// modifies its argument slice cannot affect later entities.
func Construct[E, A any](ctor func(args ...A) E, args ...A) Factory[E] {
	snapshot := slices.Clone(args)
	return func() E {
		return ctor(slices.Clone(snapshot)...)
	}
}

// NewRecord is a Factory for empty records.
func NewRecord() *entity.Record {
	return entity.NewRecord(nil)
}
