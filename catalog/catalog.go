// Package catalog loads named record states from declarative files.
//
// A catalog lists default state names and state definitions. Each definition
// sets static attributes and can fill attributes with the entity's batch
// index (sequence) or a fresh random UUID (uuid). Catalogs are written in HCL
//
//	defaults = ["member"]
//
//	state "member" {
//	  attributes = { role = "member", active = true }
//	  sequence   = ["seq"]
//	  uuid       = ["id"]
//	}
//
// or the equivalent JSON:
//
//	{
//	  "defaults": ["member"],
//	  "states": {
//	    "member": {
//	      "attributes": {"role": "member", "active": true},
//	      "sequence": ["seq"],
//	      "uuid": ["id"]
//	    }
//	  }
//	}
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/entity"
	"github.com/tailored-agentic-units/fixture/state"
)

// Sentinel errors for catalog loading.
var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrDuplicateState    = errors.New("duplicate state definition")
	ErrInvalidState      = errors.New("invalid state definition")
)

// Definition describes one named state.
type Definition struct {
	// Attributes are assigned as-is (deep-copied per entity)
	Attributes entity.Attributes `json:"attributes,omitempty"`

	// Sequence names attributes set to the entity's index in its batch
	Sequence []string `json:"sequence,omitempty"`

	// UUID names attributes set to a new random UUID string per entity
	UUID []string `json:"uuid,omitempty"`
}

// Catalog is a parsed state catalog.
type Catalog struct {
	Defaults []string              `json:"defaults,omitempty"`
	States   map[string]Definition `json:"states"`
}

// Load reads a catalog file. The format follows the extension: .hcl or .json.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(data, path)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Names lists the defined state names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Registry registers every definition as a record state.
func (c *Catalog) Registry() (*state.Registry[*entity.Record], error) {
	reg := state.NewRegistry[*entity.Record]()
	for _, name := range c.Names() {
		def := c.States[name]
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("state %s: %w", name, err)
		}
		if err := reg.Register(name, def.Mutation()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Builder returns a record builder over the catalog's registry, starting
// from the catalog defaults.
func (c *Catalog) Builder(opts ...builder.Option) (*builder.Builder[*entity.Record], error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return builder.NewRecords(reg, c.Defaults, opts...)
}

// Mutation returns the record state for d.
func (d Definition) Mutation() state.Mutation[*entity.Record] {
	return func(ctx context.Context, r *entity.Record, index int, batch []*entity.Record) (entity.Attributes, error) {
		update := make(entity.Attributes, len(d.Attributes)+len(d.Sequence)+len(d.UUID))
		for k, v := range d.Attributes {
			update[k] = cloneValue(v)
		}
		for _, name := range d.Sequence {
			update[name] = index
		}
		for _, name := range d.UUID {
			update[name] = uuid.NewString()
		}
		return update, nil
	}
}

func (d Definition) validate() error {
	for _, name := range slices.Concat(d.Sequence, d.UUID) {
		if name == "" {
			return fmt.Errorf("%w: empty generated attribute name", ErrInvalidState)
		}
	}
	return nil
}

// cloneValue deep-copies the map and slice shapes produced by the parsers so
// entities never share nested values.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
