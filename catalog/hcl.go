package catalog

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/tailored-agentic-units/fixture/entity"
)

type hclCatalog struct {
	Defaults []string   `hcl:"defaults,optional"`
	States   []hclState `hcl:"state,block"`
}

type hclState struct {
	Name       string     `hcl:"name,label"`
	Attributes *cty.Value `hcl:"attributes,optional"`
	Sequence   []string   `hcl:"sequence,optional"`
	UUID       []string   `hcl:"uuid,optional"`
}

// ParseHCL parses an HCL catalog. filename is used in diagnostics only.
func ParseHCL(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL catalog %s: %w", filename, diags)
	}

	var raw hclCatalog
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL catalog %s: %w", filename, diags)
	}

	c := &Catalog{
		Defaults: raw.Defaults,
		States:   make(map[string]Definition, len(raw.States)),
	}
	for _, s := range raw.States {
		if _, exists := c.States[s.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, s.Name)
		}

		def := Definition{Sequence: s.Sequence, UUID: s.UUID}
		if s.Attributes != nil && !s.Attributes.IsNull() {
			attrs, err := objectAttributes(*s.Attributes)
			if err != nil {
				return nil, fmt.Errorf("state %s: %w", s.Name, err)
			}
			def.Attributes = attrs
		}
		c.States[s.Name] = def
	}

	return c, nil
}

func objectAttributes(val cty.Value) (entity.Attributes, error) {
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%w: attributes must be an object, got %s", ErrInvalidState, ty.FriendlyName())
	}

	converted, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	m, _ := converted.(map[string]any)
	return entity.Attributes(m), nil
}

// ctyToGo converts a known cty value to plain Go values: string, bool, int
// for integral numbers, float64 otherwise, []any and map[string]any.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() {
		return nil, fmt.Errorf("%w: value is not known", ErrInvalidState)
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		return numberValue(val.AsBigFloat()), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %s", ErrInvalidState, ty.FriendlyName())
	}
}

func numberValue(f *big.Float) any {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return int(i)
		}
	}
	v, _ := f.Float64()
	return v
}
