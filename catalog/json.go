package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON parses a JSON catalog. Numbers follow the HCL rules: integral
// values become int, everything else float64.
func ParseJSON(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
	}
	if c.States == nil {
		c.States = make(map[string]Definition)
	}

	for name, def := range c.States {
		for k, v := range def.Attributes {
			def.Attributes[k] = normalizeJSON(v)
		}
		c.States[name] = def
	}

	return &c, nil
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeJSON(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeJSON(e)
		}
		return t
	default:
		return v
	}
}
