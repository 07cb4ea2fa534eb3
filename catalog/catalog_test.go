package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/catalog"
	"github.com/tailored-agentic-units/fixture/entity"
	"github.com/tailored-agentic-units/fixture/observability"
	"github.com/tailored-agentic-units/fixture/state"
)

var memberAttrs = entity.Attributes{
	"role":   "member",
	"active": true,
	"quota":  10,
	"ratio":  0.5,
	"tags":   []any{"a", "b"},
	"limits": map[string]any{"daily": 3},
}

func quiet() builder.Option {
	return builder.WithObserver(observability.NoOpObserver{})
}

func TestLoad_Formats(t *testing.T) {
	for _, file := range []string{"users.hcl", "users.json"} {
		t.Run(file, func(t *testing.T) {
			c, err := catalog.Load(filepath.Join("testdata", file))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if diff := cmp.Diff([]string{"member"}, c.Defaults); diff != "" {
				t.Errorf("defaults mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"admin", "member", "numbered"}, c.Names()); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}

			member := c.States["member"]
			if diff := cmp.Diff(memberAttrs, member.Attributes); diff != "" {
				t.Errorf("member attributes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"id"}, member.UUID); diff != "" {
				t.Errorf("member uuid mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"seq"}, c.States["numbered"].Sequence); diff != "" {
				t.Errorf("numbered sequence mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte("defaults: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := catalog.Load(path)
	if !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.hcl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{
			name: "syntax",
			src:  `state "a" {`,
		},
		{
			name: "duplicate state",
			src: `
state "a" {}
state "a" {}
`,
			is: catalog.ErrDuplicateState,
		},
		{
			name: "attributes not an object",
			src: `
state "a" {
  attributes = "role"
}
`,
			is: catalog.ErrInvalidState,
		},
		{
			name: "variable reference",
			src: `
state "a" {
  attributes = { role = var.role }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.ParseHCL([]byte(tt.src), "test.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestParseHCL_NullAttribute(t *testing.T) {
	c, err := catalog.ParseHCL([]byte(`
state "cleared" {
  attributes = { manager = null }
}
`), "test.hcl")
	if err != nil {
		t.Fatalf("ParseHCL failed: %v", err)
	}

	v, ok := c.States["cleared"].Attributes["manager"]
	if !ok || v != nil {
		t.Errorf("expected manager=nil, got %v (present=%v)", v, ok)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	if _, err := catalog.ParseJSON([]byte(`{"states": [`)); err == nil {
		t.Error("expected error")
	}
}

func TestParseJSON_Empty(t *testing.T) {
	c, err := catalog.ParseJSON([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	reg, err := c.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d states", reg.Len())
	}
}

func TestRegistry_InvalidDefinition(t *testing.T) {
	c := &catalog.Catalog{
		States: map[string]catalog.Definition{
			"broken": {Sequence: []string{""}},
		},
	}

	if _, err := c.Registry(); !errors.Is(err, catalog.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestRegistry_EmptyStateName(t *testing.T) {
	c := &catalog.Catalog{
		States: map[string]catalog.Definition{"": {}},
	}

	if _, err := c.Registry(); !errors.Is(err, state.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestBuilder_Many(t *testing.T) {
	c, err := catalog.Load(filepath.Join("testdata", "users.hcl"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b, err := c.Builder(quiet())
	if err != nil {
		t.Fatalf("Builder failed: %v", err)
	}
	b.MustState("admin").MustState("numbered")

	records, err := b.Many(context.Background(), 3)
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}

	ids := make(map[string]bool)
	for i, r := range records {
		if role, _ := r.Get("role"); role != "admin" {
			t.Errorf("record %d: expected role=admin, got %v", i, role)
		}
		if quota, _ := r.Get("quota"); quota != 10 {
			t.Errorf("record %d: expected quota=10, got %v", i, quota)
		}
		if seq, _ := r.Get("seq"); seq != i {
			t.Errorf("record %d: expected seq=%d, got %v", i, i, seq)
		}

		v, _ := r.Get("id")
		id, ok := v.(string)
		if !ok {
			t.Fatalf("record %d: expected string id, got %T", i, v)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("record %d: invalid uuid %q: %v", i, id, err)
		}
		ids[id] = true
	}

	if len(ids) != 3 {
		t.Errorf("expected 3 distinct ids, got %d", len(ids))
	}
}

func TestBuilder_UnknownDefault(t *testing.T) {
	c := &catalog.Catalog{
		Defaults: []string{"missing"},
		States:   map[string]catalog.Definition{"admin": {}},
	}

	_, err := c.Builder(quiet())
	var nf *state.NotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Errorf("expected NotFoundError for missing, got %v", err)
	}
}

func TestMutation_NestedValuesNotShared(t *testing.T) {
	c, err := catalog.Load(filepath.Join("testdata", "users.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b, err := c.Builder(quiet())
	if err != nil {
		t.Fatalf("Builder failed: %v", err)
	}

	records, err := b.Many(context.Background(), 2)
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}

	first, _ := records[0].Get("limits")
	first.(map[string]any)["daily"] = 99

	second, _ := records[1].Get("limits")
	if got := second.(map[string]any)["daily"]; got != 3 {
		t.Errorf("expected second record daily=3, got %v", got)
	}
	if got := c.States["member"].Attributes["limits"].(map[string]any)["daily"]; got != 3 {
		t.Errorf("expected catalog daily=3, got %v", got)
	}
}
