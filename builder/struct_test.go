package builder_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/entity"
	"github.com/tailored-agentic-units/fixture/state"
)

type account struct {
	Email  string
	Plan   string
	Credit int
}

var accountFields = entity.Fields[account]{
	"email":  entity.Field(func(a *account, v string) { a.Email = v }),
	"plan":   entity.Field(func(a *account, v string) { a.Plan = v }),
	"credit": entity.Field(func(a *account, v int) { a.Credit = v }),
}

func (a *account) Assign(name string, value any) error {
	return accountFields.Assign(a, name, value)
}

func newAccount() *account {
	return &account{Plan: "free"}
}

func TestStructEntities(t *testing.T) {
	accounts := state.NewRegistry[*account]().
		MustRegister("paid", state.Static[*account](entity.Attributes{"plan": "pro", "credit": 100})).
		MustRegister("numbered", func(ctx context.Context, a *account, i int, batch []*account) (entity.Attributes, error) {
			return entity.Attributes{"email": fmt.Sprintf("user%d@example.com", i)}, nil
		})

	b, err := builder.New(accounts, []string{"numbered"}, newAccount, quiet())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b.MustState("paid")

	got, err := b.Many(context.Background(), 2)
	if err != nil {
		t.Fatalf("Many() error = %v", err)
	}

	want := []*account{
		{Email: "user0@example.com", Plan: "pro", Credit: 100},
		{Email: "user1@example.com", Plan: "pro", Credit: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Many() mismatch (-want +got):\n%s", diff)
	}
}

func TestConstruct_SnapshotsArguments(t *testing.T) {
	args := []string{"free"}
	calls := 0
	ctor := func(args ...string) *account {
		calls++
		a := &account{Plan: args[0]}
		args[0] = "mutated by constructor"
		return a
	}

	factory := builder.Construct(ctor, args...)
	args[0] = "mutated by caller"

	b, err := builder.New(nil, nil, factory, quiet())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := b.Many(context.Background(), 3)
	if err != nil {
		t.Fatalf("Many() error = %v", err)
	}
	for i, a := range got {
		if a.Plan != "free" {
			t.Errorf("entity %d Plan = %q, want free", i, a.Plan)
		}
	}
	if calls != 3 {
		t.Errorf("constructor called %d times, want 3", calls)
	}
}
