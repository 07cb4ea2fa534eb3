// Package builder builds fixture entities from composable named states.
//
// A Builder holds a chain of mutations: the default states given to New,
// then every State and With call in call order. One and Many construct fresh
// entities and run the whole chain against each of them:
//
//	users := state.NewRegistry[*User]().
//	    MustRegister("admin", state.Static[*User](entity.Attributes{"role": "admin"})).
//	    MustRegister("active", state.Static[*User](entity.Attributes{"status": "active"}))
//
//	b, err := builder.New(users, []string{"admin"}, NewUser)
//	if err != nil {
//	    return err
//	}
//	b.MustState("active")
//	u, err := b.One(ctx) // role=admin, status=active
//
// Each entity of a batch runs its chain in its own goroutine. Within one
// entity, mutations run strictly in chain order and each sees the attributes
// merged by the mutations before it. Across entities there is no ordering.
//
// The chain is never reset: later One/Many calls reapply it to new entities.
// Configuring a builder (State, With) while a build call is running is not
// supported.
package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tailored-agentic-units/fixture/config"
	"github.com/tailored-agentic-units/fixture/entity"
	"github.com/tailored-agentic-units/fixture/observability"
	"github.com/tailored-agentic-units/fixture/state"
	"github.com/tailored-agentic-units/fixture/workflows"
)

type link[E any] struct {
	label  string
	mutate state.Mutation[E]
}

// Option configures a Builder during New.
type Option func(*options)

type options struct {
	cfg      config.BuilderConfig
	observer observability.Observer
}

// WithConfig merges cfg over DefaultBuilderConfig.
func WithConfig(cfg config.BuilderConfig) Option {
	return func(o *options) { o.cfg.Merge(&cfg) }
}

// WithObserver overrides the observer named in the configuration.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Builder accumulates a chain of mutations and applies it to freshly
// constructed entities.
type Builder[E entity.Assignable] struct {
	registry   *state.Registry[E]
	factory    Factory[E]
	chain      []link[E]
	adHoc      int
	observer   observability.Observer
	maxWorkers int
}

// New creates a Builder whose chain starts with the defaults, resolved
// against registry in order. Empty names are skipped. An unknown default
// fails New with a *state.NotFoundError before any entity is constructed.
// A nil registry has no states.
func New[E entity.Assignable](registry *state.Registry[E], defaults []string, factory Factory[E], opts ...Option) (*Builder[E], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	o := options{cfg: config.DefaultBuilderConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	observer := o.observer
	if observer == nil {
		obs, err := observability.GetObserver(o.cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		observer = obs
	}

	b := &Builder[E]{
		registry:   registry,
		factory:    factory,
		observer:   observer,
		maxWorkers: o.cfg.MaxWorkers,
	}

	for _, name := range defaults {
		if name == "" {
			continue
		}
		if _, err := b.State(name); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// NewRecords creates a Builder of *entity.Record starting from empty records.
func NewRecords(registry *state.Registry[*entity.Record], defaults []string, opts ...Option) (*Builder[*entity.Record], error) {
	return New(registry, defaults, NewRecord, opts...)
}

// State appends the named state's mutation to the chain and returns b.
// An unknown name returns a *state.NotFoundError and leaves the chain
// unchanged.
func (b *Builder[E]) State(name string) (*Builder[E], error) {
	m, err := b.registry.Resolve(name)
	if err != nil {
		b.observer.OnEvent(context.Background(), observability.Event{
			Type:      EventStateUnknown,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "builder.State",
			Data:      map[string]any{"state": name},
		})
		return nil, err
	}

	b.chain = append(b.chain, link[E]{label: name, mutate: m})

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventStateResolve,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "builder.State",
		Data: map[string]any{
			"state":        name,
			"chain_length": len(b.chain),
		},
	})

	return b, nil
}

// MustState is State for fixture setup code; it panics on unknown names.
func (b *Builder[E]) MustState(name string) *Builder[E] {
	if _, err := b.State(name); err != nil {
		panic(err)
	}
	return b
}

// With appends an ad-hoc mutation to the chain, bypassing the registry, and
// returns b. A nil mutation is ignored.
func (b *Builder[E]) With(m state.Mutation[E]) *Builder[E] {
	if m == nil {
		return b
	}
	b.adHoc++
	b.chain = append(b.chain, link[E]{label: fmt.Sprintf("with#%d", b.adHoc), mutate: m})
	return b
}

// Len reports the number of mutations in the chain.
func (b *Builder[E]) Len() int {
	return len(b.chain)
}

// Labels lists the chain in application order: state names for named
// states and "with#N" for ad-hoc mutations.
func (b *Builder[E]) Labels() []string {
	labels := make([]string, len(b.chain))
	for i, l := range b.chain {
		labels[i] = l.label
	}
	return labels
}

// One builds a single entity.
func (b *Builder[E]) One(ctx context.Context) (E, error) {
	entities, err := b.build(ctx, "builder.One", 1)
	if err != nil {
		var zero E
		return zero, err
	}
	return entities[0], nil
}

// Many builds count entities and returns them in batch order. Many(ctx, 0)
// returns an empty slice without constructing anything.
func (b *Builder[E]) Many(ctx context.Context, count int) ([]E, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	return b.build(ctx, "builder.Many", count)
}

func (b *Builder[E]) build(ctx context.Context, source string, count int) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	chain := slices.Clone(b.chain)

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventBuildStart,
		Level:     observability.LevelInfo,
		Timestamp: start,
		Source:    source,
		Data: map[string]any{
			"entity_count": count,
			"chain_length": len(chain),
		},
	})

	batch := make([]E, count)
	for i := range batch {
		batch[i] = b.factory()
	}

	entities, err := workflows.ProcessParallel(ctx, b.observer, b.maxWorkers, batch,
		func(ctx context.Context, index int, e E) (E, error) {
			return b.pipeline(ctx, chain, index, batch)
		},
	)

	data := map[string]any{
		"entity_count": count,
		"chain_length": len(chain),
		"error":        err != nil,
	}
	data[observability.DurationKey] = time.Since(start)

	if err != nil {
		err = mutationError[E](err)
		data["error_message"] = err.Error()
		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventBuildComplete,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    source,
			Data:      data,
		})
		return nil, err
	}

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventBuildComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})

	return entities, nil
}

// pipeline applies the chain to batch[index], merging each update before the
// next mutation runs.
func (b *Builder[E]) pipeline(ctx context.Context, chain []link[E], index int, batch []E) (E, error) {
	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventEntityStart,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "builder.pipeline",
		Data:      map[string]any{"entity_index": index},
	})

	apply := func(ctx context.Context, l link[E], e E) (E, error) {
		update, err := l.mutate(ctx, e, index, batch)
		if err != nil {
			return e, err
		}
		if err := entity.Merge(e, update); err != nil {
			return e, fmt.Errorf("failed to merge update: %w", err)
		}
		return e, nil
	}

	result, err := workflows.ProcessChain(ctx, b.observer, chain, batch[index], apply)

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventEntityComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "builder.pipeline",
		Data: map[string]any{
			"entity_index":    index,
			"steps_completed": result.Steps,
			"error":           err != nil,
		},
	})

	return result.Final, err
}

// mutationError flattens the parallel and chain wrappers into a
// *MutationError. Errors from elsewhere pass through unchanged.
func mutationError[E any](err error) error {
	var taskErr *workflows.TaskError
	var chainErr *workflows.ChainError[link[E], E]
	if errors.As(err, &taskErr) && errors.As(err, &chainErr) {
		return &MutationError{
			Index: taskErr.Index,
			Step:  chainErr.StepIndex,
			State: chainErr.Item.label,
			Err:   chainErr.Err,
		}
	}
	return err
}
