package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/reducer"
	"github.com/kbukum/reducekit/resilience"
)

const defaultServiceName = "reducekit"

// Dispatcher runs action lists through a reducer registry.
// A Dispatcher is safe for concurrent use once built.
type Dispatcher struct {
	registry    reducer.Registry
	observers   []Observer
	parallelism int
	log         *logger.Logger
	metrics     *observability.Metrics
	service     string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver adds an observer notified of every reducer step.
// Multiple observers are notified in the order they were added.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// WithParallelism reduces the users of a single action on up to n
// goroutines. Values below 2 keep the dispatcher serial.
func WithParallelism(n int) Option {
	return func(d *Dispatcher) {
		d.parallelism = n
	}
}

// WithLogger sets the logger used for run-level messages.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMetrics records run totals, durations and unmatched actions.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithServiceName sets the service name stamped on run spans.
func WithServiceName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.service = name
		}
	}
}

// New creates a Dispatcher over reg. A nil reg uses reducer.Default.
func New(reg reducer.Registry, opts ...Option) *Dispatcher {
	if reg == nil {
		reg = reducer.Default()
	}
	d := &Dispatcher{
		registry:    reg,
		parallelism: 1,
		log:         logger.Get("pipeline"),
		service:     defaultServiceName,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reduces through.
func (d *Dispatcher) Registry() reducer.Registry { return d.registry }

// Run applies actions in order and returns the resulting users. The output
// has the same length and id order as users. The only error is context
// cancellation, which is checked before each action.
func (d *Dispatcher) Run(ctx context.Context, users []entity.User, actions []action.Action) ([]entity.User, error) {
	return d.run(ctx, users, actions, nil)
}

// History applies actions like Run and returns the collection as it stood
// after each action. The last element equals Run's result; an empty action
// list yields an empty history.
func (d *Dispatcher) History(ctx context.Context, users []entity.User, actions []action.Action) ([][]entity.User, error) {
	history := make([][]entity.User, 0, len(actions))
	_, err := d.run(ctx, users, actions, func(state []entity.User) {
		history = append(history, entity.CloneAll(state))
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (d *Dispatcher) run(ctx context.Context, users []entity.User, actions []action.Action, after func([]entity.User)) (out []entity.User, err error) {
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := d.log.WithContext(ctx)

	rc := observability.NewRunContext(d.service, runID, registryShape(d.registry), d.metrics)
	ctx, span := rc.StartRunSpan(ctx, len(users), len(actions))
	defer func() {
		status := observability.StatusOK
		if err != nil {
			status = observability.StatusCanceled
		}
		rc.EndRun(ctx, span, status, err)
	}()

	log.Debug("pipeline run started", logger.Fields(
		"users", len(users),
		"actions", len(actions),
		"parallelism", d.parallelism,
	))

	state := entity.CloneAll(users)
	for i, a := range actions {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn("pipeline run canceled", logger.Fields(logger.FieldActionIndex, i))
			return nil, fmt.Errorf("applying action %d: %w", i, errors.Canceled(ctxErr))
		}
		state = d.step(ctx, runID, i, a, state)
		if after != nil {
			after(state)
		}
	}

	log.Debug("pipeline run completed", logger.DurationFields("run", rc.Duration()))
	return state, nil
}

// step applies one action to every user it reaches and returns a new
// collection.
func (d *Dispatcher) step(ctx context.Context, runID string, index int, a action.Action, state []entity.User) []entity.User {
	if a != nil && !d.handles(a) {
		d.log.WithContext(ctx).Debug("no reducer for action", logger.Fields(
			logger.FieldActionIndex, index,
			logger.FieldActionType, string(a.Type()),
		))
		return slices.Clone(state)
	}

	next := make([]entity.User, len(state))
	matched := make([]int, 0, len(state))
	for pos, u := range state {
		if a != nil && action.Matches(a, u.ID) {
			matched = append(matched, pos)
			continue
		}
		next[pos] = u
	}

	if len(matched) == 0 && d.metrics != nil && a != nil {
		d.metrics.RecordUnmatched(ctx, string(a.Type()))
	}

	reduce := func(pos int) {
		before := state[pos]
		after := d.registry.Reduce(before, a)
		next[pos] = after
		d.notify(ctx, Step{
			RunID:    runID,
			Index:    index,
			Position: pos,
			Action:   a,
			Before:   before,
			After:    after,
			Changed:  reducer.Changed(before, after),
		})
	}

	if d.parallelism < 2 || len(matched) < 2 {
		for _, pos := range matched {
			reduce(pos)
		}
		return next
	}

	// Cancellation is checked between actions only.
	bh := resilience.NewBulkhead(resilience.DefaultBulkheadConfig("pipeline.step", d.concurrency(len(matched))))
	_ = resilience.Each(context.WithoutCancel(ctx), bh, matched, func(pos int) error {
		reduce(pos)
		return nil
	})

	return next
}

// typeLookup is implemented by registries that route on the action type.
type typeLookup interface {
	Get(t action.Type) (reducer.Reducer, bool)
}

// handles reports whether the registry has anything to run for a. Only
// type-routed registries can tell; a chain always runs.
func (d *Dispatcher) handles(a action.Action) bool {
	lk, ok := d.registry.(typeLookup)
	if !ok {
		return true
	}
	_, found := lk.Get(a.Type())
	return found
}

func (d *Dispatcher) notify(ctx context.Context, s Step) {
	for _, o := range d.observers {
		o.Observe(ctx, s)
	}
}

func (d *Dispatcher) concurrency(n int) int {
	if d.parallelism < n {
		return d.parallelism
	}
	return n
}

func registryShape(reg reducer.Registry) string {
	switch reg.(type) {
	case *reducer.Keyed:
		return reducer.ShapeKeyed
	case reducer.Chain:
		return reducer.ShapeChained
	default:
		return "custom"
	}
}

// Apply runs actions over users through reg with a default dispatcher.
func Apply(users []entity.User, actions []action.Action, reg reducer.Registry) []entity.User {
	// Run only fails on cancellation.
	out, _ := New(reg).Run(context.Background(), users, actions)
	return out
}
