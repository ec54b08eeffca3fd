package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
)

// Step describes one reducer application to one user.
type Step struct {
	RunID string
	// Index is the action's position in the action list.
	Index int
	// Position is the user's position in the collection.
	Position int
	Action   action.Action
	Before   entity.User
	After    entity.User
	Changed  bool
}

// Observer is notified after every reducer step. Observers must not modify
// the users they receive, and with parallelism enabled they are called
// concurrently in no particular order within an action.
type Observer interface {
	Observe(ctx context.Context, step Step)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, step Step)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, step Step) { f(ctx, step) }

// Observers fans a step out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	list := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(ctx context.Context, step Step) {
		for _, o := range list {
			o.Observe(ctx, step)
		}
	})
}

// LoggingObserver logs the action type, user name and before/after state of
// every step.
func LoggingObserver(log *logger.Logger) Observer {
	return ObserverFunc(func(ctx context.Context, step Step) {
		log.WithContext(ctx).Info("reducer step", map[string]interface{}{
			logger.FieldActionType:  string(step.Action.Type()),
			logger.FieldActionIndex: step.Index,
			logger.FieldEntityID:    int(step.Before.ID),
			logger.FieldEntityName:  step.Before.Name,
			logger.FieldBefore:      step.Before.String(),
			logger.FieldAfter:       step.After.String(),
			logger.FieldChanged:     step.Changed,
		})
	})
}

// TracingObserver records each step as a span named "{prefix}.{ACTION_TYPE}".
func TracingObserver(prefix string) Observer {
	if prefix == "" {
		prefix = observability.SpanPipelineStep
	}
	return ObserverFunc(func(ctx context.Context, step Step) {
		spanName := fmt.Sprintf("%s.%s", prefix, step.Action.Type())
		_, span := observability.StartSpan(ctx, spanName)
		defer span.End()

		span.SetAttributes(
			attribute.String(observability.AttrRunID, step.RunID),
			attribute.String(observability.AttrActionType, string(step.Action.Type())),
			attribute.Int(observability.AttrActionIndex, step.Index),
			attribute.Int(observability.AttrEntityID, int(step.Before.ID)),
			attribute.String(observability.AttrEntityName, step.Before.Name),
			attribute.Bool(observability.AttrChanged, step.Changed),
		)
	})
}

// MetricsObserver counts steps and changes per action type.
func MetricsObserver(m *observability.Metrics) Observer {
	return ObserverFunc(func(ctx context.Context, step Step) {
		m.RecordStep(ctx, string(step.Action.Type()), step.Changed)
	})
}

// Recorder keeps every observed step in memory. It is safe for concurrent
// use.
type Recorder struct {
	mu    sync.Mutex
	steps []Step
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe records step.
func (r *Recorder) Observe(_ context.Context, step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Steps returns the recorded steps grouped by run in the order runs were
// first seen, then ordered by action index and user position, so the result
// does not depend on parallelism.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	r.mu.Unlock()

	runs := make(map[string]int)
	for _, s := range out {
		if _, ok := runs[s.RunID]; !ok {
			runs[s.RunID] = len(runs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := runs[out[i].RunID], runs[out[j].RunID]; ri != rj {
			return ri < rj
		}
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Changed returns the recorded steps that changed a user.
func (r *Recorder) Changed() []Step {
	var out []Step
	for _, s := range r.Steps() {
		if s.Changed {
			out = append(out, s)
		}
	}
	return out
}

// Reset discards all recorded steps.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = nil
}
