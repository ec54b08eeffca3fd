package reducer

import (
	"sort"
	"sync"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
)

// Registry selects the reducers an action runs through. Both shapes reduce
// an entity the same way a single Reducer does.
type Registry interface {
	Reducer
	// Names describes the registry's entries in application order.
	Names() []string
}

// Keyed maps each action type to exactly one reducer. It is safe for
// concurrent use.
type Keyed struct {
	mu       sync.RWMutex
	reducers map[action.Type]Reducer
}

// NewKeyed creates an empty keyed registry.
func NewKeyed() *Keyed {
	return &Keyed{reducers: make(map[action.Type]Reducer)}
}

// Register binds r to t, replacing any previous binding.
func (k *Keyed) Register(t action.Type, r Reducer) *Keyed {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.reducers[t] = r
	return k
}

// Get retrieves the reducer bound to t.
func (k *Keyed) Get(t action.Type) (Reducer, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	r, ok := k.reducers[t]
	return r, ok
}

// List returns the sorted action types with a bound reducer.
func (k *Keyed) List() []action.Type {
	k.mu.RLock()
	defer k.mu.RUnlock()
	types := make([]action.Type, 0, len(k.reducers))
	for t := range k.reducers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Names returns "TYPE=reducer" entries sorted by type.
func (k *Keyed) Names() []string {
	types := k.List()
	names := make([]string, 0, len(types))
	for _, t := range types {
		r, _ := k.Get(t)
		names = append(names, string(t)+"="+NameOf(r))
	}
	return names
}

// Reduce runs the reducer bound to the action's type. Unbound types leave
// the entity unchanged.
func (k *Keyed) Reduce(u entity.User, a action.Action) entity.User {
	if a == nil {
		return u
	}
	r, ok := k.Get(a.Type())
	if !ok {
		return u
	}
	return r.Reduce(u, a)
}

// Chain runs every reducer for every action, left to right, each seeing the
// previous one's output.
type Chain []Reducer

// NewChain creates a chain over reducers in the given order.
func NewChain(reducers ...Reducer) Chain {
	return Chain(reducers)
}

// Reduce folds the chain over u.
func (c Chain) Reduce(u entity.User, a action.Action) entity.User {
	if a == nil {
		return u
	}
	acc := u
	for _, r := range c {
		acc = r.Reduce(acc, a)
	}
	return acc
}

// Names returns the reducer names in chain order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = NameOf(r)
	}
	return names
}

// Default returns a keyed registry over the built-in reducers.
func Default() *Keyed {
	k := NewKeyed()
	for _, b := range builtins() {
		k.Register(b.t, b.r)
	}
	return k
}

// DefaultChain returns a chain over the built-in reducers.
func DefaultChain() Chain {
	bs := builtins()
	c := make(Chain, len(bs))
	for i, b := range bs {
		c[i] = b.r
	}
	return c
}

// Shapes of registry accepted by ForShape.
const (
	ShapeKeyed   = "keyed"
	ShapeChained = "chained"
)

// ForShape returns the default registry of the named shape, or false when
// the shape is not recognised.
func ForShape(shape string) (Registry, bool) {
	switch shape {
	case ShapeKeyed, "":
		return Default(), true
	case ShapeChained:
		return DefaultChain(), true
	}
	return nil, false
}
