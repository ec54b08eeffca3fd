package reducer

import (
	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
)

// Reducer computes the next value of an entity for an action.
type Reducer interface {
	Reduce(u entity.User, a action.Action) entity.User
}

// Func adapts a plain function to Reducer.
type Func func(u entity.User, a action.Action) entity.User

// Reduce calls f.
func (f Func) Reduce(u entity.User, a action.Action) entity.User { return f(u, a) }

// Named is implemented by reducers that can describe themselves.
type Named interface {
	Name() string
}

type namedFunc struct {
	name string
	fn   Func
}

func (n namedFunc) Name() string { return n.name }

func (n namedFunc) Reduce(u entity.User, a action.Action) entity.User { return n.fn(u, a) }

// NewNamed wraps fn with a name used in logs and traces.
func NewNamed(name string, fn Func) Reducer {
	return namedFunc{name: name, fn: fn}
}

// NameOf returns the name of r, or "anonymous".
func NameOf(r Reducer) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return "anonymous"
}

// ToggleActive flips the active flag on TOGGLE_ACTIVE.
func ToggleActive() Reducer {
	return NewNamed("toggle-active", func(u entity.User, a action.Action) entity.User {
		if _, ok := a.(action.ToggleActive); !ok {
			return u
		}
		u.Active = !u.Active
		return u
	})
}

// AddRole appends the role once on ADD_ROLE.
func AddRole() Reducer {
	return NewNamed("add-role", func(u entity.User, a action.Action) entity.User {
		act, ok := a.(action.AddRole)
		if !ok || act.Role == "" || u.HasRole(act.Role) {
			return u
		}
		roles := make([]string, 0, len(u.Roles)+1)
		roles = append(roles, u.Roles...)
		return u.WithRoles(append(roles, act.Role))
	})
}

// RemoveRole filters the role out on REMOVE_ROLE.
func RemoveRole() Reducer {
	return NewNamed("remove-role", func(u entity.User, a action.Action) entity.User {
		act, ok := a.(action.RemoveRole)
		if !ok || act.Role == "" || !u.HasRole(act.Role) {
			return u
		}
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			if r != act.Role {
				roles = append(roles, r)
			}
		}
		return u.WithRoles(roles)
	})
}

// Rename replaces the name on UPDATE_NAME.
func Rename() Reducer {
	return NewNamed("rename", func(u entity.User, a action.Action) entity.User {
		act, ok := a.(action.Rename)
		if !ok || act.NewName == "" {
			return u
		}
		u.Name = act.NewName
		return u
	})
}

// ResetRoles clears the role list on RESET_ROLES.
func ResetRoles() Reducer {
	return NewNamed("reset-roles", func(u entity.User, a action.Action) entity.User {
		if _, ok := a.(action.ResetRoles); !ok {
			return u
		}
		if len(u.Roles) == 0 {
			return u
		}
		return u.WithRoles([]string{})
	})
}

// DeactivateAll clears the active flag on DEACTIVATE_ALL.
func DeactivateAll() Reducer {
	return NewNamed("deactivate-all", func(u entity.User, a action.Action) entity.User {
		if _, ok := a.(action.DeactivateAll); !ok {
			return u
		}
		u.Active = false
		return u
	})
}

// builtins lists the built-in reducers keyed by the type each handles.
func builtins() []struct {
	t action.Type
	r Reducer
} {
	return []struct {
		t action.Type
		r Reducer
	}{
		{action.TypeToggleActive, ToggleActive()},
		{action.TypeAddRole, AddRole()},
		{action.TypeRemoveRole, RemoveRole()},
		{action.TypeRename, Rename()},
		{action.TypeResetRoles, ResetRoles()},
		{action.TypeDeactivateAll, DeactivateAll()},
	}
}

// Changed reports whether a reducer step altered the entity.
func Changed(before, after entity.User) bool {
	return !before.Equal(after)
}
