package testutil

import (
	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
)

// Users returns the reference collection.
func Users() []entity.User {
	return []entity.User{
		{ID: 1, Name: "Alice", Active: true, Roles: []string{"admin"}},
		{ID: 2, Name: "Bob", Active: false, Roles: []string{"user"}},
		{ID: 3, Name: "Charlie", Active: true, Roles: []string{"user", "moderator"}},
	}
}

// Actions returns the reference action script.
func Actions() []action.Action {
	return []action.Action{
		action.ToggleActive{Scope: action.For(2)},
		action.AddRole{Scope: action.For(3), Role: "admin"},
		action.RemoveRole{Scope: action.For(1), Role: "admin"},
		action.Rename{Scope: action.For(2), NewName: "Robert"},
		action.AddRole{Scope: action.All, Role: "editor"},
	}
}

// RolePool is the set of roles generators draw from. Kept small so add and
// remove actions often hit roles that are already held.
var RolePool = []string{"admin", "user", "moderator", "editor"}
