package testutil

import (
	"pgregory.net/rapid"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
)

// RolesGen draws a duplicate-free role list.
func RolesGen() *rapid.Generator[[]string] {
	return rapid.SliceOfNDistinct(rapid.SampledFrom(RolePool), 0, len(RolePool), rapid.ID[string])
}

// UsersGen draws a collection with unique ids.
func UsersGen() *rapid.Generator[[]entity.User] {
	return rapid.Custom(func(t *rapid.T) []entity.User {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(1, 20), 0, 6, rapid.ID[int]).Draw(t, "ids")
		users := make([]entity.User, len(ids))
		for i, id := range ids {
			users[i] = entity.User{
				ID:     entity.ID(id),
				Name:   rapid.StringMatching(`[A-Z][a-z]{1,8}`).Draw(t, "name"),
				Active: rapid.Bool().Draw(t, "active"),
				Roles:  RolesGen().Draw(t, "roles"),
			}
		}
		return users
	})
}

// ScopeGen draws a global scope, a scope targeting one of users, or a scope
// targeting a stray id that matches nobody.
func ScopeGen(users []entity.User) *rapid.Generator[action.Scope] {
	return rapid.Custom(func(t *rapid.T) action.Scope {
		switch rapid.IntRange(0, 2).Draw(t, "scope") {
		case 0:
			return action.All
		case 1:
			if len(users) > 0 {
				u := rapid.SampledFrom(users).Draw(t, "target")
				return action.For(u.ID)
			}
			return action.All
		default:
			return action.For(entity.ID(rapid.IntRange(100, 200).Draw(t, "stray")))
		}
	})
}

// ActionGen draws any action variant, including Unknown and role or rename
// actions with an empty payload.
func ActionGen(users []entity.User) *rapid.Generator[action.Action] {
	return rapid.Custom(func(t *rapid.T) action.Action {
		scope := ScopeGen(users).Draw(t, "scope")
		role := rapid.OneOf(rapid.SampledFrom(RolePool), rapid.Just("")).Draw(t, "role")
		switch rapid.IntRange(0, 6).Draw(t, "kind") {
		case 0:
			return action.ToggleActive{Scope: scope}
		case 1:
			return action.AddRole{Scope: scope, Role: role}
		case 2:
			return action.RemoveRole{Scope: scope, Role: role}
		case 3:
			return action.Rename{Scope: scope, NewName: rapid.StringMatching(`[A-Z]?[a-z]{0,6}`).Draw(t, "newName")}
		case 4:
			return action.ResetRoles{Scope: scope}
		case 5:
			return action.DeactivateAll{Scope: scope}
		default:
			return action.Unknown{Scope: scope, Kind: "PROMOTE"}
		}
	})
}

// ActionsGen draws a short action script against users.
func ActionsGen(users []entity.User) *rapid.Generator[[]action.Action] {
	return rapid.SliceOfN(ActionGen(users), 0, 8)
}
