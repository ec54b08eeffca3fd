package action

import "github.com/kbukum/reducekit/entity"

// Type is the discriminator of an action.
type Type string

const (
	TypeToggleActive  Type = "TOGGLE_ACTIVE"
	TypeAddRole       Type = "ADD_ROLE"
	TypeRemoveRole    Type = "REMOVE_ROLE"
	TypeRename        Type = "UPDATE_NAME"
	TypeResetRoles    Type = "RESET_ROLES"
	TypeDeactivateAll Type = "DEACTIVATE_ALL"
)

// aliases maps accepted alternate spellings onto canonical types.
var aliases = map[string]Type{
	"RENAME":      TypeRename,
	"RENAME_USER": TypeRename,
}

// Known returns every canonical action type in declaration order.
func Known() []Type {
	return []Type{
		TypeToggleActive,
		TypeAddRole,
		TypeRemoveRole,
		TypeRename,
		TypeResetRoles,
		TypeDeactivateAll,
	}
}

// IsKnown reports whether t is a canonical action type.
func IsKnown(t Type) bool {
	for _, k := range Known() {
		if k == t {
			return true
		}
	}
	return false
}

// ParseType resolves a wire string to a canonical type, accepting aliases.
func ParseType(s string) (Type, bool) {
	if alias, ok := aliases[s]; ok {
		return alias, true
	}
	t := Type(s)
	return t, IsKnown(t)
}

// Action is an instruction applied to the entities it targets.
type Action interface {
	// Type returns the action's discriminator.
	Type() Type
	// Target returns the targeted entity id, or false for a global action.
	Target() (entity.ID, bool)

	sealed()
}

// Scope selects which entities an action applies to.
type Scope struct {
	ID *entity.ID
}

// All is the global scope: the action applies to every entity.
var All = Scope{}

// For returns a scope targeting the entity with the given id.
func For(id entity.ID) Scope {
	return Scope{ID: &id}
}

// Target returns the targeted entity id, or false for a global scope.
func (s Scope) Target() (entity.ID, bool) {
	if s.ID == nil {
		return 0, false
	}
	return *s.ID, true
}

// Matches reports whether an entity with the given id is in scope.
func (s Scope) Matches(id entity.ID) bool {
	return s.ID == nil || *s.ID == id
}

// Matches reports whether a applies to the entity with the given id.
func Matches(a Action, id entity.ID) bool {
	target, ok := a.Target()
	return !ok || target == id
}

// ToggleActive flips the active flag.
type ToggleActive struct {
	Scope
}

// AddRole appends Role once; it is a no-op when the role is already held.
type AddRole struct {
	Scope
	Role string
}

// RemoveRole filters Role out of the role list.
type RemoveRole struct {
	Scope
	Role string
}

// Rename replaces the name with NewName.
type Rename struct {
	Scope
	NewName string
}

// ResetRoles clears the role list.
type ResetRoles struct {
	Scope
}

// DeactivateAll clears the active flag.
type DeactivateAll struct {
	Scope
}

// Unknown carries an action whose type is outside the known set.
type Unknown struct {
	Scope
	Kind string
}

func (ToggleActive) Type() Type  { return TypeToggleActive }
func (AddRole) Type() Type       { return TypeAddRole }
func (RemoveRole) Type() Type    { return TypeRemoveRole }
func (Rename) Type() Type        { return TypeRename }
func (ResetRoles) Type() Type    { return TypeResetRoles }
func (DeactivateAll) Type() Type { return TypeDeactivateAll }
func (u Unknown) Type() Type     { return Type(u.Kind) }

func (ToggleActive) sealed()  {}
func (AddRole) sealed()       {}
func (RemoveRole) sealed()    {}
func (Rename) sealed()        {}
func (ResetRoles) sealed()    {}
func (DeactivateAll) sealed() {}
func (Unknown) sealed()       {}
