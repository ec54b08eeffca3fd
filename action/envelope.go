package action

import (
	"fmt"

	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/validation"
)

// Envelope is the flat wire form of an action.
type Envelope struct {
	Type    string     `json:"type" yaml:"type" validate:"required"`
	ID      *entity.ID `json:"id,omitempty" yaml:"id,omitempty"`
	Role    string     `json:"role,omitempty" yaml:"role,omitempty"`
	NewName string     `json:"newName,omitempty" yaml:"newName,omitempty"`
}

// Decode converts an envelope into its action variant. Unrecognised types
// become Unknown so they flow through the pipeline as no-ops.
func Decode(e Envelope) Action {
	scope := Scope{ID: e.ID}
	t, ok := ParseType(e.Type)
	if !ok {
		return Unknown{Scope: scope, Kind: e.Type}
	}
	switch t {
	case TypeToggleActive:
		return ToggleActive{Scope: scope}
	case TypeAddRole:
		return AddRole{Scope: scope, Role: e.Role}
	case TypeRemoveRole:
		return RemoveRole{Scope: scope, Role: e.Role}
	case TypeRename:
		return Rename{Scope: scope, NewName: e.NewName}
	case TypeResetRoles:
		return ResetRoles{Scope: scope}
	case TypeDeactivateAll:
		return DeactivateAll{Scope: scope}
	}
	return Unknown{Scope: scope, Kind: e.Type}
}

// DecodeAll decodes envelopes in order.
func DecodeAll(envs []Envelope) []Action {
	out := make([]Action, len(envs))
	for i, e := range envs {
		out[i] = Decode(e)
	}
	return out
}

// Encode converts an action variant back into its wire form.
func Encode(a Action) Envelope {
	e := Envelope{Type: string(a.Type())}
	if id, ok := a.Target(); ok {
		e.ID = &id
	}
	switch v := a.(type) {
	case AddRole:
		e.Role = v.Role
	case RemoveRole:
		e.Role = v.Role
	case Rename:
		e.NewName = v.NewName
	}
	return e
}

// Validate performs the strict construction-time check: the type must be
// known and the payload fields it needs must be present.
func (e Envelope) Validate() error {
	if err := validation.Validate(e); err != nil {
		return err
	}
	if _, ok := ParseType(e.Type); !ok {
		return errors.UnknownAction(e.Type)
	}
	return Validate(Decode(e))
}

// Validate reports a missing payload field on an action variant. Unknown
// actions are rejected.
func Validate(a Action) error {
	v := validation.New()
	switch act := a.(type) {
	case AddRole:
		v.Required("role", act.Role)
	case RemoveRole:
		v.Required("role", act.Role)
	case Rename:
		v.Required("newName", act.NewName)
	case Unknown:
		return errors.UnknownAction(act.Kind)
	case nil:
		return errors.MissingField("type")
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr.WithDetail("type", string(a.Type()))
	}
	return nil
}

// ValidateAll validates envelopes and reports every failure, each field
// prefixed by its position.
func ValidateAll(envs []Envelope) error {
	v := validation.New()
	for i, e := range envs {
		v.Merge(fmt.Sprintf("actions[%d]", i), e.Validate())
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
