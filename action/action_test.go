package action

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
)

func idPtr(id entity.ID) *entity.ID { return &id }

func TestScope(t *testing.T) {
	if _, ok := All.Target(); ok {
		t.Error("expected global scope to have no target")
	}
	if !All.Matches(7) {
		t.Error("expected global scope to match every id")
	}

	s := For(2)
	id, ok := s.Target()
	if !ok || id != 2 {
		t.Fatalf("expected target 2, got %d (ok=%v)", id, ok)
	}
	if !s.Matches(2) || s.Matches(3) {
		t.Error("expected targeted scope to match only id 2")
	}
}

func TestMatches(t *testing.T) {
	if !Matches(ToggleActive{Scope: For(1)}, 1) {
		t.Error("expected targeted action to match its id")
	}
	if Matches(ToggleActive{Scope: For(1)}, 2) {
		t.Error("expected targeted action to skip other ids")
	}
	if !Matches(DeactivateAll{}, 42) {
		t.Error("expected global action to match any id")
	}
}

func TestVariantTypes(t *testing.T) {
	tests := []struct {
		a    Action
		want Type
	}{
		{ToggleActive{}, TypeToggleActive},
		{AddRole{}, TypeAddRole},
		{RemoveRole{}, TypeRemoveRole},
		{Rename{}, TypeRename},
		{ResetRoles{}, TypeResetRoles},
		{DeactivateAll{}, TypeDeactivateAll},
		{Unknown{Kind: "PROMOTE"}, Type("PROMOTE")},
	}
	for _, tc := range tests {
		if tc.a.Type() != tc.want {
			t.Errorf("expected %s, got %s", tc.want, tc.a.Type())
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in     string
		want   Type
		wantOK bool
	}{
		{"TOGGLE_ACTIVE", TypeToggleActive, true},
		{"UPDATE_NAME", TypeRename, true},
		{"RENAME", TypeRename, true},
		{"RENAME_USER", TypeRename, true},
		{"toggle_active", Type("toggle_active"), false},
		{"", Type(""), false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseType(tc.in)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("expected (%s, %v), got (%s, %v)", tc.want, tc.wantOK, got, ok)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if len(Known()) != 6 {
		t.Fatalf("expected 6 known types, got %d", len(Known()))
	}
	for _, k := range Known() {
		if !IsKnown(k) {
			t.Errorf("expected %s to be known", k)
		}
	}
	if IsKnown("RENAME") {
		t.Error("aliases are not canonical types")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   Envelope
		want Action
	}{
		{"toggle targeted", Envelope{Type: "TOGGLE_ACTIVE", ID: idPtr(2)}, ToggleActive{Scope: For(2)}},
		{"add role", Envelope{Type: "ADD_ROLE", ID: idPtr(3), Role: "admin"}, AddRole{Scope: For(3), Role: "admin"}},
		{"add role global", Envelope{Type: "ADD_ROLE", Role: "editor"}, AddRole{Role: "editor"}},
		{"remove role", Envelope{Type: "REMOVE_ROLE", Role: "user"}, RemoveRole{Role: "user"}},
		{"rename", Envelope{Type: "UPDATE_NAME", ID: idPtr(1), NewName: "Alicia"}, Rename{Scope: For(1), NewName: "Alicia"}},
		{"rename alias", Envelope{Type: "RENAME", NewName: "X"}, Rename{NewName: "X"}},
		{"rename user alias", Envelope{Type: "RENAME_USER", NewName: "Alicia"}, Rename{NewName: "Alicia"}},
		{"reset roles", Envelope{Type: "RESET_ROLES"}, ResetRoles{}},
		{"deactivate all", Envelope{Type: "DEACTIVATE_ALL"}, DeactivateAll{}},
		{"unknown", Envelope{Type: "PROMOTE", ID: idPtr(1)}, Unknown{Scope: For(1), Kind: "PROMOTE"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeAll(t *testing.T) {
	got := DecodeAll([]Envelope{{Type: "RESET_ROLES"}, {Type: "TOGGLE_ACTIVE"}})
	if len(got) != 2 || got[0].Type() != TypeResetRoles || got[1].Type() != TypeToggleActive {
		t.Errorf("unexpected decode %v", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	actions := []Action{
		ToggleActive{Scope: For(2)},
		AddRole{Scope: For(3), Role: "admin"},
		RemoveRole{Role: "user"},
		Rename{Scope: For(1), NewName: "Alicia"},
		ResetRoles{},
		DeactivateAll{Scope: For(4)},
		Unknown{Kind: "PROMOTE"},
	}
	for _, a := range actions {
		t.Run(string(a.Type()), func(t *testing.T) {
			if diff := cmp.Diff(a, Decode(Encode(a))); diff != "" {
				t.Errorf("Encode/Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnvelopeValidate(t *testing.T) {
	tests := []struct {
		name     string
		in       Envelope
		wantCode errors.ErrorCode
	}{
		{"valid toggle", Envelope{Type: "TOGGLE_ACTIVE", ID: idPtr(2)}, ""},
		{"valid add role", Envelope{Type: "ADD_ROLE", Role: "editor"}, ""},
		{"valid rename alias", Envelope{Type: "RENAME", NewName: "Bobby"}, ""},
		{"valid rename user alias", Envelope{Type: "RENAME_USER", NewName: "Alicia"}, ""},
		{"missing type", Envelope{}, errors.ErrCodeInvalidInput},
		{"unknown type", Envelope{Type: "PROMOTE"}, errors.ErrCodeUnknownAction},
		{"add role without role", Envelope{Type: "ADD_ROLE", ID: idPtr(3)}, errors.ErrCodeInvalidInput},
		{"remove role blank role", Envelope{Type: "REMOVE_ROLE", Role: "  "}, errors.ErrCodeInvalidInput},
		{"rename without name", Envelope{Type: "UPDATE_NAME"}, errors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.CodeOf(err); got != tc.wantCode {
				t.Errorf("expected %s, got %s (%v)", tc.wantCode, got, err)
			}
		})
	}
}

func TestValidateVariant(t *testing.T) {
	err := Validate(Rename{Scope: For(1)})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Details["type"] != string(TypeRename) {
		t.Errorf("expected type detail, got %v", appErr.Details["type"])
	}
	if Validate(ToggleActive{}) != nil {
		t.Error("expected toggle to need no payload")
	}
	if errors.CodeOf(Validate(nil)) != errors.ErrCodeMissingField {
		t.Error("expected nil action to be rejected")
	}
}

func TestValidateAll(t *testing.T) {
	if err := ValidateAll([]Envelope{{Type: "TOGGLE_ACTIVE"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ValidateAll([]Envelope{
		{Type: "TOGGLE_ACTIVE"},
		{Type: "ADD_ROLE"},
		{Type: "NOPE"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "actions[1].role: is required") {
		t.Errorf("expected positional role error, got %q", msg)
	}
	if !strings.Contains(msg, `actions[2]: unknown action type "NOPE"`) {
		t.Errorf("expected positional unknown type error, got %q", msg)
	}
}
