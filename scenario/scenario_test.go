package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/pipeline"
	"github.com/kbukum/reducekit/reducer"
	"github.com/kbukum/reducekit/testutil"
	"github.com/kbukum/reducekit/validation"
)

const sampleYAML = `
name: demo
users:
  - {id: 1, name: Alice, active: true, roles: [admin]}
  - {id: 2, name: Bob, active: false, roles: [user]}
  - {id: 3, name: Charlie, active: true, roles: [user, moderator]}
actions:
  - {type: TOGGLE_ACTIVE, id: 2}
  - {type: ADD_ROLE, id: 3, role: admin}
  - {type: REMOVE_ROLE, id: 1, role: admin}
  - {type: UPDATE_NAME, id: 2, newName: Robert}
  - {type: ADD_ROLE, role: editor}
`

const sampleJSON = `{
  "users": [
    {"id": 1, "name": "Alice", "active": true, "roles": ["admin"]},
    {"id": 2, "name": "Bob", "active": false}
  ],
  "actions": [
    {"type": "RENAME", "id": 2, "newName": "Robert"},
    {"type": "RESET_ROLES"}
  ]
}`

func TestParse_YAML(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "demo" {
		t.Errorf("expected name demo, got %q", s.Name)
	}
	testutil.AssertUsers(t, testutil.Users(), s.Users)
	if diff := cmp.Diff(testutil.Actions(), s.ActionList()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(s.Users))
	}
	if s.Users[1].Roles == nil {
		t.Error("expected missing roles to normalise to an empty list")
	}

	actions := s.ActionList()
	rename, ok := actions[0].(action.Rename)
	if !ok {
		t.Fatalf("expected RENAME to decode as Rename, got %T", actions[0])
	}
	if rename.NewName != "Robert" {
		t.Errorf("expected newName Robert, got %q", rename.NewName)
	}
	if _, ok := actions[1].Target(); ok {
		t.Error("expected action without id to be global")
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("users: [\n"))
	if errors.CodeOf(err) != errors.ErrCodeInvalidFormat {
		t.Fatalf("expected %s, got %v", errors.ErrCodeInvalidFormat, err)
	}
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Users) != 0 || len(s.Actions) != 0 {
		t.Errorf("expected empty scenario, got %+v", s)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Users) != 3 || len(s.Actions) != 5 {
		t.Errorf("expected 3 users and 5 actions, got %d and %d", len(s.Users), len(s.Actions))
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Fatalf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.json":  {Data: []byte(sampleJSON)},
		"bad.yaml": {Data: []byte("users: {")},
	}

	if _, err := LoadFS(fsys, "ok.json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := LoadFS(fsys, "bad.yaml")
	if errors.CodeOf(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("expected %s, got %v", errors.ErrCodeInvalidFormat, err)
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("expected file name in error, got %q", err.Error())
	}

	_, err = LoadFS(fsys, "nope.yaml")
	if errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestValidate(t *testing.T) {
	id := entity.ID(1)
	tests := []struct {
		name     string
		scenario Scenario
		strict   bool
		code     errors.ErrorCode
		field    string
	}{
		{
			name:     "sample is valid in strict mode",
			scenario: *Sample(),
			strict:   true,
		},
		{
			name: "duplicate ids",
			scenario: Scenario{Users: []entity.User{
				{ID: 1, Name: "Alice"},
				{ID: 1, Name: "Alicia"},
			}},
			code: errors.ErrCodeAlreadyExists,
		},
		{
			name:     "missing name",
			scenario: Scenario{Users: []entity.User{{ID: 1}}},
			code:     errors.ErrCodeInvalidInput,
			field:    "users[0].name",
		},
		{
			name:     "duplicate roles",
			scenario: Scenario{Users: []entity.User{{ID: 1, Name: "Alice", Roles: []string{"admin", "admin"}}}},
			code:     errors.ErrCodeInvalidInput,
			field:    "users[0].roles",
		},
		{
			name: "unknown action tolerated when lenient",
			scenario: Scenario{
				Users:   []entity.User{{ID: 1, Name: "Alice"}},
				Actions: []action.Envelope{{Type: "PROMOTE", ID: &id}},
			},
		},
		{
			name: "unknown action rejected when strict",
			scenario: Scenario{
				Users:   []entity.User{{ID: 1, Name: "Alice"}},
				Actions: []action.Envelope{{Type: "PROMOTE", ID: &id}},
			},
			strict: true,
			code:   errors.ErrCodeInvalidInput,
			field:  "actions[0]",
		},
		{
			name: "missing payload rejected when strict",
			scenario: Scenario{
				Users:   []entity.User{{ID: 1, Name: "Alice"}},
				Actions: []action.Envelope{{Type: "ADD_ROLE"}},
			},
			strict: true,
			code:   errors.ErrCodeInvalidInput,
			field:  "actions[0].role",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scenario.Validate(tc.strict)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if errors.CodeOf(err) != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if tc.field == "" {
				return
			}
			appErr, _ := errors.AsAppError(err)
			fields, _ := appErr.Details["fields"].([]validation.FieldError)
			for _, fe := range fields {
				if fe.Field == tc.field {
					return
				}
			}
			t.Errorf("expected an error on %s, got %v", tc.field, fields)
		})
	}
}

func TestSample_RunsToReferenceResult(t *testing.T) {
	s := Sample()
	got := pipeline.Apply(s.Users, s.ActionList(), reducer.Default())

	want := pipeline.Apply(testutil.Users(), testutil.Actions(), reducer.Default())
	testutil.AssertUsers(t, want, got)
}

func TestSample_IsFresh(t *testing.T) {
	a := Sample()
	a.Users[0].Roles[0] = "changed"
	if Sample().Users[0].Roles[0] != "admin" {
		t.Error("expected Sample to return independent data")
	}
}
