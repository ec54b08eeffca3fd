package scenario

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/testutil"
)

func TestEncode_JSON(t *testing.T) {
	users := []entity.User{{ID: 1, Name: "Alice", Active: true}}

	data, err := Encode(users, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"roles": []`) {
		t.Errorf("expected empty roles to render as [], got:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}

	var back []entity.User
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if users[0].Roles != nil {
		t.Error("expected Encode not to modify its input")
	}
}

func TestEncode_YAMLRoundTrip(t *testing.T) {
	data, err := Encode(testutil.Users(), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := Parse([]byte("users:\n" + indent(string(data))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertUsers(t, testutil.Users(), s.Users)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestEncode_EmptyCollection(t *testing.T) {
	data, err := Encode(nil, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected [], got %q", data)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(testutil.Users(), "xml")
	if errors.CodeOf(err) != errors.ErrCodeInvalidFormat {
		t.Fatalf("expected %s, got %v", errors.ErrCodeInvalidFormat, err)
	}
}

func TestEncodeHistory(t *testing.T) {
	actions := []action.Action{
		action.ToggleActive{Scope: action.For(1)},
		action.AddRole{Scope: action.All, Role: "editor"},
	}
	history := [][]entity.User{
		{{ID: 1, Name: "Alice", Active: false}},
		{{ID: 1, Name: "Alice", Active: false, Roles: []string{"editor"}}},
	}

	data, err := EncodeHistory(actions, history, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Step != 1 || entries[0].Action.Type != "TOGGLE_ACTIVE" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Action.ID != nil {
		t.Errorf("expected global action to have no id, got %v", *entries[1].Action.ID)
	}
}

func TestEncodeScenario(t *testing.T) {
	data, err := EncodeScenario(Sample(), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Validate(true); err != nil {
		t.Errorf("expected encoded sample to validate, got %v", err)
	}
	if len(s.Actions) != len(Sample().Actions) {
		t.Errorf("expected %d actions, got %d", len(Sample().Actions), len(s.Actions))
	}
}
