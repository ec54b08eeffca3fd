package scenario

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/util"
	"github.com/kbukum/reducekit/validation"
)

// Scenario is a user collection and the actions to run over it.
type Scenario struct {
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Users   []entity.User     `json:"users" yaml:"users"`
	Actions []action.Envelope `json:"actions" yaml:"actions"`
}

// Load reads a scenario file from disk.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}
	return parseNamed(path, data)
}

// LoadFS reads a scenario file from fsys.
func LoadFS(fsys fs.FS, name string) (*Scenario, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, readError(name, err)
	}
	return parseNamed(name, data)
}

func readError(path string, err error) error {
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.NotFound("scenario", path).WithCause(err)
	}
	return errors.Internal(fmt.Errorf("reading scenario %s: %w", path, err))
}

func parseNamed(path string, data []byte) (*Scenario, error) {
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON scenario. Missing role lists become empty.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.InvalidFormat("scenario", "yaml or json").WithCause(err)
	}
	s.normalize()
	return &s, nil
}

func (s *Scenario) normalize() {
	for i := range s.Users {
		if s.Users[i].Roles == nil {
			s.Users[i].Roles = []string{}
		}
	}
}

// Validate checks that user ids are unique and each user is well formed.
// In strict mode every action envelope must also name a known type with the
// payload that type needs; otherwise malformed actions are left for the
// pipeline to treat as no-ops.
func (s *Scenario) Validate(strict bool) error {
	seen := make(map[entity.ID]int, len(s.Users))
	for i, u := range s.Users {
		if first, dup := seen[u.ID]; dup {
			return errors.AlreadyExists("user id", strconv.Itoa(int(u.ID))).
				WithDetail("index", i).
				WithDetail("first_index", first)
		}
		seen[u.ID] = i
	}

	v := validation.New()
	for i, u := range s.Users {
		v.Merge(fmt.Sprintf("users[%d]", i), validation.Validate(u))
	}
	if strict {
		v.Merge("", action.ValidateAll(s.Actions))
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ActionList decodes the scenario's envelopes in order.
func (s *Scenario) ActionList() []action.Action {
	return action.DecodeAll(s.Actions)
}

// Sample returns the built-in demonstration scenario.
func Sample() *Scenario {
	return &Scenario{
		Name: "sample",
		Users: []entity.User{
			{ID: 1, Name: "Alice", Active: true, Roles: []string{"admin"}},
			{ID: 2, Name: "Bob", Active: false, Roles: []string{"user"}},
			{ID: 3, Name: "Charlie", Active: true, Roles: []string{"user", "moderator"}},
		},
		Actions: []action.Envelope{
			{Type: string(action.TypeToggleActive), ID: util.Ptr[entity.ID](2)},
			{Type: string(action.TypeAddRole), ID: util.Ptr[entity.ID](3), Role: "admin"},
			{Type: string(action.TypeRemoveRole), ID: util.Ptr[entity.ID](1), Role: "admin"},
			{Type: string(action.TypeRename), ID: util.Ptr[entity.ID](2), NewName: "Robert"},
			{Type: string(action.TypeAddRole), Role: "editor"},
		},
	}
}
