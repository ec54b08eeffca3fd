package scenario

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/reducekit/action"
	"github.com/kbukum/reducekit/entity"
	"github.com/kbukum/reducekit/errors"
)

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string { return []string{FormatJSON, FormatYAML} }

// HistoryEntry is the collection as it stood after one action.
type HistoryEntry struct {
	Step   int             `json:"step" yaml:"step"`
	Action action.Envelope `json:"action" yaml:"action"`
	Users  []entity.User   `json:"users" yaml:"users"`
}

// Encode renders users in the given format.
func Encode(users []entity.User, format string) ([]byte, error) {
	return encode(withEmptyRoles(users), format)
}

// EncodeHistory renders the per-action snapshots produced by a dispatcher
// run next to the action that produced each one.
func EncodeHistory(actions []action.Action, history [][]entity.User, format string) ([]byte, error) {
	entries := make([]HistoryEntry, len(history))
	for i, users := range history {
		entries[i] = HistoryEntry{Step: i + 1, Users: withEmptyRoles(users)}
		if i < len(actions) && actions[i] != nil {
			entries[i].Action = action.Encode(actions[i])
		}
	}
	return encode(entries, format)
}

// EncodeScenario renders a whole scenario, e.g. the sample one.
func EncodeScenario(s *Scenario, format string) ([]byte, error) {
	out := *s
	out.Users = withEmptyRoles(s.Users)
	return encode(out, format)
}

func encode(v any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Internal(err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Internal(err)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Internal(err)
		}
		return buf.Bytes(), nil
	}
	return nil, errors.InvalidFormat("output", strings.Join(Formats(), "|"))
}

// withEmptyRoles copies users so nil role lists render as [] rather than null.
func withEmptyRoles(users []entity.User) []entity.User {
	out := entity.CloneAll(users)
	for i := range out {
		if out[i].Roles == nil {
			out[i].Roles = []string{}
		}
	}
	if out == nil {
		out = []entity.User{}
	}
	return out
}
