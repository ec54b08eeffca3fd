package bootstrap

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Task outcomes shown in the summary header.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

type summaryEntry struct {
	key   string
	value string
}

// Summary collects facts about a task run and prints them when it ends.
// It is safe for concurrent use.
type Summary struct {
	mu          sync.Mutex
	serviceName string
	version     string
	status      string
	duration    time.Duration
	entries     []summaryEntry
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetDuration records how long the task took.
func (s *Summary) SetDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duration = d
}

// SetStatus records the task outcome.
func (s *Summary) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Track adds or replaces a line in the summary. Lines print in the order
// they were first tracked.
func (s *Summary) Track(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := fmt.Sprint(value)
	for i := range s.entries {
		if s.entries[i].key == key {
			s.entries[i].value = v
			return
		}
	}
	s.entries = append(s.entries, summaryEntry{key: key, value: v})
}

// Get returns the tracked value for key.
func (s *Summary) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// Display writes the summary as a small tree.
func (s *Summary) Display(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	icon := "✅"
	if s.status == StatusFailed {
		icon = "❌"
	}
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n%s %s %s finished in %.3fs\n", icon, s.serviceName, version, s.duration.Seconds())
	for i, e := range s.entries {
		fmt.Fprintf(w, "   %s %s: %s\n", treePrefix(i, len(s.entries)), e.key, e.value)
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
