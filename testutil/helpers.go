package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kbukum/reducekit/entity"
)

// UsersCmp treats nil and empty role lists as equal.
var UsersCmp = cmpopts.EquateEmpty()

// AssertUsers fails t when got differs from want.
func AssertUsers(t testing.TB, want, got []entity.User) {
	t.Helper()
	if diff := cmp.Diff(want, got, UsersCmp); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
}

// UsersDiff returns a human-readable diff, or "" when equal.
func UsersDiff(want, got []entity.User) string {
	return cmp.Diff(want, got, UsersCmp)
}

// CollectionSnapshot is a deep copy taken before a call under test.
type CollectionSnapshot struct {
	users []entity.User
}

// Snapshot deep-copies users.
func Snapshot(users []entity.User) CollectionSnapshot {
	return CollectionSnapshot{users: entity.CloneAll(users)}
}

// Users returns a fresh copy of the snapshot.
func (s CollectionSnapshot) Users() []entity.User {
	return entity.CloneAll(s.users)
}

// AssertUnchanged fails t when users no longer matches the snapshot.
func (s CollectionSnapshot) AssertUnchanged(t testing.TB, users []entity.User) {
	t.Helper()
	if diff := cmp.Diff(s.users, users); diff != "" {
		t.Fatalf("collection was mutated (-before +after):\n%s", diff)
	}
}

// ByID indexes users by id.
func ByID(users []entity.User) map[entity.ID]entity.User {
	m := make(map[entity.ID]entity.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
