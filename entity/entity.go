// Package entity defines the user record that reducers transform.
//
// A User is treated as an immutable value snapshot: every transformation in
// reducekit returns a new User and leaves the receiver's Roles backing array
// untouched.
package entity

import (
	"fmt"
	"slices"
)

// ID uniquely identifies a User within a collection.
type ID int

// User is a single user record.
type User struct {
	ID     ID       `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Active bool     `json:"active" yaml:"active"`
	Roles  []string `json:"roles" yaml:"roles" validate:"unique,dive,required"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Roles = slices.Clone(u.Roles)
	return u
}

// HasRole reports whether u carries role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// WithRoles returns a copy of u whose roles are replaced by roles.
func (u User) WithRoles(roles []string) User {
	u.Roles = roles
	return u
}

// Equal reports whether u and other hold the same values. A nil and an empty
// role list compare equal.
func (u User) Equal(other User) bool {
	return u.ID == other.ID &&
		u.Name == other.Name &&
		u.Active == other.Active &&
		slices.Equal(u.Roles, other.Roles)
}

// String renders u for log output.
func (u User) String() string {
	return fmt.Sprintf("{id:%d name:%q active:%t roles:%v}", u.ID, u.Name, u.Active, u.Roles)
}

// CloneAll returns a deep copy of users.
func CloneAll(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out
}

// EqualAll reports whether a and b hold equal users in the same order.
func EqualAll(a, b []User) bool {
	return slices.EqualFunc(a, b, User.Equal)
}

// IDs returns the ids of users in order.
func IDs(users []User) []ID {
	ids := make([]ID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
