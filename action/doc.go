// Package action defines the closed set of instructions a reducer pipeline
// understands.
//
// Each action kind is its own struct carrying only the payload it needs,
// plus an embedded Scope that optionally targets a single entity. An absent
// target makes the action global.
//
//	action.ToggleActive{Scope: action.For(2)}
//	action.AddRole{Scope: action.All, Role: "editor"}
//
// Envelope is the flat wire shape used in scenario files. Decode never
// fails: types outside the known set decode to Unknown, which every reducer
// treats as a no-op. Envelope.Validate is the strict check for callers that
// want malformed input rejected up front.
package action
