// Package reducer provides pure (entity, action) -> entity transforms and the
// registries that select them.
//
// Every reducer is total: when the action is not one it handles, or its
// payload is empty, it returns the entity unchanged. That no-op contract is
// what lets the two registry shapes agree:
//
//   - Keyed looks up exactly one reducer by action type.
//   - Chain folds every reducer over the entity in order, each one
//     filtering on the action type itself.
//
// Default and DefaultChain build both shapes over the same built-ins.
package reducer
