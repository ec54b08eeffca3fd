// Package testutil provides shared fixtures, rapid generators and assertion
// helpers for reducekit tests.
//
// # Fixtures
//
//	users := testutil.Users()     // Alice, Bob, Charlie
//	acts := testutil.Actions()    // the reference action script
//
// # Property generators
//
//	rapid.Check(t, func(rt *rapid.T) {
//	    users := testutil.UsersGen().Draw(rt, "users")
//	    acts := testutil.ActionsGen(users).Draw(rt, "actions")
//	    ...
//	})
//
// # Snapshots
//
// Snapshot deep-copies a collection so a test can prove it was not mutated:
//
//	snap := testutil.Snapshot(users)
//	pipeline.Apply(users, acts, reg)
//	snap.AssertUnchanged(t, users)
package testutil
