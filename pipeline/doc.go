// Package pipeline applies an ordered list of actions to a collection of
// users through a reducer registry.
//
// Actions run strictly in order and each one is fully applied before the
// next. An action reaches every user when it is global, or only the user
// whose id it targets otherwise. Users the action does not reach pass
// through untouched. The input collection is never mutated.
//
//	d := pipeline.New(reducer.Default(),
//		pipeline.WithObserver(pipeline.LoggingObserver(log)),
//		pipeline.WithParallelism(4),
//	)
//	users, err := d.Run(ctx, users, actions)
//
// For one-off use without a context, Apply runs a default dispatcher:
//
//	users = pipeline.Apply(users, actions, reducer.DefaultChain())
package pipeline
