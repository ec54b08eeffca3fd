// Package bootstrap runs a finite reducekit task with a uniform lifecycle:
// validated configuration, logger setup, start and stop hooks, cancellation
// on SIGINT/SIGTERM and a closing summary.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(initTracing)
//	app.OnStop(flushTracing)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return runScenario(ctx)
//	})
package bootstrap
