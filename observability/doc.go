// Package observability provides OpenTelemetry tracing and metrics for
// reducer pipeline runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("reducekit"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "pipeline.step")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("reducekit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("reducekit"))
//	metrics.RecordStep(ctx, "ADD_ROLE", true)
//
// Without InitTracer/InitMeter the global otel providers are no-ops, so the
// helpers here are always safe to call.
package observability
