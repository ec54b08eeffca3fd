// Package errors provides the structured error type used across reducekit.
//
// Construction-time checks (action envelopes, scenario files, configuration)
// report an *AppError carrying a machine-readable ErrorCode and optional
// details. The reducer pipeline itself never returns these: degenerate input
// there is a defined no-op.
package errors
