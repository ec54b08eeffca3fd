// Package logger provides structured logging for reducekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipeline")
//	log.Info("run finished", logger.Fields(logger.FieldRunID, id, "actions", 4))
package logger
