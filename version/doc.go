// Package version reports reducekit build information.
//
// Release builds stamp the version via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/reducekit/version.Version=1.2.0" ./cmd/reducekit
//
// Anything not stamped is filled from the module's embedded VCS settings.
package version
