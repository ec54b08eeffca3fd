// Package util holds small generic helpers shared by the scenario, config
// and command packages.
package util
