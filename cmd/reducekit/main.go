// Command reducekit runs a scenario of user actions through the reducer
// pipeline and prints the resulting users.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
