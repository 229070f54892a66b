// The main package for the kpopnet crawler executable.
package main

import (
	"github.com/kpopnet/crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
