// Command terrainseg segments grid-aligned point files into surfaces and
// writes the reduced point set as a VRML scene.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
