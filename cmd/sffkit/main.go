// Command sffkit extracts sprites and palettes from Mugen SFF containers
// and packs them into a single atlas sheet. It is a thin shell over
// internal/sff, internal/act, and internal/atlas: it performs no decoding
// logic of its own.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
