// file: main.go
// version: 2.0.0
// guid: 1f4c8a2e-6b3d-4e90-a7c5-d82b0f9e3a61

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/blist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
