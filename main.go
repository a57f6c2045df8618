// file: main.go
// version: 1.0.0
// guid: 9a89f8dc-f2d2-4e2f-bb9e-4fe6c7aacec9

package main

import (
	"fmt"
	"os"

	"github.com/svetakrava/chorrosion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
