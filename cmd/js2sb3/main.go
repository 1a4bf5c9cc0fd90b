package main

import (
	"os"

	"github.com/kestrel-lang/js2sb3/cmd/js2sb3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
