package main

import (
	"os"

	"github.com/ptml-lang/ptml/cmd/ptml/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
