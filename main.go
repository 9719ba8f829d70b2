package main

import (
	"os"

	"github.com/credlens/credlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
