package main

import (
	"os"

	"github.com/abhisek/acedrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
