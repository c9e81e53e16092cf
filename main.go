package main

import (
	"os"

	"github.com/abhisek/immowert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
