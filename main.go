package main

import (
	"os"

	"github.com/readmify/readmify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
