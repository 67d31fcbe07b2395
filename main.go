package main

import (
	"os"

	"github.com/lucaslondon8/jobhunterGPT/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
