package main

import (
	"os"

	"github.com/yanizio/adept-forms/cmd/formctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
