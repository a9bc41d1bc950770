// Package main is the entry point for the prwarden CLI.
package main

import (
	"os"

	"github.com/prwarden/prwarden-bot/cmd/prwarden/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
