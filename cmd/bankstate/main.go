// Package main provides the entry point for the bankstate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thealiamalia/nyami-bank-state/cmd/bankstate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
