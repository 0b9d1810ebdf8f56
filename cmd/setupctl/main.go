// Package main is the entry point for the setupctl CLI.
package main

import (
	"os"

	"github.com/okian/garage/cmd/setupctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
