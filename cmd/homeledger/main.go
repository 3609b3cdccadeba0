// Package main provides the entry point for the homeledger CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/homeledger/homeledger/internal/cli"
)

func main() {
	// Missing .env is fine; environment variables take over.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
