package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tabulae-labs/askcsv-cli/internal/adapters/driving/cli"
)

// version is injected at build time:
//
//	go build -ldflags "-X main.version=1.2.3" ./cmd/askcsv
var version = "dev"

func main() {
	// A .env file in the working directory may hold provider API keys
	// (OPENAI_API_KEY, ANTHROPIC_API_KEY). A missing file is fine.
	_ = godotenv.Load() //nolint:errcheck

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
