package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driving/cli"
)

func main() {
	// Load .env if present; a missing file is not an error.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
