package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/worklab/newsdigest/internal/cli"
	"github.com/worklab/newsdigest/internal/logger"
)

func main() {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not read .env", "error", err)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		logger.Error("newsdigest failed", "error", err)
		os.Exit(1)
	}
}
