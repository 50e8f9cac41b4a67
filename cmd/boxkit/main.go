package main

import (
	"github.com/joho/godotenv"

	"github.com/watfordsuzy/boxkit/cmd/boxkit/commands"
	"github.com/watfordsuzy/boxkit/internal/logger"
)

func main() {
	// Ignore the error; a missing .env file is the common case.
	_ = godotenv.Load()
	logger.Initialize()

	commands.Execute()
}
