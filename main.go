package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/hirematch/cmd"
)

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
