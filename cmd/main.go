package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/marwyg/annotation-tool/internal/app"
)

func main() {
	// Optional; real deployments pass the environment directly.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}
