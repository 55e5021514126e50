package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/config"
)

func main() {
	// Load .env from project root
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	settings, err := config.LoadSettings("")
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if settings.Auth.APIMasterSecret == "" {
		fmt.Println("Error: API_MASTER_SECRET is not set")
		os.Exit(1)
	}

	userID := os.Args[1]
	apiKey := auth.New(settings.Auth).GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
