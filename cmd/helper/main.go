package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/config"
	"inkwell/internal/services"
	"inkwell/internal/utils/logger"
)

// Operator CLI for one-off chores: hashing a password for manual user rows
// and minting draft-preview tokens.
func main() {
	log := logger.New("helper")

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", err)
		return
	}
	signer := services.NewPreviewSigner(cfg.Preview.Secret, cfg.Preview.TTLMin)

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'p' to hash a password, 't' to mint a preview token, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		if choice == "q" {
			log.Info("Exiting helper CLI")
			break
		}

		switch choice {
		case "p":
			fmt.Print("Enter the password: ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			hash, err := bcrypt.GenerateFromPassword([]byte(input), bcrypt.DefaultCost)
			if err != nil {
				log.Error("Hashing failed", err)
			} else {
				log.Success("Hashed password: %s", string(hash))
			}
		case "t":
			fmt.Print("Enter the post ID: ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			token, err := signer.Mint(input)
			if err != nil {
				log.Error("Token minting failed", err)
			} else {
				log.Success("Preview token: %s", token)
			}
		default:
			log.Warn("Invalid choice. Please enter 'p', 't', or 'q'.")
		}
	}
}
