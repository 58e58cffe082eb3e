package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"skillbox/internal/config"
	"skillbox/internal/db"
	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// Ops CLI for the two account operations that otherwise need an admin token:
// approving a user and changing a role. Talks to the database directly.
func main() {
	var log = logger.New("helper")
	log.Info("Starting account helper CLI")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", err)
		return
	}

	if err := db.Connect(cfg); err != nil {
		log.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()
	conn := db.GetDB()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'a' to approve a user, 'r' to set a role, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		if choice == "q" {
			log.Info("Exiting helper CLI")
			break
		}

		fmt.Print("User email: ")
		email, _ := reader.ReadString('\n')
		email = strings.ToLower(strings.TrimSpace(email))

		user, err := models.GetUserByEmail(email, conn)
		if err != nil {
			log.Error("User not found", err)
			continue
		}

		switch choice {
		case "a":
			if err := conn.Model(user).Update("is_approved", true).Error; err != nil {
				log.Error("Failed to approve user", err)
			} else {
				log.Success("Approved %s", user.Email)
			}
		case "r":
			fmt.Print("New role (partner, content_admin, ms_stakeholder, admin): ")
			roleInput, _ := reader.ReadString('\n')
			role := models.UserRole(strings.TrimSpace(roleInput))
			if !models.IsValidUserRole(role) {
				log.Warn("Invalid role: %s", role)
				continue
			}
			if err := conn.Model(user).Update("role", role).Error; err != nil {
				log.Error("Failed to set role", err)
			} else {
				log.Success("Set %s to %s", user.Email, role)
			}
		default:
			log.Warn("Invalid choice. Please enter 'a', 'r', or 'q'.")
		}
	}
}
