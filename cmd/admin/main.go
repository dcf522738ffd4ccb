// Package main provides permission management utilities for Chronicle.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/models"
	"chronicle/internal/repository"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "grant":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go grant <username> <codename...>")
			os.Exit(1)
		}
		grant(db, os.Args[2], os.Args[3:])

	case "revoke":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go revoke <username> <codename...>")
			os.Exit(1)
		}
		revoke(db, os.Args[2], os.Args[3:])

	case "show":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go show <username>")
			os.Exit(1)
		}
		show(db, os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin/main.go grant <username> <codename...>  - Grant permissions to a user")
	fmt.Println("  go run ./cmd/admin/main.go revoke <username> <codename...> - Revoke permissions from a user")
	fmt.Println("  go run ./cmd/admin/main.go show <username>                 - Show a user's permissions")
	fmt.Printf("Known codenames: %v\n", models.AllPermissions)
}

func findUser(db *gorm.DB, username string) *models.User {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		log.Fatalf("User %q not found: %v", username, err)
	}
	return &user
}

func validateCodenames(codenames []string) {
	for _, codename := range codenames {
		if !slices.Contains(models.AllPermissions, codename) {
			log.Fatalf("Unknown permission codename %q. Known: %v", codename, models.AllPermissions)
		}
	}
}

func grant(db *gorm.DB, username string, codenames []string) {
	validateCodenames(codenames)
	user := findUser(db, username)

	permRepo := repository.NewPermissionRepository(db)
	if err := permRepo.Grant(context.Background(), user.ID, codenames...); err != nil {
		log.Fatalf("Grant failed: %v", err)
	}
	fmt.Printf("Granted %v to %s\n", codenames, username)
}

func revoke(db *gorm.DB, username string, codenames []string) {
	validateCodenames(codenames)
	user := findUser(db, username)

	var perms []models.Permission
	if err := db.Where("codename IN ?", codenames).Find(&perms).Error; err != nil {
		log.Fatalf("Permission lookup failed: %v", err)
	}
	if err := db.Model(user).Association("Permissions").Delete(&perms); err != nil {
		log.Fatalf("Revoke failed: %v", err)
	}
	fmt.Printf("Revoked %v from %s\n", codenames, username)
}

func show(db *gorm.DB, username string) {
	user := findUser(db, username)

	var perms []models.Permission
	if err := db.Model(user).Association("Permissions").Find(&perms); err != nil {
		log.Fatalf("Permission lookup failed: %v", err)
	}

	fmt.Printf("Permissions for %s (ID %d):\n", user.Username, user.ID)
	if len(perms) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, p := range perms {
		fmt.Printf("  %s\n", p.Codename)
	}
}
