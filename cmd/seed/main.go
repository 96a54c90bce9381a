package main

import (
	"log"
	"os"
	"time"

	"auth-chat-be/internal/model"
	"auth-chat-be/internal/pkg/credentials"
	"auth-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     string
	approved bool
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding development accounts...")

	accounts := []seedAccount{
		{name: "Admin", email: "admin@local.test", password: "admin-local-dev", role: "admin", approved: true},
		{name: "Demo Client", email: "client@local.test", password: "client-local-dev", role: "client", approved: false},
	}

	for _, acc := range accounts {
		var existing model.User
		if err := db.Where("email = ?", acc.email).First(&existing).Error; err == nil {
			log.Printf("User '%s' already exists, skipping...", acc.email)
			continue
		}

		hash, err := credentials.Hash(acc.password)
		if err != nil {
			log.Fatalf("Error hashing password for '%s': %v", acc.email, err)
		}

		now := time.Now()
		name := acc.name
		user := model.User{
			Id:            uuid.New(),
			Name:          &name,
			Email:         acc.email,
			EmailVerified: &now,
			Password:      &hash,
			Role:          acc.role,
			AdminApproved: acc.approved,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating user '%s': %v", acc.email, err)
		} else {
			log.Printf("Created user: %s (%s)", acc.email, acc.role)
		}
	}

	log.Println("Seeding completed!")
}
