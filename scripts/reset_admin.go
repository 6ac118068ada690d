// scripts/reset_admin.go
// Creates the admin account if missing, or resets its password.
// Usage: go run ./scripts [email] [password]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/config"
	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/logger"
	"github.com/nellaibill/teachersbank/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg)
	database.Connect(cfg)

	email := "admin@teachersbank.local"
	password := "admin123"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		logger.Log.Fatalf("failed to hash password: %v", err)
	}

	var u models.User
	err = database.DB.Where("email = ?", email).First(&u).Error
	switch {
	case err == nil:
		u.Password = string(hash)
		u.Role = "admin"
		u.IsActive = true
		if err := database.DB.Save(&u).Error; err != nil {
			logger.Log.Fatalf("failed to reset admin: %v", err)
		}
		fmt.Println("Admin password reset for", email)
	case err == gorm.ErrRecordNotFound:
		u = models.User{Name: "Admin", Email: email, Password: string(hash), Role: "admin", IsActive: true}
		if err := database.DB.Create(&u).Error; err != nil {
			logger.Log.Fatalf("failed to create admin: %v", err)
		}
		fmt.Println("Admin user created:", email)
	default:
		logger.Log.Fatalf("failed to query users: %v", err)
	}

	fmt.Println("Password:", password, "(change it after logging in)")
}
