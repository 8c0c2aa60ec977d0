package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"shopquery-be/internal/model"
	"shopquery-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. AutoMigrate All Models
	models := []interface{}{
		&model.User{},
		&model.UserSession{},
		&model.EmailVerificationToken{},
		&model.SearchHistory{},
		&model.UserEvent{},
		&model.UserFavorite{},
		&model.Product{},
		&model.ProductPrice{},
		&model.ProductRating{},
		&model.ComparisonSession{},
		&model.ComparisonProduct{},
		&model.ChatMessage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	log.Printf("✅ Migration complete (%d tables)", len(models))
}
