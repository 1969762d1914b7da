package database

import (
	"fmt"
	"log"
	"os"

	"lessons-app/internal/domain/billing"
	"lessons-app/internal/domain/favorites"
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which payment reconciliation depends on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	if err := DB.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},

		&billing.Payment{},

		&lessons.Lesson{},
		&lessons.Like{},
		&lessons.Comment{},
		&lessons.Report{},
		&favorites.Favorite{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
