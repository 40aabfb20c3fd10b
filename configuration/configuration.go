package configuration

import (
	"log"
	"os"

	"healthsync/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// hold connection to db
var DB *gorm.DB

// LoadEnv reads the .env file if present. Missing files are fine in
// environments where variables are injected directly.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}
}

// ConfigDB initializes the database connection and runs migrations.
func ConfigDB() {
	dsn := os.Getenv("DB")
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to the database")
	}

	MigrateDB(DB)
}

// MigrateDB runs AutoMigrate for all models. Split out so tests can run it
// against their own database handle.
func MigrateDB(db *gorm.DB) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Specialization{},
		&models.Doctor{},
		&models.Slot{},
		&models.Appointment{},
		&models.ChatMessage{},
		&models.MedicalRecord{},
		&models.Payment{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}
}
