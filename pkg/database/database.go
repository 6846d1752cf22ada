package database

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the database from DATABASE_URL and exits on failure.
func Init() *gorm.DB {
	db, err := Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	return db
}

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
