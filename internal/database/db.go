package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database selected by driver ("postgres" or
// "sqlite"). Error translation is enabled so unique-constraint
// violations surface as gorm.ErrDuplicatedKey on both drivers.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return openPostgres(dsn)
	case "sqlite":
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			log.Println("connected to DB successfully")
			return db, nil
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", maxAttempts, err)
}

// OpenSQLite opens a file-backed sqlite database. Used for tests and
// for running without a postgres instance.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}
