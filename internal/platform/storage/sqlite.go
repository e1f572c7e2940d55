package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todolist-server-go/internal/platform/errors"
)

// Open connects to the sqlite database at dsn with foreign keys enabled.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "sqlite.open", "failed to open database", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "sqlite.pragma", "failed to enable foreign keys", err)
	}
	return db, nil
}
