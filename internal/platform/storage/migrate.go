package storage

import (
	"gorm.io/gorm"

	"todolist-server-go/internal/platform/storage/migrations"
)

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	manager := NewMigrationManager(db)
	manager.AddMigration(&migrations.Migration001Initial{})
	return manager.RunMigrations()
}
