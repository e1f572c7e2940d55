package migrations

import (
	"gorm.io/gorm"
)

// Migration001Initial creates the identity and to-do tables.
type Migration001Initial struct{}

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create users, todo_categories and todo_details tables"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255),
			role VARCHAR(32) NOT NULL DEFAULT 'USER',
			provider VARCHAR(64) NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS todo_categories (
			category_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title VARCHAR(255) NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			due_date DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_todo_categories_user_due
		ON todo_categories(user_id, due_date)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS todo_details (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description VARCHAR(1024),
			is_completed BOOLEAN NOT NULL DEFAULT 0,
			category_id INTEGER NOT NULL REFERENCES todo_categories(category_id)
		)
	`).Error; err != nil {
		return err
	}
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_todo_details_category
		ON todo_details(category_id)
	`).Error
}

func (m *Migration001Initial) Down(db *gorm.DB) error {
	for _, table := range []string{"todo_details", "todo_categories", "users"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
