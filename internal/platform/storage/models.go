package storage

import "time"

// User row. Username carries the provider_providerID composite; the unique
// index is what resolves concurrent first-login races to a single row.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"uniqueIndex;size:255;not null"`
	Email     string `gorm:"size:255"`
	Role      string `gorm:"size:32;not null"`
	Provider  string `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoCategory row.
type TodoCategory struct {
	ID      int64     `gorm:"primaryKey;autoIncrement;column:category_id"`
	Title   string    `gorm:"size:255;not null"`
	UserID  int64     `gorm:"index;not null"`
	DueDate time.Time `gorm:"index;not null"`
}

// TodoDetail row.
type TodoDetail struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Description string `gorm:"size:1024"`
	IsCompleted bool   `gorm:"not null;default:false"`
	CategoryID  int64  `gorm:"index;not null"`
}
