package models

import "time"

// CategoryReference maps a marketplace category code to its display name.
// The engine only ever reads this table.
type CategoryReference struct {
	Code      string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryReference) TableName() string {
	return "category_references"
}
