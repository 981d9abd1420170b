package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ftsampaio/sales-import/internal/infrastructure/db/models"
)

// CategoryRepository reads the category reference table. Lookups are served
// from the map handed out by LoadAll; nothing is ever written back.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) LoadAll(ctx context.Context) (map[string]string, error) {
	var rows []models.CategoryReference
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load category references: %w", err)
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.Code] = row.Name
	}
	return names, nil
}
