package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GetIndustryInsight retrieves the insight for an industry. Returns nil, nil if not found.
func (db *DB) GetIndustryInsight(ctx context.Context, industry string) (*IndustryInsight, error) {
	var insight IndustryInsight
	err := db.gorm.WithContext(ctx).Where("industry = ?", industry).First(&insight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get industry insight: %w", err)
	}
	return &insight, nil
}

// CreateIndustryInsight inserts the insight for an industry
func (db *DB) CreateIndustryInsight(ctx context.Context, insight *IndustryInsight) error {
	if err := db.gorm.WithContext(ctx).Create(insight).Error; err != nil {
		return fmt.Errorf("failed to create industry insight: %w", err)
	}
	return nil
}
