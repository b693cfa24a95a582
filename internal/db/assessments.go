package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateAssessment inserts a scored quiz attempt
func (db *DB) CreateAssessment(ctx context.Context, a *Assessment) error {
	if err := db.gorm.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// ListAssessmentsByUser returns every assessment of a user, newest first
func (db *DB) ListAssessmentsByUser(ctx context.Context, userID uuid.UUID) ([]Assessment, error) {
	assessments := []Assessment{}
	err := db.gorm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}
