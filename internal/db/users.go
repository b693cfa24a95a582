package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetUserByClerkID retrieves a user by external identity. Returns nil, nil if not found.
func (db *DB) GetUserByClerkID(ctx context.Context, clerkUserID string) (*User, error) {
	var u User
	err := db.gorm.WithContext(ctx).Where("clerk_user_id = ?", clerkUserID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user, assigning its ID
func (db *DB) CreateUser(ctx context.Context, u *User) error {
	if err := db.gorm.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ProfileFields are the user columns written by onboarding.
type ProfileFields struct {
	Industry   string
	Experience *int
	Bio        string
	Skills     []string
}

// UpdateUserProfile overwrites the profile columns and returns the stored user
func (db *DB) UpdateUserProfile(ctx context.Context, userID uuid.UUID, fields ProfileFields) (*User, error) {
	skills := fields.Skills
	if skills == nil {
		skills = []string{}
	}
	industry := fields.Industry

	res := db.gorm.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Updates(map[string]any{
		"industry":   &industry,
		"experience": fields.Experience,
		"bio":        fields.Bio,
		"skills":     datatypes.NewJSONSlice(skills),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update user profile: no user with id %s", userID)
	}

	var u User
	if err := db.gorm.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &u, nil
}
