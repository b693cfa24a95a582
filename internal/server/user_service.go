package server

import (
	"context"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/types"
)

// UserService provisions local users for identity-provider accounts.
type UserService struct {
	db  *db.DB
	log *observability.Logger
	now func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(database *db.DB, log *observability.Logger) *UserService {
	if log == nil {
		log = observability.NewNop()
	}
	return &UserService{db: database, log: log.With("component", "users"), now: time.Now}
}

// EnsureUser returns the user for identity, creating it with the
// placeholder industry on first sight.
func (s *UserService) EnsureUser(ctx context.Context, identity types.Identity) (*db.User, error) {
	if identity.ClerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}

	existing, err := s.db.GetUserByClerkID(ctx, identity.ClerkUserID)
	if err != nil {
		return nil, &types.ErrUpstream{Message: types.UserSyncFailed, Err: err}
	}
	if existing != nil {
		return existing, nil
	}

	industry := types.NotSpecifiedIndustry
	user := &db.User{
		ClerkUserID: identity.ClerkUserID,
		Name:        identity.DisplayName(),
		Email:       identity.Email,
		ImageURL:    identity.ImageURL,
		Industry:    &industry,
	}

	err = s.db.Transaction(ctx, func(tx *db.DB) error {
		insight, err := tx.GetIndustryInsight(ctx, industry)
		if err != nil {
			return err
		}
		if insight == nil {
			placeholder := db.NewIndustryInsight(industry, insights.Defaults(), s.now().Add(insights.PlaceholderInterval))
			if err := tx.CreateIndustryInsight(ctx, placeholder); err != nil {
				return err
			}
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		s.log.Error("user provisioning failed", "user_id", identity.ClerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: types.UserSyncFailed, Err: err}
	}

	s.log.Info("user provisioned", "user_id", identity.ClerkUserID)
	return user, nil
}
