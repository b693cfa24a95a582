// Package profile handles onboarding: the user's industry, experience and
// skills, and the industry insight that goes with them.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/types"
)

// UpdateTimeout bounds the profile update transaction, model call included.
const UpdateTimeout = 10 * time.Second

// Service reads and updates user profiles
type Service struct {
	db       *db.DB
	insights insights.Source
	log      *observability.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewService creates a profile service
func NewService(database *db.DB, source insights.Source, log *observability.Logger) *Service {
	if log == nil {
		log = observability.NewNop()
	}
	return &Service{
		db:       database,
		insights: source,
		log:      log.With("component", "profile"),
		timeout:  UpdateTimeout,
		now:      time.Now,
	}
}

// UpdateResult is the stored user together with the insight for their industry.
type UpdateResult struct {
	User    *db.User            `json:"user"`
	Insight *db.IndustryInsight `json:"industryInsight"`
}

// Update stores the profile. The insight lookup, its generation when missing
// and the user update share one transaction.
func (s *Service) Update(ctx context.Context, clerkUserID string, update *types.ProfileUpdate) (*UpdateResult, error) {
	if clerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}
	if update == nil {
		return nil, &types.ErrValidation{Field: "profile", Message: types.InvalidInputMessage}
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	user, err := s.requireUser(ctx, clerkUserID, types.ProfileUpdateFailed)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := &UpdateResult{}
	err = s.db.Transaction(ctx, func(tx *db.DB) error {
		insight, err := s.ensureInsight(ctx, tx, update.Industry)
		if err != nil {
			return err
		}
		result.Insight = insight

		updated, err := tx.UpdateUserProfile(ctx, user.ID, db.ProfileFields{
			Industry:   update.Industry,
			Experience: update.Experience,
			Bio:        update.Bio,
			Skills:     update.Skills,
		})
		if err != nil {
			return err
		}
		result.User = updated
		return nil
	})
	if err != nil {
		s.log.Error("profile update failed", "user_id", clerkUserID, "industry", update.Industry, "error", err)
		return nil, &types.ErrUpstream{Message: types.ProfileUpdateFailed, Err: err}
	}

	s.log.Info("profile updated", "user_id", clerkUserID, "industry", update.Industry)
	return result, nil
}

// ensureInsight returns the stored insight for industry, generating and
// storing one when there is none.
func (s *Service) ensureInsight(ctx context.Context, tx *db.DB, industry string) (*db.IndustryInsight, error) {
	insight, err := tx.GetIndustryInsight(ctx, industry)
	if err != nil {
		return nil, err
	}
	if insight != nil {
		return insight, nil
	}

	data, err := s.insights.Generate(ctx, industry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights for %s: %w", industry, err)
	}

	insight = db.NewIndustryInsight(industry, data, s.now().Add(insights.RefreshInterval))
	if err := tx.CreateIndustryInsight(ctx, insight); err != nil {
		return nil, err
	}
	s.log.Info("industry insight created", "industry", industry)
	return insight, nil
}

// OnboardingStatus reports whether the user has chosen an industry.
func (s *Service) OnboardingStatus(ctx context.Context, clerkUserID string) (*types.OnboardingStatus, error) {
	if clerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}
	user, err := s.requireUser(ctx, clerkUserID, "Failed to check onboarding status")
	if err != nil {
		return nil, err
	}
	return &types.OnboardingStatus{IsOnboarded: user.IndustryName() != ""}, nil
}

// Preferences returns the user's industry and skills with defaults for
// unknown users and empty fields.
func (s *Service) Preferences(ctx context.Context, clerkUserID string) (*types.UserPreferences, error) {
	if clerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}

	prefs := &types.UserPreferences{Industry: types.DefaultIndustry, Skills: []string{}}
	user, err := s.db.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		s.log.Error("user lookup failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: "Failed to fetch user data", Err: err}
	}
	if user == nil {
		return prefs, nil
	}
	if industry := user.IndustryName(); industry != "" {
		prefs.Industry = industry
	}
	if len(user.Skills) > 0 {
		prefs.Skills = []string(user.Skills)
	}
	return prefs, nil
}

// Insights returns the insight for the user's industry, generating it when missing.
func (s *Service) Insights(ctx context.Context, clerkUserID string) (*db.IndustryInsight, error) {
	if clerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}
	user, err := s.requireUser(ctx, clerkUserID, types.InsightsFailed)
	if err != nil {
		return nil, err
	}
	industry := user.IndustryName()
	if industry == "" {
		return nil, &types.ErrValidation{Field: "industry", Message: "Complete onboarding to see industry insights"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var insight *db.IndustryInsight
	err = s.db.Transaction(ctx, func(tx *db.DB) error {
		var err error
		insight, err = s.ensureInsight(ctx, tx, industry)
		return err
	})
	if err != nil {
		s.log.Error("loading industry insight failed", "user_id", clerkUserID, "industry", industry, "error", err)
		return nil, &types.ErrUpstream{Message: types.InsightsFailed, Err: err}
	}
	return insight, nil
}

func (s *Service) requireUser(ctx context.Context, clerkUserID, failure string) (*db.User, error) {
	user, err := s.db.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		s.log.Error("user lookup failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: failure, Err: err}
	}
	if user == nil {
		return nil, &types.ErrUserNotFound{ClerkUserID: clerkUserID}
	}
	return user, nil
}
