package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/db/dbtest"
	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource records calls and returns canned insight data.
type fakeSource struct {
	calls []string
	data  *types.InsightData
	err   error
	delay time.Duration
}

func (f *fakeSource) Generate(ctx context.Context, industry string) (*types.InsightData, error) {
	f.calls = append(f.calls, industry)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func sampleData() *types.InsightData {
	return &types.InsightData{
		SalaryRanges:      []types.SalaryRange{{Role: "SRE", Min: 1, Max: 3, Median: 2, Location: "US"}},
		GrowthRate:        8,
		DemandLevel:       "High",
		TopSkills:         []string{"Go"},
		MarketOutlook:     "Positive",
		KeyTrends:         []string{"Platform engineering"},
		RecommendedSkills: []string{"Terraform"},
	}
}

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, source *fakeSource) (*Service, *db.DB) {
	t.Helper()
	database := dbtest.New(t)
	svc := NewService(database, source, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, database
}

func seedUser(t *testing.T, database *db.DB, clerkID string) *db.User {
	t.Helper()
	u := &db.User{ClerkUserID: clerkID, Email: clerkID + "@example.com"}
	require.NoError(t, database.CreateUser(context.Background(), u))
	return u
}

func TestUpdate_CreatesInsightAndUpdatesUser(t *testing.T) {
	source := &fakeSource{data: sampleData()}
	svc, database := setup(t, source)
	seedUser(t, database, "user_1")
	years := 5

	res, err := svc.Update(context.Background(), "user_1", &types.ProfileUpdate{
		Industry:   "tech-devops",
		Experience: &years,
		Bio:        "SRE",
		Skills:     []string{"Go", "Terraform"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-devops", res.User.IndustryName())
	assert.Equal(t, []string{"Go", "Terraform"}, []string(res.User.Skills))
	require.NotNil(t, res.Insight)
	assert.Equal(t, "High", res.Insight.DemandLevel)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), res.Insight.NextUpdate)
	assert.Equal(t, []string{"tech-devops"}, source.calls)

	stored, err := database.GetIndustryInsight(context.Background(), "tech-devops")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestUpdate_ReusesExistingInsight(t *testing.T) {
	source := &fakeSource{data: sampleData()}
	svc, database := setup(t, source)
	seedUser(t, database, "user_2")
	require.NoError(t, database.CreateIndustryInsight(context.Background(),
		db.NewIndustryInsight("finance", insights.Defaults(), fixedNow)))

	res, err := svc.Update(context.Background(), "user_2", &types.ProfileUpdate{Industry: "finance"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", res.Insight.DemandLevel)
	assert.Empty(t, source.calls)
}

func TestUpdate_GenerationFailureRollsBack(t *testing.T) {
	source := &fakeSource{err: errors.New("model down")}
	svc, database := setup(t, source)
	seedUser(t, database, "user_3")

	_, err := svc.Update(context.Background(), "user_3", &types.ProfileUpdate{Industry: "healthcare"})
	var upstream *types.ErrUpstream
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "Failed to update profile", err.Error())
	assert.ErrorContains(t, upstream.Unwrap(), "model down")

	u, err := database.GetUserByClerkID(context.Background(), "user_3")
	require.NoError(t, err)
	assert.Nil(t, u.Industry)
}

func TestUpdate_Timeout(t *testing.T) {
	source := &fakeSource{data: sampleData(), delay: time.Second}
	svc, database := setup(t, source)
	svc.timeout = 20 * time.Millisecond
	seedUser(t, database, "user_4")

	_, err := svc.Update(context.Background(), "user_4", &types.ProfileUpdate{Industry: "retail"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := setup(t, &fakeSource{data: sampleData()})

	_, err := svc.Update(context.Background(), "", &types.ProfileUpdate{Industry: "x"})
	assert.IsType(t, &types.ErrUnauthorized{}, err)

	_, err = svc.Update(context.Background(), "user", &types.ProfileUpdate{})
	assert.IsType(t, &types.ErrValidation{}, err)

	_, err = svc.Update(context.Background(), "ghost", &types.ProfileUpdate{Industry: "x"})
	assert.IsType(t, &types.ErrUserNotFound{}, err)
}

func TestOnboardingStatus(t *testing.T) {
	svc, database := setup(t, &fakeSource{data: sampleData()})
	seedUser(t, database, "fresh")

	status, err := svc.OnboardingStatus(context.Background(), "fresh")
	require.NoError(t, err)
	assert.False(t, status.IsOnboarded)

	_, err = svc.Update(context.Background(), "fresh", &types.ProfileUpdate{Industry: "finance"})
	require.NoError(t, err)

	status, err = svc.OnboardingStatus(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, status.IsOnboarded)

	_, err = svc.OnboardingStatus(context.Background(), "")
	assert.IsType(t, &types.ErrUnauthorized{}, err)
}

func TestPreferences(t *testing.T) {
	svc, database := setup(t, &fakeSource{data: sampleData()})

	prefs, err := svc.Preferences(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, "Software Engineering", prefs.Industry)
	assert.Equal(t, []string{}, prefs.Skills)

	seedUser(t, database, "known")
	_, err = svc.Update(context.Background(), "known", &types.ProfileUpdate{Industry: "finance", Skills: []string{"Excel"}})
	require.NoError(t, err)

	prefs, err = svc.Preferences(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "finance", prefs.Industry)
	assert.Equal(t, []string{"Excel"}, prefs.Skills)

	_, err = svc.Preferences(context.Background(), "")
	assert.IsType(t, &types.ErrUnauthorized{}, err)
}

func TestInsights(t *testing.T) {
	source := &fakeSource{data: sampleData()}
	svc, database := setup(t, source)
	seedUser(t, database, "no_industry")

	_, err := svc.Insights(context.Background(), "no_industry")
	assert.IsType(t, &types.ErrValidation{}, err)

	_, err = svc.Update(context.Background(), "no_industry", &types.ProfileUpdate{Industry: "finance"})
	require.NoError(t, err)

	insight, err := svc.Insights(context.Background(), "no_industry")
	require.NoError(t, err)
	assert.Equal(t, "finance", insight.Industry)
	assert.Len(t, source.calls, 1, "insight generated once and reused")
}
