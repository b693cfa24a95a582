package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-prep/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an application user keyed by the identity provider's user id
type User struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ClerkUserID string                      `gorm:"column:clerk_user_id;uniqueIndex;not null" json:"clerkUserId"`
	Email       string                      `gorm:"index" json:"email"`
	Name        string                      `json:"name,omitempty"`
	ImageURL    string                      `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Industry    *string                     `gorm:"index" json:"industry"`
	Experience  *int                        `json:"experience"`
	Bio         string                      `json:"bio,omitempty"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IndustryName returns the user's industry or "" when unset.
func (u *User) IndustryName() string {
	if u.Industry == nil {
		return ""
	}
	return *u.Industry
}

// Assessment is one scored quiz attempt. Rows are never updated.
type Assessment struct {
	ID             uuid.UUID                                 `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                                 `gorm:"type:uuid;index;not null" json:"userId"`
	QuizScore      float64                                   `gorm:"not null" json:"quizScore"`
	Questions      datatypes.JSONSlice[types.QuestionResult] `gorm:"not null" json:"questions"`
	Category       string                                    `gorm:"not null" json:"category"`
	ImprovementTip *string                                   `json:"improvementTip"`
	CreatedAt      time.Time                                 `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                                 `json:"updatedAt"`
}

func (a *Assessment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IndustryInsight caches the model's analysis of one industry
type IndustryInsight struct {
	ID                uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	Industry          string                                 `gorm:"uniqueIndex;not null" json:"industry"`
	SalaryRanges      datatypes.JSONSlice[types.SalaryRange] `json:"salaryRanges"`
	GrowthRate        float64                                `json:"growthRate"`
	DemandLevel       string                                 `json:"demandLevel"`
	TopSkills         datatypes.JSONSlice[string]            `json:"topSkills"`
	MarketOutlook     string                                 `json:"marketOutlook"`
	KeyTrends         datatypes.JSONSlice[string]            `json:"keyTrends"`
	RecommendedSkills datatypes.JSONSlice[string]            `json:"recommendedSkills"`
	LastUpdated       time.Time                              `json:"lastUpdated"`
	NextUpdate        time.Time                              `gorm:"index" json:"nextUpdate"`
}

func (i *IndustryInsight) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.LastUpdated.IsZero() {
		i.LastUpdated = time.Now().UTC()
	}
	return nil
}

// NewIndustryInsight builds a row from generated data.
func NewIndustryInsight(industry string, data *types.InsightData, nextUpdate time.Time) *IndustryInsight {
	return &IndustryInsight{
		Industry:          industry,
		SalaryRanges:      datatypes.NewJSONSlice(data.SalaryRanges),
		GrowthRate:        data.GrowthRate,
		DemandLevel:       data.DemandLevel,
		TopSkills:         datatypes.NewJSONSlice(data.TopSkills),
		MarketOutlook:     data.MarketOutlook,
		KeyTrends:         datatypes.NewJSONSlice(data.KeyTrends),
		RecommendedSkills: datatypes.NewJSONSlice(data.RecommendedSkills),
		NextUpdate:        nextUpdate,
	}
}
