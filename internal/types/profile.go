package types

import "github.com/go-playground/validator/v10"

// NotSpecifiedIndustry is assigned to users before onboarding.
const NotSpecifiedIndustry = "Not Specified"

// ProfileUpdate is the body of PUT /api/user/profile.
type ProfileUpdate struct {
	Industry   string   `json:"industry" validate:"required,min=1"`
	Experience *int     `json:"experience,omitempty" validate:"omitempty,min=0,max=80"`
	Bio        string   `json:"bio,omitempty" validate:"max=2000"`
	Skills     []string `json:"skills,omitempty" validate:"omitempty,dive,required"`
}

// Validate validates the ProfileUpdate using the validator.
func (p *ProfileUpdate) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		field := "profile"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return &ErrValidation{Field: field, Message: InvalidInputMessage}
	}
	return nil
}

// UserPreferences is returned by GET /api/user.
type UserPreferences struct {
	Industry string   `json:"industry"`
	Skills   []string `json:"skills"`
}

// OnboardingStatus is returned by GET /api/user/onboarding.
type OnboardingStatus struct {
	IsOnboarded bool `json:"isOnboarded"`
}

// SalaryRange is the pay band of one role within an industry.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// InsightData is the model-produced analysis of an industry.
type InsightData struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}
