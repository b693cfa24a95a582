package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Category recorded for every quiz assessment.
const CategoryTechnical = "Technical"

// Answer placeholders.
const (
	NoAnswerProvided = "No answer provided"
	DefaultTip       = "Review your incorrect answers for common patterns."
)

// QuestionResult is the scored outcome of one question, stored with the assessment.
type QuestionResult struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UserAnswer  string `json:"userAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// SaveQuizResultRequest is the body of POST /api/assessments.
type SaveQuizResultRequest struct {
	Questions []QuizQuestion `json:"questions" validate:"required,min=1"`
	Answers   []*string      `json:"answers" validate:"required"`
	Score     float64        `json:"score"`
}

// Validate checks presence and that answers line up with questions.
func (r *SaveQuizResultRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		field := "request"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return &ErrValidation{Field: field, Message: InvalidInputMessage}
	}
	if len(r.Answers) != len(r.Questions) {
		return &ErrValidation{Field: "answers", Message: InvalidInputMessage}
	}
	return nil
}

// ScorePoint is one assessment on a score-over-time chart.
type ScorePoint struct {
	Date     time.Time `json:"date"`
	Score    float64   `json:"score"`
	Category string    `json:"category"`
}

// AssessmentSummary aggregates a user's assessments.
type AssessmentSummary struct {
	TotalQuestions int          `json:"totalQuestions"`
	Accuracy       float64      `json:"accuracy"`
	AverageScore   float64      `json:"averageScore"`
	Points         []ScorePoint `json:"points"`
}
