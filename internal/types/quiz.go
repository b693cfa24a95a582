// Package types provides type definitions for structured data used throughout the interview-prep service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"regexp"
)

// CorrectMarker is appended by the model to the correct option of each question.
const CorrectMarker = "(Correct)"

// Defaults applied when a quiz is requested without a usable industry.
const (
	DefaultIndustry      = "Software Engineering"
	DefaultRouteIndustry = "Google Software Development Engineer (SDE)"
)

// QuestionCount is the number of questions requested per quiz.
const QuestionCount = 10

// QuizQuestion is a single multiple-choice question. Submissions from older
// clients carry the expected answer in Answer instead of CorrectAnswer.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Explanation   string   `json:"explanation"`
}

// RecordedAnswer returns the answer the question was generated with, if any.
func (q QuizQuestion) RecordedAnswer() string {
	if q.CorrectAnswer != "" {
		return q.CorrectAnswer
	}
	return q.Answer
}

// ExpectedAnswer returns the answer used for display and scoring fallbacks.
func (q QuizQuestion) ExpectedAnswer() string {
	if recorded := q.RecordedAnswer(); recorded != "" {
		return recorded
	}
	if len(q.Options) > 0 {
		return q.Options[0]
	}
	return "Unknown"
}

// Quiz is the generated question set returned to clients.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// GenerateQuizRequest is the body of POST /api/generate-quiz. Fields are kept
// raw because clients send loosely typed values.
type GenerateQuizRequest struct {
	Industry json.RawMessage `json:"industry,omitempty"`
	Skills   json.RawMessage `json:"skills,omitempty"`
}

var industryPattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// Normalize returns the industry and skills to generate a quiz for.
func (r GenerateQuizRequest) Normalize() (string, []string) {
	industry := DefaultRouteIndustry
	var s string
	if len(r.Industry) > 0 && json.Unmarshal(r.Industry, &s) == nil {
		if len(s) >= 2 && industryPattern.MatchString(s) {
			industry = s
		}
	}

	skills := []string{}
	var raw []any
	if len(r.Skills) > 0 && json.Unmarshal(r.Skills, &raw) == nil {
		for _, v := range raw {
			if str, ok := v.(string); ok {
				skills = append(skills, str)
			}
		}
	}
	return industry, skills
}
