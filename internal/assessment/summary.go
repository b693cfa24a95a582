package assessment

import (
	"math"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// Summarize computes totals for the assessments in the order given.
func Summarize(assessments []db.Assessment) types.AssessmentSummary {
	summary := types.AssessmentSummary{Points: make([]types.ScorePoint, 0, len(assessments))}

	correct := 0
	scoreSum := 0.0
	for _, a := range assessments {
		summary.TotalQuestions += len(a.Questions)
		for _, q := range a.Questions {
			if q.IsCorrect {
				correct++
			}
		}
		scoreSum += a.QuizScore
		summary.Points = append(summary.Points, types.ScorePoint{
			Date:     a.CreatedAt,
			Score:    a.QuizScore,
			Category: a.Category,
		})
	}

	if summary.TotalQuestions > 0 {
		summary.Accuracy = round1(float64(correct) / float64(summary.TotalQuestions) * 100)
	}
	if len(assessments) > 0 {
		summary.AverageScore = round1(scoreSum / float64(len(assessments)))
	}
	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
