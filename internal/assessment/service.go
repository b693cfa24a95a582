// Package assessment scores, stores and summarizes quiz attempts.
package assessment

import (
	"context"
	"strings"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/types"
	"gorm.io/datatypes"
)

// Service persists and reads assessments
type Service struct {
	db     *db.DB
	client llm.Client
	log    *observability.Logger
}

// NewService creates an assessment service
func NewService(database *db.DB, client llm.Client, log *observability.Logger) *Service {
	if log == nil {
		log = observability.NewNop()
	}
	return &Service{db: database, client: client, log: log.With("component", "assessment")}
}

// Save scores a submitted quiz and stores it for the user identified by clerkUserID.
func (s *Service) Save(ctx context.Context, clerkUserID string, req *types.SaveQuizResultRequest) (*db.Assessment, error) {
	if clerkUserID == "" {
		return nil, &types.ErrUnauthorized{}
	}
	if req == nil {
		return nil, &types.ErrValidation{Field: "request", Message: types.InvalidInputMessage}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := Score(req.Questions, req.Answers)

	user, err := s.db.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		s.log.Error("user lookup failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: types.SaveResultsFailed, Err: err}
	}
	if user == nil {
		return nil, &types.ErrUserNotFound{ClerkUserID: clerkUserID}
	}

	tip, err := s.improvementTip(ctx, results)
	if err != nil {
		return nil, &types.ErrUpstream{Message: types.SaveResultsFailed, Err: err}
	}

	a := &db.Assessment{
		UserID:         user.ID,
		QuizScore:      req.Score,
		Questions:      datatypes.NewJSONSlice(results),
		Category:       types.CategoryTechnical,
		ImprovementTip: tip,
	}
	if err := s.db.CreateAssessment(ctx, a); err != nil {
		s.log.Error("saving assessment failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: types.SaveResultsFailed, Err: err}
	}

	s.log.Info("assessment saved", "user_id", clerkUserID, "score", req.Score, "questions", len(results))
	return a, nil
}

// Score compares answers with the recorded correct answers. answers must be
// as long as questions.
func Score(questions []types.QuizQuestion, answers []*string) []types.QuestionResult {
	results := make([]types.QuestionResult, len(questions))
	for i, q := range questions {
		userAnswer := ""
		if i < len(answers) && answers[i] != nil {
			userAnswer = *answers[i]
		}
		recorded := q.RecordedAnswer()

		display := userAnswer
		if display == "" {
			display = types.NoAnswerProvided
		}

		results[i] = types.QuestionResult{
			Question:    q.Question,
			Answer:      q.ExpectedAnswer(),
			UserAnswer:  display,
			IsCorrect:   recorded != "" && userAnswer != "" && recorded == userAnswer,
			Explanation: q.Explanation,
		}
	}
	return results
}

// improvementTip returns nil when every answer is correct. A model failure
// falls back to the static tip.
func (s *Service) improvementTip(ctx context.Context, results []types.QuestionResult) (*string, error) {
	missed := make([]string, 0, len(results))
	for _, r := range results {
		if r.IsCorrect {
			continue
		}
		block, err := prompts.Render("missed-question", map[string]string{
			"Question": r.Question,
			"Answer":   r.Answer,
		})
		if err != nil {
			return nil, err
		}
		missed = append(missed, block)
	}
	if len(missed) == 0 {
		return nil, nil
	}

	prompt, err := prompts.Render("improvement-tip", map[string]string{
		"Missed": strings.Join(missed, "\n\n"),
	})
	if err != nil {
		return nil, err
	}

	tip, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	tip = strings.TrimSpace(tip)
	if err != nil || tip == "" {
		s.log.Warn("improvement tip unavailable, using default", "error", err)
		tip = types.DefaultTip
	}
	return &tip, nil
}

// List returns the user's assessments, newest first. Unknown or missing
// identities yield an empty list.
func (s *Service) List(ctx context.Context, clerkUserID string) ([]db.Assessment, error) {
	if clerkUserID == "" {
		return []db.Assessment{}, nil
	}

	user, err := s.db.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		s.log.Error("user lookup failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: types.FetchAssessmentFailed, Err: err}
	}
	if user == nil {
		return []db.Assessment{}, nil
	}

	assessments, err := s.db.ListAssessmentsByUser(ctx, user.ID)
	if err != nil {
		s.log.Error("listing assessments failed", "user_id", clerkUserID, "error", err)
		return nil, &types.ErrUpstream{Message: types.FetchAssessmentFailed, Err: err}
	}
	return assessments, nil
}
