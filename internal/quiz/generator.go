// Package quiz generates multiple-choice interview quizzes with the LLM.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
)

// Generator produces quizzes for an industry and skill set
type Generator struct {
	client llm.Client
	log    *observability.Logger
}

// NewGenerator creates a Generator backed by the given LLM client
func NewGenerator(client llm.Client, log *observability.Logger) *Generator {
	if log == nil {
		log = observability.NewNop()
	}
	return &Generator{client: client, log: log.With("component", "quiz")}
}

// rawQuestion is a question as the model returns it, before the marker is removed.
type rawQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Explanation *string  `json:"explanation"`
}

type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

// Generate asks the model for a quiz once. Every failure is reported as the
// same upstream error; the cause is logged.
func (g *Generator) Generate(ctx context.Context, industry string, skills []string) (*types.Quiz, error) {
	prompt, err := BuildPrompt(industry, skills)
	if err != nil {
		return nil, g.fail("failed to build prompt", err)
	}

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, g.fail("model call failed", err)
	}

	quiz, err := Parse(text)
	if err != nil {
		return nil, g.fail("invalid model response", err)
	}

	g.log.Debug("quiz generated", "industry", industry, "questions", len(quiz.Questions))
	return quiz, nil
}

func (g *Generator) fail(msg string, err error) error {
	g.log.Error(msg, "error", err)
	return &types.ErrUpstream{Message: types.QuizGenerationFailed, Err: err}
}

// BuildPrompt renders the quiz prompt. An empty industry means the default one.
func BuildPrompt(industry string, skills []string) (string, error) {
	if industry == "" {
		industry = types.DefaultIndustry
	}

	skillsClause := ""
	if len(skills) > 0 {
		clause, err := prompts.Render("skills-clause", map[string]string{
			"Skills": strings.Join(skills, ", "),
		})
		if err != nil {
			return "", err
		}
		skillsClause = clause
	}

	return prompts.Render("generate-quiz", map[string]string{
		"Count":        strconv.Itoa(types.QuestionCount),
		"Industry":     industry,
		"SkillsClause": skillsClause,
		"Marker":       types.CorrectMarker,
	})
}

// Parse cleans a model response, checks its shape and post-processes every question.
func Parse(text string) (*types.Quiz, error) {
	cleaned := llm.StripCodeFences(text)

	if err := schemas.Validate(schemas.Quiz, cleaned); err != nil {
		return nil, err
	}

	var raw rawQuiz
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz JSON: %w", err)
	}

	quiz := &types.Quiz{Questions: make([]types.QuizQuestion, 0, len(raw.Questions))}
	for _, q := range raw.Questions {
		quiz.Questions = append(quiz.Questions, processQuestion(q))
	}
	return quiz, nil
}

func processQuestion(q rawQuestion) types.QuizQuestion {
	options := make([]string, len(q.Options))
	correct := ""
	found := false
	for i, opt := range q.Options {
		options[i] = StripMarker(opt)
		if !found && strings.Contains(opt, types.CorrectMarker) {
			correct = options[i]
			found = true
		}
	}
	if !found && len(options) > 0 {
		correct = options[0]
	}

	explanation := ""
	if q.Explanation != nil {
		explanation = *q.Explanation
	}

	return types.QuizQuestion{
		Question:      q.Question,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   explanation,
	}
}

// StripMarker removes every correctness marker and the whitespace around it.
func StripMarker(option string) string {
	out := strings.ReplaceAll(option, " "+types.CorrectMarker, "")
	out = strings.ReplaceAll(out, types.CorrectMarker, "")
	return strings.TrimSpace(out)
}
