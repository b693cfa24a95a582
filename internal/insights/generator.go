// Package insights produces industry market analyses with the LLM.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
)

// Refresh intervals stored as next_update. Nothing refreshes rows yet.
const (
	RefreshInterval     = 7 * 24 * time.Hour
	PlaceholderInterval = 30 * 24 * time.Hour
)

// Source generates insight data for an industry
type Source interface {
	Generate(ctx context.Context, industry string) (*types.InsightData, error)
}

// Generator is the LLM-backed Source
type Generator struct {
	client llm.Client
	log    *observability.Logger
}

// NewGenerator creates a Generator backed by the given LLM client
func NewGenerator(client llm.Client, log *observability.Logger) *Generator {
	if log == nil {
		log = observability.NewNop()
	}
	return &Generator{client: client, log: log.With("component", "insights")}
}

// Generate asks the model for an analysis of industry
func (g *Generator) Generate(ctx context.Context, industry string) (*types.InsightData, error) {
	prompt, err := prompts.Render("industry-insights", map[string]string{"Industry": industry})
	if err != nil {
		return nil, err
	}

	text, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	data, err := Parse(text)
	if err != nil {
		g.log.Warn("invalid insight response", "industry", industry, "error", err)
		return nil, err
	}
	return data, nil
}

// Parse checks a model response against the insights schema and decodes it.
func Parse(text string) (*types.InsightData, error) {
	cleaned := llm.StripCodeFences(text)
	if err := schemas.Validate(schemas.Insights, cleaned); err != nil {
		return nil, err
	}

	var data types.InsightData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("failed to parse insights JSON: %w", err)
	}
	return &data, nil
}

// Defaults is the placeholder analysis stored for users who have not picked an industry.
func Defaults() *types.InsightData {
	return &types.InsightData{
		SalaryRanges:      []types.SalaryRange{},
		GrowthRate:        0,
		DemandLevel:       "Unknown",
		TopSkills:         []string{},
		MarketOutlook:     "N/A",
		KeyTrends:         []string{},
		RecommendedSkills: []string{},
	}
}
