// Package llm provides the model configuration and client used to talk to the
// generative model that writes quizzes, improvement tips and industry insights.
package llm

// ModelTier represents the capability level a call needs.
type ModelTier string

const (
	// TierLite is for short free-text answers such as improvement tips
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: quizzes and industry insights
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32 // zero leaves the provider default in place
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// WithOverride pins every tier to one model. An empty name returns c unchanged.
func (c *Config) WithOverride(model string) *Config {
	if model == "" {
		return c
	}
	out := c
	for _, tier := range []ModelTier{TierLite, TierStandard} {
		out = out.WithModel(tier, model)
	}
	return out
}
