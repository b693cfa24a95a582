package llm

import "strings"

// StripCodeFences removes every ```json and ``` marker from a model answer
// and trims the result. Models wrap JSON in fences even when told not to.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
