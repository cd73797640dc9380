package ai

import "github.com/penline/blog/internal/modules/processing/markdown"

const (
	defaultTone     = "friendly"
	defaultLanguage = "English"
	maxKeywords     = 10
	maxSections     = 12
	maxTopicRunes   = 500
)

// GenerateRequest is the body of POST /admin/ai/generate.
type GenerateRequest struct {
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
	Topic    string   `json:"topic"    binding:"required"`
	Keywords []string `json:"keywords"`
	Tone     string   `json:"tone"`
	Language string   `json:"language"`
	Sections []string `json:"sections"`
}

// Draft is a generated article ready for the editor.
type Draft struct {
	Provider string             `json:"provider"`
	Model    string             `json:"model"`
	Title    string             `json:"title"`
	Markdown string             `json:"markdown"`
	HTML     string             `json:"html"`
	Sections []markdown.Section `json:"sections"`
	Document string             `json:"document"`
}
