package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/penline/blog/internal/modules/processing/markdown"
	"go.uber.org/zap"
)

// ErrInvalidRequest wraps every validation failure of a GenerateRequest.
var ErrInvalidRequest = errors.New("invalid generate request")

// Service generates post drafts.
type Service struct {
	registry *Registry
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(registry *Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, now: time.Now, logger: logger}
}

// Providers lists the configured generators.
func (s *Service) Providers() []ProviderInfo { return s.registry.Providers() }

// Generate writes a draft for req and renders it.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Draft, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	gen, provider, err := s.registry.Resolve(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}

	started := s.now()
	raw, err := gen.Generate(ctx, draftSystemPrompt, buildDraftPrompt(req))
	if err != nil {
		s.logger.Warn("draft generation failed",
			zap.String("provider", provider.Name),
			zap.String("model", provider.Model),
			zap.Error(err),
		)
		return nil, fmt.Errorf("generate with %s: %w", provider.Name, err)
	}

	text := markdown.StripFence(raw)
	title, body := splitTitle(text, req.Topic)
	html, err := markdown.Render(body)
	if err != nil {
		return nil, err
	}
	doc, err := markdown.Document(markdown.FrontMatter{
		Title:       title,
		Date:        started,
		Tags:        req.Keywords,
		Draft:       true,
		GeneratedBy: provider.Name + "/" + provider.Model,
	}, body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft generated",
		zap.String("provider", provider.Name),
		zap.String("model", provider.Model),
		zap.Int("chars", len(body)),
		zap.Duration("took", s.now().Sub(started)),
	)
	return &Draft{
		Provider: provider.Name,
		Model:    provider.Model,
		Title:    title,
		Markdown: body,
		HTML:     html,
		Sections: markdown.SplitSections(body),
		Document: doc,
	}, nil
}

func normalizeRequest(req GenerateRequest) (GenerateRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return req, fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(req.Topic) > maxTopicRunes {
		return req, fmt.Errorf("%w: topic exceeds %d characters", ErrInvalidRequest, maxTopicRunes)
	}
	req.Keywords = compact(req.Keywords)
	if len(req.Keywords) > maxKeywords {
		return req, fmt.Errorf("%w: at most %d keywords", ErrInvalidRequest, maxKeywords)
	}
	req.Sections = compact(req.Sections)
	if len(req.Sections) > maxSections {
		return req, fmt.Errorf("%w: at most %d sections", ErrInvalidRequest, maxSections)
	}
	if req.Tone = strings.TrimSpace(req.Tone); req.Tone == "" {
		req.Tone = defaultTone
	}
	if req.Language = strings.TrimSpace(req.Language); req.Language == "" {
		req.Language = defaultLanguage
	}
	return req, nil
}

// compact trims entries and drops blanks and duplicates, keeping order.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(v)]; ok {
			continue
		}
		seen[strings.ToLower(v)] = struct{}{}
		out = append(out, v)
	}
	return out
}

// splitTitle takes a leading "# " line as the title; otherwise the topic is used.
func splitTitle(text, fallback string) (string, string) {
	first, rest, _ := strings.Cut(text, "\n")
	if strings.HasPrefix(first, "# ") {
		return strings.TrimSpace(strings.TrimPrefix(first, "# ")), strings.TrimSpace(rest)
	}
	return fallback, text
}
