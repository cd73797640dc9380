package ai

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/penline/blog/internal/config"
)

var (
	ErrNoProvider      = errors.New("no ai provider configured")
	ErrUnknownProvider = errors.New("unknown ai provider")
)

// Factory builds a generator from a provider entry.
type Factory func(config.AIProvider) (TextGenerator, error)

// Registry hands out generators by provider name, building each on first use.
type Registry struct {
	cfg     config.AIConfig
	factory Factory

	mu    sync.Mutex
	built map[string]TextGenerator
}

func NewRegistry(cfg config.AIConfig, factory Factory) *Registry {
	if factory == nil {
		factory = NewGenerator
	}
	return &Registry{cfg: cfg, factory: factory, built: map[string]TextGenerator{}}
}

// Resolve returns the generator for name (or the default provider) with an optional model override.
func (r *Registry) Resolve(name, model string) (TextGenerator, config.AIProvider, error) {
	provider, err := r.lookup(name)
	if err != nil {
		return nil, config.AIProvider{}, err
	}
	if m := strings.TrimSpace(model); m != "" {
		provider.Model = m
	}
	provider.Model = resolveModelID(provider)

	key := provider.Name + "|" + provider.Model
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen, ok := r.built[key]; ok {
		return gen, provider, nil
	}
	gen, err := r.factory(provider)
	if err != nil {
		return nil, config.AIProvider{}, err
	}
	r.built[key] = gen
	return gen, provider, nil
}

func (r *Registry) lookup(name string) (config.AIProvider, error) {
	if len(r.cfg.Providers) == 0 {
		return config.AIProvider{}, ErrNoProvider
	}
	target := strings.TrimSpace(name)
	if target == "" {
		target = r.cfg.DefaultProvider
	}
	if target == "" {
		return r.cfg.Providers[0], nil
	}
	for _, p := range r.cfg.Providers {
		if p.Name == target {
			return p, nil
		}
	}
	return config.AIProvider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, target)
}

// ProviderInfo is the public view of a provider entry.
type ProviderInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Model   string `json:"model"`
	Default bool   `json:"default"`
	HasKey  bool   `json:"hasKey"`
}

// Providers lists configured providers without their secrets.
func (r *Registry) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(r.cfg.Providers))
	for i, p := range r.cfg.Providers {
		isDefault := p.Name == r.cfg.DefaultProvider || (r.cfg.DefaultProvider == "" && i == 0)
		out = append(out, ProviderInfo{
			Name:    p.Name,
			Type:    p.Type,
			Model:   resolveModelID(p),
			Default: isDefault,
			HasKey:  p.APIKey != "",
		})
	}
	return out
}
