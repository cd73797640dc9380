package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/penline/blog/internal/config"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "blog:analytics:"

// Provider is one analytics source.
type Provider interface {
	Name() ProviderName
	Fetch(ctx context.Context, rng Range) (*Response, error)
}

// FallbackReason records why a vercel request was answered by the internal provider.
type FallbackReason struct {
	From ProviderName
	To   ProviderName
	Err  error
}

func (r *FallbackReason) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s unavailable, served %s: %v", r.From, r.To, r.Err)
}

// Outcome is a normalized response plus how it was produced.
type Outcome struct {
	Response *Response
	Fallback *FallbackReason
	Cached   bool
}

// ServiceConfig wires the providers and cache into a Service.
type ServiceConfig struct {
	Internal        Provider
	Vercel          Provider
	Google          Provider
	DefaultProvider ProviderName
	Cache           *pkgredis.Client
	CacheTTL        time.Duration
	Now             func() time.Time
	Logger          *zap.Logger
}

// Service selects a provider, normalizes its output and caches it.
type Service struct {
	providers       map[ProviderName]Provider
	internal        Provider
	defaultProvider ProviderName
	cache           *pkgredis.Client
	ttl             time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		providers:       map[ProviderName]Provider{},
		internal:        cfg.Internal,
		defaultProvider: ParseProvider(string(cfg.DefaultProvider), ProviderInternal),
		cache:           cfg.Cache,
		ttl:             cfg.CacheTTL,
		now:             cfg.Now,
		logger:          cfg.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, p := range []Provider{cfg.Internal, cfg.Vercel, cfg.Google} {
		if p != nil {
			s.providers[p.Name()] = p
		}
	}
	return s
}

// DefaultProvider is used when a request names no known provider.
func (s *Service) DefaultProvider() ProviderName { return s.defaultProvider }

// Get answers one analytics request. refresh skips the cache read but still writes the result.
func (s *Service) Get(ctx context.Context, name ProviderName, rng Range, refresh bool) (Outcome, error) {
	key := cacheKey(name, rng)
	if !refresh {
		if resp, ok := s.readCache(ctx, key); ok {
			return Outcome{Response: resp, Cached: true}, nil
		}
	}

	out, err := s.fetch(ctx, name, rng)
	if err != nil {
		return Outcome{}, err
	}
	if out.Fallback == nil {
		s.writeCache(ctx, key, out.Response)
	}
	return out, nil
}

func (s *Service) fetch(ctx context.Context, name ProviderName, rng Range) (Outcome, error) {
	p, ok := s.providers[name]
	if !ok {
		if name == ProviderGoogle {
			return Outcome{}, notConfigured(config.GA4RequiredEnv)
		}
		p = s.internal
		name = ProviderInternal
	}
	if p == nil {
		return Outcome{}, fmt.Errorf("analytics provider %q is not wired", name)
	}

	resp, err := p.Fetch(ctx, rng)
	if err == nil {
		return Outcome{Response: Normalize(resp, name, rng, s.now())}, nil
	}
	if name != ProviderVercel || s.internal == nil {
		return Outcome{}, err
	}

	reason := &FallbackReason{From: ProviderVercel, To: ProviderInternal, Err: err}
	s.logger.Warn("analytics provider fell back",
		zap.String("from", string(reason.From)),
		zap.String("to", string(reason.To)),
		zap.String("range", rng.Key),
		zap.Error(err),
	)
	resp, err = s.internal.Fetch(ctx, rng)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Response: Normalize(resp, ProviderInternal, rng, s.now()), Fallback: reason}, nil
}

// Warm refreshes the cached responses of one provider for the given ranges.
func (s *Service) Warm(ctx context.Context, name ProviderName, ranges ...Range) error {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}
	for _, rng := range ranges {
		if _, err := s.Get(ctx, name, rng, true); err != nil {
			return fmt.Errorf("warm %s %s: %w", name, rng.Key, err)
		}
	}
	return nil
}

func (s *Service) readCache(ctx context.Context, key string) (*Response, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		_ = s.cache.Del(ctx, key)
		return nil, false
	}
	return &resp, true
}

func (s *Service) writeCache(ctx context.Context, key string, resp *Response) {
	if s.cache == nil || s.ttl <= 0 || resp == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(name ProviderName, rng Range) string {
	return cacheKeyPrefix + string(name) + ":" + rng.Key
}

// ProviderStatus describes one selectable provider.
type ProviderStatus struct {
	Name       ProviderName `json:"name"`
	Available  bool         `json:"available"`
	Default    bool         `json:"default"`
	Synthetic  bool         `json:"synthetic"`
	MissingEnv []string     `json:"missingEnv"`
}

type configurable interface {
	Configured() (bool, []string)
}

// Providers reports every provider in selection order.
func (s *Service) Providers() []ProviderStatus {
	out := make([]ProviderStatus, 0, 3)
	for _, name := range []ProviderName{ProviderInternal, ProviderVercel, ProviderGoogle} {
		st := ProviderStatus{
			Name:       name,
			Default:    name == s.defaultProvider,
			Synthetic:  name != ProviderGoogle,
			MissingEnv: []string{},
		}
		p, ok := s.providers[name]
		if !ok {
			if name == ProviderGoogle {
				st.MissingEnv = append(st.MissingEnv, config.GA4RequiredEnv...)
			}
		} else if c, isCfg := p.(configurable); isCfg {
			var missing []string
			st.Available, missing = c.Configured()
			st.MissingEnv = append(st.MissingEnv, missing...)
		} else {
			st.Available = true
		}
		out = append(out, st)
	}
	return out
}
