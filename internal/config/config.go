package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath and applies defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content into a validated AppConfig.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Analytics: AnalyticsConfig{
			DefaultProvider: defaultAnalyticsProvider,
			CacheTTL:        defaultAnalyticsCacheTTL,
			RefreshInterval: defaultAnalyticsRefresh,
		},
		RateLimit: RateLimitConfig{AIPerMinute: defaultAIPerMinute},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = normalizeDatabaseConfig(applyRawDatabaseConfig(cfg.Database, raw.Database))
	cfg.Redis = normalizeRedisConfig(applyRawRedisConfig(cfg.Redis, raw.Redis))
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()

	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" && cfg.Timezone == "" {
		cfg.Timezone = v
	}

	analytics, err := applyRawAnalyticsConfig(cfg.Analytics, raw.Analytics)
	if err != nil {
		return err
	}
	cfg.Analytics = analytics

	cfg.AI = normalizeAIConfig(raw.AI)
	if raw.RateLimit.AIPerMinute != nil {
		cfg.RateLimit.AIPerMinute = *raw.RateLimit.AIPerMinute
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawDatabaseConfig) DatabaseRuntimeConfig {
	if v := strings.TrimSpace(raw.Driver); v != "" {
		current.Driver = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		current.DSN = v
	}
	if v := strings.TrimSpace(raw.Path); v != "" {
		current.Path = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		current.Host = v
	}
	if raw.Port != 0 {
		current.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		current.User = v
	} else if v := strings.TrimSpace(raw.Username); v != "" {
		current.User = v
	}
	if raw.Password != "" {
		current.Password = raw.Password
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		current.Name = v
	} else if v := strings.TrimSpace(raw.DBName); v != "" {
		current.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		current.Charset = v
	}
	if raw.ParseTime != nil {
		current.ParseTime = *raw.ParseTime
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		current.Loc = v
	}
	if raw.Params != nil {
		current.Params = raw.Params
	}
	return current
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawRedisConfig) RedisRuntimeConfig {
	if raw.Enable != nil {
		current.Enable = *raw.Enable
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		current.URL = v
		if raw.Enable == nil {
			current.Enable = true
		}
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		current.Host = v
	}
	if raw.Port != 0 {
		current.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		current.Username = v
	}
	if raw.Password != "" {
		current.Password = raw.Password
	}
	if raw.DB != nil {
		current.DB = *raw.DB
	}
	if raw.TLS != nil {
		current.TLS = *raw.TLS
	}
	return current
}

func applyRawAnalyticsConfig(current AnalyticsConfig, raw rawAnalyticsConfig) (AnalyticsConfig, error) {
	if v := strings.ToLower(strings.TrimSpace(raw.DefaultProvider)); v != "" {
		current.DefaultProvider = v
	}
	if v := strings.TrimSpace(raw.CacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return current, fmt.Errorf("invalid analytics.cache_ttl %q: %w", v, err)
		}
		current.CacheTTL = ttl
	}
	if v := strings.TrimSpace(raw.RefreshInterval); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return current, fmt.Errorf("invalid analytics.refresh_interval %q: %w", v, err)
		}
		current.RefreshInterval = interval
	}
	return current, nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported database.driver %q, expected mysql or sqlite", c.Database.Driver)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	switch c.Analytics.DefaultProvider {
	case "internal", "google", "vercel":
	default:
		return fmt.Errorf("invalid analytics.default_provider %q", c.Analytics.DefaultProvider)
	}
	if c.Analytics.CacheTTL < 0 {
		return fmt.Errorf("invalid analytics.cache_ttl %s, expected >= 0", c.Analytics.CacheTTL)
	}
	if c.RateLimit.AIPerMinute < 0 {
		return fmt.Errorf("invalid rate_limit.ai_per_minute %d, expected >= 0", c.RateLimit.AIPerMinute)
	}
	seen := map[string]struct{}{}
	for _, p := range c.AI.Providers {
		if p.Name == "" {
			return fmt.Errorf("ai provider of type %q has no name", p.Type)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate ai provider %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// FindAIProvider returns the provider with the given name, or the default one when name is empty.
func (c *AppConfig) FindAIProvider(name string) (AIProvider, bool) {
	target := strings.TrimSpace(name)
	if target == "" {
		target = c.AI.DefaultProvider
	}
	for _, p := range c.AI.Providers {
		if p.Name == target {
			return p, true
		}
	}
	if target == "" && len(c.AI.Providers) > 0 {
		return c.AI.Providers[0], true
	}
	return AIProvider{}, false
}
