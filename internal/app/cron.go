package app

import (
	"context"

	"github.com/penline/blog/internal/config"
	"github.com/penline/blog/internal/modules/stats/analytics"
	pkgcron "github.com/penline/blog/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, svcs services, cfg *config.AppConfig) {
	if svcs.cacheEnabled && cfg.Analytics.RefreshInterval > 0 {
		provider := analytics.ParseProvider(cfg.Analytics.DefaultProvider, analytics.ProviderInternal)
		sched.Register(pkgcron.Job{
			Name:        "refresh_analytics_cache",
			Description: "Warm the analytics cache for the default provider",
			Interval:    cfg.Analytics.RefreshInterval,
			RunOnStart:  true,
			Fn: func(ctx context.Context) error {
				return svcs.analytics.Warm(ctx, provider, analytics.Range7d, analytics.Range30d)
			},
		})
	}
}
