package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penline/blog/internal/config"
	"github.com/penline/blog/internal/middleware"
	"github.com/penline/blog/internal/modules/processing/ai"
	"github.com/penline/blog/internal/modules/stats/analytics"
	"github.com/penline/blog/internal/modules/system/health"
	"github.com/penline/blog/internal/pkg/response"
)

const apiPrefix = "/api"

// services are the long-lived module services shared by routes and cron jobs.
type services struct {
	analytics    *analytics.Service
	cacheEnabled bool
}

func (a *App) registerRoutes() services {
	r := a.router
	adminMW := middleware.Admin()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group(apiPrefix)
	api.Use(middleware.Idempotence(a.rc))

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})
	health.RegisterRoutes(api, a.db, a.rc, a.sched, adminMW)

	// Analytics (admin)
	store := analytics.NewStore(a.db)
	analyticsSvc := analytics.NewService(analytics.ServiceConfig{
		Internal:        analytics.NewInternalProvider(store, analytics.Options{}),
		Vercel:          analytics.NewVercelProvider(store, analytics.Options{}),
		Google:          analytics.NewGoogleProvider(config.OSLookupEnv, nil, store, nil, a.logger.Named("GoogleAnalytics")),
		DefaultProvider: analytics.ParseProvider(a.cfg.Analytics.DefaultProvider, analytics.ProviderInternal),
		Cache:           a.rc,
		CacheTTL:        a.cfg.Analytics.CacheTTL,
		Logger:          a.logger.Named("Analytics"),
	})
	analytics.NewHandler(analyticsSvc, a.logger.Named("Analytics")).RegisterRoutes(api, adminMW)

	// AI drafting (admin, rate limited)
	aiSvc := ai.NewService(ai.NewRegistry(a.cfg.AI, ai.NewGenerator), a.logger.Named("AI"))
	limiter := middleware.RateLimit(a.rc, "ai", a.cfg.RateLimit.AIPerMinute, time.Minute, a.logger)
	ai.NewHandler(aiSvc).RegisterRoutes(api, adminMW, limiter)

	return services{analytics: analyticsSvc, cacheEnabled: a.rc != nil && a.cfg.Analytics.CacheTTL > 0}
}
