package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penline/blog/internal/pkg/cron"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"github.com/penline/blog/internal/pkg/response"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// RegisterRoutes mounts the public health probe and the admin cron controls.
// rc may be nil when Redis is disabled.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client, sched *cron.Scheduler, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		dbOK := false
		if sqlDB, err := db.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}
		body := gin.H{"database": dbOK}
		redisOK := true
		if rc != nil {
			redisOK = rc.Ping(ctx) == nil
			body["redis"] = redisOK
		}

		status := "ok"
		code := http.StatusOK
		if !dbOK || !redisOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		body["status"] = status
		c.JSON(code, body)
	})

	cronGroup := rg.Group("/health/cron")
	if authMW != nil {
		cronGroup.Use(authMW)
	}
	cronGroup.GET("", func(c *gin.Context) {
		items := sched.List()
		byName := make(map[string]cron.ListItem, len(items))
		for _, item := range items {
			byName[item.Name] = item
		}
		response.OK(c, byName)
	})

	cronGroup.POST("/run/:name", func(c *gin.Context) {
		if err := sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"message": "job triggered"})
	})

	cronGroup.GET("/task/:name", func(c *gin.Context) {
		result, err := sched.GetTask(c.Param("name"))
		if err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, result)
	})
}
