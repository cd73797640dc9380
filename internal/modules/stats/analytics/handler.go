package analytics

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/penline/blog/internal/pkg/response"
	"go.uber.org/zap"
)

// HeaderFallback is set when a vercel request was answered by the internal provider.
const HeaderFallback = "X-Analytics-Fallback"

// Handler exposes the analytics dashboard endpoints to admins.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/analytics", authMW...)
	g.GET("", h.get)
	g.GET("/providers", h.providers)
}

type analyticsQuery struct {
	Range    string `form:"range"`
	Provider string `form:"provider"`
	Refresh  string `form:"refresh"`
}

func (h *Handler) get(c *gin.Context) {
	var q analyticsQuery
	_ = c.ShouldBindQuery(&q)

	provider := ParseProvider(q.Provider, h.svc.DefaultProvider())
	rng := ParseRange(q.Range)
	refresh := q.Refresh == "1" || q.Refresh == "true"

	out, err := h.svc.Get(c.Request.Context(), provider, rng, refresh)
	if err != nil {
		h.fail(c, provider, err)
		return
	}
	if out.Fallback != nil {
		c.Header(HeaderFallback, out.Fallback.String())
	}
	if out.Cached {
		c.Header("X-Analytics-Cache", "hit")
	}
	response.OK(c, out.Response)
}

func (h *Handler) providers(c *gin.Context) {
	response.OK(c, h.svc.Providers())
}

// fail writes the analytics error contract.
func (h *Handler) fail(c *gin.Context, provider ProviderName, err error) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		h.logger.Warn("analytics provider error",
			zap.String("provider", string(perr.Provider)),
			zap.String("kind", string(perr.Kind)),
			zap.String("code", string(perr.Code)),
			zap.Error(err),
		)
		response.JSON(c, perr.Status(), gin.H{
			"error":    perr.Title(),
			"message":  perr.Message,
			"provider": string(perr.Provider),
			"code":     string(perr.Code),
			"fallback": string(ProviderInternal),
		})
		return
	}

	h.logger.Error("analytics request failed", zap.String("provider", string(provider)), zap.Error(err))
	response.JSON(c, http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
