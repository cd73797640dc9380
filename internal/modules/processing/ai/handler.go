package ai

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/penline/blog/internal/pkg/response"
)

// Handler serves AI drafting to admins.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the routes; limiter guards only generation. Either middleware may be nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, limiter gin.HandlerFunc) {
	g := rg.Group("/admin/ai")
	if authMW != nil {
		g.Use(authMW)
	}
	g.GET("/providers", h.providers)
	if limiter != nil {
		g.POST("/generate", limiter, h.generate)
	} else {
		g.POST("/generate", h.generate)
	}
}

func (h *Handler) providers(c *gin.Context) {
	response.OK(c, h.svc.Providers())
}

func (h *Handler) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	draft, err := h.svc.Generate(c.Request.Context(), req)
	switch {
	case err == nil:
		response.OK(c, draft)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownProvider):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNoProvider):
		response.BadRequest(c, "Configure at least one ai provider first.")
	default:
		response.BadGateway(c, err)
	}
}
