package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/priceopt-service/internal/pkg/metrics"
)

// NewRouter builds the gin engine with the API routes and /metrics.
func NewRouter(h *Handler, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), metrics.Gin(), cors())
	if debug {
		r.Use(gin.Logger())
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", h.health)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/:id/price-history", h.getPriceHistory)
	api.GET("/products/:id/elasticity", h.computeElasticity)
	api.POST("/products/:id/optimize", h.optimizePrice)
	api.GET("/categories", h.listCategories)
	api.GET("/analytics/summary", h.analyticsSummary)

	return r
}

// cors allows browser clients served from localhost.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
