package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/analytics_summary"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/compute_elasticity"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/get_price_history"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/get_product"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/list_categories"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/list_products"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/optimize_price"
)

// DefaultRequestTimeout bounds every API call.
const DefaultRequestTimeout = 30 * time.Second

// Queries groups the application queries served over HTTP.
type Queries struct {
	GetProduct        *get_product.Query
	ListProducts      *list_products.Query
	GetPriceHistory   *get_price_history.Query
	ListCategories    *list_categories.Query
	AnalyticsSummary  *analytics_summary.Query
	ComputeElasticity *compute_elasticity.Query
	OptimizePrice     *optimize_price.Query
}

// Handler serves the JSON API.
type Handler struct {
	q       Queries
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A non-positive timeout selects
// DefaultRequestTimeout.
func NewHandler(q Queries, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Handler{q: q, timeout: timeout}
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listProducts(c *gin.Context) {
	req := &list_products.Request{
		Category:  c.Query("category"),
		PageToken: c.Query("page_token"),
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			writeBadRequest(c, "page_size must be a non-negative integer")
			return
		}
		req.PageSize = size
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.q.ListProducts.Execute(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getProduct(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	product, err := h.q.GetProduct.Execute(ctx, &get_product.Request{ProductID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getPriceHistory(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	history, err := h.q.GetPriceHistory.Execute(ctx, &get_price_history.Request{ProductID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) listCategories(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	categories, err := h.q.ListCategories.Execute(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) analyticsSummary(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	summary, err := h.q.AnalyticsSummary.Execute(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) computeElasticity(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	estimate, err := h.q.ComputeElasticity.Execute(ctx, &compute_elasticity.Request{ProductID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

func (h *Handler) optimizePrice(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.q.OptimizePrice.Execute(ctx, &optimize_price.Request{ProductID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
