package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable kind and a human readable reason.
type ErrorDetail struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientData, domain.KindUndefinedElasticity, domain.KindInvalidHistory:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, ErrorBody{Error: ErrorDetail{Kind: domain.KindInternal, Reason: "request timed out"}})
		return
	}

	kind := domain.ErrorKind(err)
	reason := err.Error()
	switch kind {
	case domain.KindModelFit:
		log.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	case domain.KindInternal:
		log.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		reason = "internal server error"
	}
	c.JSON(statusFor(kind), ErrorBody{Error: ErrorDetail{Kind: kind, Reason: reason}})
}

func writeBadRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: ErrorDetail{Kind: domain.KindInvalidArgument, Reason: reason}})
}
