package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/pkg/apperr"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Error is the single place that translates error kinds into HTTP statuses.
// Expected failures (4xx) pass through quietly; only internal ones are
// logged at error level.
func Error(c *gin.Context, log *logger.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: err.Error(),
			Code:    kind.String(),
		},
	})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindDuplicate:
		return http.StatusConflict
	case apperr.KindBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Created writes a 201 with a Location header pointing at the new entity.
func Created(c *gin.Context, location string, payload any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, payload)
}

// List writes the collection envelope shared by every list endpoint.
func List(c *gin.Context, key string, offset, count int, items any) {
	c.JSON(http.StatusOK, gin.H{
		"offset": offset,
		"count":  count,
		key:      items,
	})
}
