package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/comment"
	"github.com/Angelito-Alit/comments-api/internal/demo"
	obscontext "github.com/Angelito-Alit/comments-api/internal/observability/context"
	"github.com/Angelito-Alit/comments-api/internal/observability/logger"
	"github.com/Angelito-Alit/comments-api/internal/validation"
	"github.com/Angelito-Alit/comments-api/internal/weather"
)

// APIError is the wire shape every failure is rendered with.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    "resource not found",
	}
	ErrMethodNotAllowed = &APIError{
		StatusCode: http.StatusMethodNotAllowed,
		Code:       "method_not_allowed",
		Message:    "method not allowed for this route",
	}
)

func invalidRequestError() *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "malformed_payload",
		Message:    "request body must be valid JSON",
	}
}

func missingFieldsError(fields []string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "missing_fields",
		Message:    "missing required fields: " + strings.Join(fields, ", "),
		Field:      fields[0],
	}
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return &APIError{
			StatusCode: http.StatusBadRequest,
			Code:       string(vErr.Kind),
			Message:    vErr.Message,
			Field:      vErr.Field,
		}
	}

	switch {
	case errors.Is(err, comment.ErrNotFound):
		return &APIError{StatusCode: http.StatusNotFound, Code: "not_found", Message: "comment not found"}
	case errors.Is(err, weather.ErrCityNotFound):
		return &APIError{StatusCode: http.StatusNotFound, Code: "not_found", Message: "city not found"}
	case errors.Is(err, weather.ErrUpstream), errors.Is(err, demo.ErrUpstream):
		return &APIError{StatusCode: http.StatusInternalServerError, Code: "upstream_unavailable", Message: "external API unavailable"}
	}
	return &APIError{StatusCode: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"}
}

// AbortWithError renders err as the shared error body and stops the handler
// chain. Failures are logged with client and field context; internals never
// reach the response for 5xx errors.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)

	fields := []zap.Field{
		zap.Int("status", apiErr.StatusCode),
		zap.String("code", apiErr.Code),
		zap.String("request_id", obscontext.RequestIDFromGin(c)),
		zap.String("client", obscontext.ClientAddrFromGin(c)),
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	log := logger.FromContext(c.Request.Context())
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		log.Warn("request rejected", fields...)
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}
