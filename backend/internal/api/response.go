package api

import (
	"net/http"

	brainerrors "enterprise-brain/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response statuses
const (
	StatusOK      = "ok"
	StatusCreated = "created"
	StatusUpdated = "updated"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, code int, status string, data interface{}, message string) {
	c.JSON(code, Response{Status: status, Data: data, Message: message})
}

// respondError maps an error category to an HTTP status
func (h *Handler) respondError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	if t, ok := brainerrors.TypeOf(err); ok {
		switch t {
		case brainerrors.ErrorTypeValidation:
			code = http.StatusBadRequest
		case brainerrors.ErrorTypeNotFound:
			code = http.StatusNotFound
		case brainerrors.ErrorTypeIngest:
			code = http.StatusBadGateway
		case brainerrors.ErrorTypeLLM:
			code = http.StatusServiceUnavailable
		case brainerrors.ErrorTypeContext:
			code = http.StatusGatewayTimeout
		}
	}

	if brainerrors.IsRetryable(err) {
		c.Header("Retry-After", "5")
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	respond(c, code, StatusError, nil, err.Error())
}
