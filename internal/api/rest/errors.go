package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/api/shared/errors"
	"github.com/Plant-GO/biodex/internal/logger"
)

func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, errors.NewValidationError(details))
}

// respondServiceError maps an issuance error onto the taxonomy, logging server-side failures
func respondServiceError(c *gin.Context, err error, message string) {
	status, apiErr := errors.FromDomainError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("message", message), zap.String("path", c.Request.URL.Path))
	}
	c.JSON(status, apiErr)
}
