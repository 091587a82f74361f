package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/infrastructure/logger"
	"github.com/agrotrace/backend/internal/interfaces/http/dto"
	"github.com/agrotrace/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends data as the bare response body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Deleted answers a successful delete with a null body
func (h *BaseHandler) Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, nil)
}

// ValidationError sends a 422 describing a request that failed binding
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(middleware.FormatValidationError(err)))
}

// HandleError converts an error into a response. Domain errors carry their
// message to the client; anything else is logged and answered with a generic
// 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status < http.StatusInternalServerError {
			c.JSON(status, dto.NewErrorResponse(domainErr.Message))
			return
		}
	}

	logger.GetGinLogger(c).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.InternalErrorMessage))
}

// BindJSON binds the request body into req, answering 422 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// ParseID reads an integer path parameter, answering 422 when it is not one
func (h *BaseHandler) ParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("Invalid "+param+": must be an integer"))
		return 0, false
	}
	return id, true
}
