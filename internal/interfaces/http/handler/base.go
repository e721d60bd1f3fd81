// Package handler holds the gin handlers of the school API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/logger"
	"github.com/school/backend/internal/interfaces/http/dto"
	"github.com/school/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// BaseHandler provides the response helpers shared by every handler
type BaseHandler struct {
	// ExposeErrors puts err.Error() into 500 responses; development only
	ExposeErrors bool
}

// Success sends a 200 envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Message sends a 200 envelope carrying only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	h.Success(c, MessageData{Message: message})
}

// List sends a page of items with pagination meta
func List[T any](c *gin.Context, p shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewListResponse(p))
}

// HandleError is the single translation point from errors to responses.
// Domain errors map through their code; anything else is a 500 whose
// message stays generic outside development.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.L(c.Request.Context())

	var de *shared.DomainError
	if errors.As(err, &de) {
		status := dto.GetHTTPStatus(de.Code)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", zap.String("code", de.Code), zap.Error(err))
		} else {
			log.Debug("Request rejected", zap.String("code", de.Code), zap.String("message", de.Message))
		}
		c.JSON(status, dto.NewErrorResponse(de.Code, de.Message, de.Details))
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	message := unexpectedErrorMessage
	if h.ExposeErrors {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, message, nil))
}

// bindJSON binds the request body and answers the error itself when
// binding fails.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.HandleError(c, middleware.BindingError(err))
		return false
	}
	return true
}
