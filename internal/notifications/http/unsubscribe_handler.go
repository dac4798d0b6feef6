// Package http provides the public one-click unsubscribe endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillboard/skillboard/internal/httputil"
	"github.com/skillboard/skillboard/internal/notifications/http/dto"
	"github.com/skillboard/skillboard/internal/notifications/usecase"
)

// UnsubscribeHandler handles the /v1/unsubscribe endpoint.
type UnsubscribeHandler struct {
	notificationUseCase usecase.UseCase
	logger              *slog.Logger
}

// NewUnsubscribeHandler creates a new UnsubscribeHandler
func NewUnsubscribeHandler(notificationUseCase usecase.UseCase, logger *slog.Logger) *UnsubscribeHandler {
	return &UnsubscribeHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// UnsubscribeHandler turns off a notification channel for the user named
// by the token. POST /v1/unsubscribe - No session required; the signed
// token is the authorization. All rejected tokens produce the same
// response regardless of the failure reason.
func (h *UnsubscribeHandler) UnsubscribeHandler(c *gin.Context) {
	var req dto.UnsubscribeRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.notificationUseCase.Unsubscribe(c.Request.Context(), usecase.UnsubscribeInput{
		Token: req.Token,
		Type:  req.Type,
	}); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unsubscribed"})
}
