// Package http provides HTTP handlers for the authenticated user profile endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/skillboard/skillboard/internal/auth/http"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/httputil"
	"github.com/skillboard/skillboard/internal/user/http/dto"
	"github.com/skillboard/skillboard/internal/user/usecase"
	customValidation "github.com/skillboard/skillboard/internal/validation"
)

// UserHandler handles the /v1/me endpoints.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// MeHandler returns the authenticated user's profile.
// GET /v1/me - Requires a valid session.
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// GetPreferencesHandler returns the authenticated user's notification preferences.
// GET /v1/me/preferences - Requires a valid session.
func (h *UserHandler) GetPreferencesHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	prefs, err := h.userUseCase.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferencesResponse(prefs))
}

// UpdatePreferencesHandler replaces the authenticated user's notification preferences.
// PUT /v1/me/preferences - Requires a valid session.
func (h *UserHandler) UpdatePreferencesHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.UpdatePreferencesRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	prefs, err := h.userUseCase.UpdatePreferences(c.Request.Context(), user.ID, dto.ToUpdatePreferencesInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferencesResponse(prefs))
}
