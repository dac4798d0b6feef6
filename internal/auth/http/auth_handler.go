package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/skillboard/skillboard/internal/auth/usecase"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/httputil"
	userDTO "github.com/skillboard/skillboard/internal/user/http/dto"
)

// AuthHandler handles the OIDC login endpoints.
type AuthHandler struct {
	sessionUseCase authUseCase.UseCase
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessionUseCase authUseCase.UseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler starts the authorization code flow.
// GET /auth/login - Redirects to the identity provider.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	authURL, err := h.sessionUseCase.StartLogin(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// CallbackHandler completes the authorization code flow.
// GET /auth/callback - Returns the session token and user profile.
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("authorization failed at provider",
			slog.String("error", errParam),
			slog.String("description", c.Query("error_description")))
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "authorization failed"), h.logger)
		return
	}

	state := c.Query("state")
	code := c.Query("code")

	plainToken, user, err := h.sessionUseCase.CompleteLogin(c.Request.Context(), state, code)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": plainToken,
		"user":  userDTO.ToUserResponse(user),
	})
}

// LogoutHandler revokes the current session.
// POST /auth/logout - Requires a valid session.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), session.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
