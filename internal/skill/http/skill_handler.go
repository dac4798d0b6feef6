// Package http provides HTTP handlers for the skill directory endpoints.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/skillboard/skillboard/internal/auth/http"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/httputil"
	"github.com/skillboard/skillboard/internal/skill/http/dto"
	"github.com/skillboard/skillboard/internal/skill/usecase"
	customValidation "github.com/skillboard/skillboard/internal/validation"
)

// defaultLeaderboardLimit is the number of entries served when the caller
// does not ask for a specific size.
const defaultLeaderboardLimit = 10

// maxLeaderboardLimit bounds the leaderboard query so the cache stays small.
const maxLeaderboardLimit = 50

// SkillHandler handles skill-related HTTP requests
type SkillHandler struct {
	skillUseCase usecase.UseCase
	logger       *slog.Logger
}

// NewSkillHandler creates a new SkillHandler
func NewSkillHandler(skillUseCase usecase.UseCase, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{
		skillUseCase: skillUseCase,
		logger:       logger,
	}
}

// ListHandler lists published skills.
// GET /v1/skills?category=&offset=&limit= - Public.
func (h *SkillHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	skills, err := h.skillUseCase.List(c.Request.Context(), c.Query("category"), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToSkillListResponse(skills, offset, limit))
}

// GetHandler returns a published skill by slug.
// GET /v1/skills/:slug - Public.
func (h *SkillHandler) GetHandler(c *gin.Context) {
	slug := c.Param("slug")

	skill, err := h.skillUseCase.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToSkillResponse(skill))
}

// InstallHandler bumps the install counter of a published skill.
// POST /v1/skills/:slug/install - Public, called by agents after install.
func (h *SkillHandler) InstallHandler(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.skillUseCase.Install(c.Request.Context(), slug); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// LeaderboardHandler returns the top skills by install count.
// GET /v1/leaderboard?limit= - Public, served through the cache.
func (h *SkillHandler) LeaderboardHandler(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > maxLeaderboardLimit {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxLeaderboardLimit),
				h.logger)
			return
		}
		limit = parsed
	}

	entries, err := h.skillUseCase.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(entries))
}

// CreateHandler creates a new skill owned by the authenticated user.
// POST /v1/skills - Requires a valid session. Returns 201 Created.
func (h *SkillHandler) CreateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateSkillRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	skill, err := h.skillUseCase.Create(c.Request.Context(), user.ID, dto.ToCreateSkillInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSkillResponse(skill))
}

// UpdateHandler modifies a skill the authenticated user owns.
// PUT /v1/skills/:slug - Requires a valid session and ownership.
func (h *SkillHandler) UpdateHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		httputil.HandleValidationErrorGin(c,
			customValidation.WrapValidationError(fmt.Errorf("slug cannot be empty")),
			h.logger)
		return
	}

	var req dto.UpdateSkillRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	skill, err := h.skillUseCase.Update(c.Request.Context(), user.ID, slug, dto.ToUpdateSkillInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToSkillResponse(skill))
}

// DeleteHandler removes a skill the authenticated user owns.
// DELETE /v1/skills/:slug - Requires a valid session and ownership.
// Returns 204 No Content.
func (h *SkillHandler) DeleteHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	slug := c.Param("slug")

	if err := h.skillUseCase.Delete(c.Request.Context(), user.ID, slug); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
