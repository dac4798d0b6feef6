// Package http serves SEO artifacts: sitemap.xml, robots.txt and JSON-LD
// structured data for skill pages and the leaderboard.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillboard/skillboard/internal/httputil"
	"github.com/skillboard/skillboard/internal/seo/service"
	skillDomain "github.com/skillboard/skillboard/internal/skill/domain"
)

// sitemapPageSize is how many skills are fetched per page while walking
// the full catalog for the sitemap.
const sitemapPageSize = 100

// structuredDataLimit is how many leaderboard entries the ItemList carries.
const structuredDataLimit = 10

// SkillSource is the slice of the skill module the SEO endpoints read from.
type SkillSource interface {
	GetBySlug(ctx context.Context, slug string) (*skillDomain.Skill, error)
	List(ctx context.Context, category string, offset, limit int) ([]*skillDomain.Skill, error)
	Leaderboard(ctx context.Context, limit int) ([]*skillDomain.LeaderboardEntry, error)
}

// SEOHandler handles crawler-facing endpoints.
type SEOHandler struct {
	skills      SkillSource
	siteBaseURL string
	logger      *slog.Logger
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(skills SkillSource, siteBaseURL string, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		skills:      skills,
		siteBaseURL: siteBaseURL,
		logger:      logger,
	}
}

// SitemapHandler serves the sitemap covering every published skill.
// GET /sitemap.xml
func (h *SEOHandler) SitemapHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var all []*skillDomain.Skill
	for offset := 0; ; offset += sitemapPageSize {
		page, err := h.skills.List(ctx, "", offset, sitemapPageSize)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		all = append(all, page...)
		if len(page) < sitemapPageSize {
			break
		}
	}

	body, err := service.BuildSitemap(h.siteBaseURL, all)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// RobotsHandler serves robots.txt.
// GET /robots.txt
func (h *SEOHandler) RobotsHandler(c *gin.Context) {
	c.String(http.StatusOK, service.BuildRobotsTxt(h.siteBaseURL))
}

// SkillStructuredDataHandler serves the JSON-LD SoftwareApplication
// document for a published skill.
// GET /v1/skills/:slug/structured-data
func (h *SEOHandler) SkillStructuredDataHandler(c *gin.Context) {
	slug := c.Param("slug")

	skill, err := h.skills.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, service.BuildSoftwareApplication(h.siteBaseURL, skill))
}

// LeaderboardStructuredDataHandler serves the JSON-LD ItemList of top skills.
// GET /structured-data
func (h *SEOHandler) LeaderboardStructuredDataHandler(c *gin.Context) {
	entries, err := h.skills.Leaderboard(c.Request.Context(), structuredDataLimit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, service.BuildItemList(h.siteBaseURL, entries))
}
