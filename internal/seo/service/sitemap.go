// Package service builds SEO artifacts: the sitemap, robots.txt and
// JSON-LD structured data embedded in skill pages.
package service

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/skillboard/skillboard/internal/errors"
	skillDomain "github.com/skillboard/skillboard/internal/skill/domain"
)

// sitemapURLSet is the root element of a sitemap document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapURL is a single sitemap entry.
type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// BuildSitemap renders the sitemap XML for the site root plus every
// published skill detail page.
func BuildSitemap(siteBaseURL string, skills []*skillDomain.Skill) ([]byte, error) {
	base := strings.TrimRight(siteBaseURL, "/")

	urlSet := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{
				Loc:        base + "/",
				ChangeFreq: "daily",
				Priority:   "1.0",
			},
		},
	}

	for _, skill := range skills {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/v1/skills/%s", base, skill.Slug),
			LastMod:    skill.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal sitemap")
	}

	return append([]byte(xml.Header), body...), nil
}

// BuildRobotsTxt renders robots.txt pointing crawlers at the sitemap.
func BuildRobotsTxt(siteBaseURL string) string {
	base := strings.TrimRight(siteBaseURL, "/")
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", base)
}
