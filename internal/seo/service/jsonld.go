package service

import (
	"fmt"
	"strings"

	skillDomain "github.com/skillboard/skillboard/internal/skill/domain"
)

const schemaOrgContext = "https://schema.org"

// SoftwareApplication is the JSON-LD representation of a skill detail page.
type SoftwareApplication struct {
	Context              string              `json:"@context"`
	Type                 string              `json:"@type"`
	Name                 string              `json:"name"`
	Description          string              `json:"description,omitempty"`
	ApplicationCategory  string              `json:"applicationCategory"`
	URL                  string              `json:"url"`
	InstallURL           string              `json:"installUrl,omitempty"`
	InteractionStatistic *InteractionCounter `json:"interactionStatistic,omitempty"`
}

// InteractionCounter carries the install count for a skill.
type InteractionCounter struct {
	Type                 string `json:"@type"`
	InteractionType      string `json:"interactionType"`
	UserInteractionCount int64  `json:"userInteractionCount"`
}

// ItemList is the JSON-LD representation of the leaderboard.
type ItemList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem is a single ranked entry in an ItemList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// BuildSoftwareApplication maps a published skill to its JSON-LD document.
func BuildSoftwareApplication(siteBaseURL string, skill *skillDomain.Skill) SoftwareApplication {
	base := strings.TrimRight(siteBaseURL, "/")

	doc := SoftwareApplication{
		Context:             schemaOrgContext,
		Type:                "SoftwareApplication",
		Name:                skill.Name,
		Description:         skill.Summary,
		ApplicationCategory: "DeveloperApplication",
		URL:                 fmt.Sprintf("%s/v1/skills/%s", base, skill.Slug),
		InstallURL:          skill.RepositoryURL,
	}

	if skill.InstallCount > 0 {
		doc.InteractionStatistic = &InteractionCounter{
			Type:                 "InteractionCounter",
			InteractionType:      "https://schema.org/InstallAction",
			UserInteractionCount: skill.InstallCount,
		}
	}

	return doc
}

// BuildItemList maps the leaderboard to a ranked JSON-LD ItemList.
func BuildItemList(siteBaseURL string, entries []*skillDomain.LeaderboardEntry) ItemList {
	base := strings.TrimRight(siteBaseURL, "/")

	list := ItemList{
		Context:         schemaOrgContext,
		Type:            "ItemList",
		Name:            "Top QA testing skills",
		ItemListElement: make([]ListItem, 0, len(entries)),
	}

	for _, entry := range entries {
		list.ItemListElement = append(list.ItemListElement, ListItem{
			Type:     "ListItem",
			Position: entry.Rank,
			Name:     entry.Name,
			URL:      fmt.Sprintf("%s/v1/skills/%s", base, entry.Slug),
		})
	}

	return list
}
