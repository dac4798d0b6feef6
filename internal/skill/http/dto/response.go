package dto

import "time"

// SkillResponse is the public representation of a skill.
type SkillResponse struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	RepositoryURL  string    `json:"repository_url,omitempty"`
	InstallCommand string    `json:"install_command,omitempty"`
	InstallCount   int64     `json:"install_count"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SkillListResponse wraps a page of skills.
type SkillListResponse struct {
	Skills []SkillResponse `json:"skills"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// LeaderboardResponse wraps the install-count leaderboard.
type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// LeaderboardEntryResponse is one leaderboard row.
type LeaderboardEntryResponse struct {
	Rank         int    `json:"rank"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	InstallCount int64  `json:"install_count"`
}
