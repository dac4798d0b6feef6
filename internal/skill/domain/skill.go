// Package domain contains the skill entities and their business rules.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/errors"
)

// Skill errors.
var (
	// ErrSkillNotFound indicates the skill does not exist or is not visible.
	ErrSkillNotFound = errors.Wrap(errors.ErrNotFound, "skill not found")

	// ErrSlugTaken indicates another skill already uses the slug.
	ErrSlugTaken = errors.Wrap(errors.ErrConflict, "slug already in use")

	// ErrNotOwner indicates the user does not own the skill.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "not the skill owner")
)

// Skill represents a published QA testing skill that coding agents can
// discover and install.
type Skill struct {
	ID             uuid.UUID
	Slug           string
	Name           string
	Summary        string
	Description    string
	Category       string
	RepositoryURL  string
	InstallCommand string
	OwnerID        uuid.UUID
	InstallCount   int64
	Published      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LeaderboardEntry is one row of the install-count leaderboard.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	InstallCount int64  `json:"install_count"`
}
