// Package dto defines the HTTP request and response shapes for skill endpoints.
package dto

// CreateSkillRequest carries the fields for skill creation. Field-level
// validation happens in the use case so the rules live in one place.
type CreateSkillRequest struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	RepositoryURL  string `json:"repository_url"`
	InstallCommand string `json:"install_command"`
	Published      bool   `json:"published"`
}

// UpdateSkillRequest carries the mutable fields for a skill update.
type UpdateSkillRequest struct {
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	RepositoryURL  string `json:"repository_url"`
	InstallCommand string `json:"install_command"`
	Published      bool   `json:"published"`
}
