package dto

import (
	"github.com/skillboard/skillboard/internal/skill/domain"
	"github.com/skillboard/skillboard/internal/skill/usecase"
)

// ToSkillResponse converts a domain skill to its response DTO.
func ToSkillResponse(skill *domain.Skill) SkillResponse {
	return SkillResponse{
		ID:             skill.ID.String(),
		Slug:           skill.Slug,
		Name:           skill.Name,
		Summary:        skill.Summary,
		Description:    skill.Description,
		Category:       skill.Category,
		RepositoryURL:  skill.RepositoryURL,
		InstallCommand: skill.InstallCommand,
		InstallCount:   skill.InstallCount,
		Published:      skill.Published,
		CreatedAt:      skill.CreatedAt,
		UpdatedAt:      skill.UpdatedAt,
	}
}

// ToSkillListResponse converts a page of skills to its response DTO.
func ToSkillListResponse(skills []*domain.Skill, offset, limit int) SkillListResponse {
	responses := make([]SkillResponse, 0, len(skills))
	for _, skill := range skills {
		responses = append(responses, ToSkillResponse(skill))
	}
	return SkillListResponse{
		Skills: responses,
		Offset: offset,
		Limit:  limit,
	}
}

// ToLeaderboardResponse converts leaderboard entries to their response DTO.
func ToLeaderboardResponse(entries []*domain.LeaderboardEntry) LeaderboardResponse {
	responses := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, LeaderboardEntryResponse{
			Rank:         entry.Rank,
			Slug:         entry.Slug,
			Name:         entry.Name,
			Category:     entry.Category,
			InstallCount: entry.InstallCount,
		})
	}
	return LeaderboardResponse{Entries: responses}
}

// ToCreateSkillInput converts a create request to a use case input.
func ToCreateSkillInput(req CreateSkillRequest) usecase.CreateSkillInput {
	return usecase.CreateSkillInput{
		Slug:           req.Slug,
		Name:           req.Name,
		Summary:        req.Summary,
		Description:    req.Description,
		Category:       req.Category,
		RepositoryURL:  req.RepositoryURL,
		InstallCommand: req.InstallCommand,
		Published:      req.Published,
	}
}

// ToUpdateSkillInput converts an update request to a use case input.
func ToUpdateSkillInput(req UpdateSkillRequest) usecase.UpdateSkillInput {
	return usecase.UpdateSkillInput{
		Name:           req.Name,
		Summary:        req.Summary,
		Description:    req.Description,
		Category:       req.Category,
		RepositoryURL:  req.RepositoryURL,
		InstallCommand: req.InstallCommand,
		Published:      req.Published,
	}
}
