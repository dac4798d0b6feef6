// Package usecase implements the skill business logic and orchestrates skill domain operations.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/cache"
	"github.com/skillboard/skillboard/internal/skill/domain"
	appValidation "github.com/skillboard/skillboard/internal/validation"
)

// leaderboardKeyPrefix namespaces the leaderboard cache entries.
const leaderboardKeyPrefix = "leaderboard:v1"

// CreateSkillInput contains the input data for skill creation
type CreateSkillInput struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	RepositoryURL  string `json:"repository_url"`
	InstallCommand string `json:"install_command"`
	Published      bool   `json:"published"`
}

// UpdateSkillInput contains the mutable fields for a skill update
type UpdateSkillInput struct {
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	RepositoryURL  string `json:"repository_url"`
	InstallCommand string `json:"install_command"`
	Published      bool   `json:"published"`
}

// UseCase defines the interface for skill business logic operations
type UseCase interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateSkillInput) (*domain.Skill, error)
	Update(ctx context.Context, ownerID uuid.UUID, slug string, input UpdateSkillInput) (*domain.Skill, error)
	Delete(ctx context.Context, ownerID uuid.UUID, slug string) error
	GetBySlug(ctx context.Context, slug string) (*domain.Skill, error)
	List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error)
	Install(ctx context.Context, slug string) error
	Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error)
}

// SkillRepository interface defines skill repository operations
type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) error
	GetBySlug(ctx context.Context, slug string) (*domain.Skill, error)
	List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error)
	Update(ctx context.Context, skill *domain.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementInstallCount(ctx context.Context, slug string) error
	Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error)
}

// SkillUseCase handles skill-related business logic
type SkillUseCase struct {
	skillRepo      SkillRepository
	cache          *cache.Cache
	leaderboardTTL time.Duration
}

// NewSkillUseCase creates a new SkillUseCase
func NewSkillUseCase(skillRepo SkillRepository, c *cache.Cache, leaderboardTTL time.Duration) *SkillUseCase {
	return &SkillUseCase{
		skillRepo:      skillRepo,
		cache:          c,
		leaderboardTTL: leaderboardTTL,
	}
}

func validateSkillFields(name, summary, description, category, repositoryURL, installCommand *string) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(summary,
			validation.Required.Error("summary is required"),
			appValidation.NotBlank,
			validation.Length(1, 500).Error("summary must be between 1 and 500 characters"),
		),
		validation.Field(description,
			validation.Length(0, 10000).Error("description must be at most 10000 characters"),
		),
		validation.Field(category,
			validation.Required.Error("category is required"),
			appValidation.Slug,
			validation.Length(1, 100).Error("category must be between 1 and 100 characters"),
		),
		validation.Field(repositoryURL,
			appValidation.AbsoluteURL,
			validation.Length(0, 2048).Error("repository_url must be at most 2048 characters"),
		),
		validation.Field(installCommand,
			validation.Length(0, 500).Error("install_command must be at most 500 characters"),
		),
	}
}

func (uc *SkillUseCase) validateCreateSkillInput(input *CreateSkillInput) error {
	rules := []*validation.FieldRules{
		validation.Field(&input.Slug,
			validation.Required.Error("slug is required"),
			appValidation.Slug,
			validation.Length(1, 255).Error("slug must be between 1 and 255 characters"),
		),
	}
	rules = append(rules, validateSkillFields(
		&input.Name, &input.Summary, &input.Description,
		&input.Category, &input.RepositoryURL, &input.InstallCommand,
	)...)
	return appValidation.WrapValidationError(validation.ValidateStruct(input, rules...))
}

func (uc *SkillUseCase) validateUpdateSkillInput(input *UpdateSkillInput) error {
	rules := validateSkillFields(
		&input.Name, &input.Summary, &input.Description,
		&input.Category, &input.RepositoryURL, &input.InstallCommand,
	)
	return appValidation.WrapValidationError(validation.ValidateStruct(input, rules...))
}

// Create creates a new skill owned by the given user
func (uc *SkillUseCase) Create(ctx context.Context, ownerID uuid.UUID, input CreateSkillInput) (*domain.Skill, error) {
	if err := uc.validateCreateSkillInput(&input); err != nil {
		return nil, err
	}

	skill := &domain.Skill{
		ID:             uuid.Must(uuid.NewV7()),
		Slug:           strings.ToLower(strings.TrimSpace(input.Slug)),
		Name:           strings.TrimSpace(input.Name),
		Summary:        strings.TrimSpace(input.Summary),
		Description:    input.Description,
		Category:       input.Category,
		RepositoryURL:  input.RepositoryURL,
		InstallCommand: input.InstallCommand,
		OwnerID:        ownerID,
		Published:      input.Published,
	}

	if err := uc.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}

	return skill, nil
}

// Update modifies a skill after checking ownership
func (uc *SkillUseCase) Update(ctx context.Context, ownerID uuid.UUID, slug string, input UpdateSkillInput) (*domain.Skill, error) {
	if err := uc.validateUpdateSkillInput(&input); err != nil {
		return nil, err
	}

	skill, err := uc.skillRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if skill.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}

	skill.Name = strings.TrimSpace(input.Name)
	skill.Summary = strings.TrimSpace(input.Summary)
	skill.Description = input.Description
	skill.Category = input.Category
	skill.RepositoryURL = input.RepositoryURL
	skill.InstallCommand = input.InstallCommand
	skill.Published = input.Published

	if err := uc.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}

	return skill, nil
}

// Delete removes a skill after checking ownership
func (uc *SkillUseCase) Delete(ctx context.Context, ownerID uuid.UUID, slug string) error {
	skill, err := uc.skillRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if skill.OwnerID != ownerID {
		return domain.ErrNotOwner
	}

	return uc.skillRepo.Delete(ctx, skill.ID)
}

// GetBySlug retrieves a published skill by slug. Unpublished skills are not
// visible on the public detail endpoint.
func (uc *SkillUseCase) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	skill, err := uc.skillRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !skill.Published {
		return nil, domain.ErrSkillNotFound
	}
	return skill, nil
}

// List retrieves published skills, optionally filtered by category
func (uc *SkillUseCase) List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error) {
	return uc.skillRepo.List(ctx, category, offset, limit)
}

// Install bumps the install counter of a published skill
func (uc *SkillUseCase) Install(ctx context.Context, slug string) error {
	return uc.skillRepo.IncrementInstallCount(ctx, slug)
}

// Leaderboard returns the top skills by install count through the cache layer.
// Mutations are absorbed by the TTL; cache failures degrade to a direct
// repository read inside the cache wrapper.
func (uc *SkillUseCase) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	key := fmt.Sprintf("%s:%d", leaderboardKeyPrefix, limit)
	return cache.GetOrSetJSON(ctx, uc.cache, key, uc.leaderboardTTL,
		func(ctx context.Context) ([]*domain.LeaderboardEntry, error) {
			return uc.skillRepo.Leaderboard(ctx, limit)
		})
}
