package app

import (
	"context"
	"fmt"
	"sync"

	seoHTTP "github.com/skillboard/skillboard/internal/seo/http"
	skillHTTP "github.com/skillboard/skillboard/internal/skill/http"
	skillRepository "github.com/skillboard/skillboard/internal/skill/repository"
	skillUsecase "github.com/skillboard/skillboard/internal/skill/usecase"
)

// skillComponents holds the skill catalog dependencies, including the
// crawler-facing handlers that read from the same use case.
type skillComponents struct {
	repoInit       sync.Once
	repo           skillUsecase.SkillRepository
	useCaseInit    sync.Once
	useCase        skillUsecase.UseCase
	handlerInit    sync.Once
	handler        *skillHTTP.SkillHandler
	seoHandlerInit sync.Once
	seoHandler     *seoHTTP.SEOHandler
}

// SkillRepository returns the skill repository instance.
func (c *Container) SkillRepository() (skillUsecase.SkillRepository, error) {
	c.skill.repoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["skillRepo"] = fmt.Errorf("failed to get database for skill repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.skill.repo = skillRepository.NewMySQLSkillRepository(db)
		case "postgres":
			c.skill.repo = skillRepository.NewPostgreSQLSkillRepository(db)
		default:
			c.initErrors["skillRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["skillRepo"]; exists {
		return nil, storedErr
	}
	return c.skill.repo, nil
}

// SkillUseCase returns the skill use case instance, wrapped with business
// metrics when metrics are enabled.
func (c *Container) SkillUseCase(ctx context.Context) (skillUsecase.UseCase, error) {
	c.skill.useCaseInit.Do(func() {
		skillRepo, err := c.SkillRepository()
		if err != nil {
			c.initErrors["skillUseCase"] = err
			return
		}

		leaderboardCache, err := c.Cache(ctx)
		if err != nil {
			c.initErrors["skillUseCase"] = err
			return
		}

		useCase := skillUsecase.UseCase(skillUsecase.NewSkillUseCase(
			skillRepo,
			leaderboardCache,
			c.config.LeaderboardCacheTTL,
		))

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["skillUseCase"] = err
			return
		}
		if businessMetrics != nil {
			useCase = skillUsecase.NewSkillUseCaseWithMetrics(useCase, businessMetrics)
		}

		c.skill.useCase = useCase
	})
	if storedErr, exists := c.initErrors["skillUseCase"]; exists {
		return nil, storedErr
	}
	return c.skill.useCase, nil
}

// SkillHandler returns the skill catalog HTTP handler.
func (c *Container) SkillHandler(ctx context.Context) (*skillHTTP.SkillHandler, error) {
	c.skill.handlerInit.Do(func() {
		useCase, err := c.SkillUseCase(ctx)
		if err != nil {
			c.initErrors["skillHandler"] = err
			return
		}
		c.skill.handler = skillHTTP.NewSkillHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["skillHandler"]; exists {
		return nil, storedErr
	}
	return c.skill.handler, nil
}

// SEOHandler returns the crawler artifacts HTTP handler.
func (c *Container) SEOHandler(ctx context.Context) (*seoHTTP.SEOHandler, error) {
	c.skill.seoHandlerInit.Do(func() {
		useCase, err := c.SkillUseCase(ctx)
		if err != nil {
			c.initErrors["seoHandler"] = err
			return
		}
		c.skill.seoHandler = seoHTTP.NewSEOHandler(useCase, c.config.SiteBaseURL, c.Logger())
	})
	if storedErr, exists := c.initErrors["seoHandler"]; exists {
		return nil, storedErr
	}
	return c.skill.seoHandler, nil
}
