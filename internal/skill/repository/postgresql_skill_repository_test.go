package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/skill/domain"
	"github.com/skillboard/skillboard/internal/testutil"
)

func skillColumns() []string {
	return []string{
		"id", "slug", "name", "summary", "description", "category", "repository_url",
		"install_command", "owner_id", "install_count", "published", "created_at", "updated_at",
	}
}

func skillRow(rows *sqlmock.Rows, skill *domain.Skill) *sqlmock.Rows {
	return rows.AddRow(
		skill.ID, skill.Slug, skill.Name, skill.Summary, skill.Description,
		skill.Category, skill.RepositoryURL, skill.InstallCommand, skill.OwnerID,
		skill.InstallCount, skill.Published, skill.CreatedAt, skill.UpdatedAt,
	)
}

func testSkill() *domain.Skill {
	now := time.Now()
	return &domain.Skill{
		ID:             uuid.Must(uuid.NewV7()),
		Slug:           "api-contract-testing",
		Name:           "API Contract Testing",
		Summary:        "Contract tests for REST APIs",
		Description:    "Generates and runs consumer-driven contract tests.",
		Category:       "api",
		RepositoryURL:  "https://github.com/example/api-contract-testing",
		InstallCommand: "skillboard install api-contract-testing",
		OwnerID:        uuid.Must(uuid.NewV7()),
		InstallCount:   42,
		Published:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestPostgreSQLSkillRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectExec(`INSERT INTO skills`).
			WithArgs(
				skill.ID, skill.Slug, skill.Name, skill.Summary, skill.Description,
				skill.Category, skill.RepositoryURL, skill.InstallCommand, skill.OwnerID,
				skill.InstallCount, skill.Published,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), skill)
		assert.NoError(t, err)
	})

	t.Run("Error_SlugTaken", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectExec(`INSERT INTO skills`).
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "skills_slug_key"`))

		err := repo.Create(context.Background(), skill)
		assert.True(t, apperrors.Is(err, domain.ErrSlugTaken))
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})
}

func TestPostgreSQLSkillRepository_GetBySlug(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectQuery(`SELECT .+ FROM skills WHERE slug =`).
			WithArgs(skill.Slug).
			WillReturnRows(skillRow(sqlmock.NewRows(skillColumns()), skill))

		got, err := repo.GetBySlug(context.Background(), skill.Slug)
		require.NoError(t, err)
		assert.Equal(t, skill.ID, got.ID)
		assert.Equal(t, skill.Slug, got.Slug)
		assert.Equal(t, skill.InstallCount, got.InstallCount)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM skills WHERE slug =`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(skillColumns()))

		got, err := repo.GetBySlug(context.Background(), "missing")
		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, domain.ErrSkillNotFound))
	})
}

func TestPostgreSQLSkillRepository_List(t *testing.T) {
	t.Run("Success_NoFilter", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectQuery(`SELECT .+ FROM skills WHERE published = TRUE ORDER BY created_at DESC`).
			WithArgs(0, 50).
			WillReturnRows(skillRow(sqlmock.NewRows(skillColumns()), skill))

		skills, err := repo.List(context.Background(), "", 0, 50)
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, skill.Slug, skills[0].Slug)
	})

	t.Run("Success_CategoryFilter", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectQuery(`SELECT .+ FROM skills WHERE published = TRUE AND category =`).
			WithArgs("api", 0, 50).
			WillReturnRows(skillRow(sqlmock.NewRows(skillColumns()), skill))

		skills, err := repo.List(context.Background(), "api", 0, 50)
		require.NoError(t, err)
		require.Len(t, skills, 1)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM skills WHERE published = TRUE`).
			WithArgs(0, 50).
			WillReturnRows(sqlmock.NewRows(skillColumns()))

		skills, err := repo.List(context.Background(), "", 0, 50)
		require.NoError(t, err)
		assert.Empty(t, skills)
	})
}

func TestPostgreSQLSkillRepository_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectExec(`UPDATE skills SET`).
			WithArgs(
				skill.Name, skill.Summary, skill.Description, skill.Category,
				skill.RepositoryURL, skill.InstallCommand, skill.Published, skill.ID,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), skill)
		assert.NoError(t, err)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)
		skill := testSkill()

		mock.ExpectExec(`UPDATE skills SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), skill)
		assert.True(t, apperrors.Is(err, domain.ErrSkillNotFound))
	})
}

func TestPostgreSQLSkillRepository_Delete(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewPostgreSQLSkillRepository(db)
	id := uuid.Must(uuid.NewV7())

	mock.ExpectExec(`DELETE FROM skills WHERE id =`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), id)
	assert.NoError(t, err)
}

func TestPostgreSQLSkillRepository_IncrementInstallCount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)

		mock.ExpectExec(`UPDATE skills SET install_count = install_count \+ 1`).
			WithArgs("api-contract-testing").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementInstallCount(context.Background(), "api-contract-testing")
		assert.NoError(t, err)
	})

	t.Run("Error_NotFoundOrUnpublished", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSkillRepository(db)

		mock.ExpectExec(`UPDATE skills SET install_count = install_count \+ 1`).
			WithArgs("hidden-skill").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementInstallCount(context.Background(), "hidden-skill")
		assert.True(t, apperrors.Is(err, domain.ErrSkillNotFound))
	})
}

func TestPostgreSQLSkillRepository_Leaderboard(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewPostgreSQLSkillRepository(db)

	mock.ExpectQuery(`SELECT slug, name, category, install_count`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "category", "install_count"}).
			AddRow("top-skill", "Top Skill", "api", 100).
			AddRow("second-skill", "Second Skill", "ui", 50))

	entries, err := repo.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "top-skill", entries[0].Slug)
	assert.Equal(t, int64(100), entries[0].InstallCount)
	assert.Equal(t, 2, entries[1].Rank)
}
