// Package repository provides data persistence implementations for skills.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/database"
	"github.com/skillboard/skillboard/internal/skill/domain"

	apperrors "github.com/skillboard/skillboard/internal/errors"
)

const postgresSkillColumns = `id, slug, name, summary, description, category, repository_url,
	install_command, owner_id, install_count, published, created_at, updated_at`

// PostgreSQLSkillRepository handles skill persistence for PostgreSQL
type PostgreSQLSkillRepository struct {
	db *sql.DB
}

// NewPostgreSQLSkillRepository creates a new PostgreSQLSkillRepository
func NewPostgreSQLSkillRepository(db *sql.DB) *PostgreSQLSkillRepository {
	return &PostgreSQLSkillRepository{
		db: db,
	}
}

func scanPostgresSkill(row interface{ Scan(...any) error }) (*domain.Skill, error) {
	var skill domain.Skill
	err := row.Scan(
		&skill.ID, &skill.Slug, &skill.Name, &skill.Summary, &skill.Description,
		&skill.Category, &skill.RepositoryURL, &skill.InstallCommand, &skill.OwnerID,
		&skill.InstallCount, &skill.Published, &skill.CreatedAt, &skill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// Create inserts a new skill
func (r *PostgreSQLSkillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO skills (id, slug, name, summary, description, category, repository_url,
			  install_command, owner_id, install_count, published, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		skill.ID, skill.Slug, skill.Name, skill.Summary, skill.Description,
		skill.Category, skill.RepositoryURL, skill.InstallCommand, skill.OwnerID,
		skill.InstallCount, skill.Published,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return apperrors.Wrap(err, "failed to create skill")
	}
	return nil
}

// GetBySlug retrieves a skill by slug regardless of publication state
func (r *PostgreSQLSkillRepository) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSkillColumns + ` FROM skills WHERE slug = $1`

	skill, err := scanPostgresSkill(querier.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get skill by slug")
	}
	return skill, nil
}

// List retrieves published skills, optionally filtered by category, newest first
func (r *PostgreSQLSkillRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSkillColumns + ` FROM skills WHERE published = TRUE`
	var args []any
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d", len(args))
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list skills")
	}
	defer func() { _ = rows.Close() }()

	var skills []*domain.Skill
	for rows.Next() {
		skill, err := scanPostgresSkill(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan skill")
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate skills")
	}

	return skills, nil
}

// Update persists mutable skill fields
func (r *PostgreSQLSkillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE skills SET name = $1, summary = $2, description = $3, category = $4,
			  repository_url = $5, install_command = $6, published = $7, updated_at = NOW()
			  WHERE id = $8`

	result, err := querier.ExecContext(ctx, query,
		skill.Name, skill.Summary, skill.Description, skill.Category,
		skill.RepositoryURL, skill.InstallCommand, skill.Published, skill.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update skill")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrSkillNotFound
	}
	return nil
}

// Delete removes a skill by ID
func (r *PostgreSQLSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM skills WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete skill")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrSkillNotFound
	}
	return nil
}

// IncrementInstallCount atomically bumps the install counter of a published skill
func (r *PostgreSQLSkillRepository) IncrementInstallCount(ctx context.Context, slug string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE skills SET install_count = install_count + 1, updated_at = NOW()
			  WHERE slug = $1 AND published = TRUE`

	result, err := querier.ExecContext(ctx, query, slug)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment install count")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrSkillNotFound
	}
	return nil
}

// Leaderboard returns the top published skills ordered by install count
func (r *PostgreSQLSkillRepository) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT slug, name, category, install_count
			  FROM skills WHERE published = TRUE
			  ORDER BY install_count DESC, slug ASC
			  LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query leaderboard")
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Slug, &entry.Name, &entry.Category, &entry.InstallCount); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan leaderboard entry")
		}
		rank++
		entry.Rank = rank
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate leaderboard")
	}

	return entries, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
