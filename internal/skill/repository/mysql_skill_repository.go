package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/database"
	"github.com/skillboard/skillboard/internal/skill/domain"

	apperrors "github.com/skillboard/skillboard/internal/errors"
)

const mysqlSkillColumns = `id, slug, name, summary, description, category, repository_url,
	install_command, owner_id, install_count, published, created_at, updated_at`

// MySQLSkillRepository handles skill persistence for MySQL
type MySQLSkillRepository struct {
	db *sql.DB
}

// NewMySQLSkillRepository creates a new MySQLSkillRepository
func NewMySQLSkillRepository(db *sql.DB) *MySQLSkillRepository {
	return &MySQLSkillRepository{
		db: db,
	}
}

func scanMySQLSkill(row interface{ Scan(...any) error }) (*domain.Skill, error) {
	var skill domain.Skill
	var idBytes, ownerIDBytes []byte
	err := row.Scan(
		&idBytes, &skill.Slug, &skill.Name, &skill.Summary, &skill.Description,
		&skill.Category, &skill.RepositoryURL, &skill.InstallCommand, &ownerIDBytes,
		&skill.InstallCount, &skill.Published, &skill.CreatedAt, &skill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := skill.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := skill.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &skill, nil
}

// Create inserts a new skill
func (r *MySQLSkillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO skills (id, slug, name, summary, description, category, repository_url,
			  install_command, owner_id, install_count, published, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	idBytes, err := skill.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerIDBytes, err := skill.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query,
		idBytes, skill.Slug, skill.Name, skill.Summary, skill.Description,
		skill.Category, skill.RepositoryURL, skill.InstallCommand, ownerIDBytes,
		skill.InstallCount, skill.Published,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return apperrors.Wrap(err, "failed to create skill")
	}
	return nil
}

// GetBySlug retrieves a skill by slug regardless of publication state
func (r *MySQLSkillRepository) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlSkillColumns + ` FROM skills WHERE slug = ?`

	skill, err := scanMySQLSkill(querier.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get skill by slug")
	}
	return skill, nil
}

// List retrieves published skills, optionally filtered by category, newest first
func (r *MySQLSkillRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlSkillColumns + ` FROM skills WHERE published = TRUE`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list skills")
	}
	defer func() { _ = rows.Close() }()

	var skills []*domain.Skill
	for rows.Next() {
		skill, err := scanMySQLSkill(rows)
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
func (r *MySQLSkillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE skills SET name = ?, summary = ?, description = ?, category = ?,
			  repository_url = ?, install_command = ?, published = ?, updated_at = NOW()
			  WHERE id = ?`

	idBytes, err := skill.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query,
		skill.Name, skill.Summary, skill.Description, skill.Category,
		skill.RepositoryURL, skill.InstallCommand, skill.Published, idBytes,
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
func (r *MySQLSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM skills WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, idBytes)
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
func (r *MySQLSkillRepository) IncrementInstallCount(ctx context.Context, slug string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE skills SET install_count = install_count + 1, updated_at = NOW()
			  WHERE slug = ? AND published = TRUE`

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
func (r *MySQLSkillRepository) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT slug, name, category, install_count
			  FROM skills WHERE published = TRUE
			  ORDER BY install_count DESC, slug ASC
			  LIMIT ?`

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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
