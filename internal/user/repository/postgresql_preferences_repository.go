package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/database"
	"github.com/skillboard/skillboard/internal/user/domain"

	apperrors "github.com/skillboard/skillboard/internal/errors"
)

// PostgreSQLPreferencesRepository handles notification preference persistence for PostgreSQL
type PostgreSQLPreferencesRepository struct {
	db *sql.DB
}

// NewPostgreSQLPreferencesRepository creates a new PostgreSQLPreferencesRepository
func NewPostgreSQLPreferencesRepository(db *sql.DB) *PostgreSQLPreferencesRepository {
	return &PostgreSQLPreferencesRepository{
		db: db,
	}
}

// Create inserts the preference row for a newly provisioned user
func (r *PostgreSQLPreferencesRepository) Create(ctx context.Context, prefs *domain.NotificationPreferences) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notification_preferences (user_id, marketing, digest, product_updates, updated_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	_, err := querier.ExecContext(ctx, query, prefs.UserID, prefs.Marketing, prefs.Digest, prefs.ProductUpdates)
	if err != nil {
		return apperrors.Wrap(err, "failed to create notification preferences")
	}
	return nil
}

// GetByUserID retrieves a user's notification preferences
func (r *PostgreSQLPreferencesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	var prefs domain.NotificationPreferences
	querier := database.GetTx(ctx, r.db)

	query := `SELECT user_id, marketing, digest, product_updates, updated_at
			  FROM notification_preferences WHERE user_id = $1`

	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.Marketing, &prefs.Digest, &prefs.ProductUpdates, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get notification preferences")
	}

	return &prefs, nil
}

// Update persists the full set of channel flags
func (r *PostgreSQLPreferencesRepository) Update(ctx context.Context, prefs *domain.NotificationPreferences) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notification_preferences
			  SET marketing = $1, digest = $2, product_updates = $3, updated_at = NOW()
			  WHERE user_id = $4`

	result, err := querier.ExecContext(ctx, query, prefs.Marketing, prefs.Digest, prefs.ProductUpdates, prefs.UserID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update notification preferences")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
