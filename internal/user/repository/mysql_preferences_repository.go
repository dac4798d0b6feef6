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

// MySQLPreferencesRepository handles notification preference persistence for MySQL
type MySQLPreferencesRepository struct {
	db *sql.DB
}

// NewMySQLPreferencesRepository creates a new MySQLPreferencesRepository
func NewMySQLPreferencesRepository(db *sql.DB) *MySQLPreferencesRepository {
	return &MySQLPreferencesRepository{
		db: db,
	}
}

// Create inserts the preference row for a newly provisioned user
func (r *MySQLPreferencesRepository) Create(ctx context.Context, prefs *domain.NotificationPreferences) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notification_preferences (user_id, marketing, digest, product_updates, updated_at)
			  VALUES (?, ?, ?, ?, NOW())`

	uuidBytes, err := prefs.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, uuidBytes, prefs.Marketing, prefs.Digest, prefs.ProductUpdates)
	if err != nil {
		return apperrors.Wrap(err, "failed to create notification preferences")
	}
	return nil
}

// GetByUserID retrieves a user's notification preferences
func (r *MySQLPreferencesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	var prefs domain.NotificationPreferences
	querier := database.GetTx(ctx, r.db)

	query := `SELECT user_id, marketing, digest, product_updates, updated_at
			  FROM notification_preferences WHERE user_id = ?`

	uuidBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes, &prefs.Marketing, &prefs.Digest, &prefs.ProductUpdates, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get notification preferences")
	}

	// Convert bytes back to UUID
	if err := prefs.UserID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &prefs, nil
}

// Update persists the full set of channel flags
func (r *MySQLPreferencesRepository) Update(ctx context.Context, prefs *domain.NotificationPreferences) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notification_preferences
			  SET marketing = ?, digest = ?, product_updates = ?, updated_at = NOW()
			  WHERE user_id = ?`

	uuidBytes, err := prefs.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, prefs.Marketing, prefs.Digest, prefs.ProductUpdates, uuidBytes)
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
