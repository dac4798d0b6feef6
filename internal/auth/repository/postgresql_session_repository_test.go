package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillboard/skillboard/internal/auth/domain"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/testutil"
)

func sessionColumns() []string {
	return []string{"id", "user_id", "token_hash", "expires_at", "created_at"}
}

func TestPostgreSQLSessionRepository_Create(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewPostgreSQLSessionRepository(db)

	session := &domain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		TokenHash: "abc123",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(session.ID, session.UserID, session.TokenHash, session.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), session)
	assert.NoError(t, err)
}

func TestPostgreSQLSessionRepository_GetByTokenHash(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSessionRepository(db)

		id := uuid.Must(uuid.NewV7())
		userID := uuid.Must(uuid.NewV7())
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM sessions WHERE token_hash =`).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows(sessionColumns()).
				AddRow(id, userID, "abc123", now.Add(time.Hour), now))

		session, err := repo.GetByTokenHash(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, "abc123", session.TokenHash)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSessionRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM sessions WHERE token_hash =`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(sessionColumns()))

		session, err := repo.GetByTokenHash(context.Background(), "missing")
		assert.Nil(t, session)
		assert.True(t, apperrors.Is(err, domain.ErrSessionNotFound))
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})
}

func TestPostgreSQLSessionRepository_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSessionRepository(db)

		id := uuid.Must(uuid.NewV7())
		mock.ExpectExec(`DELETE FROM sessions WHERE id =`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), id)
		assert.NoError(t, err)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewPostgreSQLSessionRepository(db)

		id := uuid.Must(uuid.NewV7())
		mock.ExpectExec(`DELETE FROM sessions WHERE id =`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)
		assert.True(t, apperrors.Is(err, domain.ErrSessionNotFound))
	})
}

func TestPostgreSQLSessionRepository_DeleteExpired(t *testing.T) {
	db, mock := testutil.NewSQLMock(t)
	repo := NewPostgreSQLSessionRepository(db)

	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}
