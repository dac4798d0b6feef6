package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionPurger struct {
	mock.Mock
}

func (m *mockSessionPurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestPurgeSessions(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("reports-count", func(t *testing.T) {
		purger := &mockSessionPurger{}
		purger.On("PurgeExpiredSessions", ctx).Return(int64(7), nil)

		var out bytes.Buffer
		err := purgeSessions(ctx, purger, logger, &out)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Deleted 7 expired session(s)")
		purger.AssertExpectations(t)
	})

	t.Run("propagates-error", func(t *testing.T) {
		purger := &mockSessionPurger{}
		purger.On("PurgeExpiredSessions", ctx).Return(int64(0), errors.New("db down"))

		var out bytes.Buffer
		err := purgeSessions(ctx, purger, logger, &out)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to purge expired sessions")
		require.Empty(t, out.String())
	})
}
