package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/skillboard/skillboard/internal/app"
	"github.com/skillboard/skillboard/internal/config"
)

// sessionPurger removes sessions past their expiration.
type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// RunPurgeSessions deletes expired login sessions. Intended to run on a
// schedule next to the server.
func RunPurgeSessions(ctx context.Context, out io.Writer) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	sessionUseCase, err := container.SessionUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize session use case: %w", err)
	}

	return purgeSessions(ctx, sessionUseCase, logger, out)
}

func purgeSessions(ctx context.Context, purger sessionPurger, logger *slog.Logger, out io.Writer) error {
	count, err := purger.PurgeExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}

	fmt.Fprintf(out, "Deleted %d expired session(s)\n", count)

	logger.Info("expired sessions purged", slog.Int64("count", count))
	return nil
}
