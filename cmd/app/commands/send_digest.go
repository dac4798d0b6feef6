package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/skillboard/skillboard/internal/app"
	"github.com/skillboard/skillboard/internal/config"
	notificationsUsecase "github.com/skillboard/skillboard/internal/notifications/usecase"
)

// digestSender runs one full digest delivery pass.
type digestSender interface {
	SendDigest(ctx context.Context) (notificationsUsecase.DigestReport, error)
}

// RunSendDigest wires the digest use case from the container and runs a
// single delivery pass.
func RunSendDigest(ctx context.Context, out io.Writer) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	digest, err := container.DigestUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize digest use case: %w", err)
	}

	return sendDigest(ctx, digest, logger, out)
}

// sendDigest runs the delivery pass and reports the outcome.
func sendDigest(ctx context.Context, digest digestSender, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting digest run")

	report, err := digest.SendDigest(ctx)
	if err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	fmt.Fprintf(out, "Digest run complete: %d sent, %d failed\n", report.Sent, report.Failed)

	logger.Info("digest run completed",
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return nil
}
