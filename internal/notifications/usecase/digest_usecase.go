package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/skillboard/skillboard/internal/email"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/service"
	skillDomain "github.com/skillboard/skillboard/internal/skill/domain"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// digestLeaderboardSize is how many top skills the digest email features.
const digestLeaderboardSize = 10

// SubscriberLister pages through users who are opted in to the digest.
type SubscriberLister interface {
	ListDigestSubscribers(ctx context.Context, offset, limit int) ([]*userDomain.User, error)
}

// LeaderboardProvider supplies the ranked skill list featured in the digest.
type LeaderboardProvider interface {
	Leaderboard(ctx context.Context, limit int) ([]*skillDomain.LeaderboardEntry, error)
}

// DigestConfig tunes the batched digest send.
type DigestConfig struct {
	SiteBaseURL string
	BatchSize   int
	BatchDelay  time.Duration
}

// DigestReport summarizes the outcome of a digest run.
type DigestReport struct {
	Sent   int
	Failed int
}

// DigestUseCase sends the weekly top-skills digest to subscribed users in
// fixed-size batches, pausing between batches so the email provider is
// never hit with the full recipient list at once.
type DigestUseCase struct {
	subscribers  SubscriberLister
	leaderboard  LeaderboardProvider
	tokenService service.UnsubscribeTokenService
	sender       email.Sender
	cfg          DigestConfig
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *slog.Logger
}

// NewDigestUseCase creates a new DigestUseCase.
func NewDigestUseCase(
	subscribers SubscriberLister,
	leaderboard LeaderboardProvider,
	tokenService service.UnsubscribeTokenService,
	sender email.Sender,
	cfg DigestConfig,
	logger *slog.Logger,
) *DigestUseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &DigestUseCase{
		subscribers:  subscribers,
		leaderboard:  leaderboard,
		tokenService: tokenService,
		sender:       sender,
		cfg:          cfg,
		sleep:        sleepContext,
		logger:       logger,
	}
}

// SendDigest renders and delivers the digest to every subscribed user.
// Recipients are paged straight out of the store with the batch size as
// the page size. Individual delivery failures are counted and logged but
// do not abort the run; a canceled context does.
func (uc *DigestUseCase) SendDigest(ctx context.Context) (DigestReport, error) {
	var report DigestReport

	entries, err := uc.leaderboard.Leaderboard(ctx, digestLeaderboardSize)
	if err != nil {
		return report, apperrors.Wrap(err, "failed to load leaderboard for digest")
	}
	if len(entries) == 0 {
		uc.logger.Info("digest skipped, no published skills")
		return report, nil
	}

	skills := make([]email.DigestSkill, 0, len(entries))
	for _, entry := range entries {
		skills = append(skills, email.DigestSkill{
			Name:     entry.Name,
			Slug:     entry.Slug,
			Installs: entry.InstallCount,
		})
	}

	for offset := 0; ; offset += uc.cfg.BatchSize {
		batch, err := uc.subscribers.ListDigestSubscribers(ctx, offset, uc.cfg.BatchSize)
		if err != nil {
			return report, apperrors.Wrap(err, "failed to list digest subscribers")
		}
		if len(batch) == 0 {
			break
		}

		if offset > 0 && uc.cfg.BatchDelay > 0 {
			if err := uc.sleep(ctx, uc.cfg.BatchDelay); err != nil {
				return report, err
			}
		}

		for _, user := range batch {
			if err := uc.sendToUser(ctx, user, skills); err != nil {
				report.Failed++
				uc.logger.Error("digest delivery failed",
					slog.String("user_id", user.ID.String()),
					slog.Any("error", err),
				)
				continue
			}
			report.Sent++
		}

		if len(batch) < uc.cfg.BatchSize {
			break
		}
	}

	uc.logger.Info("digest run finished",
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

func (uc *DigestUseCase) sendToUser(ctx context.Context, user *userDomain.User, skills []email.DigestSkill) error {
	// The token is generated per recipient at send time so every link is
	// fresh for the full 30-day window.
	token, err := uc.tokenService.GenerateToken(user.ID.String())
	if err != nil {
		return err
	}

	subject, bodyHTML, err := email.RenderDigest(email.DigestData{
		Name:           user.Name,
		Skills:         skills,
		SiteBaseURL:    uc.cfg.SiteBaseURL,
		UnsubscribeURL: email.UnsubscribeURL(uc.cfg.SiteBaseURL, token, "digest"),
	})
	if err != nil {
		return err
	}

	return uc.sender.Send(ctx, email.Message{
		To:       user.Email,
		Subject:  subject,
		BodyHTML: bodyHTML,
		Tag:      "weekly-digest",
	})
}

// sleepContext pauses for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
