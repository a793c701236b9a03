package services

import (
	"context"

	"github.com/rs/zerolog"
)

// ResetNotifier delivers a password reset link to a user.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogResetNotifier writes reset links to the log. Intended for development
// deployments without outbound mail.
type LogResetNotifier struct {
	logger zerolog.Logger
}

func NewLogResetNotifier(logger zerolog.Logger) *LogResetNotifier {
	return &LogResetNotifier{logger: logger.With().Str("service", "reset_notifier").Logger()}
}

func (n *LogResetNotifier) SendPasswordReset(ctx context.Context, email, link string) error {
	n.logger.Info().Str("email", email).Str("link", link).Msg("password reset requested")
	return nil
}
