package webhook

import (
	"context"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/usecase"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

var _ usecase.WebhookDispatcher = (*LogDispatcher)(nil)

// LogDispatcher only logs deliveries. Used when no queue is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a new LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(_ context.Context, trigger string, subscriptions []domain.WebhookSubscription, _ any) error {
	d.logger.Info("webhook delivery (not queued)",
		zap.String("trigger", trigger),
		zap.Strings("webhook_ids", lo.Map(subscriptions, func(s domain.WebhookSubscription, _ int) string {
			return s.ID
		})),
	)
	return nil
}
