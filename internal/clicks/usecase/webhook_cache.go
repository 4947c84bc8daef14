package usecase

import (
	"context"
	"encoding/json"

	"go-linktrack/internal/clicks/domain"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// WebhookCache reads webhook subscriptions stored as JSON in the Cache.
type WebhookCache struct {
	cache  Cache
	logger *zap.Logger
}

// NewWebhookCache creates a new WebhookCache
func NewWebhookCache(cache Cache, logger *zap.Logger) *WebhookCache {
	return &WebhookCache{cache: cache, logger: logger}
}

// Subscriptions returns the cached subscriptions among ids, skipping absent
// and undecodable entries.
func (w *WebhookCache) Subscriptions(ctx context.Context, ids []string) ([]domain.WebhookSubscription, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := w.cache.MGet(ctx, lo.Map(ids, func(id string, _ int) string {
		return domain.WebhookKey(id)
	})...)
	if err != nil {
		return nil, err
	}

	subscriptions := make([]domain.WebhookSubscription, 0, len(values))
	for i, raw := range values {
		if raw == "" {
			continue
		}
		var sub domain.WebhookSubscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			w.logger.Warn("failed to decode cached webhook",
				zap.String("webhook_id", ids[i]),
				zap.Error(err),
			)
			continue
		}
		subscriptions = append(subscriptions, sub)
	}

	return subscriptions, nil
}

// Put stores a subscription in the cache without expiry.
func (w *WebhookCache) Put(ctx context.Context, sub domain.WebhookSubscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return w.cache.Set(ctx, domain.WebhookKey(sub.ID), string(data), 0)
}
