package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/metrics"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// TagFilterMode selects how a link's tag associations are filtered before
// they are put into a webhook payload.
type TagFilterMode string

const (
	// TagFilterDropMissing drops associations whose tag no longer exists.
	TagFilterDropMissing TagFilterMode = "drop-missing"

	// TagFilterLegacy keeps only boolean entries, which no association is,
	// so every payload carries an empty tag list. Kept for consumers that
	// depend on the historical payload shape.
	TagFilterLegacy TagFilterMode = "legacy"
)

// ParseTagFilterMode maps a config value to a mode, defaulting to drop-missing.
func ParseTagFilterMode(s string) (TagFilterMode, error) {
	switch TagFilterMode(s) {
	case "", TagFilterDropMissing:
		return TagFilterDropMissing, nil
	case TagFilterLegacy:
		return TagFilterLegacy, nil
	}
	return "", fmt.Errorf("unknown tag filter mode %q", s)
}

// FilterTags applies mode to associations.
func FilterTags(associations []domain.TagAssociation, mode TagFilterMode) []domain.TagAssociation {
	if mode == TagFilterLegacy {
		return []domain.TagAssociation{}
	}
	return lo.Filter(associations, func(assoc domain.TagAssociation, _ int) bool {
		return assoc.Tag != nil
	})
}

// Fanout notifies a link's webhook subscribers about a click.
type Fanout struct {
	webhooks   *WebhookCache
	links      LinkStore
	dispatcher WebhookDispatcher
	tagMode    TagFilterMode
	metrics    *metrics.ClickMetrics
	logger     *zap.Logger
}

// NewFanout creates a new Fanout
func NewFanout(webhooks *WebhookCache, links LinkStore, dispatcher WebhookDispatcher, tagMode TagFilterMode, m *metrics.ClickMetrics, logger *zap.Logger) *Fanout {
	return &Fanout{
		webhooks:   webhooks,
		links:      links,
		dispatcher: dispatcher,
		tagMode:    tagMode,
		metrics:    m,
		logger:     logger,
	}
}

// Dispatch delivers event to the active subscriptions among webhookIDs that
// listen to trigger. It reports nothing to the caller; failures are logged.
func (f *Fanout) Dispatch(ctx context.Context, trigger, linkID string, webhookIDs []string, event domain.ClickEvent) {
	subscriptions, err := f.webhooks.Subscriptions(ctx, webhookIDs)
	if err != nil {
		f.skip("error")
		f.logger.Error("failed to load webhooks from cache",
			zap.String("link_id", linkID),
			zap.Error(err),
		)
		return
	}

	// Cache misses are not looked up in the database.
	if len(subscriptions) == 0 {
		f.skip("cache_miss")
		f.logger.Debug("no cached webhooks for link",
			zap.String("link_id", linkID),
			zap.Strings("webhook_ids", webhookIDs),
		)
		return
	}

	active := lo.Filter(subscriptions, func(sub domain.WebhookSubscription, _ int) bool {
		return sub.Active() && sub.Subscribes(trigger)
	})
	if len(active) == 0 {
		f.skip("no_active")
		return
	}

	link, err := f.links.FindLinkWithTags(ctx, linkID)
	if err != nil {
		f.skip("link_missing")
		if !errors.Is(err, domain.ErrNotFound) {
			f.logger.Error("failed to load link for webhook",
				zap.String("link_id", linkID),
				zap.Error(err),
			)
		}
		return
	}

	resolved := *link
	resolved.Tags = FilterTags(link.Tags, f.tagMode)

	payload := TransformClickEvent(event, &resolved)
	if err := f.dispatcher.Send(ctx, trigger, active, payload); err != nil {
		f.skip("error")
		f.logger.Error("failed to dispatch webhooks",
			zap.String("link_id", linkID),
			zap.String("trigger", trigger),
			zap.Int("subscriptions", len(active)),
			zap.Error(err),
		)
		return
	}

	f.metrics.WebhooksDispatched.Inc()
}

func (f *Fanout) skip(reason string) {
	f.metrics.WebhooksSkipped.WithLabelValues(reason).Inc()
}

// InlineScheduler runs fan-out in the calling goroutine.
type InlineScheduler struct {
	fanout *Fanout
}

var _ FanoutScheduler = (*InlineScheduler)(nil)

// NewInlineScheduler creates a new InlineScheduler
func NewInlineScheduler(fanout *Fanout) *InlineScheduler {
	return &InlineScheduler{fanout: fanout}
}

func (s *InlineScheduler) Schedule(ctx context.Context, job FanoutJob) error {
	s.fanout.Dispatch(ctx, job.Trigger, job.LinkID, job.WebhookIDs, job.Event)
	return nil
}
