package usecase

import (
	"context"
	"time"

	"go-linktrack/internal/clicks/domain"
)

// EventSink appends click events to the analytics store.
// Append returns only after the store acknowledged the write.
type EventSink interface {
	Append(ctx context.Context, event domain.ClickEvent) error
}

// Cache is a shared key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value at key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value at key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// MGet returns one value per key, "" for absent keys.
	MGet(ctx context.Context, keys ...string) ([]string, error)
}

// LinkStore is the relational store of links and workspaces.
type LinkStore interface {
	// IncrementLinkClicks bumps the link's click counter and sets lastClicked to at.
	IncrementLinkClicks(ctx context.Context, linkID string, at time.Time) error

	// IncrementWorkspaceUsage bumps usage and totalClicks of the workspace owning linkID.
	IncrementWorkspaceUsage(ctx context.Context, linkID string) error

	// WorkspaceUsage returns domain.ErrNotFound if the workspace does not exist.
	WorkspaceUsage(ctx context.Context, workspaceID string) (*domain.UsageSnapshot, error)

	// FindLinkWithTags returns domain.ErrNotFound if the link does not exist.
	FindLinkWithTags(ctx context.Context, linkID string) (*domain.Link, error)

	// FindLinkByDomainKey returns domain.ErrNotFound if no link matches.
	FindLinkByDomainKey(ctx context.Context, domain, key string) (*domain.Link, error)
}

// WebhookDispatcher delivers a payload to every given subscription.
type WebhookDispatcher interface {
	Send(ctx context.Context, trigger string, subscriptions []domain.WebhookSubscription, payload any) error
}

// FanoutJob is one scheduled webhook fan-out.
type FanoutJob struct {
	Trigger    string            `json:"trigger"`
	LinkID     string            `json:"link_id"`
	WebhookIDs []string          `json:"webhook_ids"`
	Event      domain.ClickEvent `json:"event"`
}

// FanoutScheduler runs fan-out jobs off the caller's path.
type FanoutScheduler interface {
	Schedule(ctx context.Context, job FanoutJob) error
}
