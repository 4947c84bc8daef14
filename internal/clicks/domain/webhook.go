package domain

import (
	"slices"
	"time"
)

// TriggerLinkClicked is the only trigger the click pipeline emits.
const TriggerLinkClicked = "link.clicked"

// WebhookSubscription is a cached webhook registration.
type WebhookSubscription struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Secret     string     `json:"secret"`
	DisabledAt *time.Time `json:"disabledAt"`
	Triggers   []string   `json:"triggers"`
}

// Active reports whether the subscription has not been disabled.
func (w WebhookSubscription) Active() bool {
	return w.DisabledAt == nil
}

// Subscribes reports whether the subscription listens to trigger.
func (w WebhookSubscription) Subscribes(trigger string) bool {
	return slices.Contains(w.Triggers, trigger)
}

// UsageSnapshot is a workspace's usage against its limit at read time.
type UsageSnapshot struct {
	Usage      int64 `json:"usage" db:"usage"`
	UsageLimit int64 `json:"usageLimit" db:"usage_limit"`
}
