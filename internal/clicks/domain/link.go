package domain

import (
	"strings"
	"time"
)

// Tag is a label attached to links.
type Tag struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}

// TagAssociation is one link-to-tag row. Tag is nil when the tag row is gone.
type TagAssociation struct {
	Tag *Tag `json:"tag"`
}

// Link is a short link as the recording pipeline sees it.
type Link struct {
	ID          string           `json:"id"`
	Domain      string           `json:"domain"`
	Key         string           `json:"key"`
	URL         string           `json:"url"`
	WorkspaceID string           `json:"workspaceId"`
	Clicks      int64            `json:"clicks"`
	LastClicked *time.Time       `json:"lastClicked"`
	CreatedAt   time.Time        `json:"createdAt"`
	WebhookIDs  []string         `json:"webhookIds"`
	Tags        []TagAssociation `json:"tags"`
}

// ShortLink returns the public short URL of the link.
func (l *Link) ShortLink() string {
	return "https://" + l.Domain + "/" + l.Key
}

const workspaceIDPrefix = "ws_"

// NormalizeWorkspaceID strips the public "ws_" prefix from workspace ids.
func NormalizeWorkspaceID(id string) string {
	return strings.TrimPrefix(id, workspaceIDPrefix)
}

// PrefixWorkspaceID returns the public form of a workspace id.
func PrefixWorkspaceID(id string) string {
	if id == "" || strings.HasPrefix(id, workspaceIDPrefix) {
		return id
	}
	return workspaceIDPrefix + id
}
