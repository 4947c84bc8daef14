package usecase

import (
	"time"

	"go-linktrack/internal/clicks/domain"

	"github.com/samber/lo"
)

// ClickPayload is the click section of a link.clicked webhook.
type ClickPayload struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	URL        string `json:"url"`
	IP         string `json:"ip"`
	Continent  string `json:"continent"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	City       string `json:"city"`
	Device     string `json:"device"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	Referer    string `json:"referer"`
	RefererURL string `json:"refererUrl"`
	QR         bool   `json:"qr"`
	Bot        bool   `json:"bot"`
}

// LinkPayload is the link section of a link.clicked webhook.
type LinkPayload struct {
	ID          string       `json:"id"`
	Domain      string       `json:"domain"`
	Key         string       `json:"key"`
	URL         string       `json:"url"`
	ShortLink   string       `json:"shortLink"`
	WorkspaceID string       `json:"workspaceId"`
	Clicks      int64        `json:"clicks"`
	LastClicked *time.Time   `json:"lastClicked"`
	CreatedAt   time.Time    `json:"createdAt"`
	TagID       *string      `json:"tagId"`
	Tags        []domain.Tag `json:"tags"`
	WebhookIDs  []string     `json:"webhookIds"`
}

// ClickEventPayload is the body of a link.clicked webhook.
type ClickEventPayload struct {
	Click ClickPayload `json:"click"`
	Link  *LinkPayload `json:"link"`
}

// TransformClickEvent builds the webhook body for event on link.
func TransformClickEvent(event domain.ClickEvent, link *domain.Link) ClickEventPayload {
	return ClickEventPayload{
		Click: ClickPayload{
			ID:         event.ClickID,
			Timestamp:  event.Timestamp,
			URL:        event.URL,
			IP:         event.IP,
			Continent:  event.Continent,
			Country:    event.Country,
			Region:     event.Region,
			City:       event.City,
			Device:     event.Device,
			Browser:    event.Browser,
			OS:         event.OS,
			Referer:    event.Referer,
			RefererURL: event.RefererURL,
			QR:         event.QR,
			Bot:        event.Bot,
		},
		Link: TransformLink(link),
	}
}

// TransformLink flattens tag associations and exposes the public workspace id.
func TransformLink(link *domain.Link) *LinkPayload {
	if link == nil {
		return nil
	}

	tags := lo.FilterMap(link.Tags, func(assoc domain.TagAssociation, _ int) (domain.Tag, bool) {
		if assoc.Tag == nil {
			return domain.Tag{}, false
		}
		return *assoc.Tag, true
	})

	var tagID *string
	if len(tags) > 0 {
		tagID = &tags[0].ID
	}

	webhookIDs := link.WebhookIDs
	if webhookIDs == nil {
		webhookIDs = []string{}
	}

	return &LinkPayload{
		ID:          link.ID,
		Domain:      link.Domain,
		Key:         link.Key,
		URL:         link.URL,
		ShortLink:   link.ShortLink(),
		WorkspaceID: domain.PrefixWorkspaceID(link.WorkspaceID),
		Clicks:      link.Clicks,
		LastClicked: link.LastClicked,
		CreatedAt:   link.CreatedAt,
		TagID:       tagID,
		Tags:        tags,
		WebhookIDs:  webhookIDs,
	}
}
