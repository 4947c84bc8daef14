package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/usecase"

	"github.com/jmoiron/sqlx"
)

var _ usecase.LinkStore = (*LinkStore)(nil)

// LinkStore implements usecase.LinkStore on PostgreSQL.
type LinkStore struct {
	db *sqlx.DB
}

// NewLinkStore creates a new LinkStore
func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

type linkRow struct {
	ID          string         `db:"id"`
	Domain      string         `db:"domain"`
	Key         string         `db:"key"`
	URL         string         `db:"url"`
	ProjectID   sql.NullString `db:"project_id"`
	Clicks      int64          `db:"clicks"`
	LastClicked sql.NullTime   `db:"last_clicked"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r linkRow) toDomain() *domain.Link {
	link := &domain.Link{
		ID:          r.ID,
		Domain:      r.Domain,
		Key:         r.Key,
		URL:         r.URL,
		WorkspaceID: r.ProjectID.String,
		Clicks:      r.Clicks,
		CreatedAt:   r.CreatedAt,
	}
	if r.LastClicked.Valid {
		t := r.LastClicked.Time
		link.LastClicked = &t
	}
	return link
}

type tagRow struct {
	ID    sql.NullString `db:"id"`
	Name  sql.NullString `db:"name"`
	Color sql.NullString `db:"color"`
}

const selectLink = `SELECT id, domain, key, url, project_id, clicks, last_clicked, created_at FROM links`

// IncrementLinkClicks bumps the click counter of linkID.
func (s *LinkStore) IncrementLinkClicks(ctx context.Context, linkID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE links SET clicks = clicks + 1, last_clicked = $2 WHERE id = $1`,
		linkID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to increment link clicks: %w", err)
	}
	return requireAffected(res)
}

// IncrementWorkspaceUsage bumps usage and total_clicks of the project owning
// linkID in a single statement.
func (s *LinkStore) IncrementWorkspaceUsage(ctx context.Context, linkID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects p
		SET usage = p.usage + 1,
		    total_clicks = p.total_clicks + 1
		FROM links l
		WHERE l.project_id = p.id AND l.id = $1`,
		linkID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment workspace usage: %w", err)
	}
	return requireAffected(res)
}

// WorkspaceUsage returns the usage counters of workspaceID.
func (s *LinkStore) WorkspaceUsage(ctx context.Context, workspaceID string) (*domain.UsageSnapshot, error) {
	var snapshot domain.UsageSnapshot
	err := s.db.GetContext(ctx, &snapshot,
		`SELECT usage, usage_limit FROM projects WHERE id = $1`,
		domain.NormalizeWorkspaceID(workspaceID),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get workspace usage: %w", err)
	}
	return &snapshot, nil
}

// FindLinkWithTags returns the link with its tag associations and webhook ids.
// Associations whose tag was deleted carry a nil Tag.
func (s *LinkStore) FindLinkWithTags(ctx context.Context, linkID string) (*domain.Link, error) {
	link, err := s.findLink(ctx, selectLink+` WHERE id = $1`, linkID)
	if err != nil {
		return nil, err
	}

	var tags []tagRow
	err = s.db.SelectContext(ctx, &tags, `
		SELECT t.id, t.name, t.color
		FROM link_tags lt
		LEFT JOIN tags t ON t.id = lt.tag_id
		WHERE lt.link_id = $1
		ORDER BY lt.created_at, lt.id`,
		linkID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get link tags: %w", err)
	}

	link.Tags = make([]domain.TagAssociation, 0, len(tags))
	for _, t := range tags {
		var assoc domain.TagAssociation
		if t.ID.Valid {
			assoc.Tag = &domain.Tag{ID: t.ID.String, Name: t.Name.String, Color: t.Color.String}
		}
		link.Tags = append(link.Tags, assoc)
	}

	return link, nil
}

// FindLinkByDomainKey resolves a short link.
func (s *LinkStore) FindLinkByDomainKey(ctx context.Context, domainName, key string) (*domain.Link, error) {
	return s.findLink(ctx, selectLink+` WHERE domain = $1 AND key = $2`, domainName, key)
}

func (s *LinkStore) findLink(ctx context.Context, query string, args ...any) (*domain.Link, error) {
	var row linkRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	link := row.toDomain()

	var webhookIDs []string
	err := s.db.SelectContext(ctx, &webhookIDs,
		`SELECT webhook_id FROM link_webhooks WHERE link_id = $1 ORDER BY webhook_id`,
		link.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get link webhooks: %w", err)
	}
	link.WebhookIDs = webhookIDs

	return link, nil
}

// Ping reports whether the database is reachable.
func (s *LinkStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
