package folders

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UpsertFolderUser(ctx context.Context, folderID, userID string, role *Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folder_users (folder_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (folder_id, user_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = now()`,
		folderID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert folder user: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAccessRequest(ctx context.Context, folderID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM folder_access_requests WHERE folder_id = $1 AND user_id = $2`,
		folderID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete folder access request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
