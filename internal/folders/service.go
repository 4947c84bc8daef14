// Package folders manages per-folder user roles.
package folders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Store when the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfUpdate is returned when a user tries to change their own role.
	ErrSelfUpdate = errors.New("cannot update your own role")

	// ErrInvalidRole is returned for roles outside the known set.
	ErrInvalidRole = errors.New("invalid folder role")
)

// Role is a user's permission level on a folder.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole validates s. An empty string means no role.
func ParseRole(s string) (*Role, error) {
	if s == "" {
		return nil, nil
	}
	role := Role(s)
	switch role {
	case RoleOwner, RoleEditor, RoleViewer:
		return &role, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Store persists folder memberships and access requests.
type Store interface {
	UpsertFolderUser(ctx context.Context, folderID, userID string, role *Role) error

	// DeleteAccessRequest returns ErrNotFound if there was no pending request.
	DeleteAccessRequest(ctx context.Context, folderID, userID string) error
}

// UpdateRoleInput is one role change.
type UpdateRoleInput struct {
	ActorID  string
	FolderID string
	UserID   string
	Role     *Role // nil clears the role
}

// Service updates folder roles.
type Service struct {
	store          Store
	logger         *zap.Logger
	cleanupTimeout time.Duration
	runAsync       func(func())
}

// NewService creates a new Service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:          store,
		logger:         logger,
		cleanupTimeout: 10 * time.Second,
		runAsync:       func(fn func()) { go fn() },
	}
}

// UpdateUserRole upserts the user's role on the folder. A pending access
// request by that user is deleted afterwards in the background; that
// cleanup never fails the update.
func (s *Service) UpdateUserRole(ctx context.Context, in UpdateRoleInput) error {
	if in.ActorID != "" && in.ActorID == in.UserID {
		return ErrSelfUpdate
	}

	if err := s.store.UpsertFolderUser(ctx, in.FolderID, in.UserID, in.Role); err != nil {
		return fmt.Errorf("upsert folder user: %w", err)
	}

	cleanupCtx := context.WithoutCancel(ctx)
	s.runAsync(func() {
		s.cleanupAccessRequest(cleanupCtx, in.FolderID, in.UserID)
	})

	return nil
}

func (s *Service) cleanupAccessRequest(ctx context.Context, folderID, userID string) {
	ctx, cancel := context.WithTimeout(ctx, s.cleanupTimeout)
	defer cancel()

	err := s.store.DeleteAccessRequest(ctx, folderID, userID)
	if err == nil || errors.Is(err, ErrNotFound) {
		return
	}

	s.logger.Error("failed to delete folder access request",
		zap.String("folder_id", folderID),
		zap.String("user_id", userID),
		zap.Error(err),
	)
}
