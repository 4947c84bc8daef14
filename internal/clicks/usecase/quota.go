package usecase

import "go-linktrack/internal/clicks/domain"

// ExceedsQuota reports whether the workspace has used up its limit.
// An unknown workspace never exceeds.
func ExceedsQuota(snapshot *domain.UsageSnapshot) bool {
	return snapshot != nil && snapshot.Usage >= snapshot.UsageLimit
}
