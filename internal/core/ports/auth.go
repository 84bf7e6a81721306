package ports

import (
	"context"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type APIKeyRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (domain.APIKey, error)
	Create(ctx context.Context, key domain.APIKey) (domain.APIKey, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKey, error)
	// IncrementUsage bumps request_count by one. Best effort: a lost increment
	// under concurrency is a metrics blip, not a correctness problem.
	IncrementUsage(ctx context.Context, tokenHash string) error
	Revoke(ctx context.Context, ownerID string, id int64) (bool, error)
}
