package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

const defaultRateLimit = 60

// APIKeyService issues and revokes tenant API keys. The plaintext token is
// returned exactly once, on creation; listings only ever expose the hint.
type APIKeyService struct {
	repo   ports.APIKeyRepository
	logger *zap.Logger
}

func NewAPIKeyService(repo ports.APIKeyRepository, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{repo: repo, logger: logger}
}

// Issue creates a key and returns the stored record plus the plaintext token.
func (s *APIKeyService) Issue(ctx context.Context, ownerID, name string, rateLimit int, expiresAt *time.Time) (domain.APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.APIKey{}, "", fmt.Errorf("%w: key name is required", domain.ErrInvalidInput)
	}
	if rateLimit < 0 {
		return domain.APIKey{}, "", fmt.Errorf("%w: rate limit must not be negative", domain.ErrInvalidInput)
	}
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}

	token := NewAPIKeyToken()
	key, err := s.repo.Create(ctx, domain.APIKey{
		OwnerID:   ownerID,
		Name:      name,
		TokenHash: HashToken(token),
		TokenHint: MaskToken(token),
		Active:    true,
		RateLimit: rateLimit,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.APIKey{}, "", err
	}

	s.logger.Info("api key issued",
		zap.String("owner_id", ownerID),
		zap.String("name", name),
		zap.Int("rate_limit", rateLimit))

	return key, token, nil
}

func (s *APIKeyService) ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKey, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Revoke deactivates a key. Keys are never hard-deleted so usage history
// stays auditable.
func (s *APIKeyService) Revoke(ctx context.Context, ownerID string, id int64) (bool, error) {
	revoked, err := s.repo.Revoke(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	if revoked {
		s.logger.Info("api key revoked", zap.String("owner_id", ownerID), zap.Int64("key_id", id))
	}
	return revoked, nil
}
