package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

var ErrUnauthorized = errors.New("unauthorized")

// AdmissionService validates presented API key tokens ahead of every
// tenant-facing operation: existence, active flag, expiry, then the per-key
// rate limit. On success it bumps the key's usage counter (best effort) and
// hands back the key so callers can resolve the owning tenant.
type AdmissionService struct {
	repo  ports.APIKeyRepository
	clock func() time.Time

	mu       sync.Mutex
	limiters map[string]*keyLimiter
}

type keyLimiter struct {
	limiter *rate.Limiter
	perMin  int
}

func NewAdmissionService(repo ports.APIKeyRepository) *AdmissionService {
	return &AdmissionService{
		repo:     repo,
		clock:    func() time.Time { return time.Now().UTC() },
		limiters: make(map[string]*keyLimiter),
	}
}

func (s *AdmissionService) Admit(ctx context.Context, token string) (domain.APIKey, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.APIKey{}, ErrUnauthorized
	}

	key, err := s.repo.FindByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.APIKey{}, ErrUnauthorized
		}
		return domain.APIKey{}, err
	}
	if !key.Active {
		return domain.APIKey{}, domain.ErrKeyInactive
	}
	if key.Expired(s.clock()) {
		return domain.APIKey{}, domain.ErrKeyExpired
	}
	if !s.allow(key) {
		return domain.APIKey{}, domain.ErrRateLimited
	}

	// Usage counter is a metric, not an invariant; admission stands even if
	// the increment is lost.
	_ = s.repo.IncrementUsage(ctx, key.TokenHash)

	return key, nil
}

// allow consumes one slot from the key's per-minute limiter. Limiters are
// rebuilt when the stored rate_limit changes; rate_limit <= 0 disables
// limiting for the key.
func (s *AdmissionService) allow(key domain.APIKey) bool {
	if key.RateLimit <= 0 {
		return true
	}

	s.mu.Lock()
	kl, ok := s.limiters[key.TokenHash]
	if !ok || kl.perMin != key.RateLimit {
		kl = &keyLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(key.RateLimit)/60.0), key.RateLimit),
			perMin:  key.RateLimit,
		}
		s.limiters[key.TokenHash] = kl
	}
	s.mu.Unlock()

	return kl.limiter.Allow()
}
