package ports

import (
	"context"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type DeliveryLogRepository interface {
	Log(ctx context.Context, entry domain.DeliveryLog) error
	ListByOwner(ctx context.Context, ownerID string, filter domain.DeliveryLogFilter) ([]domain.DeliveryLog, error)
}
