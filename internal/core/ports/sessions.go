package ports

import (
	"context"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) (domain.Session, error)
	GetBySessionID(ctx context.Context, sessionID string) (domain.Session, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error)
	// UpdateStatus mirrors the live connection state into the row. phoneNumber
	// is only overwritten when non-empty.
	UpdateStatus(ctx context.Context, sessionID string, connected bool, phoneNumber string) error
	IncrementMessageCount(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) (bool, error)
}
