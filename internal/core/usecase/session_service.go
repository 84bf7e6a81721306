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

// SessionService manages session rows and drives the registry client through
// connect/disconnect. Device pairing itself belongs to the transport.
type SessionService struct {
	repo     ports.SessionRepository
	registry *ClientRegistry
	logger   *zap.Logger
}

func NewSessionService(repo ports.SessionRepository, registry *ClientRegistry, logger *zap.Logger) *SessionService {
	return &SessionService{repo: repo, registry: registry, logger: logger}
}

func (s *SessionService) Create(ctx context.Context, ownerID, name string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Session{}, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}

	session, err := s.repo.Create(ctx, domain.Session{
		OwnerID:   ownerID,
		SessionID: NewSessionID(),
		Name:      name,
		Connected: false,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Session{}, err
	}

	// Materialize the handle up front so connect finds it in the registry.
	s.registry.Get(session.SessionID, ownerID)

	s.logger.Info("session created",
		zap.String("owner_id", ownerID),
		zap.String("session_id", session.SessionID),
		zap.String("name", name))
	return session, nil
}

func (s *SessionService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *SessionService) Get(ctx context.Context, ownerID, sessionID string) (domain.Session, error) {
	session, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.OwnerID != ownerID {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

// Connect brings the session's transport client up and mirrors the resulting
// state into the row.
func (s *SessionService) Connect(ctx context.Context, ownerID, sessionID string) (domain.Session, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}

	client := s.registry.Get(sessionID, session.OwnerID)
	if err := client.Connect(ctx); err != nil {
		return domain.Session{}, &domain.ErrTransport{Err: err}
	}

	if err := s.repo.UpdateStatus(ctx, sessionID, true, client.PhoneNumber()); err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("session connected",
		zap.String("session_id", sessionID),
		zap.String("phone_number", client.PhoneNumber()))
	return s.repo.GetBySessionID(ctx, sessionID)
}

func (s *SessionService) Disconnect(ctx context.Context, ownerID, sessionID string) (domain.Session, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}

	client := s.registry.Get(sessionID, session.OwnerID)
	if err := client.Disconnect(ctx); err != nil {
		return domain.Session{}, &domain.ErrTransport{Err: err}
	}

	if err := s.repo.UpdateStatus(ctx, sessionID, false, ""); err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("session disconnected", zap.String("session_id", sessionID))
	return s.repo.GetBySessionID(ctx, sessionID)
}

// Delete disconnects and removes the live handle, then drops the row.
func (s *SessionService) Delete(ctx context.Context, ownerID, sessionID string) (bool, error) {
	if _, err := s.Get(ctx, ownerID, sessionID); err != nil {
		return false, err
	}

	if client, ok := s.registry.Remove(sessionID); ok && client.Connected() {
		if err := client.Disconnect(ctx); err != nil {
			s.logger.Warn("disconnect before delete", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	deleted, err := s.repo.Delete(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("session deleted", zap.String("session_id", sessionID))
	}
	return deleted, nil
}
