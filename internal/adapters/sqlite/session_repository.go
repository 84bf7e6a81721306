package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/wahub/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type sessionModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID         string     `gorm:"column:owner_id;not null"`
	SessionID       string     `gorm:"column:session_id;not null;uniqueIndex"`
	Name            string     `gorm:"column:name;not null"`
	PhoneNumber     string     `gorm:"column:phone_number;not null"`
	Connected       bool       `gorm:"column:connected;not null"`
	LastConnectedAt *time.Time `gorm:"column:last_connected_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
	MessageCount    int64      `gorm:"column:message_count;not null"`
}

func (sessionModel) TableName() string {
	return "sessions"
}

type SessionRepository struct {
	db *gormsqlite.DB
}

func NewSessionRepository(db *gormsqlite.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) (domain.Session, error) {
	model := sessionModel{
		OwnerID:      s.OwnerID,
		SessionID:    s.SessionID,
		Name:         s.Name,
		PhoneNumber:  s.PhoneNumber,
		Connected:    s.Connected,
		CreatedAt:    s.CreatedAt,
		MessageCount: s.MessageCount,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sessionToDomain(model), nil
}

func (r *SessionRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Session, error) {
	var model sessionModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("session_id = ?", sessionID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sessionToDomain(model), nil
}

func (r *SessionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error) {
	var models []sessionModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(models))
	for _, model := range models {
		sessions = append(sessions, sessionToDomain(model))
	}
	return sessions, nil
}

func (r *SessionRepository) UpdateStatus(ctx context.Context, sessionID string, connected bool, phoneNumber string) error {
	updates := map[string]any{"connected": connected}
	if connected {
		now := time.Now().UTC()
		updates["last_connected_at"] = &now
	}
	if phoneNumber != "" {
		updates["phone_number"] = phoneNumber
	}

	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&sessionModel{}).Where("session_id = ?", sessionID).Updates(updates)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) IncrementMessageCount(ctx context.Context, sessionID string) error {
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&sessionModel{}).
			Where("session_id = ?", sessionID).
			UpdateColumn("message_count", gorm.Expr("message_count + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("increment message count: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("session_id = ?", sessionID).Delete(&sessionModel{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return affected > 0, nil
}

func sessionToDomain(model sessionModel) domain.Session {
	return domain.Session{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		SessionID:       model.SessionID,
		Name:            model.Name,
		PhoneNumber:     model.PhoneNumber,
		Connected:       model.Connected,
		LastConnectedAt: model.LastConnectedAt,
		CreatedAt:       model.CreatedAt,
		MessageCount:    model.MessageCount,
	}
}
