package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/wahub/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type deliveryLogModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DeliveryID string    `gorm:"column:delivery_id;not null"`
	WebhookID  int64     `gorm:"column:webhook_id;not null"`
	OwnerID    string    `gorm:"column:owner_id;not null"`
	SessionID  string    `gorm:"column:session_id;not null"`
	URL        string    `gorm:"column:url;not null"`
	EventType  string    `gorm:"column:event_type;not null"`
	Attempt    int       `gorm:"column:attempt;not null"`
	StatusCode int       `gorm:"column:status_code;not null"`
	Success    bool      `gorm:"column:success;not null"`
	Error      string    `gorm:"column:error;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (deliveryLogModel) TableName() string {
	return "delivery_logs"
}

type DeliveryLogRepository struct {
	db *gormsqlite.DB
}

func NewDeliveryLogRepository(db *gormsqlite.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{db: db}
}

func (r *DeliveryLogRepository) Log(ctx context.Context, entry domain.DeliveryLog) error {
	model := deliveryLogModel{
		DeliveryID: entry.DeliveryID,
		WebhookID:  entry.WebhookID,
		OwnerID:    entry.OwnerID,
		SessionID:  entry.SessionID,
		URL:        entry.URL,
		EventType:  string(entry.EventType),
		Attempt:    entry.Attempt,
		StatusCode: entry.StatusCode,
		Success:    entry.Success,
		Error:      entry.Error,
		CreatedAt:  entry.CreatedAt,
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return fmt.Errorf("insert delivery log: %w", err)
	}
	return nil
}

func (r *DeliveryLogRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.DeliveryLogFilter) ([]domain.DeliveryLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var models []deliveryLogModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&deliveryLogModel{}).Where("owner_id = ?", ownerID)
		if filter.WebhookID > 0 {
			query = query.Where("webhook_id = ?", filter.WebhookID)
		}
		if filter.AfterID > 0 {
			query = query.Where("id < ?", filter.AfterID)
		}
		return query.Order("id DESC").Limit(limit).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list delivery logs: %w", err)
	}

	result := make([]domain.DeliveryLog, 0, len(models))
	for _, model := range models {
		result = append(result, domain.DeliveryLog{
			ID:         model.ID,
			DeliveryID: model.DeliveryID,
			WebhookID:  model.WebhookID,
			OwnerID:    model.OwnerID,
			SessionID:  model.SessionID,
			URL:        model.URL,
			EventType:  domain.EventType(model.EventType),
			Attempt:    model.Attempt,
			StatusCode: model.StatusCode,
			Success:    model.Success,
			Error:      model.Error,
			CreatedAt:  model.CreatedAt,
		})
	}
	return result, nil
}
