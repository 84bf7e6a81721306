package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/wahub/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type webhookModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID         string     `gorm:"column:owner_id;not null"`
	URL             string     `gorm:"column:url;not null"`
	EventType       string     `gorm:"column:event_type;not null"`
	Active          bool       `gorm:"column:active;not null"`
	Secret          string     `gorm:"column:secret;not null"`
	CustomHeaders   string     `gorm:"column:custom_headers;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
	LastTriggeredAt *time.Time `gorm:"column:last_triggered_at"`
	SuccessCount    int64      `gorm:"column:success_count;not null"`
	FailureCount    int64      `gorm:"column:failure_count;not null"`
}

func (webhookModel) TableName() string {
	return "webhooks"
}

type WebhookRepository struct {
	db *gormsqlite.DB
}

func NewWebhookRepository(db *gormsqlite.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(ctx context.Context, w domain.Webhook) (domain.Webhook, error) {
	model, err := webhookToModel(w)
	if err != nil {
		return domain.Webhook{}, err
	}
	err = r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Webhook{}, fmt.Errorf("create webhook: %w", err)
	}
	return webhookToDomain(model)
}

func (r *WebhookRepository) Get(ctx context.Context, ownerID string, id int64) (domain.Webhook, error) {
	var model webhookModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Webhook{}, domain.ErrNotFound
		}
		return domain.Webhook{}, fmt.Errorf("get webhook: %w", err)
	}
	return webhookToDomain(model)
}

func (r *WebhookRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Webhook, error) {
	var models []webhookModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return webhooksToDomain(models)
}

func (r *WebhookRepository) FindMatching(ctx context.Context, ownerID string, kind domain.EventType) ([]domain.Webhook, error) {
	var models []webhookModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("owner_id = ? AND active = ? AND (event_type = ? OR event_type = ?)",
			ownerID, true, string(kind), string(domain.EventAll)).
			Order("id ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find matching webhooks: %w", err)
	}
	return webhooksToDomain(models)
}

func (r *WebhookRepository) Update(ctx context.Context, w domain.Webhook) (domain.Webhook, error) {
	headers, err := marshalHeaders(w.CustomHeaders)
	if err != nil {
		return domain.Webhook{}, err
	}

	var affected int64
	err = r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&webhookModel{}).
			Where("id = ? AND owner_id = ?", w.ID, w.OwnerID).
			Updates(map[string]any{
				"url":            w.URL,
				"event_type":     string(w.EventType),
				"active":         w.Active,
				"secret":         w.Secret,
				"custom_headers": headers,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return domain.Webhook{}, fmt.Errorf("update webhook: %w", err)
	}
	if affected == 0 {
		return domain.Webhook{}, domain.ErrNotFound
	}
	return r.Get(ctx, w.OwnerID, w.ID)
}

func (r *WebhookRepository) Delete(ctx context.Context, ownerID string, id int64) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&webhookModel{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("delete webhook: %w", err)
	}
	return affected > 0, nil
}

func (r *WebhookRepository) RecordResult(ctx context.Context, id int64, success bool, at time.Time) error {
	column := "failure_count"
	if success {
		column = "success_count"
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&webhookModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				column:              gorm.Expr(column + " + 1"),
				"last_triggered_at": at,
			}).Error
	})
	if err != nil {
		return fmt.Errorf("record webhook result: %w", err)
	}
	return nil
}

func webhookToModel(w domain.Webhook) (webhookModel, error) {
	headers, err := marshalHeaders(w.CustomHeaders)
	if err != nil {
		return webhookModel{}, err
	}
	return webhookModel{
		ID:              w.ID,
		OwnerID:         w.OwnerID,
		URL:             w.URL,
		EventType:       string(w.EventType),
		Active:          w.Active,
		Secret:          w.Secret,
		CustomHeaders:   headers,
		CreatedAt:       w.CreatedAt,
		LastTriggeredAt: w.LastTriggeredAt,
		SuccessCount:    w.SuccessCount,
		FailureCount:    w.FailureCount,
	}, nil
}

func webhookToDomain(model webhookModel) (domain.Webhook, error) {
	var headers map[string]string
	if model.CustomHeaders != "" {
		if err := json.Unmarshal([]byte(model.CustomHeaders), &headers); err != nil {
			return domain.Webhook{}, fmt.Errorf("decode custom headers: %w", err)
		}
	}
	return domain.Webhook{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		URL:             model.URL,
		EventType:       domain.EventType(model.EventType),
		Active:          model.Active,
		Secret:          model.Secret,
		CustomHeaders:   headers,
		CreatedAt:       model.CreatedAt,
		LastTriggeredAt: model.LastTriggeredAt,
		SuccessCount:    model.SuccessCount,
		FailureCount:    model.FailureCount,
	}, nil
}

func webhooksToDomain(models []webhookModel) ([]domain.Webhook, error) {
	result := make([]domain.Webhook, 0, len(models))
	for _, model := range models {
		w, err := webhookToDomain(model)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, nil
}

func marshalHeaders(headers map[string]string) (string, error) {
	if len(headers) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(headers)
	if err != nil {
		return "", fmt.Errorf("encode custom headers: %w", err)
	}
	return string(encoded), nil
}
