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

type apiKeyModel struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID      string     `gorm:"column:owner_id;not null"`
	Name         string     `gorm:"column:name;not null"`
	TokenHash    string     `gorm:"column:token_hash;not null;uniqueIndex"`
	TokenHint    string     `gorm:"column:token_hint;not null"`
	Active       bool       `gorm:"column:active;not null"`
	RateLimit    int        `gorm:"column:rate_limit;not null"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
	RequestCount int64      `gorm:"column:request_count;not null"`
}

func (apiKeyModel) TableName() string {
	return "api_keys"
}

type APIKeyRepository struct {
	db *gormsqlite.DB
}

func NewAPIKeyRepository(db *gormsqlite.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) FindByTokenHash(ctx context.Context, tokenHash string) (domain.APIKey, error) {
	var model apiKeyModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("token_hash = ?", tokenHash).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.APIKey{}, domain.ErrNotFound
		}
		return domain.APIKey{}, fmt.Errorf("find api key: %w", err)
	}
	return apiKeyToDomain(model), nil
}

func (r *APIKeyRepository) Create(ctx context.Context, key domain.APIKey) (domain.APIKey, error) {
	model := apiKeyModel{
		OwnerID:   key.OwnerID,
		Name:      key.Name,
		TokenHash: key.TokenHash,
		TokenHint: key.TokenHint,
		Active:    key.Active,
		RateLimit: key.RateLimit,
		ExpiresAt: key.ExpiresAt,
		CreatedAt: key.CreatedAt,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.APIKey{}, fmt.Errorf("create api key: %w", err)
	}
	return apiKeyToDomain(model), nil
}

func (r *APIKeyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKey, error) {
	var models []apiKeyModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}

	keys := make([]domain.APIKey, 0, len(models))
	for _, model := range models {
		keys = append(keys, apiKeyToDomain(model))
	}
	return keys, nil
}

func (r *APIKeyRepository) IncrementUsage(ctx context.Context, tokenHash string) error {
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&apiKeyModel{}).
			Where("token_hash = ?", tokenHash).
			UpdateColumn("request_count", gorm.Expr("request_count + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("increment api key usage: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) Revoke(ctx context.Context, ownerID string, id int64) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&apiKeyModel{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Update("active", false)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("revoke api key: %w", err)
	}
	return affected > 0, nil
}

func apiKeyToDomain(model apiKeyModel) domain.APIKey {
	return domain.APIKey{
		ID:           model.ID,
		OwnerID:      model.OwnerID,
		Name:         model.Name,
		TokenHash:    model.TokenHash,
		TokenHint:    model.TokenHint,
		Active:       model.Active,
		RateLimit:    model.RateLimit,
		ExpiresAt:    model.ExpiresAt,
		CreatedAt:    model.CreatedAt,
		RequestCount: model.RequestCount,
	}
}
