package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/adapters/events"
	"github.com/atvirokodosprendimai/wahub/internal/adapters/httpapi"
	sqliteadapter "github.com/atvirokodosprendimai/wahub/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/wahub/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/wahub/internal/adapters/whatsapp"
	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/usecase"
	"github.com/atvirokodosprendimai/wahub/migrations"
)

type Config struct {
	Addr   string
	DBPath string

	// Bootstrap key lets a fresh deployment authenticate before any tenant
	// exists. Applied idempotently on startup.
	BootstrapAPIKey  string
	BootstrapOwner   string
	BootstrapKeyName string

	WebhookMaxAttempts    int
	WebhookAttemptTimeout time.Duration
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config, logger *zap.Logger) (*http.Server, io.Closer, error) {
	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	apiKeyRepo := sqliteadapter.NewAPIKeyRepository(db)
	sessionRepo := sqliteadapter.NewSessionRepository(db)
	webhookRepo := sqliteadapter.NewWebhookRepository(db)
	auditRepo := sqliteadapter.NewDeliveryLogRepository(db)

	notifier := usecase.NewNotifier(webhookRepo, auditRepo, usecase.NotifierConfig{
		MaxAttempts:    cfg.WebhookMaxAttempts,
		AttemptTimeout: cfg.WebhookAttemptTimeout,
	}, logger)

	// Inbound transport events feed the same fan-out path as sends.
	factory := whatsapp.NewMockFactory(func(event domain.OutboundEvent) {
		notifier.Dispatch(event)
	})
	registry := usecase.NewClientRegistry(factory)

	admission := usecase.NewAdmissionService(apiKeyRepo)
	dispatcher := usecase.NewDispatcher(sessionRepo, registry, logger)
	sessionService := usecase.NewSessionService(sessionRepo, registry, logger)
	keyService := usecase.NewAPIKeyService(apiKeyRepo, logger)
	webhookService := usecase.NewWebhookService(webhookRepo, logger)
	statsService := usecase.NewStatsService(sessionRepo, apiKeyRepo, webhookRepo)

	if cfg.BootstrapAPIKey != "" {
		if err := bootstrapAPIKey(ctx, apiKeyRepo, cfg); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("bootstrap api key: %w", err)
		}
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Admission:  admission,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Sessions:   sessionService,
		Keys:       keyService,
		Webhooks:   webhookService,
		Stats:      statsService,
		Audit:      auditRepo,
		UI:         events.NewLogNotifier(logger),
		Logger:     logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{notifier, db}}, nil
}

// bootstrapAPIKey inserts the configured key unless its hash already exists,
// so restarts do not trip the unique constraint.
func bootstrapAPIKey(ctx context.Context, repo *sqliteadapter.APIKeyRepository, cfg Config) error {
	owner := cfg.BootstrapOwner
	if owner == "" {
		owner = "default"
	}
	name := cfg.BootstrapKeyName
	if name == "" {
		name = "bootstrap"
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hash := usecase.HashToken(cfg.BootstrapAPIKey)
	_, err := repo.FindByTokenHash(ctx, hash)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	_, err = repo.Create(ctx, domain.APIKey{
		OwnerID:   owner,
		Name:      name,
		TokenHash: hash,
		TokenHint: usecase.MaskToken(cfg.BootstrapAPIKey),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	return err
}
