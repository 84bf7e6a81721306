package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/app"
)

func main() {
	cmd := &cli.Command{
		Name:  "wahub",
		Usage: "Multi-tenant WhatsApp gateway with webhook fan-out",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Value: "./wahub.sqlite",
				Usage: "SQLite file path",
			},
			&cli.StringFlag{
				Name:    "bootstrap-api-key",
				Sources: cli.EnvVars("WAHUB_BOOTSTRAP_API_KEY"),
				Usage:   "Optional API key to insert at startup",
			},
			&cli.StringFlag{
				Name:    "bootstrap-owner",
				Value:   "default",
				Sources: cli.EnvVars("WAHUB_BOOTSTRAP_OWNER"),
				Usage:   "Owner for bootstrap API key",
			},
			&cli.StringFlag{
				Name:    "bootstrap-key-name",
				Value:   "bootstrap",
				Sources: cli.EnvVars("WAHUB_BOOTSTRAP_KEY_NAME"),
				Usage:   "Name for bootstrap API key",
			},
			&cli.IntFlag{
				Name:    "webhook-max-attempts",
				Value:   3,
				Sources: cli.EnvVars("WAHUB_WEBHOOK_MAX_ATTEMPTS"),
				Usage:   "Delivery attempts per webhook registration",
			},
			&cli.DurationFlag{
				Name:    "webhook-attempt-timeout",
				Value:   10 * time.Second,
				Sources: cli.EnvVars("WAHUB_WEBHOOK_ATTEMPT_TIMEOUT"),
				Usage:   "Timeout for a single webhook delivery attempt",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Verbose development logging",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, err := newLogger(c.Bool("debug"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			cfg := app.Config{
				Addr:                  c.String("addr"),
				DBPath:                c.String("db-path"),
				BootstrapAPIKey:       c.String("bootstrap-api-key"),
				BootstrapOwner:        c.String("bootstrap-owner"),
				BootstrapKeyName:      c.String("bootstrap-key-name"),
				WebhookMaxAttempts:    int(c.Int("webhook-max-attempts")),
				WebhookAttemptTimeout: c.Duration("webhook-attempt-timeout"),
			}

			server, closer, err := app.NewServer(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					logger.Warn("close resources", zap.Error(closeErr))
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", cfg.Addr))
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				logger.Info("received signal", zap.String("signal", sig.String()))
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
