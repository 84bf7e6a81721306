// Package events contains outward-facing event sinks that are not webhooks.
package events

import (
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

// LogNotifier satisfies the dashboard push port by writing structured log
// lines. A realtime socket layer can replace it without touching the core.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyUser(ownerID string, event string, data map[string]any) {
	n.logger.Info("ui notify",
		zap.String("owner_id", ownerID),
		zap.String("event", event),
		zap.Any("data", data))
}

var _ ports.UINotifier = (*LogNotifier)(nil)
