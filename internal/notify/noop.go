package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendLossAlert logs and discards a loss alert.
func (n *NoOpNotifier) SendLossAlert(_ context.Context, alert *LossAlert) error {
	n.log.Debug("loss alert discarded (no backend configured)",
		"calc_type", alert.CalcType,
		"platform", alert.Platform,
		"profit", alert.Profit,
	)
	return nil
}
