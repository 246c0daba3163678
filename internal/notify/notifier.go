// Package notify defines the notification interface and implementations
// for loss alert delivery.
package notify

import (
	"context"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// LossAlert contains the data needed to send a negative-profit notification.
// It is emitted when a saved calculation would sell below cost.
type LossAlert struct {
	CalcType    domain.CalcType
	Platform    domain.Platform
	SupplyPrice float64
	SellPrice   float64
	Profit      float64
	ProfitRate  float64
}

// Notifier defines the interface for sending loss alert notifications.
type Notifier interface {
	SendLossAlert(ctx context.Context, alert *LossAlert) error
}
