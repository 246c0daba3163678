package calc

import (
	"context"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// RecordSaver persists completed calculation snapshots. The history store
// satisfies it directly; the API client satisfies it for the CLI, where
// saves go over the wire instead of into a local file.
type RecordSaver interface {
	AppendRecord(ctx context.Context, r *domain.HistoryRecord) error
}
