package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention periodically re-enforces the history cap. Eviction on append is
// the primary mechanism; this job repairs a log grown by older writers and
// keeps the reported size honest.
type Retention struct {
	cron  *cron.Cron
	store Store
	log   *slog.Logger

	onPrune func(evicted, remaining int)
}

// RetentionOption configures a Retention job.
type RetentionOption func(*Retention)

// WithPruneCallback registers a hook invoked after each prune run,
// typically to refresh a metrics gauge.
func WithPruneCallback(fn func(evicted, remaining int)) RetentionOption {
	return func(r *Retention) {
		r.onPrune = fn
	}
}

// NewRetention creates a retention job that prunes the store every interval.
func NewRetention(s Store, interval time.Duration, log *slog.Logger, opts ...RetentionOption) (*Retention, error) {
	c := cron.New()

	r := &Retention{
		cron:  c,
		store: s,
		log:   log,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := c.AddFunc("@every "+interval.String(), r.run); err != nil {
		return nil, err
	}

	return r, nil
}

// Start begins the periodic pruning.
func (r *Retention) Start() {
	r.log.Info("history retention started")
	r.cron.Start()
}

// Stop stops the job, waiting for a running prune to finish.
func (r *Retention) Stop() context.Context {
	r.log.Info("history retention stopping")
	return r.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (r *Retention) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Retention) run() {
	ctx := context.Background()

	evicted, err := r.store.Prune(ctx)
	if err != nil {
		r.log.Error("history prune failed", "error", err)
		return
	}

	remaining, err := r.store.CountRecords(ctx)
	if err != nil {
		r.log.Error("history count failed", "error", err)
		return
	}

	if evicted > 0 {
		r.log.Info("history pruned", "evicted", evicted, "remaining", remaining)
	}
	if r.onPrune != nil {
		r.onPrune(evicted, remaining)
	}
}
