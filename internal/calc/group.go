package calc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rwxiao/shop-pricer/internal/notify"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// DefaultDebounce is the quiet window before a session persists a snapshot.
const DefaultDebounce = 2 * time.Second

const saveTimeout = 5 * time.Second

// GroupSession is the reactive state of one group-buy calculation. Every
// setter recomputes the full result; a valid result arms a debounced save
// so a burst of edits lands as a single history record.
type GroupSession struct {
	saver    RecordSaver
	notifier notify.Notifier
	log      *slog.Logger
	debounce *Debouncer

	mu     sync.Mutex
	input  pricing.GroupInput
	result pricing.GroupResult
	ok     bool
}

// SessionOption configures a session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	log      *slog.Logger
	notifier notify.Notifier
	debounce time.Duration
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.log = l
	}
}

// WithNotifier sets the loss-alert notifier.
func WithNotifier(n notify.Notifier) SessionOption {
	return func(c *sessionConfig) {
		c.notifier = n
	}
}

// WithDebounce sets the quiet window before a snapshot is saved.
func WithDebounce(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.debounce = d
	}
}

func newSessionConfig(opts []SessionOption) sessionConfig {
	c := sessionConfig{
		log:      slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.notifier == nil {
		c.notifier = notify.NewNoOpNotifier(c.log)
	}
	return c
}

// NewGroupSession creates a group-buy session that saves through saver.
func NewGroupSession(saver RecordSaver, opts ...SessionOption) *GroupSession {
	c := newSessionConfig(opts)
	return &GroupSession{
		saver:    saver,
		notifier: c.notifier,
		log:      c.log,
		debounce: NewDebouncer(c.debounce),
	}
}

// SetSupplyPrice updates the supply price and recomputes.
func (s *GroupSession) SetSupplyPrice(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.SupplyPrice = v
	s.recompute()
}

// SetGroupPrice updates the group price and recomputes.
func (s *GroupSession) SetGroupPrice(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.GroupPrice = v
	s.recompute()
}

// SetPriceAddition updates the single-buy addition and recomputes.
func (s *GroupSession) SetPriceAddition(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.PriceAddition = v
	s.recompute()
}

// SetMarketMaxPrice updates the market price cap and recomputes.
func (s *GroupSession) SetMarketMaxPrice(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.MarketMaxPrice = v
	s.recompute()
}

// SetPriceByProfitRate solves the group price for the target profit rate
// and recomputes everything from the solved price, exactly as if the user
// had typed it. Returns the solved price and whether the market cap bound
// it. Without a supply price it is a no-op.
func (s *GroupSession) SetPriceByProfitRate(rate float64) (price float64, capped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, capped = pricing.PriceForProfitRate(s.input.SupplyPrice, rate, s.input.MarketMaxPrice)
	if price <= 0 {
		return 0, false
	}

	s.input.GroupPrice = price
	s.recompute()
	return price, capped
}

// Snapshot returns the current input and result. The result is only
// meaningful when ok is true.
func (s *GroupSession) Snapshot() (pricing.GroupInput, pricing.GroupResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.input, s.result, s.ok
}

// Tiers returns the profit-rate ladder for the current input.
func (s *GroupSession) Tiers() []pricing.ProfitTier {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pricing.ProfitTiers(s.input.SupplyPrice, s.input.MarketMaxPrice)
}

// Close cancels any pending save.
func (s *GroupSession) Close() {
	s.debounce.Stop()
}

// recompute derives the result from the input and arms the debounced save
// when the result is valid. Callers hold s.mu.
func (s *GroupSession) recompute() {
	s.result, s.ok = pricing.ComputeGroup(s.input)
	if !s.ok {
		return
	}
	s.debounce.Arm(s.save)
}

func (s *GroupSession) save() {
	s.mu.Lock()
	in, res, ok := s.input, s.result, s.ok
	s.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	r := &domain.HistoryRecord{
		Type:           domain.CalcGroup,
		SupplyPrice:    in.SupplyPrice,
		GroupPrice:     in.GroupPrice,
		PriceAddition:  in.PriceAddition,
		MarketMaxPrice: in.MarketMaxPrice,
		BackendPrice:   res.BackendPrice,
		SinglePrice:    res.SinglePrice,
		DiscountPrice:  res.DiscountPrice,
		PlatformFee:    res.GroupPlatformFee,
		Profit:         res.GroupProfit,
		ProfitRate:     res.ProfitRate,
	}

	if err := s.saver.AppendRecord(ctx, r); err != nil {
		s.log.Error("saving group record failed", "error", err)
		return
	}

	if res.GroupProfit < 0 {
		alert := &notify.LossAlert{
			CalcType:    domain.CalcGroup,
			Platform:    domain.PlatformPDD,
			SupplyPrice: in.SupplyPrice,
			SellPrice:   in.GroupPrice,
			Profit:      res.GroupProfit,
			ProfitRate:  res.ProfitRate,
		}
		if err := s.notifier.SendLossAlert(ctx, alert); err != nil {
			s.log.Error("sending loss alert failed", "error", err)
		}
	}
}
