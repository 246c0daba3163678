package calc

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rwxiao/shop-pricer/internal/notify"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// LowPriceMode selects the direction a LowPriceSession computes in.
type LowPriceMode string

// Low-price session modes.
const (
	ModeForward  LowPriceMode = "forward"  // from the supply price
	ModeBackward LowPriceMode = "backward" // from a target final price
)

// LowPriceSession is the reactive state of one low-price entry calculation.
// It runs forward from the supply price or backward from a target final
// price; switching modes drops the derived fields of the other mode so a
// stale listing price never survives a direction change.
type LowPriceSession struct {
	saver    RecordSaver
	notifier notify.Notifier
	log      *slog.Logger
	debounce *Debouncer

	mu     sync.Mutex
	mode   LowPriceMode
	input  pricing.LowPriceInput
	result pricing.LowPriceResult
	ok     bool
}

// NewLowPriceSession creates a low-price session in forward mode.
func NewLowPriceSession(saver RecordSaver, opts ...SessionOption) *LowPriceSession {
	c := newSessionConfig(opts)
	return &LowPriceSession{
		saver:    saver,
		notifier: c.notifier,
		log:      c.log,
		debounce: NewDebouncer(c.debounce),
		mode:     ModeForward,
	}
}

// SetSupplyPrice updates the supply price and recomputes.
func (s *LowPriceSession) SetSupplyPrice(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.SupplyPrice = v
	s.recompute()
}

// SetTargetFinalPrice sets the target final price and switches the session
// to backward mode.
func (s *LowPriceSession) SetTargetFinalPrice(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.TargetFinalPrice = v
	s.mode = ModeBackward
	s.recompute()
}

// SetFlashEnabled toggles the limited-time discount and recomputes.
func (s *LowPriceSession) SetFlashEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input.FlashEnabled = on
	s.recompute()
}

// SetMode switches the computation direction. Entering forward mode clears
// the target; entering backward mode keeps it.
func (s *LowPriceSession) SetMode(m LowPriceMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == s.mode {
		return
	}
	s.mode = m
	if m == ModeForward {
		s.input.TargetFinalPrice = 0
	}
	s.recompute()
}

// Snapshot returns the current mode, input, and result. The result is only
// meaningful when ok is true.
func (s *LowPriceSession) Snapshot() (LowPriceMode, pricing.LowPriceInput, pricing.LowPriceResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode, s.input, s.result, s.ok
}

// Close cancels any pending save.
func (s *LowPriceSession) Close() {
	s.debounce.Stop()
}

// Callers hold s.mu.
func (s *LowPriceSession) recompute() {
	if s.mode == ModeBackward {
		s.result, s.ok = pricing.SolveLowPrice(s.input)
	} else {
		s.result, s.ok = pricing.ComputeLowPrice(s.input)
	}
	if !s.ok {
		s.result = pricing.LowPriceResult{}
		return
	}
	s.debounce.Arm(s.save)
}

func (s *LowPriceSession) save() {
	s.mu.Lock()
	in, res, ok := s.input, s.result, s.ok
	s.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	r := &domain.HistoryRecord{
		Type:         domain.CalcLowPrice,
		SupplyPrice:  in.SupplyPrice,
		TargetPrice:  in.TargetFinalPrice,
		ListingPrice: res.ListingPrice,
		CouponAmount: res.NewUserCoupon,
		FinalPrice:   res.FinalPrice,
		PlatformFee:  res.PlatformFee,
		Profit:       res.Profit,
		ProfitRate:   res.ProfitRate,
	}

	if err := s.saver.AppendRecord(ctx, r); err != nil {
		s.log.Error("saving low-price record failed", "error", err)
		return
	}

	if res.Profit < 0 {
		alert := &notify.LossAlert{
			CalcType:    domain.CalcLowPrice,
			Platform:    domain.PlatformDouyin,
			SupplyPrice: in.SupplyPrice,
			SellPrice:   res.FinalPrice,
			Profit:      res.Profit,
			ProfitRate:  res.ProfitRate / 100,
		}
		if err := s.notifier.SendLossAlert(ctx, alert); err != nil {
			s.log.Error("sending loss alert failed", "error", err)
		}
	}
}
