package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/journal"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// Tick results reported to metrics
const (
	TickOK        = "ok"
	TickNoJournal = "no_journal"
	TickConflict  = "conflict"
	TickPanic     = "panic"
)

// Clipboard receives the next system name
type Clipboard interface {
	Copy(text string) error
}

// Poller runs the fixed-interval tracking loop. It is the only writer of the
// observed and progression parts of the state.
type Poller struct {
	source    journal.Source
	ticker    *Ticker
	store     *Store
	clipboard Clipboard
	logger    logging.ActivityLogger
	clock     shared.Clock
	interval  time.Duration

	journalMissing bool

	lastMu     sync.Mutex
	lastTick   time.Time
	lastResult string
}

// TickStatus describes the most recent tick
type TickStatus struct {
	At     time.Time
	Result string
}

// NewPoller creates a poller. If clock is nil, uses RealClock.
func NewPoller(
	source journal.Source,
	ticker *Ticker,
	store *Store,
	clipboard Clipboard,
	logger logging.ActivityLogger,
	clock shared.Clock,
	interval time.Duration,
) *Poller {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Poller{
		source:    source,
		ticker:    ticker,
		store:     store,
		clipboard: clipboard,
		logger:    logger,
		clock:     clock,
		interval:  interval,
	}
}

// Run polls until the store's exiting flag is set or ctx is cancelled. Both are
// checked around each tick, so a tick in progress always finishes.
func (p *Poller) Run(ctx context.Context) {
	for !p.stopping(ctx) {
		p.RunOnce(ctx)

		if p.stopping(ctx) {
			return
		}
		p.clock.Sleep(p.interval)
	}
}

func (p *Poller) stopping(ctx context.Context) bool {
	return p.store.Exiting() || ctx.Err() != nil
}

// RunOnce performs a single tick and returns its result. Panics are recovered
// and abandon the tick.
func (p *Poller) RunOnce(ctx context.Context) (result string) {
	start := p.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			result = TickPanic
			p.logger.Log(logging.LevelError, fmt.Sprintf("Poll tick abandoned: %v", r), nil)
		}
		end := p.clock.Now()
		metrics.RecordPollTick(result, end.Sub(start).Seconds())
		p.lastMu.Lock()
		p.lastTick, p.lastResult = end, result
		p.lastMu.Unlock()
	}()

	base := p.store.Snapshot()

	snapshot, err := p.source.Snapshot(ctx)
	if err != nil {
		p.reportJournalError(err)
		return TickNoJournal
	}
	if p.journalMissing {
		p.journalMissing = false
		p.logger.Log(logging.LevelInfo, fmt.Sprintf("Reading game log from %s", snapshot.Path), nil)
	}

	next, effects := p.ticker.Tick(ctx, base, snapshot)

	if !p.store.Commit(next, base.Revision) {
		return TickConflict
	}

	p.apply(ctx, effects)
	if next.HasRoute() {
		metrics.SetRouteProgress(next.Outcome.ProgressPercent())
	}
	return TickOK
}

// LastTick returns the time and result of the latest tick; zero before the first
func (p *Poller) LastTick() TickStatus {
	p.lastMu.Lock()
	defer p.lastMu.Unlock()
	return TickStatus{At: p.lastTick, Result: p.lastResult}
}

// Interval returns the delay between ticks
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// reportJournalError logs the first failure of a streak; later ones are silent
// and the last known state stays on display.
func (p *Poller) reportJournalError(err error) {
	if p.journalMissing {
		return
	}
	p.journalMissing = true

	var unavailable *shared.LogUnavailableError
	if errors.As(err, &unavailable) {
		p.logger.Log(logging.LevelWarning, "Game logs not found", map[string]interface{}{"path": unavailable.Path})
		return
	}
	p.logger.Log(logging.LevelWarning, fmt.Sprintf("Could not read game log: %v", err), nil)
}

func (p *Poller) apply(ctx context.Context, effects Effects) {
	for _, effect := range effects {
		switch effect.Kind {
		case EffectLog:
			p.logger.Log(effect.Level, effect.Message, nil)
		case EffectCopy:
			if err := p.clipboard.Copy(effect.System); err != nil {
				p.logger.Log(logging.LevelError, fmt.Sprintf("Could not copy system %s to clipboard: %v", effect.System, err), nil)
				p.store.RevertCopy(effect.System, effect.Previous)
				continue
			}
			metrics.RecordClipboardCopy()
			p.logger.Log(logging.LevelInfo, fmt.Sprintf("Copied system %s to clipboard", effect.System), nil)
		case EffectRouteCompleted:
			metrics.RecordRouteEvent("completed")
			metrics.SetRouteProgress(100)
		}
	}

	if effects.Has(EffectPersist) {
		if err := p.store.Persist(ctx); err != nil {
			p.logger.Log(logging.LevelError, err.Error(), nil)
		}
	}
}
