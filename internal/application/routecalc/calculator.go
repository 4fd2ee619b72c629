package routecalc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/logging"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/tracker"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/calculation"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// maxHistory bounds the calculations kept for ListCalculationsQuery
const maxHistory = 20

// planFunc asks a planner for a route
type planFunc func(ctx context.Context) (*route.Route, error)

// Calculator runs route calculations in the background, one per route kind at a
// time, and loads the results into the store. Calculations outlive the request
// that started them and are cancelled only by Shutdown.
type Calculator struct {
	store  *tracker.Store
	cache  RouteCache
	clock  shared.Clock
	logger logging.ActivityLogger

	mu       sync.Mutex
	inFlight map[route.Kind]bool
	history  []*calculation.Calculation

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCalculator creates a calculator. cache may be nil to always ask the planners.
func NewCalculator(store *tracker.Store, cache RouteCache, logger logging.ActivityLogger, clock shared.Clock) *Calculator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Calculator{
		store:    store,
		cache:    cache,
		clock:    clock,
		logger:   logger,
		inFlight: make(map[route.Kind]bool),
		base:     base,
		cancel:   cancel,
	}
}

// Wait blocks until every background calculation has finished
func (c *Calculator) Wait() {
	c.wg.Wait()
}

// Shutdown cancels running calculations and waits for them to return, or for
// ctx to expire.
func (c *Calculator) Shutdown(ctx context.Context) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("route calculations still running: %w", ctx.Err())
	}
}

// History returns the most recent calculations, oldest first
func (c *Calculator) History() []*calculation.Calculation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*calculation.Calculation(nil), c.history...)
}

// start reserves the kind and launches the calculation. When wait is set it
// returns after the calculation finished; otherwise right after it started.
func (c *Calculator) start(ctx context.Context, kind route.Kind, from, to, cacheKey string, wait bool, plan planFunc) (*CalculationResponse, error) {
	calc, err := c.reserve(kind, from, to)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		runCtx, cancel := context.WithCancel(logging.WithLogger(context.WithoutCancel(ctx), c.logger))
		defer cancel()
		stop := context.AfterFunc(c.base, cancel)
		defer stop()
		c.run(runCtx, calc, cacheKey, plan)
	}()

	if wait {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return toResponse(calc), nil
}

func (c *Calculator) reserve(kind route.Kind, from, to string) (*calculation.Calculation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[kind] {
		return nil, shared.NewCalculationInProgressError(kind.String())
	}
	c.inFlight[kind] = true

	calc := calculation.NewCalculation(kind, from, to, c.clock)
	c.history = append(c.history, calc)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	return calc, nil
}

func (c *Calculator) release(kind route.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, kind)
}

func (c *Calculator) run(ctx context.Context, calc *calculation.Calculation, cacheKey string, plan planFunc) {
	defer c.release(calc.Kind())
	c.transitioned(calc, "start", calc.Start())

	r, cacheHit, err := c.resolve(ctx, calc, cacheKey, plan)
	if err == nil {
		err = c.load(ctx, r)
	}

	if err != nil {
		var serviceErr *shared.RouteServiceError
		if errors.As(err, &serviceErr) {
			c.logger.Log(logging.LevelError, fmt.Sprintf("ERROR OCCURRED: %s", serviceErr.Reason), nil)
		} else {
			c.logger.Log(logging.LevelError, fmt.Sprintf("Route calculation failed: %v", err), nil)
		}
		c.transitioned(calc, "fail", calc.Fail(err))
		metrics.RecordCalculation(calc.Kind().String(), "failed", calc.Duration().Seconds(), cacheHit)
		return
	}

	c.transitioned(calc, "complete", calc.Complete(r.Len(), cacheHit))
	metrics.RecordCalculation(calc.Kind().String(), "completed", calc.Duration().Seconds(), cacheHit)
}

// transitioned logs a rejected lifecycle transition
func (c *Calculator) transitioned(calc *calculation.Calculation, action string, err error) {
	if err == nil {
		return
	}
	c.logger.Log(logging.LevelWarning, fmt.Sprintf("Calculation %s could not %s: %v", calc.ID(), action, err), nil)
}

// resolve returns the cached route for cacheKey or asks the planner and caches its answer
func (c *Calculator) resolve(ctx context.Context, calc *calculation.Calculation, cacheKey string, plan planFunc) (*route.Route, bool, error) {
	if c.cache != nil {
		kind, records, found, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			c.logger.Log(logging.LevelWarning, fmt.Sprintf("Route cache unavailable: %v", err), nil)
		} else if found {
			c.logger.Log(logging.LevelInfo, "Found existing route, reading", nil)
			r, err := route.Decode(kind, records)
			return r, true, err
		}
	}

	c.logger.Log(logging.LevelInfo, "Route was not calculated before, requesting from API", nil)
	r, err := plan(ctx)
	if err != nil {
		return nil, false, err
	}
	c.logger.Log(logging.LevelInfo, "Route successfully received", nil)

	if c.cache != nil {
		records, err := r.Records()
		if err == nil {
			err = c.cache.Put(ctx, cacheKey, r.Kind().String(), records)
		}
		if err != nil {
			c.logger.Log(logging.LevelWarning, fmt.Sprintf("Could not save route: %v", err), nil)
		} else {
			c.logger.Log(logging.LevelInfo, "Route has been saved", nil)
		}
	}
	return r, false, nil
}

func (c *Calculator) load(ctx context.Context, r *route.Route) error {
	_, err := c.store.Update(ctx, func(state *assistant.State) error {
		state.LoadRoute(r)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordRouteEvent("loaded")
	c.logger.Log(logging.LevelInfo, fmt.Sprintf("Loaded route of %d systems", r.Len()), nil)
	return nil
}

func toResponse(calc *calculation.Calculation) *CalculationResponse {
	response := &CalculationResponse{
		CalculationID: calc.ID(),
		Kind:          calc.Kind().String(),
		Status:        string(calc.Status()),
		Hops:          calc.Hops(),
		CacheHit:      calc.CacheHit(),
		DurationSecs:  calc.Duration().Seconds(),
	}
	if err := calc.LastError(); err != nil {
		response.Error = err.Error()
	}
	return response
}

func toSummary(calc *calculation.Calculation) CalculationSummary {
	summary := CalculationSummary{
		ID:        calc.ID(),
		Kind:      calc.Kind().String(),
		From:      calc.From(),
		To:        calc.To(),
		Status:    string(calc.Status()),
		Hops:      calc.Hops(),
		CacheHit:  calc.CacheHit(),
		CreatedAt: calc.CreatedAt(),
		StoppedAt: calc.StoppedAt(),
	}
	if err := calc.LastError(); err != nil {
		summary.Error = err.Error()
	}
	return summary
}
