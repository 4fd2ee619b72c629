package calculation

import (
	"sync"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
	"github.com/andrescamacho/neutron-assistant-go/pkg/utils"
)

// Calculation is one user-requested route computation.
// It runs on its own goroutine, outside the poller.
//
// Lifecycle Integration:
// - Uses LifecycleStateMachine for PENDING → RUNNING → COMPLETED/FAILED
// - Records whether the route came from the cache and how many hops it has
type Calculation struct {
	mu sync.RWMutex

	id   string
	kind route.Kind
	from string
	to   string

	lifecycle *shared.LifecycleStateMachine

	cacheHit bool
	hops     int
}

// NewCalculation creates a pending calculation.
// If clock is nil, uses RealClock.
func NewCalculation(kind route.Kind, from, to string, clock shared.Clock) *Calculation {
	return &Calculation{
		id:        utils.GenerateCalculationID(kind.String(), from, to),
		kind:      kind,
		from:      from,
		to:        to,
		lifecycle: shared.NewLifecycleStateMachine(clock),
	}
}

func (c *Calculation) ID() string       { return c.id }
func (c *Calculation) Kind() route.Kind { return c.kind }
func (c *Calculation) From() string     { return c.from }
func (c *Calculation) To() string       { return c.to }

func (c *Calculation) Status() shared.LifecycleStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.Status()
}

func (c *Calculation) CreatedAt() time.Time {
	return c.lifecycle.CreatedAt()
}

func (c *Calculation) StartedAt() *time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.StartedAt()
}

func (c *Calculation) StoppedAt() *time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.StoppedAt()
}

func (c *Calculation) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.LastError()
}

func (c *Calculation) CacheHit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cacheHit
}

func (c *Calculation) Hops() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hops
}

func (c *Calculation) IsFinished() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.IsFinished()
}

// Duration returns how long the calculation has been running
func (c *Calculation) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.RuntimeDuration()
}

// Start transitions the calculation to RUNNING
func (c *Calculation) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycle.Start()
}

// Complete records the loaded route size and finishes the calculation
func (c *Calculation) Complete(hops int, cacheHit bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lifecycle.Complete(); err != nil {
		return err
	}
	c.hops = hops
	c.cacheHit = cacheHit
	return nil
}

// Fail finishes the calculation with err
func (c *Calculation) Fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycle.Fail(err)
}
