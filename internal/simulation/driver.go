package simulation

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/mkuznetsov/home-sentry/internal/logger"
	"github.com/mkuznetsov/home-sentry/internal/service/panel"
)

// Panel abstracts the panel operations the driver depends on.
type Panel interface {
	SimulationEnabled() bool
	SensorIDs() []int
	TriggerSensor(ctx context.Context, id int, forcedState string) error
}

// Driver fires random sensor events at random intervals.
type Driver struct {
	// panel receives the simulated triggers.
	panel Panel
	// minInterval is the shortest delay between events.
	minInterval time.Duration
	// maxInterval is the longest delay between events.
	maxInterval time.Duration
	// rng drives interval and sensor selection.
	rng *rand.Rand
}

// Option configures the driver.
type Option func(*Driver)

// WithRand overrides the random source, used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) {
		if rng != nil {
			d.rng = rng
		}
	}
}

// NewDriver creates a driver firing between minInterval and maxInterval.
func NewDriver(panel Panel, minInterval, maxInterval time.Duration, opts ...Option) *Driver {
	d := &Driver{
		panel:       panel,
		minInterval: minInterval,
		maxInterval: maxInterval,
		//nolint:gosec // Non-cryptographic randomness is fine for simulation.
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run blocks, firing events until the context is canceled. Ticks while the
// simulation flag is off are skipped, which is how disabling the simulation
// halts future timer-driven calls without canceling anything in flight.
func (d *Driver) Run(ctx context.Context) {
	ctx = logger.WithName(ctx, "simulation")

	logger.InfoKV(ctx, "Simulation driver started",
		"min_interval", d.minInterval, "max_interval", d.maxInterval)

	timer := time.NewTimer(d.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Simulation driver stopped")

			return
		case <-timer.C:
			d.tick(ctx)
			timer.Reset(d.nextInterval())
		}
	}
}

// Tick fires a single simulated event if the simulation flag is on.
// Exported so tests can drive the loop without real timers.
func (d *Driver) Tick(ctx context.Context) {
	d.tick(ctx)
}

// tick picks a random sensor and triggers it.
func (d *Driver) tick(ctx context.Context) {
	if !d.panel.SimulationEnabled() {
		return
	}

	ids := d.panel.SensorIDs()
	if len(ids) == 0 {
		return
	}

	id := ids[d.rng.Intn(len(ids))]

	if err := d.panel.TriggerSensor(ctx, id, ""); err != nil && !errors.Is(err, panel.ErrSensorNotFound) {
		logger.WarnKV(ctx, "Simulated trigger failed", "sensor_id", id, "error", err)
	}
}

// nextInterval draws a delay within the configured bounds.
func (d *Driver) nextInterval() time.Duration {
	if d.maxInterval <= d.minInterval {
		return d.minInterval
	}

	return d.minInterval + time.Duration(d.rng.Int63n(int64(d.maxInterval-d.minInterval)))
}
