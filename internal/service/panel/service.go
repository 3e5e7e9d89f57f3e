package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
	"github.com/mkuznetsov/home-sentry/internal/logger"
	"github.com/mkuznetsov/home-sentry/internal/metrics"
	repo "github.com/mkuznetsov/home-sentry/internal/repository/snapshot"
)

// Clock supplies current timestamps; injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

// systemClock is the wall-clock Clock used outside tests.
type systemClock struct{}

// Now returns the current wall-clock time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// Notifier receives the fresh panel status after every successful command.
// The WebSocket hub implements it to push live updates to dashboards.
type Notifier interface {
	StatusChanged(status *domain.Status)
}

// ErrSensorNotFound is returned when a sensor command names an unknown id.
// The panel state is left untouched in that case.
var ErrSensorNotFound = errors.New("sensor not found")

// Service encapsulates the panel business logic and persistence orchestration.
type Service struct {
	// repo handles persistent storage of the panel snapshot.
	repo repo.Repository
	// clock supplies timestamps for events and journal entries.
	clock Clock
	// notifier is told about every state change; may be nil.
	notifier Notifier

	// mu protects all mutable panel state below.
	mu sync.Mutex
	// sensors is the registry, exclusively owned by the service.
	sensors []*domain.Sensor
	// journal is the bounded human-readable panel log.
	journal *domain.Journal
	// armed indicates whether abnormal transitions activate the alarm.
	armed bool
	// alarmOn indicates whether the alarm is currently ringing.
	alarmOn bool
	// simulationOn gates the random event driver.
	simulationOn bool
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the wall clock, used by tests.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNotifier registers a status change listener.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// NewService creates a panel backed by the provided repository, restoring the
// persisted snapshot or falling back to the documented defaults. Load
// failures are recovered locally and never surfaced to the caller.
func NewService(ctx context.Context, repository repo.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repository,
		clock: systemClock{},
	}

	for _, opt := range opts {
		opt(s)
	}

	snapshot := domain.DefaultSnapshot()

	if repository != nil {
		loaded, err := repository.Load(ctx)
		switch {
		case err == nil && loaded != nil:
			snapshot = loaded
		case errors.Is(err, repo.ErrNotFound):
			// First run, keep defaults.
		case err != nil:
			logger.WarnKV(ctx, "Snapshot unreadable, starting from defaults", "error", err)
		}
	}

	s.sensors = snapshot.Sensors
	s.armed = snapshot.Armed
	s.journal = domain.NewJournal(snapshot.Logs)

	metrics.SetPanelState(s.armed, s.alarmOn, s.simulationOn)

	return s
}

// Arm enables the arming-check rule for subsequent sensor transitions.
// Sensors already in an abnormal state do not trigger the alarm
// retroactively; only the next transition does.
func (s *Service) Arm(ctx context.Context) {
	s.mu.Lock()

	s.armed = true
	s.pushLogLocked("System armed")
	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("arm")
	logger.Info(ctx, "System armed")
	s.notify(status)
}

// Disarm disables the arming-check rule and silences a ringing alarm.
func (s *Service) Disarm(ctx context.Context) {
	s.mu.Lock()

	s.armed = false
	s.alarmOn = false
	s.pushLogLocked("System disarmed")
	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("disarm")
	logger.Info(ctx, "System disarmed")
	s.notify(status)
}

// TriggerSensor processes an external or simulated event on the sensor.
//
// If the alarm is currently ringing the call is reinterpreted as a silence
// action: the alarm stops and the sensor state is left unchanged. Otherwise
// the sensor transitions to forcedState when provided, or to its toggled
// state, the transition is journaled and recorded in the sensor history, and
// the arming-check rule may activate the alarm.
//
// An empty forcedState means no forced target. Unknown ids return
// ErrSensorNotFound and leave the panel untouched.
func (s *Service) TriggerSensor(ctx context.Context, id int, forcedState string) error {
	s.mu.Lock()

	sensor := s.findSensorLocked(id)
	if sensor == nil {
		s.mu.Unlock()

		return ErrSensorNotFound
	}

	name := sensor.Name

	// Silence-on-retrigger takes absolute precedence over transition logic.
	// The flag is read before any sensor mutation.
	if s.alarmOn {
		s.alarmOn = false
		s.pushLogLocked("Alarm stopped manually via " + name)
		s.persistLocked(ctx)

		status := s.statusLocked()
		s.mu.Unlock()

		metrics.ObserveCommand("trigger")
		logger.InfoKV(ctx, "Alarm stopped manually", "sensor", name)
		s.notify(status)

		return nil
	}

	nextState := forcedState
	if nextState == "" {
		nextState = sensor.Type.Toggle(sensor.State)
	}

	now := s.clock.Now()

	sensor.RecordEvent(domain.Event{
		Time: now,
		Type: nextState,
		Note: name + " → " + nextState,
	})

	s.pushLogAtLocked(name+" — "+nextState, now)

	sensor.State = nextState
	sensor.LastEventTime = now

	triggered := s.armed && domain.IsAbnormal(nextState)
	if triggered {
		s.alarmOn = true
		s.pushLogAtLocked("ALARM TRIGGERED: "+name+" detected activity while system armed", now)
	}

	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("trigger")

	if triggered {
		metrics.AlarmTriggered()
		logger.WarnKV(ctx, "Alarm triggered", "sensor", name, "state", nextState)
	} else {
		logger.DebugKV(ctx, "Sensor transitioned", "sensor", name, "state", nextState)
	}

	s.notify(status)

	return nil
}

// AcknowledgeSensor resets the sensor to its normal state and silences the
// alarm unconditionally, regardless of the armed flag.
func (s *Service) AcknowledgeSensor(ctx context.Context, id int) error {
	s.mu.Lock()

	sensor := s.findSensorLocked(id)
	if sensor == nil {
		s.mu.Unlock()

		return ErrSensorNotFound
	}

	name := sensor.Name

	sensor.State = sensor.Type.NormalState()
	s.alarmOn = false
	s.pushLogLocked("Acknowledged " + name)
	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("acknowledge")
	logger.InfoKV(ctx, "Sensor acknowledged", "sensor", name)
	s.notify(status)

	return nil
}

// ToggleAlarm flips the alarm directly, independent of the armed flag.
func (s *Service) ToggleAlarm(ctx context.Context) {
	s.mu.Lock()

	s.alarmOn = !s.alarmOn
	if s.alarmOn {
		s.pushLogLocked("Alarm sounded")
	} else {
		s.pushLogLocked("Alarm silenced")
	}

	s.persistLocked(ctx)

	alarmOn := s.alarmOn
	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("toggle_alarm")
	logger.InfoKV(ctx, "Alarm toggled", "alarm_on", alarmOn)
	s.notify(status)
}

// ClearLogs empties the journal and records the clear itself, so the journal
// is never truly empty after the command.
func (s *Service) ClearLogs(ctx context.Context) {
	s.mu.Lock()

	s.journal.Clear()
	s.pushLogLocked("Cleared logs")
	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("clear_logs")
	logger.Info(ctx, "Journal cleared")
	s.notify(status)
}

// SetSimulationEnabled gates the random event driver.
func (s *Service) SetSimulationEnabled(ctx context.Context, enabled bool) {
	s.mu.Lock()

	s.simulationOn = enabled
	if enabled {
		s.pushLogLocked("Simulation enabled")
	} else {
		s.pushLogLocked("Simulation disabled")
	}

	s.persistLocked(ctx)

	status := s.statusLocked()
	s.mu.Unlock()

	metrics.ObserveCommand("set_simulation")
	logger.InfoKV(ctx, "Simulation toggled", "enabled", enabled)
	s.notify(status)
}

// SimulationEnabled reports whether the random event driver should fire.
func (s *Service) SimulationEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.simulationOn
}

// SensorIDs returns the ids of all registered sensors in registry order.
func (s *Service) SensorIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.sensors))
	for i, sensor := range s.sensors {
		ids[i] = sensor.ID
	}

	return ids
}

// Status returns a deep copy of the current panel state.
func (s *Service) Status() *domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.statusLocked()
}

// Close persists a final snapshot. Used on graceful shutdown.
func (s *Service) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistLocked(ctx)
}

// findSensorLocked returns the sensor with the given id or nil.
func (s *Service) findSensorLocked(id int) *domain.Sensor {
	for _, sensor := range s.sensors {
		if sensor.ID == id {
			return sensor
		}
	}

	return nil
}

// pushLogLocked journals a message stamped with the current clock time.
func (s *Service) pushLogLocked(message string) {
	s.pushLogAtLocked(message, s.clock.Now())
}

// pushLogAtLocked journals a message with an explicit timestamp.
func (s *Service) pushLogAtLocked(message string, at time.Time) {
	s.journal.Push(message, at)
}

// snapshotLocked assembles the persistence unit from the owned state.
func (s *Service) snapshotLocked() *domain.Snapshot {
	snapshot := &domain.Snapshot{
		Sensors: s.sensors,
		Armed:   s.armed,
		Logs:    s.journal.Entries(),
	}

	return snapshot.Clone()
}

// statusLocked assembles the read-side view of the panel.
func (s *Service) statusLocked() *domain.Status {
	return &domain.Status{
		Snapshot:     *s.snapshotLocked(),
		AlarmOn:      s.alarmOn,
		SimulationOn: s.simulationOn,
	}
}

// persistLocked writes the snapshot best-effort; failures are logged and
// swallowed, the in-memory state stays authoritative for the session.
func (s *Service) persistLocked(ctx context.Context) {
	metrics.SetPanelState(s.armed, s.alarmOn, s.simulationOn)

	if s.repo == nil {
		return
	}

	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		logger.WarnKV(ctx, "Failed to persist snapshot", "error", err)
	}
}

// notify pushes the status to the registered listener, if any.
func (s *Service) notify(status *domain.Status) {
	if s.notifier != nil {
		s.notifier.StatusChanged(status)
	}
}
