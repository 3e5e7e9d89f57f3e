package security

// Snapshot is the unit of persistence: the full panel state written after
// every mutation and read once at startup. AlarmOn is deliberately absent —
// a ringing alarm does not survive a restart.
type Snapshot struct {
	// Sensors is the full sensor list in registry order.
	Sensors []*Sensor `json:"sensors"`
	// Armed indicates whether the panel reacts to abnormal transitions.
	Armed bool `json:"armed"`
	// Logs is the panel journal, newest first.
	Logs []LogEntry `json:"logs"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := &Snapshot{
		Sensors: make([]*Sensor, len(s.Sensors)),
		Armed:   s.Armed,
		Logs:    make([]LogEntry, len(s.Logs)),
	}

	for i, sensor := range s.Sensors {
		cloned.Sensors[i] = sensor.Clone()
	}

	copy(cloned.Logs, s.Logs)

	return cloned
}

// Status is the read-side view served to clients: the persisted snapshot
// plus the transient alarm and simulation flags.
type Status struct {
	Snapshot

	// AlarmOn indicates whether the alarm is currently ringing.
	AlarmOn bool `json:"alarmOn"`
	// SimulationOn indicates whether the random event driver is active.
	SimulationOn bool `json:"simulationOn"`
}

// DefaultSnapshot returns the documented startup state: five named sensors
// in their normal states, disarmed, empty journal. Used whenever the
// persisted snapshot is missing or unreadable.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Sensors: []*Sensor{
			{ID: 1, Name: "Front Door", Type: SensorDoor, State: StateClosed},
			{ID: 2, Name: "Living Room Window", Type: SensorWindow, State: StateClosed},
			{ID: 3, Name: "Hallway Motion", Type: SensorMotion, State: StateIdle},
			{ID: 4, Name: "Backyard Camera", Type: SensorCamera, State: StateOK},
			{ID: 5, Name: "Kitchen Smoke", Type: SensorSmoke, State: StateOK},
		},
		Armed: false,
		Logs:  nil,
	}
}
