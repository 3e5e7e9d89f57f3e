package security

import "time"

// SensorType enumerates the kinds of sensors the panel knows about.
type SensorType string

// Known sensor types.
const (
	SensorDoor   SensorType = "door"
	SensorWindow SensorType = "window"
	SensorMotion SensorType = "motion"
	SensorCamera SensorType = "camera"
	SensorSmoke  SensorType = "smoke"
)

// Sensor state values. The valid domain depends on the sensor type:
// door/window use open/closed, motion uses idle/motion, camera uses ok/alert,
// smoke uses ok/alarm.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateIdle   = "idle"
	StateMotion = "motion"
	StateOK     = "ok"
	StateAlert  = "alert"
	StateAlarm  = "alarm"
)

// MaxHistory is the per-sensor event history capacity.
// Oldest entries are evicted first.
const MaxHistory = 30

// Event is a single entry in a sensor's history. Immutable once created.
type Event struct {
	// Time is when the transition happened.
	Time time.Time `json:"time"`
	// Type is the state the sensor transitioned into.
	Type string `json:"type"`
	// Note is a human-readable description of the transition.
	Note string `json:"note"`
}

// Sensor is a single monitored entity and its current state.
type Sensor struct {
	// ID uniquely identifies the sensor within the panel.
	ID int `json:"id"`
	// Name is the human-readable sensor label.
	Name string `json:"name"`
	// Type determines the sensor's valid state domain and toggle rule.
	Type SensorType `json:"type"`
	// State is the current state value; always within the type's domain.
	State string `json:"state"`
	// LastEventTime is when the sensor last transitioned; zero if never.
	LastEventTime time.Time `json:"lastEventTime,omitzero"`
	// History holds recent transitions, most recent first, capped at MaxHistory.
	History []Event `json:"history"`
}

// NormalState returns the quiescent state for the sensor type,
// the one AcknowledgeSensor resets to.
func (t SensorType) NormalState() string {
	switch t {
	case SensorDoor, SensorWindow:
		return StateClosed
	case SensorMotion:
		return StateIdle
	case SensorCamera, SensorSmoke:
		return StateOK
	default:
		return StateOK
	}
}

// Toggle returns the state a trigger moves the sensor into from current.
// Unknown types fall back to the ok/alert pair.
func (t SensorType) Toggle(current string) string {
	switch t {
	case SensorDoor, SensorWindow:
		if current == StateOpen {
			return StateClosed
		}

		return StateOpen
	case SensorMotion:
		if current == StateMotion {
			return StateIdle
		}

		return StateMotion
	case SensorCamera:
		if current == StateAlert {
			return StateOK
		}

		return StateAlert
	case SensorSmoke:
		if current == StateAlarm {
			return StateOK
		}

		return StateAlarm
	default:
		if current == StateAlert {
			return StateOK
		}

		return StateAlert
	}
}

// ValidStates returns the state domain for the sensor type.
func (t SensorType) ValidStates() []string {
	switch t {
	case SensorDoor, SensorWindow:
		return []string{StateOpen, StateClosed}
	case SensorMotion:
		return []string{StateIdle, StateMotion}
	case SensorCamera:
		return []string{StateOK, StateAlert}
	case SensorSmoke:
		return []string{StateOK, StateAlarm}
	default:
		return []string{StateOK, StateAlert}
	}
}

// IsAbnormal reports whether a state value indicates an alert condition.
// The set is shared across sensor types.
func IsAbnormal(state string) bool {
	switch state {
	case StateOpen, StateMotion, StateAlarm, StateAlert:
		return true
	default:
		return false
	}
}

// RecordEvent prepends an event to the sensor's history and evicts the
// oldest entries beyond MaxHistory.
func (s *Sensor) RecordEvent(e Event) {
	history := make([]Event, 0, len(s.History)+1)
	history = append(history, e)
	history = append(history, s.History...)

	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}

	s.History = history
}

// Clone returns a deep copy of the sensor.
func (s *Sensor) Clone() *Sensor {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.History = make([]Event, len(s.History))
	copy(cloned.History, s.History)

	return &cloned
}
