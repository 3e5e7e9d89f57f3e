// Package metrics exposes Prometheus instrumentation for the panel:
// gauges mirroring the armed/alarm/simulation flags and counters for
// executed commands and automatic alarm activations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus collectors are registered once per process.
var (
	armedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "home_sentry",
		Subsystem: "panel",
		Name:      "armed",
		Help:      "Whether the panel is armed (1) or disarmed (0).",
	})

	alarmGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "home_sentry",
		Subsystem: "panel",
		Name:      "alarm_on",
		Help:      "Whether the alarm is currently ringing (1) or silent (0).",
	})

	simulationGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "home_sentry",
		Subsystem: "panel",
		Name:      "simulation_on",
		Help:      "Whether the random event driver is enabled (1) or not (0).",
	})

	commandCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "home_sentry",
		Subsystem: "panel",
		Name:      "commands_total",
		Help:      "Commands executed against the panel, by command name.",
	}, []string{"command"})

	alarmTriggeredCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "home_sentry",
		Subsystem: "panel",
		Name:      "alarm_triggered_total",
		Help:      "Automatic alarm activations caused by armed sensor transitions.",
	})
)

// ObserveCommand counts one executed panel command.
func ObserveCommand(name string) {
	commandCounter.WithLabelValues(name).Inc()
}

// SetPanelState mirrors the panel flags into the gauges.
func SetPanelState(armed, alarmOn, simulationOn bool) {
	armedGauge.Set(boolToFloat(armed))
	alarmGauge.Set(boolToFloat(alarmOn))
	simulationGauge.Set(boolToFloat(simulationOn))
}

// AlarmTriggered counts one automatic alarm activation.
func AlarmTriggered() {
	alarmTriggeredCounter.Inc()
}

// boolToFloat converts a flag to the 0/1 gauge convention.
func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
