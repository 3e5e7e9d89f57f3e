package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
	"github.com/mkuznetsov/home-sentry/internal/service/panel"
)

// fixedClock returns strictly increasing timestamps for handler tests.
type fixedClock struct {
	// now is the time returned by the next Now call.
	now time.Time
}

// Now returns the current fake time and advances it by one second.
func (c *fixedClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(time.Second)

	return now
}

// newTestRouter spins up a router over a fresh panel with no persistence.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	svc := panel.NewService(
		context.Background(),
		nil,
		panel.WithClock(&fixedClock{now: time.Unix(50_000, 0)}),
	)

	return NewServer(svc, nil, "").Router()
}

// doRequest performs a request against the router and decodes the status
// payload for 200 responses.
func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, *domain.Status) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		return recorder, nil
	}

	var status domain.Status
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))

	return recorder, &status
}

// TestArmDisarmRoutes verifies the armed axis over HTTP.
func TestArmDisarmRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	recorder, status := doRequest(t, router, http.MethodPost, "/api/arm", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, status.Armed)
	require.Equal(t, "System armed", status.Logs[0].Message)

	recorder, status = doRequest(t, router, http.MethodPost, "/api/disarm", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.False(t, status.Armed)
	require.False(t, status.AlarmOn)
}

// TestTriggerRoute covers toggling, forcing and the unknown-id mapping.
func TestTriggerRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	// Plain toggle.
	recorder, status := doRequest(t, router, http.MethodPost, "/api/sensors/1/trigger", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, domain.StateOpen, status.Sensors[0].State)

	// Forced state.
	recorder, status = doRequest(t, router, http.MethodPost, "/api/sensors/1/trigger", `{"state":"open"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, domain.StateOpen, status.Sensors[0].State)

	// Unknown id maps to 404.
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/sensors/99/trigger", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Contains(t, recorder.Body.String(), "sensor not found")

	// Malformed id maps to 400.
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/sensors/abc/trigger", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	// Malformed body maps to 400.
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/sensors/1/trigger", "{broken")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

// TestAlarmFlowOverHTTP walks the armed trigger/silence scenario end to end.
func TestAlarmFlowOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, _ = doRequest(t, router, http.MethodPost, "/api/arm", "")

	_, status := doRequest(t, router, http.MethodPost, "/api/sensors/1/trigger", "")
	require.True(t, status.AlarmOn)
	require.Equal(t, "ALARM TRIGGERED: Front Door detected activity while system armed", status.Logs[0].Message)

	// Re-trigger silences and leaves the door open.
	_, status = doRequest(t, router, http.MethodPost, "/api/sensors/1/trigger", "")
	require.False(t, status.AlarmOn)
	require.Equal(t, domain.StateOpen, status.Sensors[0].State)
	require.Equal(t, "Alarm stopped manually via Front Door", status.Logs[0].Message)
}

// TestAcknowledgeRoute resets the sensor and silences the alarm.
func TestAcknowledgeRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, _ = doRequest(t, router, http.MethodPost, "/api/arm", "")
	_, status := doRequest(t, router, http.MethodPost, "/api/sensors/5/trigger", "")
	require.True(t, status.AlarmOn)

	_, status = doRequest(t, router, http.MethodPost, "/api/sensors/5/ack", "")
	require.False(t, status.AlarmOn)
	require.Equal(t, domain.StateOK, status.Sensors[4].State)
	require.Equal(t, "Acknowledged Kitchen Smoke", status.Logs[0].Message)
}

// TestAlarmToggleAndClearLogsRoutes covers the remaining commands.
func TestAlarmToggleAndClearLogsRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, status := doRequest(t, router, http.MethodPost, "/api/alarm/toggle", "")
	require.True(t, status.AlarmOn)
	require.Equal(t, "Alarm sounded", status.Logs[0].Message)

	_, status = doRequest(t, router, http.MethodPost, "/api/logs/clear", "")
	require.Len(t, status.Logs, 1)
	require.Equal(t, "Cleared logs", status.Logs[0].Message)
}

// TestSimulationRoute gates the driver flag.
func TestSimulationRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, status := doRequest(t, router, http.MethodPut, "/api/simulation", `{"enabled":true}`)
	require.True(t, status.SimulationOn)
	require.Equal(t, "Simulation enabled", status.Logs[0].Message)

	_, status = doRequest(t, router, http.MethodPut, "/api/simulation", `{"enabled":false}`)
	require.False(t, status.SimulationOn)

	recorder, _ := doRequest(t, router, http.MethodPut, "/api/simulation", "{broken")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

// TestStateAndHealthRoutes cover the read side.
func TestStateAndHealthRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	recorder, status := doRequest(t, router, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, status.Sensors, 5)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	healthRecorder := httptest.NewRecorder()
	router.ServeHTTP(healthRecorder, req)

	require.Equal(t, http.StatusOK, healthRecorder.Code)
	require.Equal(t, "ok", healthRecorder.Body.String())
}
