package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
)

// dialTestHub starts an httptest server around the hub and connects a client.
func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// readFrame reads one frame with a deadline.
func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(message, &f))

	return f
}

// TestStatusChanged_NoClients must not block or panic.
func TestStatusChanged_NoClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(context.Background())
	hub.StatusChanged(&domain.Status{})

	require.Zero(t, hub.ClientCount())
}

// TestBroadcastReachesClient pushes a status and reads it back.
func TestBroadcastReachesClient(t *testing.T) {
	t.Parallel()

	hub := NewHub(context.Background())
	conn := dialTestHub(t, hub)

	// Wait for registration.
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	status := &domain.Status{
		Snapshot: *domain.DefaultSnapshot(),
		AlarmOn:  true,
	}
	hub.StatusChanged(status)

	got := readFrame(t, conn)
	require.Equal(t, "status", got.Type)
	require.NotNil(t, got.Payload)
	require.True(t, got.Payload.AlarmOn)
	require.Len(t, got.Payload.Sensors, 5)
}

// TestNewClientGetsLastStatus verifies the replay of the most recent frame.
func TestNewClientGetsLastStatus(t *testing.T) {
	t.Parallel()

	hub := NewHub(context.Background())

	status := &domain.Status{
		Snapshot:     *domain.DefaultSnapshot(),
		SimulationOn: true,
	}
	hub.StatusChanged(status)

	conn := dialTestHub(t, hub)

	got := readFrame(t, conn)
	require.Equal(t, "status", got.Type)
	require.True(t, got.Payload.SimulationOn)
}
