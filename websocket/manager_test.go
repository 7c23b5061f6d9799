package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	go m.Start()
	return m
}

func connect(t *testing.T, m *Manager, userID string) *Client {
	t.Helper()
	client := &Client{
		userID:  userID,
		send:    make(chan []byte, 8),
		manager: m,
	}
	m.register <- client
	require.Eventually(t, func() bool {
		return m.IsConnected(userID)
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestNotifyUserDeliversToConnection(t *testing.T) {
	m := startedManager(t)
	client := connect(t, m, "user-1")

	m.NotifyUser("user-1", "new_message", map[string]string{"content": "hello"})

	select {
	case raw := <-client.send:
		var event struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "new_message", event.Type)
		assert.Equal(t, "hello", event.Payload["content"])
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestNotifyUserSkipsOtherUsers(t *testing.T) {
	m := startedManager(t)
	target := connect(t, m, "user-1")
	bystander := connect(t, m, "user-2")

	m.NotifyUser("user-1", "new_message", nil)

	select {
	case <-target.send:
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case <-bystander.send:
		t.Fatal("event leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyUserOfflineIsNoOp(t *testing.T) {
	m := startedManager(t)

	assert.False(t, m.IsConnected("ghost"))
	// Must not block or panic with no connections registered.
	m.NotifyUser("ghost", "new_message", nil)
}

func TestUnregisterClosesConnectionSet(t *testing.T) {
	m := startedManager(t)
	client := connect(t, m, "user-1")

	m.unregister <- client
	require.Eventually(t, func() bool {
		return !m.IsConnected("user-1")
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestIsConnectedCountsMultipleConnections(t *testing.T) {
	m := startedManager(t)
	first := connect(t, m, "user-1")
	connect(t, m, "user-1")

	m.unregister <- first
	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.clients["user-1"]) == 1
	}, time.Second, 5*time.Millisecond)

	assert.True(t, m.IsConnected("user-1"))
}
