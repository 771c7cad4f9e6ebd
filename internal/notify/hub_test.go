package notify

import (
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written []interface{}
	failing bool
	closed  bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}(nil), c.written...)
}

func TestHubBroadcastToAllConnections(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	phone := &fakeConn{}
	laptop := &fakeConn{}
	hub.Join(42, phone)
	hub.Join(42, laptop)

	delivered := hub.Broadcast(42, "payload")

	assert.Equal(t, 2, delivered)
	require.Len(t, phone.messages(), 1)
	require.Len(t, laptop.messages(), 1)
	assert.Equal(t, phone.messages()[0], laptop.messages()[0], "both devices receive the identical payload")
}

func TestHubBroadcastToAbsentGroupIsNoOp(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))

	assert.Zero(t, hub.Broadcast(42, "payload"))
}

func TestHubBroadcastToEmptiedGroupIsNoOp(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	conn := &fakeConn{}
	c := hub.Join(42, conn)
	hub.Leave(c)

	assert.Zero(t, hub.Broadcast(42, "payload"))
	assert.Empty(t, conn.messages())
}

func TestHubFailedConnectionDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	dead := &fakeConn{failing: true}
	alive := &fakeConn{}
	hub.Join(42, dead)
	hub.Join(42, alive)

	delivered := hub.Broadcast(42, "payload")

	assert.Equal(t, 1, delivered)
	require.Len(t, alive.messages(), 1)
	assert.True(t, dead.closed, "failed connection is closed")
	assert.Equal(t, 1, hub.ConnectionCount(42), "failed connection is evicted")
}

func TestHubLeaveIsScopedToHandle(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	phone := &fakeConn{}
	laptop := &fakeConn{}
	ph := hub.Join(42, phone)
	hub.Join(42, laptop)

	hub.Leave(ph)
	delivered := hub.Broadcast(42, "payload")

	assert.Equal(t, 1, delivered)
	assert.Empty(t, phone.messages())
	require.Len(t, laptop.messages(), 1)
}

func TestHubLeaveTwiceIsSafe(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	c := hub.Join(42, &fakeConn{})

	hub.Leave(c)
	assert.NotPanics(t, func() { hub.Leave(c) })
}

func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	a := &fakeConn{}
	b := &fakeConn{}
	hub.Join(1, a)
	hub.Join(2, b)

	hub.Broadcast(1, "for-a")

	require.Len(t, a.messages(), 1)
	assert.Empty(t, b.messages())
}

func TestHubConcurrentJoinLeaveBroadcast(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	const users = 8
	const rounds = 50

	var wg sync.WaitGroup
	for u := uint(1); u <= users; u++ {
		wg.Add(2)
		go func(userID uint) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				c := hub.Join(userID, &fakeConn{})
				hub.Broadcast(userID, i)
				hub.Leave(c)
			}
		}(u)
		go func(userID uint) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				hub.Broadcast(userID, i)
			}
		}(u)
	}
	wg.Wait()

	for u := uint(1); u <= users; u++ {
		assert.Zero(t, hub.ConnectionCount(u))
	}
}
