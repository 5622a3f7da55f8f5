package handler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"social-chat-api/config/logger"
	"social-chat-api/dto"
)

type fakeConn struct {
	mu       sync.Mutex
	received []dto.RoomEvent
	failing  bool
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.received = append(c.received, v.(dto.RoomEvent))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) events() []dto.RoomEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dto.RoomEvent(nil), c.received...)
}

// stalledConn never finishes a write until it is closed, like a peer that stopped reading.
type stalledConn struct {
	once    sync.Once
	release chan struct{}
	writes  chan struct{}
}

func newStalledConn() *stalledConn {
	return &stalledConn{release: make(chan struct{}), writes: make(chan struct{}, 1)}
}

func (c *stalledConn) WriteJSON(interface{}) error {
	select {
	case c.writes <- struct{}{}:
	default:
	}
	<-c.release
	return errors.New("use of closed connection")
}

func (c *stalledConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func (c *stalledConn) isClosed() bool {
	select {
	case <-c.release:
		return true
	default:
		return false
	}
}

func finishesWithin(t *testing.T, d time.Duration, fn func()) bool {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestRoomHubDeliversToRoomOnly(t *testing.T) {
	hub := NewRoomHub(logger.NewNopLogger())
	inRoom, otherRoom := &fakeConn{}, &fakeConn{}
	hub.Register("room-1", inRoom)
	hub.Register("room-2", otherRoom)

	hub.Publish(dto.RoomEvent{Type: dto.EventMemberJoined, RoomID: "room-1", UserID: "u-2"})

	assert.Eventually(t, func() bool { return len(inRoom.events()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, dto.EventMemberJoined, inRoom.events()[0].Type)
	assert.Empty(t, otherRoom.events())
}

func TestRoomHubDropsBrokenConnections(t *testing.T) {
	hub := NewRoomHub(logger.NewNopLogger())
	broken := &fakeConn{failing: true}
	hub.Register("room-1", broken)
	assert.Equal(t, 1, hub.Connections("room-1"))

	hub.Publish(dto.RoomEvent{Type: dto.EventMessage, RoomID: "room-1", Content: "hello"})

	assert.Eventually(t, func() bool { return hub.Connections("room-1") == 0 }, time.Second, 10*time.Millisecond)
	broken.mu.Lock()
	assert.True(t, broken.closed)
	broken.mu.Unlock()
}

func TestRoomHubUnregister(t *testing.T) {
	hub := NewRoomHub(logger.NewNopLogger())
	conn := &fakeConn{}
	hub.Register("room-1", conn)
	hub.Unregister("room-1", conn)
	hub.Unregister("room-1", conn)

	assert.Zero(t, hub.Connections("room-1"))
}

func TestRoomHubStalledConnectionDoesNotBlockOthers(t *testing.T) {
	hub := NewRoomHub(logger.NewNopLogger())
	stalled := newStalledConn()
	t.Cleanup(func() { _ = stalled.Close() })
	healthy := &fakeConn{}
	hub.Register("slow-room", stalled)
	hub.Register("other-room", healthy)

	hub.Publish(dto.RoomEvent{Type: dto.EventMessage, RoomID: "slow-room", Content: "first"})
	select {
	case <-stalled.writes:
	case <-time.After(time.Second):
		t.Fatal("stalled connection never received a write")
	}

	hub.Publish(dto.RoomEvent{Type: dto.EventMessage, RoomID: "other-room", Content: "hello"})
	assert.Eventually(t, func() bool { return len(healthy.events()) == 1 }, time.Second, 10*time.Millisecond)

	assert.True(t, finishesWithin(t, time.Second, func() {
		extra := &fakeConn{}
		hub.Register("other-room", extra)
		hub.Unregister("other-room", extra)
	}), "register and unregister must not wait on a stalled write")

	assert.True(t, finishesWithin(t, time.Second, func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(dto.RoomEvent{Type: dto.EventMemberJoined, RoomID: "slow-room"})
		}
	}), "publish must not wait on a stalled write")

	assert.Eventually(t, func() bool { return hub.Connections("slow-room") == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, stalled.isClosed())
	assert.Equal(t, 1, hub.Connections("other-room"))
}

func TestRoomHubPublishDropsWhenBackedUp(t *testing.T) {
	// no broadcast goroutine, so nothing drains the channel
	hub := &RoomHub{
		Clients:   make(map[string]map[RoomConn]*roomClient),
		Broadcast: make(chan dto.RoomEvent, 1),
		Log:       logger.NewNopLogger(),
	}

	assert.True(t, finishesWithin(t, time.Second, func() {
		hub.Publish(dto.RoomEvent{RoomID: "room-1"})
		hub.Publish(dto.RoomEvent{RoomID: "room-1"})
	}))
	assert.Len(t, hub.Broadcast, 1)
}
