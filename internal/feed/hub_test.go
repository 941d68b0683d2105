package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Send:   make(chan []byte, 8),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_PublishReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := newTestClient()
	second := newTestClient()
	hub.Register(first)
	hub.Register(second)

	postID := uuid.New()
	actor := uuid.New()
	hub.Publish(Event{Type: TypePostLiked, PostID: &postID, UserID: actor})

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, TypePostLiked, event.Type)
		require.NotNil(t, event.PostID)
		assert.Equal(t, postID, *event.PostID)
		assert.Equal(t, actor, event.UserID)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient()
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// События после отключения не должны паниковать
	hub.Publish(Event{Type: TypePostCreated, UserID: uuid.New()})
}

func TestHub_UnregisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient()
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Stop()

	// ReadPump клиента может попытаться отменить регистрацию уже
	// после остановки hub; вызов обязан вернуться, а не зависнуть
	done := make(chan struct{})
	go func() {
		hub.Unregister(client)
		hub.Register(newTestClient())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after hub shutdown")
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient()
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
