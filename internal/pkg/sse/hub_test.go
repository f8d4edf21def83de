package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToTopicAndAll(t *testing.T) {
	hub := NewHub[string]()

	user1, cancel1 := hub.Subscribe("1")
	defer cancel1()
	user2, cancel2 := hub.Subscribe("2")
	defer cancel2()
	everyone, cancelAll := hub.Subscribe(All)
	defer cancelAll()

	assert.Equal(t, 3, hub.TotalSubscribers())
	assert.Equal(t, 1, hub.SubscriberCount("1"))

	hub.Publish("1", "hello")

	assert.Equal(t, "hello", <-user1)
	assert.Equal(t, "hello", <-everyone)
	assert.Empty(t, user2)
}

func TestHub_PublishToAllOnlyOnce(t *testing.T) {
	hub := NewHub[int]()
	everyone, cancel := hub.Subscribe(All)
	defer cancel()

	hub.Publish(All, 7)
	assert.Equal(t, 7, <-everyone)
	assert.Len(t, everyone, 0)
}

func TestHub_CleanupClosesChannel(t *testing.T) {
	hub := NewHub[int]()
	ch, cancel := hub.Subscribe("1")

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("1"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	// Publishing to a topic without subscribers is a no-op.
	hub.Publish("1", 1)
}

func TestHub_CloseEndsSubscriptions(t *testing.T) {
	hub := NewHub[int]()
	one, cancelOne := hub.Subscribe("1")
	all, cancelAll := hub.Subscribe(All)

	hub.Close()

	_, ok := <-one
	assert.False(t, ok)
	_, ok = <-all
	assert.False(t, ok)
	assert.Equal(t, 0, hub.TotalSubscribers())

	// Cleanup after Close must not close the channel twice.
	cancelOne()
	cancelAll()

	late, cancelLate := hub.Subscribe("2")
	defer cancelLate()
	_, ok = <-late
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("2"))

	hub.Publish("2", 1)
}

func TestHub_FullBufferDropsEvents(t *testing.T) {
	hub := NewHub[int]()
	ch, cancel := hub.Subscribe("1")
	defer cancel()

	for i := 0; i < 25; i++ {
		hub.Publish("1", i)
	}
	assert.Len(t, ch, 10)
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEvent(&buf, "alert", map[string]string{"id": "a1"}))
	assert.Equal(t, "event: alert\ndata: {\"id\":\"a1\"}\n\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteComment(&buf, "keepalive"))
	assert.Equal(t, ": keepalive\n\n", buf.String())

	assert.Error(t, WriteEvent(&buf, "bad", make(chan int)))
}
