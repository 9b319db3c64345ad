package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case msg := <-s.Messages():
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_DeliversToAllInOrder(t *testing.T) {
	hub := NewHub(8)
	a, b := hub.Subscribe(), hub.Subscribe()
	assert.Equal(t, 2, hub.Sessions())

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, Created(sampleProject(), nil)))
	require.NoError(t, hub.Publish(ctx, Deleted("p-1", nil)))

	for _, s := range []*Subscription{a, b} {
		assert.Equal(t, KindProjectCreated, receive(t, s).Kind)
		assert.Equal(t, KindProjectDeleted, receive(t, s).Kind)
	}
}

func TestHub_NoBackfill(t *testing.T) {
	hub := NewHub(8)
	require.NoError(t, hub.Publish(context.Background(), Deleted("p-1", nil)))

	late := hub.Subscribe()
	select {
	case <-late.Messages():
		t.Fatal("late subscriber received an earlier event")
	default:
	}
}

func TestHub_SlowSessionDropped(t *testing.T) {
	hub := NewHub(1)
	slow := hub.Subscribe()
	fast := hub.Subscribe()

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, Deleted("p-1", nil)))
	<-fast.Messages()
	require.NoError(t, hub.Publish(ctx, Deleted("p-2", nil)))

	select {
	case <-slow.Done():
	case <-time.After(time.Second):
		t.Fatal("slow session not dropped")
	}
	assert.Equal(t, 1, hub.Sessions())
	assert.Equal(t, "p-2", receive(t, fast).ProjectID)
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub(4)
	s := hub.Subscribe()
	hub.Unsubscribe(s)
	hub.Unsubscribe(s)
	assert.Equal(t, 0, hub.Sessions())

	other := hub.Subscribe()
	hub.Close()
	<-other.Done()

	afterClose := hub.Subscribe()
	<-afterClose.Done()
	assert.Equal(t, 0, hub.Sessions())
}
