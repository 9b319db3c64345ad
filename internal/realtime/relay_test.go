package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisRelay_FansOutAcrossInstances(t *testing.T) {
	_, client := setupRedis(t)
	const channel = "pulse:test-events"

	hubA, hubB := NewHub(8), NewHub(8)
	relayA := NewRedisRelay(client, channel, hubA)
	relayB := NewRedisRelay(client, channel, hubB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relayA.Run(ctx) }()
	go func() { _ = relayB.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 2
	}, 2*time.Second, 10*time.Millisecond)

	subA, subB := hubA.Subscribe(), hubB.Subscribe()
	require.NoError(t, relayA.Publish(ctx, Created(sampleProject(), nil)))

	assert.Equal(t, KindProjectCreated, receive(t, subA).Kind)
	assert.Equal(t, KindProjectCreated, receive(t, subB).Kind)
}

func TestRedisRelay_SkipsOwnEcho(t *testing.T) {
	_, client := setupRedis(t)
	const channel = "pulse:test-events"

	hub := NewHub(8)
	relay := NewRedisRelay(client, channel, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	sub := hub.Subscribe()
	require.NoError(t, relay.Publish(ctx, Deleted("p-1", nil)))
	assert.Equal(t, "p-1", receive(t, sub).ProjectID)

	select {
	case msg := <-sub.Messages():
		t.Fatalf("event delivered twice: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisRelay_RecoversWhenRedisStartsLate(t *testing.T) {
	mr, client := setupRedis(t)
	const channel = "pulse:test-events"
	mr.Close()

	hubA, hubB := NewHub(8), NewHub(8)
	relayA := NewRedisRelay(client, channel, hubA).WithBackoff(10*time.Millisecond, 50*time.Millisecond)
	relayB := NewRedisRelay(client, channel, hubB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relayA.Run(ctx) }()

	subA := hubA.Subscribe()
	require.NoError(t, relayA.Publish(ctx, Deleted("p-1", nil)))
	assert.Equal(t, "p-1", receive(t, subA).ProjectID)

	require.NoError(t, mr.Restart())
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 1
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, relayB.Publish(ctx, Deleted("p-2", nil)))
	assert.Equal(t, "p-2", receive(t, subA).ProjectID)

	require.NoError(t, relayA.Publish(ctx, Deleted("p-3", nil)))
	assert.Equal(t, "p-3", receive(t, subA).ProjectID)
}

func TestRedisRelay_FallsBackToLocalHub(t *testing.T) {
	mr, client := setupRedis(t)
	hub := NewHub(8)
	relay := NewRedisRelay(client, "pulse:test-events", hub)
	sub := hub.Subscribe()

	mr.Close()
	require.NoError(t, relay.Publish(context.Background(), Deleted("p-9", nil)))
	assert.Equal(t, "p-9", receive(t, sub).ProjectID)
}

func TestRedisRelay_RunStopsWithContext(t *testing.T) {
	_, client := setupRedis(t)
	relay := NewRedisRelay(client, "pulse:test-events", NewHub(8))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
