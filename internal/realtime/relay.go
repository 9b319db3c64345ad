package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/projectpulse/pulse-backend/internal/logging"
)

const (
	relayMinBackoff = 250 * time.Millisecond
	relayMaxBackoff = 30 * time.Second
)

// relayMessage is what travels over the Redis channel. Origin lets an
// instance skip its own events, which it has already delivered locally.
type relayMessage struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// RedisRelay shares one broadcast domain between API instances. Publish
// delivers to the local hub and sends to a Redis channel; Run feeds messages
// from the other instances into the local hub.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	origin  string

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client:     client,
		channel:    channel,
		hub:        hub,
		origin:     uuid.NewString(),
		minBackoff: relayMinBackoff,
		maxBackoff: relayMaxBackoff,
	}
}

// WithBackoff sets the delay bounds between resubscribe attempts.
func (r *RedisRelay) WithBackoff(initial, limit time.Duration) *RedisRelay {
	r.minBackoff, r.maxBackoff = initial, limit
	return r
}

// Publish delivers ev to local sessions and then to Redis. A Redis failure is
// logged; local sessions have the event either way.
func (r *RedisRelay) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	r.hub.Deliver(payload)

	msg, err := json.Marshal(relayMessage{Origin: r.origin, Event: payload})
	if err != nil {
		return fmt.Errorf("encode relay message: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		logging.FromContext(ctx).Warnf("realtime.relay_publish", "channel=%s remote instances skipped: %v", r.channel, err)
	}
	return nil
}

// Run forwards messages from other instances until ctx is done. A failed
// subscription is retried with exponential backoff, so an unreachable Redis
// at startup or a dropped connection only pauses cross-instance delivery.
func (r *RedisRelay) Run(ctx context.Context) error {
	backoff := r.minBackoff
	for {
		err := r.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			backoff = r.minBackoff
			continue
		}

		log.Printf("[warn] operation=realtime.relay_subscribe channel=%s retry_in=%s error=%v", r.channel, backoff, err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}
}

// listen holds one subscription. It returns nil when the message channel
// closes and an error when subscribing fails.
func (r *RedisRelay) listen(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg.Payload)
		}
	}
}

func (r *RedisRelay) forward(payload string) {
	var m relayMessage
	if err := json.Unmarshal([]byte(payload), &m); err != nil || len(m.Event) == 0 {
		log.Printf("[warn] operation=realtime.relay_forward channel=%s dropped malformed message", r.channel)
		return
	}
	if m.Origin == r.origin {
		return
	}
	r.hub.Deliver(m.Event)
}
