package storage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor tracks durable store reachability. A cron job refreshes the flag;
// readers only load it.
type Monitor struct {
	db        Pinger
	timeout   time.Duration
	connected atomic.Bool

	mu        sync.Mutex
	onConnect func(context.Context) error
	prepared  bool
	cron      *cron.Cron
}

// NewMonitor returns a monitor for db. A nil db is never connected.
func NewMonitor(db Pinger) *Monitor {
	return &Monitor{db: db, timeout: 2 * time.Second}
}

// OnConnect registers fn to run once, on the first successful ping.
// The flag only turns on after fn succeeds.
func (m *Monitor) OnConnect(fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnect = fn
}

func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

func (m *Monitor) Mode() string {
	if m.Connected() {
		return ModeDurable
	}
	return ModeMemory
}

func (m *Monitor) MarkDown(err error) {
	if m.connected.Swap(false) {
		log.Printf("[warn] operation=storage.monitor durable store marked down: %v", err)
	}
}

// Check pings the durable store and updates the flag.
func (m *Monitor) Check(ctx context.Context) bool {
	if m.db == nil {
		return false
	}

	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.db.PingContext(pctx); err != nil {
		m.MarkDown(err)
		return false
	}

	if err := m.prepare(ctx); err != nil {
		log.Printf("[error] operation=storage.monitor prepare durable store: %v", err)
		m.connected.Store(false)
		return false
	}

	if !m.connected.Swap(true) {
		log.Printf("[info] operation=storage.monitor durable store connected")
	}
	return true
}

func (m *Monitor) prepare(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prepared || m.onConnect == nil {
		m.prepared = true
		return nil
	}
	if err := m.onConnect(ctx); err != nil {
		return err
	}
	m.prepared = true
	return nil
}

// Start runs Check immediately and then on the given cron schedule.
func (m *Monitor) Start(schedule string) error {
	if m.db == nil {
		log.Println("[info] operation=storage.monitor no durable store configured, running in memory")
		return nil
	}

	m.Check(context.Background())

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		m.Check(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule store probe: %w", err)
	}

	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()

	c.Start()
	log.Printf("[info] operation=storage.monitor probing durable store %s", schedule)
	return nil
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
