// Package heartbeat runs the backup's periodic liveness probe of the
// primary. A newly started run supersedes any prior
// one by iteration id; the superseded run notices on its next tick and
// exits quietly rather than being externally cancelled.
package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"
)

// DefaultInterval is the default period between heartbeats.
const DefaultInterval = 250 * time.Millisecond

// Prober is the dependency Manager probes on each tick; *replclient.Client
// satisfies it.
type Prober interface {
	Heartbeat(ctx context.Context) error
}

// Manager owns the currently running heartbeat loop, if any.
type Manager struct {
	mu        sync.Mutex
	iteration uint64

	client   Prober
	interval time.Duration
	onLost   func()
	logger   log.Logger
}

// NewManager builds a Manager that probes client every interval and
// calls onLost the first time a probe fails, which the backup uses to
// mark itself Standalone.
func NewManager(client Prober, interval time.Duration, onLost func(), logger log.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{client: client, interval: interval, onLost: onLost, logger: logger}
}

// Start begins a new heartbeat run, superseding whatever run (if any)
// is already in flight. Safe to call repeatedly, e.g. once per
// Recovering -> Normal transition.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.iteration++
	my := m.iteration
	m.mu.Unlock()

	go m.run(ctx, my)
}

func (m *Manager) current() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.iteration
}

func (m *Manager) run(ctx context.Context, my uint64) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if m.current() != my {
			return
		}

		if err := m.client.Heartbeat(ctx); err != nil {
			m.logger.Warn("[heartbeat] probe failed, going standalone", "err", err)
			m.onLost()
			return
		}
	}
}
