package source

import (
	"context"
	"log/slog"
	"sync"

	"github.com/logrelay/logrelay/internal/config"
)

// Manager owns the set of running followers and reconciles it against the
// configured sources list. Apply is safe to call on every config reload.
type Manager struct {
	ctx context.Context
	enq Enqueuer

	mu        sync.Mutex
	followers map[string]*follower // keyed by source ID
}

// NewManager creates a Manager. Followers started later inherit ctx, so
// cancelling it stops them all.
func NewManager(ctx context.Context, enq Enqueuer) *Manager {
	return &Manager{
		ctx:       ctx,
		enq:       enq,
		followers: make(map[string]*follower),
	}
}

// Apply reconciles running followers with sources: removed IDs are stopped,
// new IDs are started, and a source whose path changed is restarted.
func (m *Manager) Apply(sources []config.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[string]config.Source, len(sources))
	for _, src := range sources {
		want[src.ID] = src
	}

	for id, f := range m.followers {
		src, keep := want[id]
		if keep && src.Path == f.src.Path {
			continue
		}
		f.stop()
		delete(m.followers, id)
		slog.Info("source: stopped", "source", id)
	}

	for id, src := range want {
		if _, running := m.followers[id]; running {
			continue
		}
		m.followers[id] = startFollower(m.ctx, src, m.enq)
	}
}

// Stop halts every follower and waits for them to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.followers {
		f.stop()
		delete(m.followers, id)
	}
}

// Count returns the number of running followers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.followers)
}
