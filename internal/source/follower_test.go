package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/entry"
)

// mockEnqueuer collects enqueued entries.
type mockEnqueuer struct {
	mu      sync.Mutex
	entries []entry.Entry
}

func (m *mockEnqueuer) Enqueue(e entry.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *mockEnqueuer) all() []entry.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entry.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func TestParseLine_PlainText(t *testing.T) {
	f := &follower{src: config.Source{ID: "app", Meta: map[string]string{"env": "prod"}}}

	e := f.parseLine("something happened")

	assert.Equal(t, "something happened", e.Msg)
	assert.Equal(t, entry.LevelInfo, e.Level)
	assert.Equal(t, os.Getpid(), e.PID)
	assert.Equal(t, map[string]any{"env": "prod"}, e.Meta)
	assert.False(t, e.Time.IsZero())
}

func TestParseLine_StructuredJSON(t *testing.T) {
	f := &follower{src: config.Source{ID: "app"}}

	e := f.parseLine(`{"level":"error","time":"2024-03-01T12:00:00Z","pid":99,"msg":"verify failed","order_id":"o-17"}`)

	assert.Equal(t, "verify failed", e.Msg)
	assert.Equal(t, entry.LevelError, e.Level)
	assert.Equal(t, 99, e.PID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), e.Time.UTC())
	assert.Equal(t, map[string]any{"order_id": "o-17"}, e.Meta)
}

func TestParseLine_SourceMetaDoesNotOverrideLine(t *testing.T) {
	f := &follower{src: config.Source{ID: "app", Meta: map[string]string{"env": "prod"}}}

	e := f.parseLine(`{"msg":"x","env":"staging"}`)

	assert.Equal(t, map[string]any{"env": "staging"}, e.Meta)
}

func TestParseLine_MalformedJSONShipsRaw(t *testing.T) {
	f := &follower{src: config.Source{ID: "app"}}

	raw := `{"msg": truncated`
	e := f.parseLine(raw)

	assert.Equal(t, raw, e.Msg)
	assert.Equal(t, entry.LevelInfo, e.Level)
}

func TestFollower_EnqueuesAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("before start\n"), 0o644))

	enq := &mockEnqueuer{}
	m := NewManager(context.Background(), enq)
	defer m.Stop()

	m.Apply([]config.Source{{ID: "app", Path: path}})

	// The follower seeks to the end, so only lines written after it starts
	// are picked up. Give the poller a moment to attach first.
	time.Sleep(200 * time.Millisecond)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.WriteString("hello\nworld\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.Eventually(t, func() bool { return len(enq.all()) == 2 },
		5*time.Second, 20*time.Millisecond)

	got := enq.all()
	assert.Equal(t, "hello", got[0].Msg)
	assert.Equal(t, "world", got[1].Msg)
}

func TestManager_ApplyReconciles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.log")
	pathB := filepath.Join(dir, "b.log")
	require.NoError(t, os.WriteFile(pathA, nil, 0o644))
	require.NoError(t, os.WriteFile(pathB, nil, 0o644))

	m := NewManager(context.Background(), &mockEnqueuer{})
	defer m.Stop()

	m.Apply([]config.Source{{ID: "a", Path: pathA}})
	assert.Equal(t, 1, m.Count())

	m.Apply([]config.Source{{ID: "a", Path: pathA}, {ID: "b", Path: pathB}})
	assert.Equal(t, 2, m.Count())

	m.Apply([]config.Source{{ID: "b", Path: pathB}})
	assert.Equal(t, 1, m.Count())

	m.Stop()
	assert.Equal(t, 0, m.Count())
}
