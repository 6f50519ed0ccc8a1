package maintainer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/workspace"
)

func writeSessionFile(t *testing.T, root, id string, lines []string) string {
	t.Helper()
	dir := filepath.Join(root, "sessions")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+".jsonl")
	data := ""
	for _, l := range lines {
		data += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return "sessions/" + id + ".jsonl"
}

func rec(role, text, date string) string {
	return `{"role":"` + role + `","text":"` + text + `","date":"` + date + `"}`
}

func TestUpdateIndexIndexesNewMessagesOnly(t *testing.T) {
	root := t.TempDir()
	p := writeSessionFile(t, root, "s1", []string{
		rec("user", "first message about caching", "2026-01-01"),
		rec("assistant", "caching strategies include LRU", "2026-01-01"),
	})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	m, err := New(&Config{Store: store, IndexPath: filepath.Join(root, "index.json")})
	require.NoError(t, err)

	res, err := m.UpdateIndex(context.Background(), "s1", p)
	require.NoError(t, err)
	require.Equal(t, 2, res.MessagesAdded)

	res2, err := m.UpdateIndex(context.Background(), "s1", p)
	require.NoError(t, err)
	require.Equal(t, 0, res2.MessagesAdded)

	idx, err := index.Load(filepath.Join(root, "index.json"))
	require.NoError(t, err)
	require.NotNil(t, idx)
	require.Equal(t, 2, idx.Session("s1").LastIndexedLine)
}

func TestUpdateIndexAppendsAcrossCalls(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "sessions")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "s1.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(rec("user", "alpha token content", "2026-01-01")+"\n"), 0o644))

	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)
	m, err := New(&Config{Store: store, IndexPath: filepath.Join(root, "index.json")})
	require.NoError(t, err)

	_, err = m.UpdateIndex(context.Background(), "s1", "sessions/s1.jsonl")
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(rec("assistant", "beta token content", "2026-01-02") + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	res, err := m.UpdateIndex(context.Background(), "s1", "sessions/s1.jsonl")
	require.NoError(t, err)
	require.Equal(t, 1, res.MessagesAdded)
}

func TestBoundedQueueEvictsOldest(t *testing.T) {
	q := newBoundedQueue(2)
	_, evicted := q.push("a")
	require.False(t, evicted)
	_, evicted = q.push("b")
	require.False(t, evicted)
	victim, evicted := q.push("c")
	require.True(t, evicted)
	require.Equal(t, "a", victim)
	require.Equal(t, 2, q.len())
}

func TestSchedulerDebouncesRepeatedNotifies(t *testing.T) {
	root := t.TempDir()
	p := writeSessionFile(t, root, "s1", []string{rec("user", "hello world", "2026-01-01")})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)
	m, err := New(&Config{Store: store, IndexPath: filepath.Join(root, "index.json")})
	require.NoError(t, err)

	sched := NewScheduler(SchedulerConfig{Maintainer: m, Debounce: 10 * time.Millisecond, Cooldown: 20 * time.Millisecond})

	sched.Notify("s1", p)
	sched.Notify("s1", p)
	require.Equal(t, 1, sched.Pending())

	require.Eventually(t, func() bool {
		return sched.Pending() == 0
	}, time.Second, 5*time.Millisecond)

	idx, err := index.Load(filepath.Join(root, "index.json"))
	require.NoError(t, err)
	require.NotNil(t, idx)
	require.Equal(t, 1, idx.Session("s1").LastIndexedLine)
}
