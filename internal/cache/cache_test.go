package cache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend is an in-process Backend used to test the wrapper without Redis.
type memoryBackend struct {
	mu       sync.Mutex
	store    map[string][]byte
	getErr   error
	setErr   error
	getCalls int
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{store: make(map[string][]byte)}
}

func (m *memoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	value, ok := m.store[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return value, nil
}

func (m *memoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.store[key] = value
	return nil
}

func (m *memoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type leaderboardEntry struct {
	Slug     string `json:"slug"`
	Installs int64  `json:"installs"`
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MissLoadsAndStores", func(t *testing.T) {
		backend := newMemoryBackend()
		c := New(backend, testLogger())

		loaderCalls := 0
		entries, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
			func(ctx context.Context) ([]leaderboardEntry, error) {
				loaderCalls++
				return []leaderboardEntry{{Slug: "api-contract-testing", Installs: 42}}, nil
			})

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "api-contract-testing", entries[0].Slug)
		assert.Equal(t, 1, loaderCalls)

		// Second call must hit the cache
		_, err = GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
			func(ctx context.Context) ([]leaderboardEntry, error) {
				loaderCalls++
				return nil, nil
			})
		require.NoError(t, err)
		assert.Equal(t, 1, loaderCalls)
	})

	t.Run("Success_BackendReadFailureDegradesToLoader", func(t *testing.T) {
		backend := newMemoryBackend()
		backend.getErr = assert.AnError
		c := New(backend, testLogger())

		entries, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
			func(ctx context.Context) ([]leaderboardEntry, error) {
				return []leaderboardEntry{{Slug: "mutation-testing", Installs: 7}}, nil
			})

		require.NoError(t, err)
		assert.Equal(t, "mutation-testing", entries[0].Slug)
	})

	t.Run("Success_BackendWriteFailureStillReturnsValue", func(t *testing.T) {
		backend := newMemoryBackend()
		backend.setErr = assert.AnError
		c := New(backend, testLogger())

		entries, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
			func(ctx context.Context) ([]leaderboardEntry, error) {
				return []leaderboardEntry{{Slug: "fuzzing", Installs: 3}}, nil
			})

		require.NoError(t, err)
		assert.Equal(t, "fuzzing", entries[0].Slug)
	})

	t.Run("Error_LoaderFailurePropagates", func(t *testing.T) {
		backend := newMemoryBackend()
		c := New(backend, testLogger())

		_, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
			func(ctx context.Context) ([]leaderboardEntry, error) {
				return nil, assert.AnError
			})

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Success_ConcurrentCallersShareOneLoad", func(t *testing.T) {
		backend := newMemoryBackend()
		c := New(backend, testLogger())

		var loaderCalls int
		var mu sync.Mutex
		release := make(chan struct{})

		loader := func(ctx context.Context) ([]leaderboardEntry, error) {
			mu.Lock()
			loaderCalls++
			mu.Unlock()
			<-release
			return []leaderboardEntry{{Slug: "load-testing", Installs: 9}}, nil
		}

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute, loader)
				assert.NoError(t, err)
			}()
		}

		// Give all goroutines time to reach the singleflight barrier
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, loaderCalls, "concurrent callers should share a single load")
	})
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	c := New(backend, testLogger())

	_, err := GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
		func(ctx context.Context) ([]leaderboardEntry, error) {
			return []leaderboardEntry{{Slug: "api-contract-testing", Installs: 42}}, nil
		})
	require.NoError(t, err)

	c.Invalidate(ctx, "leaderboard")

	loaderCalls := 0
	_, err = GetOrSetJSON(ctx, c, "leaderboard", time.Minute,
		func(ctx context.Context) ([]leaderboardEntry, error) {
			loaderCalls++
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, loaderCalls, "invalidated key should trigger a reload")
}
