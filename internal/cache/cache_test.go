package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory Store for tests. TTLs are not enforced; entries
// live until invalidated.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	failing bool
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, false, errors.New("store down")
	}
	val, ok := s.entries[key]
	return val, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	s.entries[key] = value
	return nil
}

func (s *memStore) Add(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return false, errors.New("store down")
	}
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = value
	return true, nil
}

func (s *memStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *memStore) fail(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func TestGetOrFetchCachesAfterFirstFetch(t *testing.T) {
	store := newMemStore()
	cache := NewReadCache(store, 30*time.Second, zap.NewNop())

	var calls int32
	fetch := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`["a"]`), nil
	}

	for i := 0; i < 3; i++ {
		val, err := cache.GetOrFetch(context.Background(), "reads:policies", fetch)
		require.NoError(t, err)
		assert.Equal(t, []byte(`["a"]`), val)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrFetchDoesNotCacheFailures(t *testing.T) {
	store := newMemStore()
	cache := NewReadCache(store, 30*time.Second, zap.NewNop())

	var calls int32
	boom := errors.New("backend down")
	fetch := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	_, err := cache.GetOrFetch(context.Background(), "reads:policies", fetch)
	assert.ErrorIs(t, err, boom)
	_, err = cache.GetOrFetch(context.Background(), "reads:policies", fetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrFetchDeduplicatesConcurrentReads(t *testing.T) {
	store := newMemStore()
	cache := NewReadCache(store, 30*time.Second, zap.NewNop())

	var calls int32
	gate := make(chan struct{})
	fetch := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return []byte(`["a"]`), nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([][]byte, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err := cache.GetOrFetch(context.Background(), "reads:policies", fetch)
			assert.NoError(t, err)
			results[i] = val
		}(i)
	}

	// let the goroutines pile up on the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, val := range results {
		assert.Equal(t, []byte(`["a"]`), val)
	}
}

func TestGetOrFetchDegradesWhenStoreIsDown(t *testing.T) {
	store := newMemStore()
	store.fail(true)
	cache := NewReadCache(store, 30*time.Second, zap.NewNop())

	var calls int32
	fetch := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`["a"]`), nil
	}

	for i := 0; i < 2; i++ {
		val, err := cache.GetOrFetch(context.Background(), "reads:policies", fetch)
		require.NoError(t, err)
		assert.Equal(t, []byte(`["a"]`), val)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInvalidateDropsOnlyMatchingPrefix(t *testing.T) {
	store := newMemStore()
	cache := NewReadCache(store, 30*time.Second, zap.NewNop())

	require.NoError(t, store.Set(context.Background(), "reads:roles:1:47", []byte("x"), 0))
	require.NoError(t, store.Set(context.Background(), "reads:policies", []byte("y"), 0))

	cache.Invalidate(context.Background(), "reads:roles")

	_, ok, err := store.Get(context.Background(), "reads:roles:1:47")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(context.Background(), "reads:policies")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldownWindow(t *testing.T) {
	store := newMemStore()
	cooldown := NewCooldown(store, "cooldown:resend:", time.Minute, zap.NewNop())
	ctx := context.Background()

	assert.False(t, cooldown.Active(ctx, "a@madagascarairlines.com"))
	assert.True(t, cooldown.Begin(ctx, "a@madagascarairlines.com"))
	assert.True(t, cooldown.Active(ctx, "a@madagascarairlines.com"))
	assert.False(t, cooldown.Begin(ctx, "a@madagascarairlines.com"))

	// other subjects are unaffected
	assert.False(t, cooldown.Active(ctx, "b@madagascarairlines.com"))
}

func TestCooldownFailsOpenOnStoreOutage(t *testing.T) {
	store := newMemStore()
	store.fail(true)
	cooldown := NewCooldown(store, "cooldown:resend:", time.Minute, zap.NewNop())

	assert.False(t, cooldown.Active(context.Background(), "a@madagascarairlines.com"))
	assert.True(t, cooldown.Begin(context.Background(), "a@madagascarairlines.com"))
}
