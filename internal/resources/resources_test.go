package resources

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/events"
)

// memStore backs the read cache in tests. TTLs are ignored.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.entries[key]
	return val, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memStore) Add(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = value
	return true, nil
}

func (s *memStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

func newTestCache() *cache.ReadCache {
	return cache.NewReadCache(newMemStore(), 30*time.Second, zap.NewNop())
}

// recordingBus captures every published event.
type recordingBus struct {
	bus    events.Dispatcher
	mu     sync.Mutex
	events []events.Event
}

func newRecordingBus() *recordingBus {
	r := &recordingBus{bus: events.NewInMemoryDispatcher()}
	for _, eventType := range events.All {
		r.bus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, event)
			return nil
		})
	}
	return r
}

func (r *recordingBus) Publish(ctx context.Context, event events.Event) error {
	return r.bus.Publish(ctx, event)
}

func (r *recordingBus) Subscribe(eventType events.EventType, handler events.EventHandler) {
	r.bus.Subscribe(eventType, handler)
}

func (r *recordingBus) recorded() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event{}, r.events...)
}
