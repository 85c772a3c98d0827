package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"watch/internal/domain"
	"watch/internal/metrics"
)

// MemorySubscriptionStore хранит подписки в памяти процесса.
// Подписки теряются при перезапуске.
type MemorySubscriptionStore struct {
	mu    sync.RWMutex
	subs  map[string]domain.Subscription
	order map[string]uint64
	seq   uint64
	log   *slog.Logger
}

func NewMemorySubscriptionStore(log *slog.Logger) *MemorySubscriptionStore {
	log.Info("Initializing in-memory subscription storage")
	return &MemorySubscriptionStore{
		subs:  make(map[string]domain.Subscription),
		order: make(map[string]uint64),
		log:   log,
	}
}

// Add сохраняет подписку. Повторная подписка с тем же endpoint
// заменяет ключи, сохраняя исходный порядок.
func (s *MemorySubscriptionStore) Add(ctx context.Context, sub domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.Endpoint]; !ok {
		s.seq++
		s.order[sub.Endpoint] = s.seq
	}
	s.subs[sub.Endpoint] = sub
	metrics.Subscriptions.Set(float64(len(s.subs)))
	return nil
}

func (s *MemorySubscriptionStore) Remove(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, endpoint)
	delete(s.order, endpoint)
	metrics.Subscriptions.Set(float64(len(s.subs)))
	return nil
}

// List возвращает снимок подписок в порядке регистрации.
func (s *MemorySubscriptionStore) List(ctx context.Context) ([]domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].Endpoint] < s.order[out[j].Endpoint]
	})
	return out, nil
}

func (s *MemorySubscriptionStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs), nil
}

func (s *MemorySubscriptionStore) Close() {}
