package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"watch/internal/domain"
	"watch/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAggregator struct {
	calls atomic.Int32
	mu    sync.Mutex
	items []domain.NewsItem
	err   error
	delay time.Duration
}

func (c *countingAggregator) Aggregate(ctx context.Context) ([]domain.NewsItem, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.NewsItem, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *countingAggregator) set(items []domain.NewsItem, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items, c.err = items, err
}

func TestNewsGetter_HitWithinTTL(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "one"}}}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())

	first, err := getter.GetNews(context.Background())
	require.NoError(t, err)
	second, err := getter.GetNews(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), agg.calls.Load())
	require.Len(t, second, 1)
	assert.Same(t, &first[0], &second[0])
}

func TestNewsGetter_RecomputesAfterExpiry(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "old"}}}
	getter := NewNewsGetterUseCase(agg, 50*time.Millisecond, testLogger())

	_, err := getter.GetNews(context.Background())
	require.NoError(t, err)
	agg.set([]domain.NewsItem{{Title: "new"}}, nil)
	time.Sleep(80 * time.Millisecond)

	items, err := getter.GetNews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), agg.calls.Load())
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].Title)
}

func TestNewsGetter_EmptyResultIsCached(t *testing.T) {
	agg := &countingAggregator{}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())

	for i := 0; i < 3; i++ {
		items, err := getter.GetNews(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	}
	assert.Equal(t, int32(1), agg.calls.Load())
}

func TestNewsGetter_FallbackOnFailure(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "kept"}}}
	getter := NewNewsGetterUseCase(agg, 30*time.Millisecond, testLogger())

	_, err := getter.GetNews(context.Background())
	require.NoError(t, err)
	agg.set(nil, errors.New("boom"))
	time.Sleep(50 * time.Millisecond)

	items, err := getter.GetNews(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Title)
}

func TestNewsGetter_ErrorWithoutFallback(t *testing.T) {
	agg := &countingAggregator{err: errors.New("boom")}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())

	items, err := getter.GetNews(context.Background())

	assert.Error(t, err)
	assert.Nil(t, items)
	_, ok := getter.LastComputed()
	assert.False(t, ok)
}

func TestNewsGetter_ConcurrentMisses(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "x"}}, delay: 30 * time.Millisecond}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := getter.GetNews(context.Background())
			assert.NoError(t, err)
			assert.Len(t, items, 1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, agg.calls.Load(), int32(10))
	items, err := getter.GetNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", items[0].Title)
}

func TestNewsGetter_LastComputed(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "x"}}}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())
	before := time.Now()

	_, err := getter.GetNews(context.Background())
	require.NoError(t, err)

	computed, ok := getter.LastComputed()
	require.True(t, ok)
	assert.False(t, computed.Before(before))
}

// blockingAggregator держит пересчёт до закрытия release и уважает отмену контекста.
type blockingAggregator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingAggregator() *blockingAggregator {
	return &blockingAggregator{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingAggregator) Aggregate(ctx context.Context) ([]domain.NewsItem, error) {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	select {
	case <-b.release:
		return []domain.NewsItem{{Title: "fresh"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type getResult struct {
	items []domain.NewsItem
	err   error
}

func TestNewsGetter_CancelledCallerDoesNotFailOthers(t *testing.T) {
	agg := newBlockingAggregator()
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())
	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	resA := make(chan getResult, 1)
	go func() {
		items, err := getter.GetNews(ctxA)
		resA <- getResult{items, err}
	}()
	<-agg.started
	resB := make(chan getResult, 1)
	go func() {
		items, err := getter.GetNews(context.Background())
		resB <- getResult{items, err}
	}()

	cancelA()
	a := <-resA
	assert.ErrorIs(t, a.err, context.Canceled)

	close(agg.release)
	b := <-resB
	require.NoError(t, b.err)
	require.Len(t, b.items, 1)
	assert.Equal(t, "fresh", b.items[0].Title)
	assert.Equal(t, int32(1), agg.calls.Load())

	items, err := getter.GetNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", items[0].Title)
	assert.Equal(t, int32(1), agg.calls.Load())
}

func TestNewsGetter_MissCountedOncePerAggregation(t *testing.T) {
	agg := &countingAggregator{items: []domain.NewsItem{{Title: "x"}}, delay: 20 * time.Millisecond}
	getter := NewNewsGetterUseCase(agg, time.Minute, testLogger())
	misses := metrics.CacheRequests.WithLabelValues("miss")
	before := testutil.ToFloat64(misses)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := getter.GetNews(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(agg.calls.Load()), testutil.ToFloat64(misses)-before)
}
