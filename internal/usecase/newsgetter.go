package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"watch/internal/domain"
	"watch/internal/metrics"
)

const newsCacheKey = "ALL_NEWS"

// NewsAggregator определяет интерфейс для построения полного списка новостей.
type NewsAggregator interface {
	Aggregate(ctx context.Context) ([]domain.NewsItem, error)
}

// CachedResult - результат последней успешной агрегации.
type CachedResult struct {
	Items      []domain.NewsItem
	ComputedAt time.Time
}

// NewsGetterUseCase отдаёт новости через кэш с фиксированным TTL.
// В пределах TTL возвращается тот же срез без повторной агрегации.
// После истечения TTL агрегация выполняется синхронно при чтении.
// Одновременные промахи схлопываются в один вызов агрегатора.
type NewsGetterUseCase struct {
	aggregator NewsAggregator
	cache      *expirable.LRU[string, *CachedResult]
	group      singleflight.Group
	lastGood   atomic.Pointer[CachedResult]
	log        *slog.Logger
}

// NewNewsGetterUseCase создает новый экземпляр UseCase для получения новостей.
func NewNewsGetterUseCase(aggregator NewsAggregator, ttl time.Duration, log *slog.Logger) *NewsGetterUseCase {
	return &NewsGetterUseCase{
		aggregator: aggregator,
		cache:      expirable.NewLRU[string, *CachedResult](1, nil, ttl),
		log:        log.With(slog.String("component", "news-cache")),
	}
}

// GetNews возвращает упорядоченный список новостей.
// Если пересчёт завершился ошибкой, возвращается предыдущий удачный результат;
// ошибка передаётся вызывающему только когда такого результата нет.
// Общий пересчёт не отменяется вместе с контекстом вызывающего:
// отменённый вызывающий просто перестаёт ждать.
func (uc *NewsGetterUseCase) GetNews(ctx context.Context) ([]domain.NewsItem, error) {
	const op = "usecase.NewsGetter.GetNews"
	if res, ok := uc.cache.Get(newsCacheKey); ok {
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return res.Items, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(newsCacheKey, func() (any, error) {
		if res, ok := uc.cache.Get(newsCacheKey); ok {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return res, nil
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		items, err := uc.aggregator.Aggregate(shared)
		if err != nil {
			return nil, err
		}
		res := &CachedResult{Items: items, ComputedAt: time.Now()}
		uc.cache.Add(newsCacheKey, res)
		uc.lastGood.Store(res)
		return res, nil
	})

	var r singleflight.Result
	select {
	case r = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	}
	if r.Err != nil {
		if last := uc.lastGood.Load(); last != nil {
			metrics.CacheRequests.WithLabelValues("stale").Inc()
			uc.log.Warn("Aggregation failed, serving previous result",
				slog.String("op", op),
				slog.Time("computed_at", last.ComputedAt),
				slog.Any("error", r.Err),
			)
			return last.Items, nil
		}
		return nil, fmt.Errorf("%s: %w", op, r.Err)
	}
	return r.Val.(*CachedResult).Items, nil
}

// LastComputed возвращает время последней успешной агрегации.
func (uc *NewsGetterUseCase) LastComputed() (time.Time, bool) {
	last := uc.lastGood.Load()
	if last == nil {
		return time.Time{}, false
	}
	return last.ComputedAt, true
}
