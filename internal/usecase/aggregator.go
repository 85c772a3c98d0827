package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"watch/internal/domain"
	"watch/internal/metrics"
	"watch/internal/topics"
)

const untitled = "Untitled"

// Aggregator опрашивает все источники, классифицирует записи и
// сортирует их от новых к старым.
type Aggregator struct {
	reader     SourceReader
	classifier Classifier
	sources    []domain.Source
	log        *slog.Logger
}

func NewAggregator(reader SourceReader, classifier Classifier, sources []domain.Source, log *slog.Logger) *Aggregator {
	return &Aggregator{
		reader:     reader,
		classifier: classifier,
		sources:    sources,
		log:        log.With(slog.String("component", "aggregator")),
	}
}

// Aggregate опрашивает источники параллельно. Сбой источника даёт ноль
// записей от него и не прерывает остальные. Порядок результата не зависит
// от порядка завершения загрузок.
func (a *Aggregator) Aggregate(ctx context.Context) ([]domain.NewsItem, error) {
	const op = "usecase.Aggregator.Aggregate"
	start := time.Now()
	perSource := make([][]domain.NewsItem, len(a.sources))

	var g errgroup.Group
	var failed atomic.Int64
	for i, src := range a.sources {
		g.Go(func() error {
			raw, err := a.reader.ReadSource(ctx, src)
			if err != nil {
				failed.Add(1)
				metrics.FeedFetches.WithLabelValues(src.Name, "error").Inc()
				a.log.Error("Feed error",
					slog.String("op", op),
					slog.String("feed", src.Name),
					slog.Any("error", err),
				)
				return nil
			}
			metrics.FeedFetches.WithLabelValues(src.Name, "ok").Inc()
			metrics.FeedItems.WithLabelValues(src.Name).Set(float64(len(raw)))
			perSource[i] = lo.Map(raw, func(r domain.RawItem, _ int) domain.NewsItem {
				return a.buildItem(src, r)
			})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: aggregation cancelled: %w", op, err)
	}

	items := lo.Flatten(perSource)
	SortNewestFirst(items)

	duration := time.Since(start)
	metrics.AggregationDuration.Observe(duration.Seconds())
	a.log.Info("Aggregation completed",
		slog.Int("sources", len(a.sources)),
		slog.Int64("failed", failed.Load()),
		slog.Int("count", len(items)),
		slog.Duration("duration", duration),
	)
	return items, nil
}

func (a *Aggregator) buildItem(src domain.Source, r domain.RawItem) domain.NewsItem {
	title := r.Title
	if title == "" {
		title = untitled
	}
	return domain.NewsItem{
		Source:    src.Name,
		Title:     title,
		Link:      r.Link,
		Published: ResolvePublished(r.ISODate, r.PubDate),
		Topics:    a.classifier.Classify(topics.Text(r.Title, r.Summary, r.Content)),
	}
}

// SortNewestFirst стабильно сортирует новости по убыванию даты публикации.
// Новости без даты оказываются в конце.
func SortNewestFirst(items []domain.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Published, items[j].Published
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
