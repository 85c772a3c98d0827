package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"watch/internal/domain"
)

// FeedReaderUseCase загружает и разбирает одну ленту.
type FeedReaderUseCase struct {
	fetcher FeedFetcher
	parser  FeedParser
	log     *slog.Logger
}

// NewFeedReaderUseCase создает новый экземпляр UseCase для чтения RSS-лент.
func NewFeedReaderUseCase(fetcher FeedFetcher, parser FeedParser, log *slog.Logger) *FeedReaderUseCase {
	return &FeedReaderUseCase{
		fetcher: fetcher,
		parser:  parser,
		log:     log,
	}
}

// ReadSource выполняет загрузку и парсинг ленты источника.
// Возвращает ошибку с указанием этапа (fetch или parse), на котором произошел сбой.
func (uc *FeedReaderUseCase) ReadSource(ctx context.Context, src domain.Source) ([]domain.RawItem, error) {
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "feed-reader"),
		slog.String("feed", src.Name),
		slog.String("url", src.URL),
	)

	reader, err := uc.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", src.Name, err)
	}
	defer reader.Close()

	feed, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("parse failed for %s: %w", src.Name, err)
	}

	log.Debug("Feed read",
		slog.Int("items_found", len(feed.Items)),
		slog.Duration("duration", time.Since(start)),
	)
	return feed.Items, nil
}
