package usecase

import (
	"context"
	"io"

	"watch/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки данных RSS-лент из внешних источников.
// Возвращает io.ReadCloser который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс для парсинга ленты в доменную модель.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error)
}

// SourceReader возвращает сырые записи одного источника.
type SourceReader interface {
	ReadSource(ctx context.Context, src domain.Source) ([]domain.RawItem, error)
}

// Classifier сопоставляет текст новости с идентификаторами тем.
type Classifier interface {
	Classify(text string) []string
}
