package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"watch/internal/domain"
)

// FeedParser разбирает RSS, Atom и JSON Feed в доменную модель.
type FeedParser struct {
	log *slog.Logger
}

func NewFeedParser(log *slog.Logger) *FeedParser {
	return &FeedParser{
		log: log,
	}
}

// Parse реализует метод интерфейса usecase.FeedParser.
func (p *FeedParser) Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := gofeed.NewParser().Parse(reader)
	if err != nil {
		p.log.Error("Error parsing feed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	feed := domain.Feed{
		Title: parsed.Title,
		Link:  parsed.Link,
		Items: make([]domain.RawItem, 0, len(parsed.Items)),
	}
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		feed.Items = append(feed.Items, toRawItem(it))
	}
	return &feed, nil
}

func toRawItem(it *gofeed.Item) domain.RawItem {
	raw := domain.RawItem{
		Title:   strings.TrimSpace(it.Title),
		Link:    strings.TrimSpace(it.Link),
		PubDate: strings.TrimSpace(it.Published),
		Summary: htmlText(it.Description),
		Content: htmlText(it.Content),
	}
	if raw.Link == "" && len(it.Links) > 0 {
		raw.Link = strings.TrimSpace(it.Links[0])
	}
	if raw.PubDate == "" {
		raw.PubDate = strings.TrimSpace(it.Updated)
	}
	switch {
	case it.PublishedParsed != nil:
		raw.ISODate = it.PublishedParsed.UTC().Format(time.RFC3339Nano)
	case it.UpdatedParsed != nil:
		raw.ISODate = it.UpdatedParsed.UTC().Format(time.RFC3339Nano)
	}
	return raw
}

// htmlText сводит HTML-фрагмент к тексту с нормализованными пробелами.
func htmlText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
