package usecase

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var feedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// ParseDate разбирает дату из ленты. Возвращает nil для пустой или
// нераспознанной строки.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utc(t)
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return utc(t)
	}
	return nil
}

// ResolvePublished выбирает момент публикации: сначала ISO-дату,
// затем исходную pubDate. Если ни одна не распознана, возвращает nil.
func ResolvePublished(isoDate, pubDate string) *time.Time {
	if t := ParseDate(isoDate); t != nil {
		return t
	}
	return ParseDate(pubDate)
}

func utc(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
