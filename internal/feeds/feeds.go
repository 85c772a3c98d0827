// Package feeds содержит статический список RSS-источников.
package feeds

import "watch/internal/domain"

// Default возвращает встроенный список источников в порядке опроса.
func Default() []domain.Source {
	out := make([]domain.Source, len(defaultSources))
	copy(out, defaultSources)
	return out
}

var defaultSources = []domain.Source{
	{Name: "Reuters World", URL: "https://www.reutersagency.com/feed/?best-topics=world&post_type=best"},
	{Name: "AP Top Stories", URL: "https://feeds.apnews.com/apf-topnews"},
	{Name: "BBC World", URL: "http://feeds.bbci.co.uk/news/world/rss.xml"},
	{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml"},
	{Name: "NASA News", URL: "https://www.nasa.gov/rss/dyn/breaking_news.rss"},
}
