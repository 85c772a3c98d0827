package domain

// Source описывает одну RSS-ленту из статической конфигурации.
type Source struct {
	Name string
	URL  string
}

// RawItem представляет запись ленты в том виде, в каком её вернул парсер.
// ISODate заполняется, если парсер сам распознал дату публикации,
// PubDate содержит исходную строку даты из ленты.
type RawItem struct {
	Title   string
	Link    string
	ISODate string
	PubDate string
	Summary string
	Content string
}

// Feed представляет разобранную ленту с метаданными и списком записей.
type Feed struct {
	Title string
	Link  string
	Items []RawItem
}
