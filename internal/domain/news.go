package domain

import "time"

// NewsItem представляет классифицированную новость, отдаваемую через API.
// Published равен nil, если дата в ленте отсутствует или не распознана.
type NewsItem struct {
	Source    string
	Title     string
	Link      string
	Published *time.Time
	Topics    []string
}

// ISOLayout - формат даты публикации в ответах API: UTC с миллисекундами.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ISODate возвращает дату публикации в формате ISOLayout или nil.
func (n NewsItem) ISODate() *string {
	if n.Published == nil {
		return nil
	}
	s := n.Published.UTC().Format(ISOLayout)
	return &s
}

// HasTopic сообщает, помечена ли новость указанной темой.
func (n NewsItem) HasTopic(id string) bool {
	for _, t := range n.Topics {
		if t == id {
			return true
		}
	}
	return false
}

// Passage - цитата, связанная с темой.
type Passage struct {
	Ref  string `json:"ref"`
	Text string `json:"text"`
}

// Topic описывает тему классификатора: метку, ключевые слова и цитаты.
type Topic struct {
	ID       string
	Label    string
	Keywords []string
	Verses   []Passage
}
