// Package topics содержит статический набор тем и классификатор новостей.
package topics

import (
	"strings"

	"watch/internal/domain"
)

// Ruleset - упорядоченный неизменяемый набор тем.
type Ruleset struct {
	topics []domain.Topic
	index  map[string]int
	lower  [][]string
}

// New строит набор тем. Порядок тем сохраняется в результатах Classify.
func New(topics []domain.Topic) *Ruleset {
	rs := &Ruleset{
		topics: make([]domain.Topic, len(topics)),
		index:  make(map[string]int, len(topics)),
		lower:  make([][]string, len(topics)),
	}
	copy(rs.topics, topics)
	for i, t := range rs.topics {
		rs.index[t.ID] = i
		kws := make([]string, 0, len(t.Keywords))
		for _, k := range t.Keywords {
			if k = strings.ToLower(k); k != "" {
				kws = append(kws, k)
			}
		}
		rs.lower[i] = kws
	}
	return rs
}

// Topics возвращает копию списка тем.
func (rs *Ruleset) Topics() []domain.Topic {
	out := make([]domain.Topic, len(rs.topics))
	copy(out, rs.topics)
	return out
}

// Has сообщает, существует ли тема с таким идентификатором.
func (rs *Ruleset) Has(id string) bool {
	_, ok := rs.index[id]
	return ok
}

// TopicVerses - представление темы для /api/verses.
type TopicVerses struct {
	Label  string           `json:"label"`
	Verses []domain.Passage `json:"verses"`
}

// Verses возвращает отображение id темы -> метка и цитаты.
func (rs *Ruleset) Verses() map[string]TopicVerses {
	out := make(map[string]TopicVerses, len(rs.topics))
	for _, t := range rs.topics {
		out[t.ID] = TopicVerses{Label: t.Label, Verses: t.Verses}
	}
	return out
}
