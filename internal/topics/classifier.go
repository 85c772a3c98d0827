package topics

import "strings"

// Classify возвращает идентификаторы всех тем, хотя бы одно ключевое слово
// которых входит в текст как подстрока без учёта регистра.
// Результат всегда не nil и упорядочен так же, как темы в наборе.
func (rs *Ruleset) Classify(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 2)
	for i, kws := range rs.lower {
		for _, k := range kws {
			if strings.Contains(lower, k) {
				found = append(found, rs.topics[i].ID)
				break
			}
		}
	}
	return found
}

// Text склеивает поля новости в строку для классификации.
func Text(parts ...string) string {
	return strings.Join(parts, " ")
}
