package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Slugify приводит вопрос к безопасному имени файла:
// всё, кроме букв и цифр, заменяется на "-", повторы схлопываются.
// Для пустого результата возвращается "guide".
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}

	parts := make([]string, 0, 8)
	for _, p := range strings.Split(b.String(), "-") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "guide"
	}
	return strings.Join(parts, "-")
}

// TruncateRunes — безопасное усечение по рунам
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}
