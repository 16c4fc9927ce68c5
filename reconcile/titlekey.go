package reconcile

import (
	"strings"
	"unicode"
)

// MaxTitleKeyLength bounds title keys, in runes.
const MaxTitleKeyLength = 100

var leadingArticles = []string{"the ", "a ", "an "}

// TitleKey is the deduplication identity of an entry title. It lowercases,
// drops apostrophes, turns other non-alphanumerics into spaces, collapses
// whitespace, strips leading articles until none remain and truncates to MaxTitleKeyLength
// runes. Every title comparison in the module goes through it.
func TitleKey(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
		default:
			b.WriteRune(' ')
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")

	for stripped := true; stripped; {
		stripped = false
		for _, article := range leadingArticles {
			if strings.HasPrefix(key, article) {
				key = key[len(article):]
				stripped = true
				break
			}
		}
	}

	runes := []rune(key)
	if len(runes) > MaxTitleKeyLength {
		key = strings.TrimSpace(string(runes[:MaxTitleKeyLength]))
	}
	return key
}
