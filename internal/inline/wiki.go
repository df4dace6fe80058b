package inline

import (
	"regexp"
	"strconv"
)

// Wiki-words are CamelCase with at least two humps, where a digit run
// can stand in for a hump after the first.
var wikiWordRe = regexp.MustCompile(`^([A-Z][a-z]+)(([A-Z][a-z]+)|([0-9]+))+$`)

// IsWikiWord reports whether s is a wiki-word cross-reference token.
func IsWikiWord(s string) bool {
	return wikiWordRe.MatchString(s)
}

// WikiWordSpaces formats a wiki-word for display by inserting a space
// before each interior hump and before a digit run following a letter:
// FooBar123Baz becomes "Foo Bar 123 Baz".
func WikiWordSpaces(word string) string {
	out := make([]byte, 0, len(word)+4)
	for i := 0; i < len(word); i++ {
		c := word[i]
		if i > 0 {
			prev := word[i-1]
			startsHump := c >= 'A' && c <= 'Z'
			startsDigits := c >= '0' && c <= '9' && !(prev >= '0' && prev <= '9')
			if startsHump || startsDigits {
				out = append(out, ' ')
			}
		}
		out = append(out, c)
	}
	return string(out)
}

var digitRunRe = regexp.MustCompile(`[0-9]+`)

// SortKey returns the ordering key for a wiki-word. A digit run whose
// value reads as a plausible bibliographic year sorts the word by
// (year, word); everything else sorts first under year zero.
func SortKey(word string) (int, string) {
	for _, run := range digitRunRe.FindAllString(word, -1) {
		if n, err := strconv.Atoi(run); err == nil && n >= 1500 && n <= 3000 {
			return n, word
		}
	}
	return 0, word
}
