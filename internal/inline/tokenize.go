// Package inline parses the content of a single headline into typed
// tokens: wiki-words, URLs, images, links, verbatim spans, checkboxes
// and plain words. It never fails; anything unrecognized degrades to a
// plain word.
package inline

import (
	"strconv"
	"strings"
)

// TokenKind tags one parsed token.
type TokenKind uint8

const (
	// Word is the whitespace-delimited fallback token.
	Word TokenKind = iota
	// WikiWord is a CamelCase cross-reference token.
	WikiWord
	// URL is a scheme-prefixed absolute URL.
	URL
	// Image is an inline image reference, ![path].
	Image
	// InternalLink is a |target| link to another page.
	InternalLink
	// Verbatim is a backtick span, passed through unrendered.
	Verbatim
)

// Token is one inline token. Text holds the display text; for Image,
// InternalLink and Verbatim it is the bracketed content. Adjacent marks
// a token that followed its predecessor with no whitespace in between,
// like the punctuation after a trimmed URL.
type Token struct {
	Kind     TokenKind
	Text     string
	Adjacent bool
}

// Checkbox is a leading [_] or [X] marker with an optional progress
// percentage.
type Checkbox struct {
	Checked bool
	// Percent is the progress value, or -1 when none was given.
	Percent int
}

// Line is the parse of one headline's text.
type Line struct {
	Checkbox  *Checkbox
	Important bool
	Tokens    []Token
}

// Tokenize parses headline text. Token kinds are tried in a fixed
// priority order at each scan position; the first kind that matches
// consumes the longest valid match.
func Tokenize(text string) Line {
	var line Line

	// Checkboxes are only recognized at line start; later on, the same
	// characters are ordinary words.
	text, line.Checkbox = scanCheckbox(text)

	// A lone trailing * flags the whole line as important.
	if stripped, ok := strings.CutSuffix(text, " *"); ok {
		line.Important = true
		text = stripped
	}

	for i := 0; i < len(text); {
		sawSpace := false
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
			sawSpace = true
		}
		if i >= len(text) {
			break
		}
		tok, n := scanToken(text[i:])
		tok.Adjacent = i > 0 && !sawSpace
		line.Tokens = append(line.Tokens, tok)
		i += n
	}
	return line
}

// scanToken matches one token at the start of s and returns it along
// with the number of bytes consumed. s is non-empty and does not start
// with whitespace.
func scanToken(s string) (Token, int) {
	switch {
	case s[0] == '`':
		if end := strings.IndexByte(s[1:], '`'); end >= 0 {
			return Token{Kind: Verbatim, Text: s[1 : 1+end]}, end + 2
		}
	case strings.HasPrefix(s, "!["):
		if end := strings.IndexByte(s[2:], ']'); end >= 0 {
			return Token{Kind: Image, Text: s[2 : 2+end]}, end + 3
		}
	case s[0] == '|':
		if end := strings.IndexByte(s[1:], '|'); end > 0 {
			target := s[1 : 1+end]
			if !strings.ContainsAny(target, " \t") {
				return Token{Kind: InternalLink, Text: target}, end + 2
			}
		}
	}

	word := s
	if cut := strings.IndexAny(s, " \t"); cut >= 0 {
		word = s[:cut]
	}
	switch {
	case IsWikiWord(word):
		return Token{Kind: WikiWord, Text: word}, len(word)
	case isURL(word):
		trimmed := trimURL(word)
		return Token{Kind: URL, Text: trimmed}, len(trimmed)
	}
	return Token{Kind: Word, Text: word}, len(word)
}

// scanCheckbox recognizes a leading [_] or [X] marker, optionally
// followed by a NN% progress value, and returns the remaining text.
func scanCheckbox(text string) (string, *Checkbox) {
	var checked bool
	switch {
	case strings.HasPrefix(text, "[_] "):
	case strings.HasPrefix(text, "[X] "):
		checked = true
	default:
		return text, nil
	}
	rest := text[4:]
	box := &Checkbox{Checked: checked, Percent: -1}

	if cut := strings.Index(rest, "% "); cut > 0 && cut <= 3 {
		if n, err := strconv.Atoi(rest[:cut]); err == nil && n >= 0 && n <= 100 {
			box.Percent = n
			rest = rest[cut+2:]
		}
	}
	return rest, box
}

func isURL(word string) bool {
	for _, scheme := range []string{"http://", "https://", "ftp://"} {
		if strings.HasPrefix(word, scheme) && len(word) > len(scheme) {
			return true
		}
	}
	return false
}

// trimURL drops trailing punctuation that is more likely to belong to
// the surrounding sentence than the URL, including unbalanced closing
// parens.
func trimURL(word string) string {
	for len(word) > 0 {
		last := word[len(word)-1]
		if strings.IndexByte(",.;:!?'\"", last) >= 0 {
			word = word[:len(word)-1]
			continue
		}
		if last == ')' && strings.Count(word, ")") > strings.Count(word, "(") {
			word = word[:len(word)-1]
			continue
		}
		break
	}
	return word
}
