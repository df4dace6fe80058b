package outline

import "strings"

// LineClass is the block category a physical line's content falls in.
type LineClass uint8

const (
	// LinePlain is an ordinary headline candidate.
	LinePlain LineClass = iota
	// LineBlank is a line with no content at all.
	LineBlank
	// LineWrap is a wrapping continuation line (leading space).
	LineWrap
	// LinePreType opens a preformatted block with a sub-kind tag.
	LinePreType
	// LinePre is a preformatted block body line.
	LinePre
	// LineQuoteType opens a quoted block with a sub-kind tag.
	LineQuoteType
	// LineQuote is a quoted block body line.
	LineQuote
	// LineTable is a table row or separator.
	LineTable
)

// IsBlock reports whether lines of this class belong to a multi-line
// block rather than the ordinary outline.
func (c LineClass) IsBlock() bool { return c != LinePlain }

// IsBlockHeader reports whether the line opens a typed block.
func (c LineClass) IsBlockHeader() bool {
	return c == LinePreType || c == LineQuoteType
}

// Wrapping blocks reflow into paragraphs, preformatted ones keep their
// line structure.
func (c LineClass) IsWrapping() bool {
	return c == LineWrap || c == LineQuote || c == LineQuoteType || c == LineBlank
}

func (c LineClass) IsPreformatted() bool {
	return c == LinePre || c == LinePreType || c == LineTable
}

// Line is one classified physical line.
type Line struct {
	Depth int       // count of leading tabs
	Class LineClass //
	Text  string    // content with the block prefix stripped
	Kind  string    // sub-kind tag on block-opening lines
}

// ClassifyLine splits a physical line (no trailing newline) into indent
// depth and classified content.
func ClassifyLine(raw string) Line {
	depth := 0
	for depth < len(raw) && raw[depth] == '\t' {
		depth++
	}
	class, text, kind := Classify(raw[depth:])
	return Line{Depth: depth, Class: class, Text: text, Kind: kind}
}

// Classify applies the block prefix rules to depth-stripped line content.
// Exactly one rule fires; first match wins.
func Classify(text string) (LineClass, string, string) {
	switch {
	case text == "":
		return LineBlank, "", ""
	case text[0] == ' ':
		return LineWrap, text[1:], ""
	case text[0] == ';':
		return classifyBlock(LinePreType, LinePre, text)
	case text[0] == '>':
		return classifyBlock(LineQuoteType, LineQuote, text)
	case text[0] == '|':
		return LineTable, text, ""
	}
	return LinePlain, text, ""
}

// classifyBlock splits a ';' or '>' prefixed line into the type-tag and
// body forms: a prefix followed by non-space or end of line tags the
// block's sub-kind, a prefix followed by a space starts a body line.
func classifyBlock(typeClass, bodyClass LineClass, text string) (LineClass, string, string) {
	rest := text[1:]
	if rest == "" || rest[0] != ' ' {
		return typeClass, "", rest
	}
	return bodyClass, rest[1:], ""
}

// blankLine reports whether the raw line is all whitespace. Blank lines
// never carry structure, whatever their own indentation.
func blankLine(raw string) bool {
	return strings.TrimRight(raw, " \t") == ""
}
