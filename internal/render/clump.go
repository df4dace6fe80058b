// Package render turns a parsed outline into a display tree: lists,
// paragraphs, tables and code blocks with wiki-aware links. Rendering is
// pure and never fails; malformed markup degrades to plain text.
package render

import (
	"github.com/rsaarelm/otlbook/internal/outline"
)

// blockFamily is the clumping key: consecutive sibling sections in the
// same family merge into one renderable unit.
type blockFamily uint8

const (
	famNone  blockFamily = iota // ordinary outline items, never clump
	famAttr                     // attribute header
	famWrap                     // space-indented wrapping text, plus blanks
	famQuote                    // '>' quoted text
	famPre                      // ';' preformatted text
	famTable                    // '|' rows
)

// unit is one renderable clump of sections.
type unit struct {
	family blockFamily
	kind   string // block sub-kind from the opening type line
	secs   []outline.Section
}

// clump groups consecutive sibling sections that share a block family.
// A section only joins the previous unit when the previous section had
// no body, and block-opening type lines always start a fresh unit.
func clump(secs []outline.Section) []unit {
	var units []unit
	var prev outline.Section

	for _, sec := range secs {
		family, kind, opens := sectionFamily(sec)
		join := false
		if family != famNone && len(units) > 0 && !opens {
			last := &units[len(units)-1]
			join = last.family == family &&
				(family == famAttr || prev.Body().Len() == 0)
		}
		if join {
			units[len(units)-1].secs = append(units[len(units)-1].secs, sec)
		} else {
			units = append(units, unit{family: family, kind: kind, secs: []outline.Section{sec}})
		}
		prev = sec
	}
	return units
}

// sectionFamily classifies one section's headline for clumping.
func sectionFamily(sec outline.Section) (blockFamily, string, bool) {
	if sec.Head().IsAttr() {
		return famAttr, "", false
	}
	text, ok := sec.Head().TextContent()
	if !ok {
		return famNone, "", false
	}
	class, _, kind := outline.Classify(text)
	switch class {
	case outline.LineTable:
		return famTable, "", false
	case outline.LinePre:
		return famPre, "", false
	case outline.LinePreType:
		return famPre, kind, true
	case outline.LineQuote:
		return famQuote, "", false
	case outline.LineQuoteType:
		return famQuote, kind, true
	case outline.LineWrap, outline.LineBlank:
		// Blank body-less lines key like wrapping text so they join a
		// preceding space-indented block.
		return famWrap, "", false
	}
	return famNone, "", false
}

// lineContent returns the classified content of a clumped section's
// headline.
func lineContent(sec outline.Section) string {
	text, _ := sec.Head().TextContent()
	_, content, _ := outline.Classify(text)
	return content
}
