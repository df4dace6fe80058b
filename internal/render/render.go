package render

import (
	"github.com/rsaarelm/otlbook/internal/inline"
	"github.com/rsaarelm/otlbook/internal/outline"
)

// NodeKind tags one node of the display tree.
type NodeKind uint8

const (
	// KindDocument is the root of a rendered page.
	KindDocument NodeKind = iota
	// KindList is an ordered run of outline items.
	KindList
	// KindItem is one outline item: inline content plus an optional
	// trailing KindList of children.
	KindItem
	// KindHeading is an anchorable wiki-word heading.
	KindHeading
	// KindPageLink replaces a folded subtree with a link to its page.
	KindPageLink
	// KindParagraph is reflowed wrapping or quoted text.
	KindParagraph
	// KindPre is a preformatted block; Info carries the sub-kind tag.
	KindPre
	// KindTable, KindRow and KindCell form tables; Header marks rows.
	KindTable
	KindRow
	KindCell
	// KindText is plain inline text.
	KindText
	// KindCodeSpan is an inline verbatim span.
	KindCodeSpan
	// KindLink is an external URL link.
	KindLink
	// KindPageRef is an inline wiki reference; Broken marks unresolved
	// targets.
	KindPageRef
	// KindImage is an inline image; Dest is the path.
	KindImage
	// KindMark wraps an important line.
	KindMark
	// KindCheckbox is a leading task marker.
	KindCheckbox
)

// Node is one node of the rendered display tree.
type Node struct {
	Kind   NodeKind
	Text   string
	Dest   string // link target for KindLink, KindPageRef, KindPageLink, KindImage
	Info   string // block sub-kind for KindPre
	Header bool   // KindRow: header row
	Broken bool   // KindPageRef: target does not resolve
	// Adjacent marks inline nodes glued to their predecessor with no
	// separating space.
	Adjacent bool
	Checked  bool // KindCheckbox
	Percent  int  // KindCheckbox progress, -1 when absent
	Kids     []*Node
}

// Options control rendering.
type Options struct {
	// FoldThreshold is the transitive section count above which a
	// wiki-word-headed subtree renders as a page link instead of
	// inlining. Zero means the default of 10; negative disables
	// folding.
	FoldThreshold int
	// Resolve reports whether a wiki-word names a known page. A nil
	// resolver treats every reference as known.
	Resolve func(name string) bool
}

// DefaultFoldThreshold matches the original renderer's cutover from
// inlined subtrees to subpage links.
const DefaultFoldThreshold = 10

func (o Options) threshold() int {
	switch {
	case o.FoldThreshold == 0:
		return DefaultFoldThreshold
	case o.FoldThreshold < 0:
		return int(^uint(0) >> 1)
	}
	return o.FoldThreshold
}

func (o Options) resolves(name string) bool {
	return o.Resolve == nil || o.Resolve(name)
}

// Render converts a document into a display tree. It is a pure
// function: rendering the same document twice yields structurally
// identical trees.
func Render(doc outline.Document, opt Options) *Node {
	return &Node{Kind: KindDocument, Kids: renderBody(doc, opt)}
}

func renderBody(doc outline.Document, opt Options) []*Node {
	var kids []*Node
	for _, u := range clump(doc.Sections()) {
		if n := renderUnit(u, opt); n != nil {
			kids = append(kids, n...)
		}
	}
	if len(kids) == 0 {
		return nil
	}
	return []*Node{{Kind: KindList, Kids: kids}}
}

func renderUnit(u unit, opt Options) []*Node {
	switch u.family {
	case famAttr:
		return []*Node{attrTable(u.secs)}
	case famTable:
		return []*Node{tableNode(u.secs)}
	case famPre:
		return []*Node{preNode(u)}
	case famWrap, famQuote:
		return paragraphNodes(u, opt)
	}
	var out []*Node
	for _, sec := range u.secs {
		out = append(out, renderSection(sec, opt))
	}
	return out
}

// renderSection renders one ordinary outline item.
func renderSection(sec outline.Section, opt Options) *Node {
	item := &Node{Kind: KindItem}

	if text, ok := sec.Head().TextContent(); ok {
		if inline.IsWikiWord(text) {
			// Wiki captions are anchorable headings; big ones fold
			// into links to their own page.
			if sec.Body().Count() > opt.threshold() {
				item.Kids = append(item.Kids,
					&Node{Kind: KindPageLink, Text: inline.WikiWordSpaces(text), Dest: text})
				return item
			}
			item.Kids = append(item.Kids,
				&Node{Kind: KindHeading, Text: inline.WikiWordSpaces(text), Dest: text})
		} else {
			item.Kids = append(item.Kids, inlineNodes(inline.Tokenize(text), opt)...)
		}
	}

	item.Kids = append(item.Kids, renderBody(sec.Body(), opt)...)
	return item
}

// inlineNodes maps each token to an output node; important lines wrap
// the whole run in a mark node.
func inlineNodes(line inline.Line, opt Options) []*Node {
	var kids []*Node
	if box := line.Checkbox; box != nil {
		kids = append(kids, &Node{Kind: KindCheckbox, Checked: box.Checked, Percent: box.Percent})
	}
	for _, tok := range line.Tokens {
		kids = append(kids, tokenNode(tok, opt))
	}
	if line.Important {
		return []*Node{{Kind: KindMark, Kids: kids}}
	}
	return kids
}

func tokenNode(tok inline.Token, opt Options) *Node {
	n := &Node{Text: tok.Text}
	switch tok.Kind {
	case inline.WikiWord:
		n.Kind = KindPageRef
		n.Dest = tok.Text
		n.Broken = !opt.resolves(tok.Text)
	case inline.InternalLink:
		n.Kind = KindPageRef
		n.Dest = tok.Text
		n.Broken = !opt.resolves(tok.Text)
	case inline.URL:
		n.Kind = KindLink
		n.Dest = tok.Text
	case inline.Image:
		n.Kind = KindImage
		n.Dest = tok.Text
		n.Text = ""
	case inline.Verbatim:
		n.Kind = KindCodeSpan
	default:
		n.Kind = KindText
	}
	n.Adjacent = tok.Adjacent
	return n
}

// attrTable renders a body's attribute header as a key/value grid.
func attrTable(secs []outline.Section) *Node {
	table := &Node{Kind: KindTable, Info: "attrs"}
	for _, sec := range secs {
		key, _ := sec.Head().Key()
		value := sec.Value()
		if value == "" {
			value = outline.Print(sec.Body())
		}
		table.Kids = append(table.Kids, &Node{Kind: KindRow, Kids: []*Node{
			{Kind: KindCell, Kids: []*Node{{Kind: KindText, Text: key}}},
			{Kind: KindCell, Kids: []*Node{{Kind: KindText, Text: value}}},
		}})
	}
	return table
}

// tableNode renders clumped '|' rows. A dashed separator as the second
// row promotes the first row to a header.
func tableNode(secs []outline.Section) *Node {
	table := &Node{Kind: KindTable}
	var rows [][]string
	for _, sec := range secs {
		rows = append(rows, inline.TableCells(lineContent(sec)))
	}

	header := len(rows) > 1 && inline.IsSeparatorRow(rows[1])
	for i, cells := range rows {
		if header && i == 1 {
			continue
		}
		row := &Node{Kind: KindRow, Header: header && i == 0}
		for _, cell := range cells {
			row.Kids = append(row.Kids, &Node{Kind: KindCell,
				Kids: []*Node{{Kind: KindText, Text: cell}}})
		}
		table.Kids = append(table.Kids, row)
	}
	return table
}

// preNode concatenates preformatted lines into one monospace block.
func preNode(u unit) *Node {
	n := &Node{Kind: KindPre, Info: u.kind}
	text := ""
	for _, sec := range u.secs {
		if c := sectionClass(sec); c == outline.LinePreType {
			// The type line tags the block, it is not content.
			continue
		}
		text += lineContent(sec) + "\n"
	}
	n.Text = text
	return n
}

// paragraphNodes splits a wrapping clump on blank lines and reflows
// each paragraph's lines into one run of inline content.
func paragraphNodes(u unit, opt Options) []*Node {
	var paras []*Node
	var lines []string
	flush := func() {
		if len(lines) == 0 {
			return
		}
		text := ""
		for i, l := range lines {
			if i > 0 {
				text += " "
			}
			text += l
		}
		paras = append(paras, &Node{Kind: KindParagraph,
			Kids: inlineNodes(inline.Tokenize(text), opt)})
		lines = nil
	}

	for _, sec := range u.secs {
		if c := sectionClass(sec); c == outline.LineQuoteType {
			continue
		}
		content := lineContent(sec)
		if content == "" {
			flush()
			continue
		}
		lines = append(lines, content)
	}
	flush()
	return paras
}

func sectionClass(sec outline.Section) outline.LineClass {
	text, _ := sec.Head().TextContent()
	class, _, _ := outline.Classify(text)
	return class
}
