package outline

import "strings"

// Parse reads tab-indented otl text into a Document. It is total over
// arbitrary input: odd indentation is resolved through placeholder
// grouping rather than rejected, so hand-edited files always load. The
// returned error only reports attribute header construction failures.
func Parse(text string) (Document, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return Document{}, nil
	}

	p := &parser{}
	for _, raw := range strings.Split(text, "\n") {
		if blankLine(raw) {
			p.lines = append(p.lines, parseLine{blank: true})
			continue
		}
		depth := 0
		for depth < len(raw) && raw[depth] == '\t' {
			depth++
		}
		p.lines = append(p.lines, parseLine{depth: depth, text: raw[depth:]})
	}

	kids := p.parseBody(0)
	return NewDocument(extractHeader(kids)...)
}

type parseLine struct {
	depth int
	text  string
	blank bool
}

type parser struct {
	lines []parseLine
	pos   int
}

func (p *parser) peek() (parseLine, bool) {
	if p.pos >= len(p.lines) {
		return parseLine{}, false
	}
	return p.lines[p.pos], true
}

// parseBody consumes sibling sections at the expected depth until input
// runs out or a shallower line ends this level.
func (p *parser) parseBody(depth int) []Section {
	var kids []Section
	for {
		line, ok := p.peek()
		if !ok {
			return kids
		}
		if !line.blank && line.depth < depth {
			return kids
		}
		kids = append(kids, p.parseSection(depth))
	}
}

// parseSection reads one section at the expected depth. A deeper line is
// a double indent: it becomes the body of an implicit placeholder head,
// consuming nothing at this level.
func (p *parser) parseSection(depth int) Section {
	line, _ := p.peek()

	var head Headline
	switch {
	case line.blank:
		// Blank lines are content wherever they appear.
		p.pos++
		head = Text("")
	case line.depth > depth:
		head = Absent()
	default:
		p.pos++
		head = parseHeadline(line.text)
	}

	kids := p.parseBody(depth + 1)
	body, err := NewDocument(extractHeader(kids)...)
	if err != nil {
		// extractHeader only produces unique keys, so header
		// construction from parsed text cannot fail.
		panic(err)
	}
	return Section{head: head, body: body}
}

// parseHeadline applies the comma escape rules to depth-stripped text. A
// lone comma is a pure group separator; longer all-comma lines shed one
// comma of escaping.
func parseHeadline(text string) Headline {
	if text == "," {
		return Absent()
	}
	if isCommaString(text) {
		return Text(text[1:])
	}
	return Text(text)
}

func isCommaString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			return false
		}
	}
	return true
}
