package outline

import "strings"

// Print serializes a document back to tab-indented otl text. For every
// well-formed document d, Parse(Print(d)) is structurally equal to d;
// the comma escape cases reprint to an observably equivalent tree.
func Print(d Document) string {
	var b strings.Builder
	printBody(&b, 0, d)
	return b.String()
}

// PrintSection serializes a single section at top level.
func PrintSection(sec Section) string {
	var b strings.Builder
	printSection(&b, 0, sec)
	return b.String()
}

func printBody(b *strings.Builder, depth int, d Document) {
	for i, sec := range d.kids {
		// Group placeholders print as a separator comma, except in
		// first position where the placeholder is implicit; a leading
		// placeholder with no body still needs the comma or it would
		// vanish entirely.
		if sec.head.IsAbsent() && (i > 0 || sec.body.Len() == 0) {
			printLine(b, depth, ",")
		}
		printSection(b, depth, sec)
	}
}

func printSection(b *strings.Builder, depth int, sec Section) {
	switch {
	case sec.head.IsAbsent():
		// Head already handled by the separator rule.
	case sec.head.IsAttr():
		key, _ := sec.head.Key()
		if sec.value != "" {
			printLine(b, depth, key+": "+sec.value)
		} else {
			printLine(b, depth, key+":")
		}
	default:
		text, _ := sec.head.TextContent()
		switch {
		case text == "":
			// Blank lines reprint with no indentation at all.
			b.WriteByte('\n')
		case isCommaString(text):
			// Literal comma runs escape by doubling.
			printLine(b, depth, ","+text)
		default:
			printLine(b, depth, text)
		}
	}
	printBody(b, depth+1, sec.body)
}

func printLine(b *strings.Builder, depth int, text string) {
	for i := 0; i < depth; i++ {
		b.WriteByte('\t')
	}
	b.WriteString(text)
	b.WriteByte('\n')
}
