package render

import (
	"fmt"
	"html"
	"strings"
)

// HTML encodes a display tree as an HTML fragment. The page shell
// around it belongs to the serving layer.
func HTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindDocument:
		writeKids(b, n)
	case KindList:
		b.WriteString(`<ul style="list-style-type:none">`)
		b.WriteByte('\n')
		for _, kid := range n.Kids {
			b.WriteString("<li>")
			writeHTML(b, kid)
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	case KindItem:
		writeInlineKids(b, n)
	case KindHeading:
		fmt.Fprintf(b, `<strong id="%s">%s</strong>`, html.EscapeString(n.Dest), html.EscapeString(n.Text))
	case KindPageLink:
		fmt.Fprintf(b, `<a href="/a/%s"><strong>%s</strong></a>`, html.EscapeString(n.Dest), html.EscapeString(n.Text))
	case KindParagraph:
		b.WriteString("<p>")
		writeInlineKids(b, n)
		b.WriteString("</p>\n")
	case KindPre:
		b.WriteString("<pre>")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</pre>\n")
	case KindTable:
		b.WriteString("<table>\n")
		writeKids(b, n)
		b.WriteString("</table>\n")
	case KindRow:
		cell := "td"
		if n.Header {
			cell = "th"
		}
		b.WriteString("<tr>")
		for _, kid := range n.Kids {
			b.WriteString("<" + cell + ">")
			writeInlineKids(b, kid)
			b.WriteString("</" + cell + ">")
		}
		b.WriteString("</tr>\n")
	case KindCell:
		writeInlineKids(b, n)
	case KindText:
		b.WriteString(html.EscapeString(n.Text))
	case KindCodeSpan:
		b.WriteString("<code>")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</code>")
	case KindLink:
		fmt.Fprintf(b, `<a href="%s">%s</a>`, html.EscapeString(n.Dest), html.EscapeString(n.Text))
	case KindPageRef:
		if n.Broken {
			fmt.Fprintf(b, `<span class="undefined-word">%s</span>`, html.EscapeString(n.Text))
		} else {
			fmt.Fprintf(b, `<a href="/a/%s">%s</a>`, html.EscapeString(n.Dest), html.EscapeString(n.Text))
		}
	case KindImage:
		fmt.Fprintf(b, `<img src="%s" />`, html.EscapeString(n.Dest))
	case KindMark:
		b.WriteString("<mark>")
		writeInlineKids(b, n)
		b.WriteString("</mark>")
	case KindCheckbox:
		if n.Checked {
			b.WriteString("☑")
		} else {
			b.WriteString("☐")
		}
		if n.Percent >= 0 {
			fmt.Fprintf(b, " %d%%", n.Percent)
		}
	}
}

func writeKids(b *strings.Builder, n *Node) {
	for _, kid := range n.Kids {
		writeHTML(b, kid)
	}
}

// writeInlineKids joins inline children with single spaces, except for
// nodes glued to their predecessor, and lets nested lists start on
// their own line.
func writeInlineKids(b *strings.Builder, n *Node) {
	for i, kid := range n.Kids {
		switch {
		case kid.Kind == KindList || kid.Kind == KindTable || kid.Kind == KindPre || kid.Kind == KindParagraph:
			b.WriteByte('\n')
		case i > 0 && !kid.Adjacent:
			b.WriteByte(' ')
		}
		writeHTML(b, kid)
	}
}
