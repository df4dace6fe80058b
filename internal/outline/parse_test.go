package outline

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, text string) Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return doc
}

func TestParseEmpty(t *testing.T) {
	doc := mustParse(t, "")
	if doc.Len() != 0 {
		t.Errorf("Expected empty document, got %d sections", doc.Len())
	}
}

func TestParseDepth(t *testing.T) {
	doc := mustParse(t, "a\n\tb\n\tc")

	if doc.Len() != 1 {
		t.Fatalf("Expected 1 root section, got %d", doc.Len())
	}
	a := doc.At(0)
	if text, _ := a.Head().TextContent(); text != "a" {
		t.Errorf("Expected headline a, got %q", text)
	}
	if a.Body().Len() != 2 {
		t.Fatalf("Expected 2 children under a, got %d", a.Body().Len())
	}
	for i, want := range []string{"b", "c"} {
		if text, _ := a.Body().At(i).Head().TextContent(); text != want {
			t.Errorf("Child %d: expected %q, got %q", i, want, text)
		}
	}
}

func TestParseCommaEscape(t *testing.T) {
	doc := mustParse(t, ",")
	if doc.Len() != 1 || !doc.At(0).Head().IsAbsent() || doc.At(0).Body().Len() != 0 {
		t.Errorf("Parse(\",\") should give one empty placeholder section")
	}

	tests := []struct {
		in   string
		want string
	}{
		{",,", ","},
		{",,,", ",,"},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.in)
		if doc.Len() != 1 {
			t.Fatalf("Parse(%q): expected 1 section, got %d", tt.in, doc.Len())
		}
		if text, ok := doc.At(0).Head().TextContent(); !ok || text != tt.want {
			t.Errorf("Parse(%q): expected headline %q, got %q", tt.in, tt.want, text)
		}
	}
}

func TestParseDoubleIndent(t *testing.T) {
	doc := mustParse(t, "\t\ta\n\tb\n\tc")

	if doc.Len() != 1 {
		t.Fatalf("Expected 1 root section, got %d", doc.Len())
	}
	group := doc.At(0)
	if !group.Head().IsAbsent() {
		t.Errorf("Expected placeholder head on the double-indented group")
	}
	if group.Body().Len() != 3 {
		t.Fatalf("Expected 3 sections in the group, got %d", group.Body().Len())
	}
	inner := group.Body().At(0)
	if !inner.Head().IsAbsent() || inner.Body().Len() != 1 {
		t.Errorf("Expected nested placeholder holding a")
	}
	if text, _ := inner.Body().At(0).Head().TextContent(); text != "a" {
		t.Errorf("Expected a inside the inner group, got %q", text)
	}
	for i, want := range []string{"b", "c"} {
		if text, _ := group.Body().At(i + 1).Head().TextContent(); text != want {
			t.Errorf("Group child %d: expected %q, got %q", i+1, want, text)
		}
	}
}

func TestParseBlankLines(t *testing.T) {
	text := "a\n\tfirst\n\n\tsecond\n"
	doc := mustParse(t, text)

	// A blank line is accepted at any open level, so it attaches under
	// the deepest open section, not as a sibling of it.
	a := doc.At(0)
	if a.Body().Len() != 2 {
		t.Fatalf("Expected 2 children under a, got %d", a.Body().Len())
	}
	first := a.Body().At(0)
	if first.Body().Len() != 1 {
		t.Fatalf("Expected the blank to nest under first, got %d children", first.Body().Len())
	}
	blank := first.Body().At(0)
	if text, ok := blank.Head().TextContent(); !ok || text != "" {
		t.Errorf("Expected empty-string headline for the blank line")
	}

	if got := Print(doc); got != text {
		t.Errorf("Blank line did not survive reprint.\nwant %q\ngot  %q", text, got)
	}
}

func TestParseCRLF(t *testing.T) {
	unix := mustParse(t, "a\n\tb\n")
	dos := mustParse(t, "a\r\n\tb\r\n")
	if !unix.Equal(dos) {
		t.Errorf("CRLF input should parse the same as LF input")
	}
}

func TestParseAttributeHeader(t *testing.T) {
	doc := mustParse(t, "a: 1\nb: 2\nx")

	header := doc.Header()
	if len(header) != 2 {
		t.Fatalf("Expected 2 header attributes, got %d", len(header))
	}
	if v, ok := doc.Attr("a"); !ok || v != "1" {
		t.Errorf("Expected a=1, got %q (found=%v)", v, ok)
	}
	if v, ok := doc.Attr("b"); !ok || v != "2" {
		t.Errorf("Expected b=2, got %q (found=%v)", v, ok)
	}
	if text, _ := doc.At(2).Head().TextContent(); text != "x" {
		t.Errorf("Expected ordinary section x after the header, got %q", text)
	}
}

func TestParseAttributeScanStops(t *testing.T) {
	doc := mustParse(t, "a: 1\nx\nb: 2")

	if len(doc.Header()) != 1 {
		t.Fatalf("Expected header to stop at x, got %d attributes", len(doc.Header()))
	}
	if _, ok := doc.Attr("b"); ok {
		t.Errorf("b after an ordinary section must not become an attribute")
	}
	if text, _ := doc.At(2).Head().TextContent(); text != "b: 2" {
		t.Errorf("Expected literal headline \"b: 2\", got %q", text)
	}
}

func TestParseDuplicateAttributeKey(t *testing.T) {
	doc := mustParse(t, "a: 1\na: 2")

	if len(doc.Header()) != 1 {
		t.Fatalf("Expected 1 attribute, got %d", len(doc.Header()))
	}
	if v, _ := doc.Attr("a"); v != "1" {
		t.Errorf("First occurrence should win, got a=%q", v)
	}
	if text, _ := doc.At(1).Head().TextContent(); text != "a: 2" {
		t.Errorf("Repeat should stay an ordinary section, got %q", text)
	}
}

func TestParseAttributeBodyValue(t *testing.T) {
	doc := mustParse(t, "recipe:\n\tflour\n\twater\nx")

	body, ok := doc.AttrBody("recipe")
	if !ok {
		t.Fatalf("Expected recipe to parse as a body-valued attribute")
	}
	if body.Len() != 2 {
		t.Errorf("Expected 2 body lines, got %d", body.Len())
	}
}

func TestParseAttributeBothValuesStaysOrdinary(t *testing.T) {
	doc := mustParse(t, "a: 1\n\tchild")

	if len(doc.Header()) != 0 {
		t.Errorf("Inline value plus body must disqualify attribute status")
	}
	if text, _ := doc.At(0).Head().TextContent(); text != "a: 1" {
		t.Errorf("Expected literal headline, got %q", text)
	}
}

func TestParseAttributeAfterPlaceholder(t *testing.T) {
	// Placeholders are not part of the header; scanning stops there.
	doc := mustParse(t, "\t\tdata\na: 1")
	if len(doc.Header()) != 0 {
		t.Errorf("Attributes after a leading placeholder must stay ordinary")
	}
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"a\n",
		"a\n\tb\n\tc\n",
		"a\n\tb\n\t\tc\nd\n",
		"title: FrontPage\na\n",
		"a\n\n\tb\n",
		"\t\tx 12\n\ty\n",
		"a\n\t\tfirst\n\t,\n\t\tsecond\n",
		"a\n\t,\n",
		";code\n; line one\n; line two\n",
		"| a | b |\n| - | - |\n| 1 | 2 |\n",
	}
	for _, text := range texts {
		doc := mustParse(t, text)
		printed := Print(doc)
		if printed != text {
			t.Errorf("Reprint mismatch.\nwant %q\ngot  %q", text, printed)
			continue
		}
		again := mustParse(t, printed)
		if !doc.Equal(again) {
			t.Errorf("parse(print(d)) != d for %q", text)
		}
	}
}

func TestRoundTripCommaEdgeCases(t *testing.T) {
	// The escape cases guarantee equivalence, not byte identity: a
	// first-position placeholder with a body reprints without its comma.
	for _, text := range []string{",", ",,", ",,,", ",\n\tx", "a\n\t,\n\t\tfirst\n\t,\n\t\tsecond\n"} {
		doc := mustParse(t, text)
		again := mustParse(t, Print(doc))
		if !doc.Equal(again) {
			t.Errorf("Comma case %q not stable under reparse", text)
		}
	}
}

func TestParseIsTotal(t *testing.T) {
	// Odd indentation must never fail, only regroup.
	inputs := []string{
		"\t\t\tdeep",
		"a\n\t\t\t\tb",
		"\ta\nb",
		strings.Repeat("\t", 30) + "x",
	}
	for _, in := range inputs {
		if _, err := Parse(in); err != nil {
			t.Errorf("Parse(%q) returned error: %v", in, err)
		}
	}
}
