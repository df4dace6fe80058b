// Package outline implements the otl document model: a tree of
// headline/body pairs parsed from tab-indented plain text and printed
// back to it losslessly.
package outline

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a document invariant violation. It is the only
// error kind produced by document construction and mutation.
type ValidationError struct {
	Rule string // short machine-ish name of the violated invariant
	Text string // the offending headline or key
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid outline: %s: %q", e.Rule, e.Text)
}

func validationErr(rule, text string) error {
	return &ValidationError{Rule: rule, Text: text}
}

// Attribute keys are lowercase identifiers.
var keyRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// headKind discriminates the closed headline variant.
type headKind uint8

const (
	headAbsent headKind = iota
	headText
	headAttr
)

// Headline is the head of one outline node: absent (a structural
// placeholder), a single line of text, or an attribute key.
type Headline struct {
	kind headKind
	text string // literal text for headText, key for headAttr
}

// Absent returns the placeholder headline.
func Absent() Headline { return Headline{} }

// Text returns a textual headline. The text must not contain line breaks;
// that is checked when a Section is built from it.
func Text(s string) Headline { return Headline{kind: headText, text: s} }

// Attr returns an attribute headline for key.
func Attr(key string) Headline { return Headline{kind: headAttr, text: key} }

// IsAbsent reports whether the headline is a structural placeholder.
func (h Headline) IsAbsent() bool { return h.kind == headAbsent }

// IsText reports whether the headline is literal text.
func (h Headline) IsText() bool { return h.kind == headText }

// IsAttr reports whether the headline is an attribute key.
func (h Headline) IsAttr() bool { return h.kind == headAttr }

// Text returns the literal text of a textual headline and whether the
// headline was textual.
func (h Headline) TextContent() (string, bool) { return h.text, h.kind == headText }

// Key returns the key of an attribute headline and whether the headline
// was an attribute.
func (h Headline) Key() (string, bool) { return h.text, h.kind == headAttr }

// Section is one outline node: a headline and the body below it.
// Attribute sections additionally carry an inline value; an attribute
// binds either an inline value or a body, never both.
type Section struct {
	head  Headline
	value string
	body  Document
}

// NewSection builds and validates a section.
func NewSection(head Headline, body Document) (Section, error) {
	if t, ok := head.TextContent(); ok && strings.ContainsAny(t, "\n\r") {
		return Section{}, validationErr("multi-line headline", t)
	}
	if key, ok := head.Key(); ok {
		if !keyRe.MatchString(key) {
			return Section{}, validationErr("malformed attribute key", key)
		}
		if body.Len() == 0 {
			return Section{}, validationErr("attribute without value", key)
		}
	}
	return Section{head: head, body: body}, nil
}

// NewAttr builds an attribute section with an inline value.
func NewAttr(key, value string) (Section, error) {
	if !keyRe.MatchString(key) {
		return Section{}, validationErr("malformed attribute key", key)
	}
	if value == "" {
		return Section{}, validationErr("attribute without value", key)
	}
	if strings.ContainsAny(value, "\n\r") {
		return Section{}, validationErr("multi-line attribute value", value)
	}
	return Section{head: Attr(key), value: value}, nil
}

// NewAttrBody builds an attribute section whose value is a subtree.
func NewAttrBody(key string, body Document) (Section, error) {
	return NewSection(Attr(key), body)
}

// Item builds a plain textual section; it panics on invalid input and is
// meant for literals in code and tests.
func Item(text string, children ...Section) Section {
	body, err := NewDocument(children...)
	if err == nil {
		var sec Section
		if sec, err = NewSection(Text(text), body); err == nil {
			return sec
		}
	}
	panic(err)
}

// Group builds a placeholder-headed section.
func Group(children ...Section) Section {
	body, err := NewDocument(children...)
	if err != nil {
		panic(err)
	}
	return Section{head: Absent(), body: body}
}

// Head returns the section's headline.
func (s Section) Head() Headline { return s.head }

// Value returns the inline value of an attribute section, or "".
func (s Section) Value() string { return s.value }

// Body returns the section's child document.
func (s Section) Body() Document { return s.body }

// Equal reports structural equality.
func (s Section) Equal(other Section) bool {
	return s.head == other.head && s.value == other.value && s.body.Equal(other.body)
}

// Document is an ordered sequence of sections. The root of a parsed file
// is a Document; every Section's body is one too. Documents are value
// snapshots: mutating operations return a new validated Document.
type Document struct {
	kids []Section
	// Derived attribute lookup, built once at construction. Maps key to
	// index in kids. Not part of document identity.
	attrs map[string]int
}

// NewDocument builds and validates a document from sections. Attribute
// sections must form a contiguous prefix with unique keys.
func NewDocument(kids ...Section) (Document, error) {
	inHeader := true
	for _, sec := range kids {
		if _, ok := sec.head.Key(); ok {
			if !inHeader {
				return Document{}, validationErr("attribute after ordinary section", sec.head.text)
			}
		} else {
			inHeader = false
		}
	}
	doc := Document{kids: kids}
	if err := doc.reindex(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d *Document) reindex() error {
	d.attrs = nil
	for i, sec := range d.kids {
		key, ok := sec.head.Key()
		if !ok {
			break
		}
		if d.attrs == nil {
			d.attrs = make(map[string]int)
		}
		if _, dup := d.attrs[key]; dup {
			return validationErr("duplicate attribute key", key)
		}
		d.attrs[key] = i
	}
	return nil
}

// Len returns the number of immediate child sections.
func (d Document) Len() int { return len(d.kids) }

// Sections returns the immediate child sections in order.
func (d Document) Sections() []Section { return d.kids }

// At returns the i'th child section.
func (d Document) At(i int) Section { return d.kids[i] }

// Count returns the transitive number of sections in the document. This
// is the line count used for fold decisions.
func (d Document) Count() int {
	n := len(d.kids)
	for _, sec := range d.kids {
		n += sec.body.Count()
	}
	return n
}

// Equal reports structural equality between document snapshots. The
// derived attribute index is ignored.
func (d Document) Equal(other Document) bool {
	if len(d.kids) != len(other.kids) {
		return false
	}
	for i := range d.kids {
		if !d.kids[i].Equal(other.kids[i]) {
			return false
		}
	}
	return true
}

// Append returns a new document with sections added at the end.
func (d Document) Append(kids ...Section) (Document, error) {
	merged := make([]Section, 0, len(d.kids)+len(kids))
	merged = append(merged, d.kids...)
	merged = append(merged, kids...)
	return NewDocument(merged...)
}

// Replace returns a new document with the i'th section replaced.
func (d Document) Replace(i int, sec Section) (Document, error) {
	kids := make([]Section, len(d.kids))
	copy(kids, d.kids)
	kids[i] = sec
	return NewDocument(kids...)
}

// headerLen returns the length of the attribute header prefix.
func (d Document) headerLen() int {
	n := 0
	for _, sec := range d.kids {
		if !sec.head.IsAttr() {
			break
		}
		n++
	}
	return n
}
