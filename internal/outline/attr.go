package outline

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// attrLineRe matches a headline of the form "key:" or "key: value".
var attrLineRe = regexp.MustCompile(`^([a-z][a-z0-9-]*):(?: (.*))?$`)

// extractHeader converts the leading run of attribute-shaped sections
// into attribute sections. Scanning starts at the very front of the body
// and looks only at textual headlines; a placeholder, a blank line, a
// repeated key or any headline that does not parse as an attribute stops
// the scan, and everything from there on stays ordinary. The scan never
// fails: a section that would make a malformed attribute simply keeps its
// literal headline.
func extractHeader(kids []Section) []Section {
	seen := make(map[string]bool)
	for i, sec := range kids {
		text, ok := sec.head.TextContent()
		if !ok {
			break
		}
		m := attrLineRe.FindStringSubmatch(text)
		if m == nil {
			break
		}
		key, value := m[1], m[2]
		if seen[key] {
			break
		}
		// An attribute binds an inline value or a body, never both and
		// never neither. Anything else stays an ordinary section.
		if (value == "") == (sec.body.Len() == 0) {
			break
		}
		seen[key] = true
		kids[i] = Section{head: Attr(key), value: value, body: sec.body}
	}
	return kids
}

// Attr returns the inline value of an attribute, if present. Body-valued
// attributes report found with an empty string; use AttrBody for them.
func (d Document) Attr(key string) (string, bool) {
	i, ok := d.attrs[key]
	if !ok {
		return "", false
	}
	return d.kids[i].value, true
}

// AttrBody returns the body value of an attribute, if present.
func (d Document) AttrBody(key string) (Document, bool) {
	i, ok := d.attrs[key]
	if !ok {
		return Document{}, false
	}
	return d.kids[i].body, true
}

// AttrAs reads an attribute and unmarshals its value into out. Inline
// values decode as a single YAML scalar or flow sequence; body values
// decode from the printed body text. Returns false if the attribute is
// absent, an error only if it exists but does not decode.
func (d Document) AttrAs(key string, out any) (bool, error) {
	i, ok := d.attrs[key]
	if !ok {
		return false, nil
	}
	src := d.kids[i].value
	if src == "" {
		src = Print(d.kids[i].body)
	}
	if err := yaml.Unmarshal([]byte(src), out); err != nil {
		return true, fmt.Errorf("attribute %s: %w", key, err)
	}
	return true, nil
}

// SetAttr returns a new document with the attribute set. An existing key
// is replaced in place; a new key is appended at the end of the header.
// An empty value removes the attribute.
func (d Document) SetAttr(key, value string) (Document, error) {
	if value == "" {
		return d.RemoveAttr(key), nil
	}
	attr, err := NewAttr(key, value)
	if err != nil {
		return Document{}, err
	}
	if i, ok := d.attrs[key]; ok {
		return d.Replace(i, attr)
	}
	kids := make([]Section, 0, len(d.kids)+1)
	head := d.headerLen()
	kids = append(kids, d.kids[:head]...)
	kids = append(kids, attr)
	kids = append(kids, d.kids[head:]...)
	return NewDocument(kids...)
}

// SetAttrAs marshals v to YAML and stores it under key. Values that
// marshal to multiple lines are stored as a body-valued attribute.
func (d Document) SetAttrAs(key string, v any) (Document, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return Document{}, err
	}
	text := strings.TrimRight(string(raw), "\n")
	if !strings.Contains(text, "\n") {
		return d.SetAttr(key, text)
	}
	body, err := Parse(text)
	if err != nil {
		return Document{}, err
	}
	attr, err := NewAttrBody(key, body)
	if err != nil {
		return Document{}, err
	}
	if i, ok := d.attrs[key]; ok {
		return d.Replace(i, attr)
	}
	kids := make([]Section, 0, len(d.kids)+1)
	head := d.headerLen()
	kids = append(kids, d.kids[:head]...)
	kids = append(kids, attr)
	kids = append(kids, d.kids[head:]...)
	return NewDocument(kids...)
}

// RemoveAttr returns a new document without the named attribute. Removing
// a missing attribute is a no-op.
func (d Document) RemoveAttr(key string) Document {
	i, ok := d.attrs[key]
	if !ok {
		return d
	}
	kids := make([]Section, 0, len(d.kids)-1)
	kids = append(kids, d.kids[:i]...)
	kids = append(kids, d.kids[i+1:]...)
	doc, err := NewDocument(kids...)
	if err != nil {
		// Removing a section cannot break header invariants.
		panic(err)
	}
	return doc
}

// Header returns the attribute sections forming the document's header.
func (d Document) Header() []Section {
	return d.kids[:d.headerLen()]
}
