// Package xmlwire holds the minimal XML element model the marshalling
// engine consumes: an element is a local name, text content, ordered
// children, and attributes. Namespace prefixes are stripped on parse;
// anything beyond locating children by name is out of scope.
package xmlwire

import (
	"sort"
	"strconv"
	"strings"
)

// Attr is a single name/value attribute pair. Name is the local name with
// any namespace prefix removed.
type Attr struct {
	Name  string
	Value string
}

// Element is a parsed XML element.
type Element struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of the attribute with the given local name, or ""
// when absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, distinguishing an
// empty value from absence.
func (e *Element) HasAttr(name string) bool {
	for _, a := range e.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Find returns the first direct child with the given local name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Canonical renders a stable string form of the element: attributes sorted
// by name, children in document order. Every name, text, and attribute
// value is length-prefixed, so the structural delimiters can never be
// forged by content and distinct elements never share a canonical form.
// Used as a memoization key; not valid XML.
func (e *Element) Canonical() string {
	b := &strings.Builder{}
	e.canonical(b)
	return b.String()
}

func (e *Element) canonical(b *strings.Builder) {
	writeField(b, e.Name)
	if len(e.Attrs) > 0 {
		attrs := make([]Attr, len(e.Attrs))
		copy(attrs, e.Attrs)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
		b.WriteByte('[')
		for i, a := range attrs {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeField(b, a.Name)
			b.WriteByte('=')
			writeField(b, a.Value)
		}
		b.WriteByte(']')
	}
	b.WriteByte('{')
	writeField(b, e.Text)
	for _, c := range e.Children {
		b.WriteByte('|')
		c.canonical(b)
	}
	b.WriteByte('}')
}

// writeField emits s prefixed with its byte length, keeping the canonical
// form injective regardless of what s contains.
func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// LocalName strips a namespace prefix from a qualified name
// ("xsd:Dog" -> "Dog").
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
