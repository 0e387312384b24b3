package xmlwire

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse builds the minimal element tree from XML input. Text directly
// under an element accumulates into Text; whitespace-only text around
// child elements is dropped.
func Parse(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)

	var stack []*Element
	var root *Element
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("xmlwire: unexpected element %s after document end", t.Name.Local)
			}
			el := &Element{
				Name:  t.Name.Local,
				Attrs: convertAttrs(t.Attr),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else {
				root = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmlwire: unexpected end element %s", t.Name.Local)
			}
			el := stack[len(stack)-1]
			if len(el.Children) > 0 && strings.TrimSpace(el.Text) == "" {
				el.Text = ""
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				rootClosed = true
			}

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("xmlwire: character data outside root element")
				}
				continue
			}
			cur := stack[len(stack)-1]
			cur.Text += string(t)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xmlwire: no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("xmlwire: unclosed element %s", stack[len(stack)-1].Name)
	}
	return root, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(b []byte) (*Element, error) {
	return Parse(bytes.NewReader(b))
}

func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		out = append(out, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return out
}
