package soapwire

import (
	"strconv"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/soapwire/soapwire/xmlwire"
)

// Decoder converts parsed XML elements into structured values, directed by
// the shared TypeIndex. Numeric leaves decode to float64 and booleans to
// bool; everything else stays a string, so decoded values round-trip
// through JSON unchanged (the memo cache depends on that).
type Decoder struct {
	ix        TypeIndex
	res       *resolver
	faultTag  string
	faultType string

	mu   sync.Mutex
	memo map[string][]byte // canonical JSON of a decoded value, keyed by declared type + element form
}

// DecoderOption configures a Decoder at construction.
type DecoderOption func(*Decoder)

// WithFaultTag overrides the element name recognized as a fault envelope
// in response bodies. Default "Fault".
func WithFaultTag(tag string) DecoderOption {
	return func(d *Decoder) { d.faultTag = tag }
}

// WithFaultType names the schema type fault envelopes decode against. When
// unset or absent from the index, fault children are collected generically.
func WithFaultType(name string) DecoderOption {
	return func(d *Decoder) { d.faultType = name }
}

// NewDecoder builds a Decoder over ix. The index is held by reference and
// must not be mutated afterwards.
func NewDecoder(ix TypeIndex, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		ix:       ix,
		res:      newResolver(ix),
		faultTag: "Fault",
		memo:     make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode converts el, declared as t, into a structured value. Results are
// memoized per (declared type, canonical element form); every call returns
// an independently mutable value, never a shared instance.
func (d *Decoder) Decode(t SoapType, el *xmlwire.Element) (any, error) {
	return d.decodeMemo(t, el, "/"+el.Name)
}

func (d *Decoder) decodeMemo(t SoapType, el *xmlwire.Element, path string) (any, error) {
	key := t.TypeName() + "\x00" + el.Canonical()

	d.mu.Lock()
	raw, hit := d.memo[key]
	d.mu.Unlock()
	if hit {
		var out any
		if err := gojson.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		// corrupt entry: fall through and recompute
	}

	v, err := d.decodeElement(t, el, path)
	if err != nil {
		return nil, err
	}
	if raw, merr := gojson.Marshal(v); merr == nil {
		d.mu.Lock()
		d.memo[key] = raw
		d.mu.Unlock()
	}
	return v, nil
}

func (d *Decoder) decodeElement(t SoapType, el *xmlwire.Element, path string) (any, error) {
	// An explicit override recovers the concrete subtype the encoder
	// attached; it replaces the declared type entirely.
	if name := el.Attr("type"); name != "" {
		local := xmlwire.LocalName(name)
		nt, ok := d.ix[local]
		if !ok {
			return nil, singleIssue(path, CodeUnknownType, map[string]string{"type": local}, "type override names a type missing from the index")
		}
		t = nt
	}

	if len(el.Children) == 0 {
		return d.leafValue(t, el.Text, path)
	}

	o, ok := t.(*ObjectType)
	if !ok {
		return nil, singleIssue(path, CodeInvalidUsage, map[string]string{"type": t.TypeName()}, "element has child elements but the resolved type is scalar")
	}

	// The union of own and descendant properties tolerates polymorphic
	// children that arrive without an explicit override.
	union, err := d.res.unionProperties(o)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(el.Children))
	for _, child := range el.Children {
		p, ok := union[child.Name]
		if !ok {
			return nil, singleIssue(path+"/"+child.Name, CodeUnknownProperty, map[string]string{"property": child.Name, "type": o.Name}, "")
		}
		if p.IsArray {
			seq, _ := out[p.Name].([]any)
			if seq == nil {
				seq = []any{}
			}
			// An explicitly empty entry marks an empty sequence; it is
			// dropped rather than appended.
			if len(child.Children) == 0 && strings.TrimSpace(child.Text) == "" {
				out[p.Name] = seq
				continue
			}
			v, err := d.decodeMemo(p.Type, child, path+"/"+p.Name)
			if err != nil {
				return nil, err
			}
			out[p.Name] = append(seq, v)
			continue
		}
		v, err := d.decodeMemo(p.Type, child, path+"/"+p.Name)
		if err != nil {
			return nil, err
		}
		// A later same-name child overwrites, supporting out-of-order
		// repeated elements.
		out[p.Name] = v
	}
	return out, nil
}

// leafValue interprets text content against a scalar (or empty object)
// type. Empty content for numeric types decodes to an absent value.
func (d *Decoder) leafValue(t SoapType, text, path string) (any, error) {
	switch tt := t.(type) {
	case *Primitive:
		switch tt.Kind {
		case KindInt, KindLong, KindDouble:
			s := strings.TrimSpace(text)
			if s == "" {
				return nil, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, singleIssue(path, CodeInvalidValue, map[string]string{"type": string(tt.Kind), "value": s}, "")
			}
			return f, nil
		case KindBoolean:
			return strings.TrimSpace(text) == "true", nil
		default:
			return text, nil
		}
	case *Enum:
		return text, nil
	case *ObjectType:
		if strings.TrimSpace(text) == "" {
			return map[string]any{}, nil
		}
		return nil, singleIssue(path, CodeInvalidUsage, map[string]string{"type": tt.Name}, "object type with bare text content")
	}
	return nil, singleIssue(path, CodeUnknownType, map[string]string{"type": t.TypeName()}, "")
}
