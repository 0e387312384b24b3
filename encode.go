package soapwire

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/soapwire/soapwire/xmlwire"
)

// DisambiguateFunc picks the concrete descendant type for a value whose
// declared type has structurally identical siblings. It returns the chosen
// type name, or ok=false to fall back to the generic structural search.
type DisambiguateFunc func(value map[string]any) (typeName string, ok bool)

// Encoder converts structured values into XML fragments, directed by the
// shared TypeIndex. Safe for concurrent use; the only mutable state is the
// mutex-guarded property-resolution memo.
type Encoder struct {
	ix       TypeIndex
	res      *resolver
	disambig map[string]DisambiguateFunc
}

// EncoderOption configures an Encoder at construction.
type EncoderOption func(*Encoder)

// WithDisambiguator registers a predicate consulted before the structural
// descent whenever a value carries more keys than parentType declares.
// Narrow by intent: schemas register one entry per known ambiguous sibling
// group, nothing more.
func WithDisambiguator(parentType string, fn DisambiguateFunc) EncoderOption {
	return func(e *Encoder) { e.disambig[parentType] = fn }
}

// NewEncoder builds an Encoder over ix. The index is held by reference and
// must not be mutated afterwards.
func NewEncoder(ix TypeIndex, opts ...EncoderOption) *Encoder {
	e := &Encoder{ix: ix, res: newResolver(ix), disambig: make(map[string]DisambiguateFunc)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode converts v, declared as t, into an XML fragment. Object values
// yield the concatenated property elements with no enclosing tag (the
// caller wraps them); scalar values yield escaped text.
func (e *Encoder) Encode(t SoapType, v any) (string, error) {
	switch tt := t.(type) {
	case *ObjectType:
		m, ok := v.(map[string]any)
		if !ok {
			if v == nil {
				return "", nil
			}
			return "", singleIssue("/", CodeInvalidUsage, map[string]string{"type": tt.Name}, "object type requires a map value")
		}
		body, _, err := e.encodeObject(tt, m, "")
		return body, err
	default:
		return e.scalarText(t, v, "")
	}
}

// EncodeElement encodes v wrapped in an element named name. When the
// structural search resolves a concrete subtype differing from the
// declared type, the tag carries an explicit type-override attribute so a
// decoder can recover the subtype without searching.
func (e *Encoder) EncodeElement(name string, t SoapType, v any) (string, error) {
	b := &strings.Builder{}
	if err := e.writeTagged(b, name, t, v, "/"+name); err != nil {
		return "", err
	}
	return b.String(), nil
}

// encodeObject runs the object algorithm: consume declared properties in
// declaration order, enforce required ones, then — if keys remain — retry
// against descendant types (disambiguation predicate first, structural
// search second). Returns the emitted body and the concrete type that
// accepted the value.
func (e *Encoder) encodeObject(o *ObjectType, m map[string]any, path string) (string, *ObjectType, error) {
	props, err := e.res.allProperties(o)
	if err != nil {
		return "", nil, err
	}

	unconsumed := make(map[string]struct{}, len(m))
	for k := range m {
		unconsumed[k] = struct{}{}
	}

	b := &strings.Builder{}
	for _, p := range props {
		val, present := m[p.Name]
		if !present {
			if !p.IsOptional {
				return "", nil, singleIssue(path+"/"+p.Name, CodeRequired, map[string]string{"property": p.Name, "type": o.Name}, "")
			}
			continue
		}
		delete(unconsumed, p.Name)
		if err := e.encodeProperty(b, p, val, path+"/"+p.Name); err != nil {
			return "", nil, err
		}
	}

	if len(unconsumed) == 0 {
		return b.String(), o, nil
	}

	// Leftover keys: the value may actually be a more derived type.
	if fn, ok := e.disambig[o.Name]; ok {
		if name, picked := fn(m); picked {
			c, found := e.ix.Object(name)
			if !found {
				return "", nil, singleIssue(path, CodeUnknownType, map[string]string{"type": name}, "disambiguator chose a type missing from the index")
			}
			return e.encodeObject(c, m, path)
		}
	}

	var lastErr error
	for _, childName := range o.Children {
		c, ok := e.ix.Object(childName)
		if !ok {
			continue
		}
		body, concrete, err := e.encodeObject(c, m, path)
		if err == nil {
			return body, concrete, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		// Search exhausted; surface the last failure as the diagnostic.
		return "", nil, lastErr
	}
	return "", nil, singleIssue(path, CodeUnknownProperty,
		map[string]string{"property": strings.Join(sortedKeys(unconsumed), ","), "type": o.Name},
		"no descendant type accepts these keys")
}

// encodeProperty enforces the array/scalar shape and emits one tag per
// entry for arrays. A zero-entry array emits nothing.
func (e *Encoder) encodeProperty(b *strings.Builder, p Property, val any, path string) error {
	seq, isSeq := val.([]any)
	if p.IsArray != isSeq {
		return singleIssue(path, CodeArrayShape,
			map[string]string{"property": p.Name, "expected": shapeName(p.IsArray)}, "")
	}
	if p.IsArray {
		for i, entry := range seq {
			if err := e.writeTagged(b, p.Name, p.Type, entry, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}
	return e.writeTagged(b, p.Name, p.Type, val, path)
}

// writeTagged emits <name>body</name>, attaching the type-override
// attribute when a composite value resolved to a subtype of its declared
// type.
func (e *Encoder) writeTagged(b *strings.Builder, name string, t SoapType, val any, path string) error {
	if obj, ok := t.(*ObjectType); ok {
		if val == nil {
			fmt.Fprintf(b, "<%s></%s>", name, name)
			return nil
		}
		m, ok := val.(map[string]any)
		if !ok {
			return singleIssue(path, CodeInvalidUsage, map[string]string{"type": obj.Name}, "object type requires a map value")
		}
		body, concrete, err := e.encodeObject(obj, m, path)
		if err != nil {
			return err
		}
		if concrete.Name != obj.Name {
			fmt.Fprintf(b, `<%s type="%s">%s</%s>`, name, concrete.Name, body, name)
		} else {
			fmt.Fprintf(b, "<%s>%s</%s>", name, body, name)
		}
		return nil
	}
	text, err := e.scalarText(t, val, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "<%s>%s</%s>", name, text, name)
	return nil
}

// scalarText validates a scalar against its primitive or enum type and
// returns the escaped text content. nil encodes to an empty text node
// without validation.
func (e *Encoder) scalarText(t SoapType, val any, path string) (string, error) {
	if val == nil {
		return "", nil
	}
	s, ok := scalarString(val)
	if !ok {
		return "", singleIssue(path, CodeInvalidUsage, map[string]string{"type": t.TypeName()}, "scalar type given a composite value")
	}
	switch tt := t.(type) {
	case *Enum:
		if !tt.Contains(s) {
			return "", singleIssue(path, CodeInvalidValue,
				map[string]string{"type": tt.Name, "value": s, "expected": strings.Join(tt.Values, "|")}, "")
		}
	case *Primitive:
		switch tt.Kind {
		case KindInt:
			d, err := decimal.NewFromString(s)
			if err != nil || !d.IsInteger() {
				return "", singleIssue(path, CodeInvalidValue, map[string]string{"type": "int", "value": s}, "")
			}
		case KindLong, KindDouble:
			if _, err := decimal.NewFromString(s); err != nil {
				return "", singleIssue(path, CodeInvalidValue, map[string]string{"type": string(tt.Kind), "value": s}, "")
			}
		case KindBoolean:
			if s != "true" && s != "false" {
				return "", singleIssue(path, CodeInvalidValue, map[string]string{"type": "boolean", "value": s}, "")
			}
		case KindString:
			// anything goes
		}
	}
	return xmlwire.Escape(s), nil
}

// scalarString renders a scalar value in its canonical string form.
func scalarString(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case map[string]any, []any:
		return "", false
	case fmt.Stringer:
		return v.String(), true
	default:
		switch reflect.ValueOf(val).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
			return "", false
		}
		return fmt.Sprint(v), true
	}
}

func shapeName(isArray bool) string {
	if isArray {
		return "sequence"
	}
	return "single"
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
