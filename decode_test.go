package soapwire_test

import (
	"reflect"
	"testing"

	soapwire "github.com/soapwire/soapwire"
	"github.com/soapwire/soapwire/xmlwire"
)

func parseXML(t *testing.T, doc string) *xmlwire.Element {
	t.Helper()
	el, err := xmlwire.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected parse err: %v", err)
	}
	return el
}

func TestDecode_PrimitiveRoundTrip(t *testing.T) {
	ix := testIndex()
	enc := soapwire.NewEncoder(ix)
	dec := soapwire.NewDecoder(ix)

	cases := []struct {
		name  string
		typ   soapwire.SoapType
		value any
		want  any
	}{
		{"string", soapwire.StringType, `a&b<c>"d"`, `a&b<c>"d"`},
		{"int", soapwire.IntType, 42, float64(42)},
		{"double", soapwire.DoubleType, 1.5, 1.5},
		{"boolean true", soapwire.BooleanType, true, true},
		{"boolean false", soapwire.BooleanType, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag, err := enc.EncodeElement("v", tc.typ, tc.value)
			if err != nil {
				t.Fatalf("unexpected encode err: %v", err)
			}
			got, err := dec.Decode(tc.typ, parseXML(t, frag))
			if err != nil {
				t.Fatalf("unexpected decode err: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestDecode_OverrideRecoversSubtype(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal type="Dog"><name>Rex</name><breed>lab</breed></animal>`)
	got, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"name": "Rex", "breed": "lab"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestDecode_UnknownOverrideName(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal type="Gryphon"><name>Rex</name></animal>`)
	_, err := dec.Decode(ix["Animal"], el)
	if code := issueCode(err); code != soapwire.CodeUnknownType {
		t.Fatalf("expected unknown_type, got %v", err)
	}
}

func TestDecode_DescendantUnionWithoutOverride(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal><name>Rex</name><breed>lab</breed></animal>`)
	got, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["breed"] != "lab" {
		t.Fatalf("expected breed via descendant union, got %#v", got)
	}
}

func TestDecode_UnknownPropertyTag(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal><wings>2</wings></animal>`)
	_, err := dec.Decode(ix["Animal"], el)
	if code := issueCode(err); code != soapwire.CodeUnknownProperty {
		t.Fatalf("expected unknown_property, got %v", err)
	}
}

func TestDecode_ChildrenUnderScalarIsInvalidUsage(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<item><sku><inner>x</inner></sku><qty>1</qty></item>`)
	_, err := dec.Decode(ix["Item"], el)
	if code := issueCode(err); code != soapwire.CodeInvalidUsage {
		t.Fatalf("expected invalid_usage, got %v", err)
	}
}

func TestDecode_ArrayAccumulatesOutOfOrder(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<order><id>o1</id><items><sku>a</sku><qty>1</qty></items><note>n</note><items><sku>b</sku><qty>2</qty></items></order>`)
	got, err := dec.Decode(ix["Order"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m := got.(map[string]any)
	items, ok := m["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two accumulated items, got %#v", m["items"])
	}
	first := items[0].(map[string]any)
	second := items[1].(map[string]any)
	if first["sku"] != "a" || second["sku"] != "b" {
		t.Fatalf("unexpected item order: %#v", items)
	}
}

func TestDecode_EmptyArrayEntryDropped(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<order><id>o1</id><items></items></order>`)
	got, err := dec.Decode(ix["Order"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m := got.(map[string]any)
	items, ok := m["items"].([]any)
	if !ok {
		t.Fatalf("expected a sequence, got %#v", m["items"])
	}
	if len(items) != 0 {
		t.Fatalf("expected empty sequence, got %#v", items)
	}
}

func TestDecode_MemoReturnsIndependentCopies(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal><name>Rex</name></animal>`)

	first, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected structurally equal results: %#v vs %#v", first, second)
	}

	first.(map[string]any)["name"] = "mutated"
	third, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if third.(map[string]any)["name"] != "Rex" {
		t.Fatalf("memoized value leaked a caller mutation: %#v", third)
	}
	if second.(map[string]any)["name"] != "Rex" {
		t.Fatalf("sibling copy shares state with the first result")
	}
}

func TestDecode_MemoDistinguishesTextFromChildren(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)

	// Text content that spells out the structural markers of a nested
	// element must not collide with the real nested form in the memo.
	got, err := dec.Decode(soapwire.StringType, parseXML(t, `<v>x|y{t}</v>`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "x|y{t}" {
		t.Fatalf("unexpected value: %#v", got)
	}

	_, err = dec.Decode(soapwire.StringType, parseXML(t, `<v>x<y>t</y></v>`))
	if code := issueCode(err); code != soapwire.CodeInvalidUsage {
		t.Fatalf("expected invalid_usage for child elements under a scalar, got %v", err)
	}
}

func TestDecode_EmptyNumericContentIsAbsent(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<qty></qty>`)
	got, err := dec.Decode(soapwire.IntType, el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent value, got %#v", got)
	}
}

func TestDecode_EmptyObjectElement(t *testing.T) {
	ix := testIndex()
	dec := soapwire.NewDecoder(ix)
	el := parseXML(t, `<animal></animal>`)
	got, err := dec.Decode(ix["Animal"], el)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || len(m) != 0 {
		t.Fatalf("expected empty object, got %#v", got)
	}
}

func TestDecode_EncodedSubtypeRoundTrips(t *testing.T) {
	ix := testIndex()
	enc := soapwire.NewEncoder(ix)
	dec := soapwire.NewDecoder(ix)

	frag, err := enc.EncodeElement("animal", ix["Animal"], map[string]any{"name": "Rex", "breed": "lab"})
	if err != nil {
		t.Fatalf("unexpected encode err: %v", err)
	}
	got, err := dec.Decode(ix["Animal"], parseXML(t, frag))
	if err != nil {
		t.Fatalf("unexpected decode err: %v", err)
	}
	want := map[string]any{"name": "Rex", "breed": "lab"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}
