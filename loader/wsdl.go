package loader

import (
	"fmt"
	"strings"

	soapwire "github.com/soapwire/soapwire"
	"github.com/soapwire/soapwire/xmlwire"
)

// FromWSDL builds a TypeIndex from the schema section of a WSDL document,
// or from a standalone XSD. The supported subset is what SOAP type graphs
// use: named complexTypes with element sequences, single inheritance via
// complexContent/extension, and named simpleTypes restricted to string
// enumerations.
func FromWSDL(data []byte) (soapwire.TypeIndex, error) {
	root, err := xmlwire.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loader: wsdl: %w", err)
	}

	schemas := collect(root, "schema")
	if root.Name == "schema" {
		schemas = append(schemas, root)
	}
	if len(schemas) == 0 {
		return nil, fmt.Errorf("loader: wsdl: no schema section")
	}

	doc := graphDoc{Kind: graphKind}
	for _, schema := range schemas {
		for _, el := range schema.Children {
			switch el.Name {
			case "complexType":
				td, err := complexType(el)
				if err != nil {
					return nil, err
				}
				doc.Types = append(doc.Types, td)
			case "simpleType":
				td, ok, err := simpleType(el)
				if err != nil {
					return nil, err
				}
				if ok {
					doc.Types = append(doc.Types, td)
				}
			}
		}
	}
	return build(doc)
}

func complexType(el *xmlwire.Element) (typeDoc, error) {
	name := el.Attr("name")
	if name == "" {
		return typeDoc{}, fmt.Errorf("loader: wsdl: complexType without a name")
	}
	td := typeDoc{Name: name, Kind: "object"}

	seq := el.Find("sequence")
	if cc := el.Find("complexContent"); cc != nil {
		ext := cc.Find("extension")
		if ext == nil {
			return typeDoc{}, fmt.Errorf("loader: wsdl: complexType %s: complexContent without extension", name)
		}
		base := xmlwire.LocalName(ext.Attr("base"))
		if base == "" {
			return typeDoc{}, fmt.Errorf("loader: wsdl: complexType %s: extension without base", name)
		}
		td.Base = base
		seq = ext.Find("sequence")
	}

	if seq != nil {
		for _, child := range seq.Children {
			if child.Name != "element" {
				continue
			}
			pd, err := elementDecl(name, child)
			if err != nil {
				return typeDoc{}, err
			}
			td.Properties = append(td.Properties, pd)
		}
	}
	return td, nil
}

func elementDecl(owner string, el *xmlwire.Element) (propDoc, error) {
	name := el.Attr("name")
	if name == "" {
		return propDoc{}, fmt.Errorf("loader: wsdl: complexType %s: element without a name", owner)
	}
	typeName := xmlwire.LocalName(el.Attr("type"))
	if typeName == "" {
		return propDoc{}, fmt.Errorf("loader: wsdl: element %s.%s without a type", owner, name)
	}
	return propDoc{
		Name:     name,
		Type:     xsdTypeName(typeName),
		Array:    el.Attr("maxOccurs") == "unbounded",
		Optional: el.Attr("minOccurs") == "0",
	}, nil
}

// simpleType handles named string enumerations; other restrictions are
// skipped (ok=false) rather than rejected.
func simpleType(el *xmlwire.Element) (typeDoc, bool, error) {
	name := el.Attr("name")
	if name == "" {
		return typeDoc{}, false, fmt.Errorf("loader: wsdl: simpleType without a name")
	}
	r := el.Find("restriction")
	if r == nil {
		return typeDoc{}, false, nil
	}
	td := typeDoc{Name: name, Kind: "enum"}
	for _, child := range r.Children {
		if child.Name != "enumeration" {
			continue
		}
		td.Values = append(td.Values, child.Attr("value"))
	}
	if len(td.Values) == 0 {
		return typeDoc{}, false, nil
	}
	return td, true, nil
}

// xsdTypeName folds the XSD built-in numeric aliases onto the engine's
// five primitive kinds; schema-local names pass through untouched.
func xsdTypeName(name string) string {
	switch strings.ToLower(name) {
	case "string", "anyuri", "token", "normalizedstring", "datetime", "date", "time":
		return "string"
	case "boolean":
		return "boolean"
	case "int", "integer", "short", "byte", "unsignedint", "unsignedshort":
		return "int"
	case "long", "unsignedlong":
		return "long"
	case "double", "float", "decimal":
		return "double"
	}
	return name
}

// collect walks the tree and gathers every element with the given local
// name, in document order.
func collect(el *xmlwire.Element, name string) []*xmlwire.Element {
	var out []*xmlwire.Element
	for _, c := range el.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, collect(c, name)...)
	}
	return out
}
