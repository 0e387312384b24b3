package loader

import (
	"fmt"
	"sort"

	soapwire "github.com/soapwire/soapwire"
)

// graphDoc is the neutral, serializable form of a type graph. YAML input,
// the WSDL converter, and the cache blob format all funnel through it.
type graphDoc struct {
	Kind  string    `yaml:"kind" json:"kind"`
	Types []typeDoc `yaml:"types" json:"types"`
}

type typeDoc struct {
	Name       string    `yaml:"name" json:"name"`
	Kind       string    `yaml:"kind" json:"kind"` // "object" or "enum"
	Base       string    `yaml:"base,omitempty" json:"base,omitempty"`
	Values     []string  `yaml:"values,omitempty" json:"values,omitempty"`
	Properties []propDoc `yaml:"properties,omitempty" json:"properties,omitempty"`
}

type propDoc struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Array    bool   `yaml:"array,omitempty" json:"array,omitempty"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// graphKind is the document marker a YAML type graph must carry.
const graphKind = "TypeGraph"

// build converts the neutral form into a validated TypeIndex. Two passes:
// allocate every named type first, then resolve property types and link
// the inheritance forest, so forward references work regardless of
// declaration order.
func build(doc graphDoc) (soapwire.TypeIndex, error) {
	ix := make(soapwire.TypeIndex, len(doc.Types))

	for _, td := range doc.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("loader: type with empty name")
		}
		if _, dup := ix[td.Name]; dup {
			return nil, fmt.Errorf("loader: duplicate type name %q", td.Name)
		}
		switch td.Kind {
		case "enum":
			ix[td.Name] = &soapwire.Enum{Name: td.Name, Values: td.Values}
		case "object", "":
			ix[td.Name] = soapwire.NewObjectType(td.Name)
		default:
			return nil, fmt.Errorf("loader: type %q has unknown kind %q", td.Name, td.Kind)
		}
	}

	for _, td := range doc.Types {
		o, ok := ix.Object(td.Name)
		if !ok {
			continue // enum
		}
		if td.Base != "" {
			base, ok := ix.Object(td.Base)
			if !ok {
				return nil, fmt.Errorf("loader: type %q extends unknown type %q", td.Name, td.Base)
			}
			o.Base = td.Base
			base.Children = append(base.Children, td.Name)
		}
		for _, pd := range td.Properties {
			pt, err := resolveTypeName(ix, pd.Type)
			if err != nil {
				return nil, fmt.Errorf("loader: property %s.%s: %w", td.Name, pd.Name, err)
			}
			o.AddProperty(soapwire.Property{
				Name:       pd.Name,
				Type:       pt,
				IsArray:    pd.Array,
				IsOptional: pd.Optional,
			})
		}
	}

	if err := ix.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return ix, nil
}

func resolveTypeName(ix soapwire.TypeIndex, name string) (soapwire.SoapType, error) {
	if p, ok := soapwire.PrimitiveFor(name); ok {
		return p, nil
	}
	if t, ok := ix[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

// docFrom projects a TypeIndex back into the neutral form, in stable name
// order, so graphs round-trip through the cache byte-identically.
func docFrom(ix soapwire.TypeIndex) graphDoc {
	doc := graphDoc{Kind: graphKind}
	for _, name := range sortedNames(ix) {
		switch t := ix[name].(type) {
		case *soapwire.Enum:
			doc.Types = append(doc.Types, typeDoc{Name: name, Kind: "enum", Values: t.Values})
		case *soapwire.ObjectType:
			td := typeDoc{Name: name, Kind: "object", Base: t.Base}
			for _, p := range t.Properties() {
				td.Properties = append(td.Properties, propDoc{
					Name:     p.Name,
					Type:     p.Type.TypeName(),
					Array:    p.IsArray,
					Optional: p.IsOptional,
				})
			}
			doc.Types = append(doc.Types, td)
		}
	}
	return doc
}

func sortedNames(ix soapwire.TypeIndex) []string {
	out := make([]string, 0, len(ix))
	for name := range ix {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
