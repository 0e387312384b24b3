package soapwire

// PrimitiveKind names one of the five scalar kinds a schema may declare.
type PrimitiveKind string

const (
	KindString  PrimitiveKind = "string"
	KindBoolean PrimitiveKind = "boolean"
	KindInt     PrimitiveKind = "int"
	KindLong    PrimitiveKind = "long"
	KindDouble  PrimitiveKind = "double"
)

// SoapType is the closed set of schema types: *Primitive, *Enum and
// *ObjectType. Implementations are immutable once a TypeIndex has been
// handed to an Encoder or Decoder.
type SoapType interface {
	TypeName() string
	soapType()
}

// Primitive is a scalar schema type with no attributes beyond its kind.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) TypeName() string { return string(p.Kind) }
func (p *Primitive) soapType()        {}

// Shared primitive singletons. Loaders and tests reference these rather
// than allocating fresh instances per property.
var (
	StringType  = &Primitive{Kind: KindString}
	BooleanType = &Primitive{Kind: KindBoolean}
	IntType     = &Primitive{Kind: KindInt}
	LongType    = &Primitive{Kind: KindLong}
	DoubleType  = &Primitive{Kind: KindDouble}
)

// PrimitiveFor maps a kind name to its shared singleton.
func PrimitiveFor(name string) (*Primitive, bool) {
	switch PrimitiveKind(name) {
	case KindString:
		return StringType, true
	case KindBoolean:
		return BooleanType, true
	case KindInt:
		return IntType, true
	case KindLong:
		return LongType, true
	case KindDouble:
		return DoubleType, true
	}
	return nil, false
}

// Enum is a named enumeration over an ordered set of allowed string values.
type Enum struct {
	Name   string
	Values []string
}

func (e *Enum) TypeName() string { return e.Name }
func (e *Enum) soapType()        {}

// Contains reports whether v is an allowed value of the enumeration.
func (e *Enum) Contains(v string) bool {
	for _, allowed := range e.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// Property describes one named member of an ObjectType.
type Property struct {
	Name       string
	Type       SoapType
	IsArray    bool
	IsOptional bool
}

// ObjectType is a composite schema type. Base and Children hold type names
// resolved through the shared TypeIndex rather than owned pointers, so the
// inheritance graph stays traversable in both directions without ownership
// cycles. Properties keep declaration order; encode output follows it.
type ObjectType struct {
	Name     string
	Base     string
	Children []string

	props  []Property
	byName map[string]int
}

// NewObjectType returns an empty object type with the given name.
func NewObjectType(name string) *ObjectType {
	return &ObjectType{Name: name, byName: make(map[string]int)}
}

func (o *ObjectType) TypeName() string { return o.Name }
func (o *ObjectType) soapType()        {}

// AddProperty appends p, or replaces an earlier property of the same name
// in place (keeping its declaration position).
func (o *ObjectType) AddProperty(p Property) {
	if o.byName == nil {
		o.byName = make(map[string]int)
	}
	if i, ok := o.byName[p.Name]; ok {
		o.props[i] = p
		return
	}
	o.byName[p.Name] = len(o.props)
	o.props = append(o.props, p)
}

// Property looks up a direct (non-inherited) property by name.
func (o *ObjectType) Property(name string) (Property, bool) {
	i, ok := o.byName[name]
	if !ok {
		return Property{}, false
	}
	return o.props[i], true
}

// Properties returns the direct properties in declaration order. The
// returned slice is shared; callers must not mutate it.
func (o *ObjectType) Properties() []Property { return o.props }

// TypeIndex maps unique type names to their SoapType. It is built once per
// schema by a loader and treated as immutable and shared for the lifetime
// of a session; engines hold a reference, never a copy.
type TypeIndex map[string]SoapType

// Object looks up name and narrows it to an *ObjectType.
func (ix TypeIndex) Object(name string) (*ObjectType, bool) {
	o, ok := ix[name].(*ObjectType)
	return o, ok
}

// Descendants returns every transitive derived type of name in
// depth-first, declaration order. Returns nil for unknown or non-object
// names.
func (ix TypeIndex) Descendants(name string) []*ObjectType {
	o, ok := ix.Object(name)
	if !ok {
		return nil
	}
	var out []*ObjectType
	for _, child := range o.Children {
		c, ok := ix.Object(child)
		if !ok {
			continue
		}
		out = append(out, c)
		out = append(out, ix.Descendants(child)...)
	}
	return out
}

// Validate checks the structural invariants a loader must establish: base
// links resolve to object types, base/child links are symmetric, and the
// inheritance graph is a forest (no cycles).
func (ix TypeIndex) Validate() error {
	var iss Issues
	for name, t := range ix {
		o, ok := t.(*ObjectType)
		if !ok {
			continue
		}
		if o.Name != name {
			iss = AppendIssues(iss, newIssue("/"+name, CodeInvalidUsage, nil, "index key and type name differ"))
		}
		if o.Base != "" {
			base, ok := ix.Object(o.Base)
			if !ok {
				iss = AppendIssues(iss, newIssue("/"+name, CodeUnknownType, map[string]string{"type": o.Base}, "base type missing from index"))
			} else if !containsName(base.Children, o.Name) {
				iss = AppendIssues(iss, newIssue("/"+name, CodeInvalidUsage, nil, "base type does not list this type as a child"))
			}
		}
		for _, child := range o.Children {
			c, ok := ix.Object(child)
			if !ok {
				iss = AppendIssues(iss, newIssue("/"+name, CodeUnknownType, map[string]string{"type": child}, "child type missing from index"))
			} else if c.Base != o.Name {
				iss = AppendIssues(iss, newIssue("/"+name, CodeInvalidUsage, nil, "child type does not point back to this base"))
			}
		}
		if cyclic(ix, o) {
			iss = AppendIssues(iss, newIssue("/"+name, CodeInvalidUsage, nil, "inheritance cycle"))
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// cyclic walks the base chain from o and reports whether it revisits a name.
func cyclic(ix TypeIndex, o *ObjectType) bool {
	seen := map[string]bool{o.Name: true}
	cur := o
	for cur.Base != "" {
		next, ok := ix.Object(cur.Base)
		if !ok {
			return false
		}
		if seen[next.Name] {
			return true
		}
		seen[next.Name] = true
		cur = next
	}
	return false
}
