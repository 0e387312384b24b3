// Package loader builds a soapwire.TypeIndex from external schema
// documents: the types section of a WSDL (or a standalone XSD), or a YAML
// type-graph description. It also defines the serialized graph form the
// cache package stores.
//
// The loader establishes the index invariants the engine relies on:
// unique names, symmetric base/child links, and an acyclic inheritance
// forest. Everything beyond that — namespaces, imports, attribute
// declarations, facets other than enumeration — is out of scope.
package loader
