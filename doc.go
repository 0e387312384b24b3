package soapwire

// Package soapwire provides:
//
// - Schema-directed marshalling between structured values (map[string]any)
//   and SOAP-style XML fragments, driven by a runtime TypeIndex rather than
//   compiled per-type code (Encoder.Encode / Decoder.Decode)
// - Subtype disambiguation: structural search through descendant types on
//   encode, explicit type-override attributes on the wire, and override
//   resolution on decode
// - A stable error model via Issues (slash path, code, message) and a
//   distinguished *Fault error for server fault envelopes
//
// Design policy:
// - Keep only public APIs in the root package; put the XML element model
//   under xmlwire/, schema loading under loader/, the schema cache under
//   cache/, the network client under transport/, and the CLI under
//   cmd/soapwire.
// - The TypeIndex is immutable after construction and freely shared; the
//   only mutable state is the per-instance property-resolution and decode
//   memo caches, both mutex-guarded.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	ix, err := loader.FromWSDL(wsdlBytes)
//	enc := soapwire.NewEncoder(ix)
//	dec := soapwire.NewDecoder(ix, soapwire.WithFaultType("ApiFault"))
//
//	fragment, err := enc.Encode(ix["Order"], value)
//	el, err := xmlwire.ParseBytes(responseBody)
//	v, err := dec.Decode(ix["OrderResponse"], el)
