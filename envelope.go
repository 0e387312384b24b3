package soapwire

import (
	"context"

	"github.com/soapwire/soapwire/transport"
	"github.com/soapwire/soapwire/xmlwire"
)

const (
	envelopeOpen  = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body>`
	envelopeClose = `</soapenv:Body></soapenv:Envelope>`
)

// BuildEnvelope wraps the encoded request value in a SOAP envelope, with
// the operation as the body's primary element.
func BuildEnvelope(enc *Encoder, operation string, t SoapType, v any) ([]byte, error) {
	body, err := enc.EncodeElement(operation, t, v)
	if err != nil {
		return nil, err
	}
	return []byte(envelopeOpen + body + envelopeClose), nil
}

// DecodeResponse decodes a response envelope's primary body child against
// t. A body whose primary child carries the recognized fault tag is
// redirected to fault decoding and surfaces a *Fault error instead of a
// value, regardless of t.
func (d *Decoder) DecodeResponse(t SoapType, root *xmlwire.Element) (any, error) {
	body := root
	if b := root.Find("Body"); b != nil {
		body = b
	}
	if len(body.Children) == 0 {
		return nil, singleIssue("/"+root.Name, CodeInvalidUsage, nil, "response body has no primary element")
	}
	primary := body.Children[0]
	if primary.Name == d.faultTag {
		return nil, d.faultFrom(primary)
	}
	return d.Decode(t, primary)
}

// faultFrom builds the distinguished *Fault error from a fault envelope
// element, preferring the registered fault type and falling back to a
// generic field sweep.
func (d *Decoder) faultFrom(el *xmlwire.Element) error {
	f := &Fault{Detail: map[string]any{}}
	if d.faultType != "" {
		if t, ok := d.ix[d.faultType]; ok {
			if v, err := d.Decode(t, el); err == nil {
				if m, ok := v.(map[string]any); ok {
					f.Detail = m
				}
			}
		}
	}
	if len(f.Detail) == 0 {
		for _, c := range el.Children {
			if len(c.Children) == 0 {
				f.Detail[c.Name] = c.Text
			} else {
				f.Detail[c.Name] = genericFields(c)
			}
		}
	}
	f.Code = firstString(f.Detail, "faultcode", "code")
	f.Message = firstString(f.Detail, "faultstring", "message")
	f.Actor = firstString(f.Detail, "faultactor", "actor")
	return f
}

func genericFields(el *xmlwire.Element) map[string]any {
	out := make(map[string]any, len(el.Children))
	for _, c := range el.Children {
		if len(c.Children) == 0 {
			out[c.Name] = c.Text
		} else {
			out[c.Name] = genericFields(c)
		}
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Session ties the engine to a transport client for request/response
// round trips against one endpoint.
type Session struct {
	Encoder *Encoder
	Decoder *Decoder
	Client  *transport.Client
}

// NewSession builds a Session over a shared index and client. Encoder and
// Decoder are exported so callers can replace them with customized
// instances (disambiguators, fault types).
func NewSession(ix TypeIndex, client *transport.Client) *Session {
	return &Session{
		Encoder: NewEncoder(ix),
		Decoder: NewDecoder(ix),
		Client:  client,
	}
}

// Call encodes req as the operation body, posts it with the given SOAP
// action, and decodes the response against respType. A fault envelope in
// the response surfaces as a *Fault error.
func (s *Session) Call(ctx context.Context, action, operation string, reqType SoapType, req any, respType SoapType) (any, error) {
	env, err := BuildEnvelope(s.Encoder, operation, reqType, req)
	if err != nil {
		return nil, err
	}
	raw, err := s.Client.Call(ctx, action, env)
	if err != nil {
		return nil, err
	}
	root, err := xmlwire.ParseBytes(raw)
	if err != nil {
		return nil, err
	}
	return s.Decoder.DecodeResponse(respType, root)
}
