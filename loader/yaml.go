package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	soapwire "github.com/soapwire/soapwire"
)

// FromYAML scans a (possibly multi-document) YAML stream and builds the
// first document with kind TypeGraph. Other documents are skipped, so a
// graph can live inside a larger bundle.
func FromYAML(data []byte) (soapwire.TypeIndex, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc graphDoc
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("loader: yaml: %w", err)
		}
		if doc.Kind != graphKind {
			continue
		}
		return build(doc)
	}
	return nil, fmt.Errorf("loader: no %s document found in YAML stream", graphKind)
}

// ToYAML renders the index as a single TypeGraph document, types in name
// order.
func ToYAML(ix soapwire.TypeIndex) ([]byte, error) {
	out, err := yaml.Marshal(docFrom(ix))
	if err != nil {
		return nil, fmt.Errorf("loader: yaml: %w", err)
	}
	return out, nil
}
