package loader

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	soapwire "github.com/soapwire/soapwire"
	"github.com/soapwire/soapwire/cache"
)

// Marshal serializes the index into the cache blob form (JSON of the
// neutral graph document, types in name order).
func Marshal(ix soapwire.TypeIndex) ([]byte, error) {
	out, err := gojson.Marshal(docFrom(ix))
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return out, nil
}

// Unmarshal rebuilds a validated index from a cache blob.
func Unmarshal(blob []byte) (soapwire.TypeIndex, error) {
	var doc graphDoc
	if err := gojson.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return build(doc)
}

// FromWSDLCached consults the store before parsing, and populates it
// after. key identifies the schema source (URL or file path); a stale or
// unreadable cache entry falls back to a fresh parse rather than failing.
func FromWSDLCached(store *cache.Store, key string, data []byte) (soapwire.TypeIndex, error) {
	if blob, ok, err := store.Get(key); err == nil && ok {
		if ix, err := Unmarshal(blob); err == nil {
			return ix, nil
		}
	}
	ix, err := FromWSDL(data)
	if err != nil {
		return nil, err
	}
	if blob, err := Marshal(ix); err == nil {
		_ = store.Put(key, blob)
	}
	return ix, nil
}
