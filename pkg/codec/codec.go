// Package codec maps the provider's response formats to content types and
// encodes and decodes request and response bodies without imposing a schema.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Format is the body format negotiated with the provider.
type Format int

const (
	// JSON selects application/json. It is the zero value.
	JSON Format = iota

	// XML selects application/xml.
	XML
)

const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
)

// ParseFormat resolves a format name. "xml" selects XML; every other value,
// including unknown names, resolves to JSON.
func ParseFormat(name string) Format {
	if name == "xml" {
		return XML
	}
	return JSON
}

// String returns the format name ("json" or "xml").
func (f Format) String() string {
	if f == XML {
		return "xml"
	}
	return "json"
}

// ContentType returns the value used for both the Content-Type and Accept
// headers.
func (f Format) ContentType() string {
	if f == XML {
		return contentTypeXML
	}
	return contentTypeJSON
}

// Marshal encodes v as a request body.
func (f Format) Marshal(v any) ([]byte, error) {
	if f == XML {
		return marshalXML(v)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding json body: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a response body into generic values: maps, slices,
// strings, numbers and booleans. An empty or whitespace-only body decodes to
// nil with no error.
func (f Format) Unmarshal(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if f == XML {
		return unmarshalXML(raw)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("error decoding json body: %w", err)
	}
	return v, nil
}
