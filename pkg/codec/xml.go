package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// xmlRootName wraps generic (map) request bodies.
const xmlRootName = "request"

func marshalXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	var err error
	switch m := v.(type) {
	case map[string]any:
		err = encodeXMLValue(enc, xmlRootName, m)
	case map[string]string:
		generic := make(map[string]any, len(m))
		for k, s := range m {
			generic[k] = s
		}
		err = encodeXMLValue(enc, xmlRootName, generic)
	default:
		err = enc.Encode(v)
	}
	if err != nil {
		return nil, fmt.Errorf("error encoding xml body: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("error encoding xml body: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeXMLValue(enc *xml.Encoder, name string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range val {
			if err := encodeXMLValue(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, item := range val {
			if err := encodeXMLValue(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if m, ok := v.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeXMLValue(enc, k, m[k]); err != nil {
				return err
			}
		}
	} else {
		if err := enc.EncodeToken(xml.CharData(fmt.Sprint(v))); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// xmlElement accumulates one element while decoding.
type xmlElement struct {
	name   string
	fields map[string]any
	text   strings.Builder
}

func (e *xmlElement) add(name string, v any) {
	existing, ok := e.fields[name]
	if !ok {
		e.fields[name] = v
		return
	}

	// Repeated child elements collapse into a list.
	if list, ok := existing.([]any); ok {
		e.fields[name] = append(list, v)
		return
	}
	e.fields[name] = []any{existing, v}
}

func (e *xmlElement) value() any {
	if len(e.fields) > 0 {
		return e.fields
	}
	return strings.TrimSpace(e.text.String())
}

// unmarshalXML decodes an XML document into nested maps. The root element
// name is dropped so that the result has the same shape as the equivalent
// JSON document. Attributes are ignored.
func unmarshalXML(raw []byte) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		stack []*xmlElement
		root  any
		found bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding xml body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, &xmlElement{
				name:   t.Name.Local,
				fields: make(map[string]any),
			})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root, found = el.value(), true
				continue
			}
			stack[len(stack)-1].add(el.name, el.value())
		}
	}

	if !found {
		return nil, fmt.Errorf("error decoding xml body: no root element")
	}
	return root, nil
}
