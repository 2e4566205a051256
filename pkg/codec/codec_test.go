package codec

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"xml", XML},
		{"json", JSON},
		{"", JSON},
		{"yaml", JSON},
		{"XML", JSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.name))
		})
	}
}

func TestFormat_ContentType(t *testing.T) {
	assert.Equal(t, "application/json", JSON.ContentType())
	assert.Equal(t, "application/xml", XML.ContentType())
	assert.Equal(t, "json", JSON.String())
	assert.Equal(t, "xml", XML.String())
}

func TestFormat_UnmarshalJSON(t *testing.T) {
	v, err := JSON.Unmarshal([]byte(`{"code":5,"tags":["a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"code": float64(5),
		"tags": []any{"a", "b"},
	}, v)
}

func TestFormat_UnmarshalEmpty(t *testing.T) {
	for _, f := range []Format{JSON, XML} {
		v, err := f.Unmarshal([]byte("  \n"))
		require.NoError(t, err)
		assert.Nil(t, v)
	}
}

func TestFormat_UnmarshalInvalid(t *testing.T) {
	_, err := JSON.Unmarshal([]byte("Bad Gateway"))
	assert.Error(t, err)

	_, err = XML.Unmarshal([]byte("Bad Gateway"))
	assert.Error(t, err)
}

func TestFormat_UnmarshalXML(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<smsResponse>
  <bulkId>b-1</bulkId>
  <messages>
    <message><to>41793026727</to><messageId>m-1</messageId></message>
    <message><to>41793026728</to><messageId>m-2</messageId></message>
  </messages>
</smsResponse>`

	v, err := XML.Unmarshal([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"bulkId": "b-1",
		"messages": map[string]any{
			"message": []any{
				map[string]any{"to": "41793026727", "messageId": "m-1"},
				map[string]any{"to": "41793026728", "messageId": "m-2"},
			},
		},
	}, v)
}

func TestFormat_MarshalXMLMap(t *testing.T) {
	b, err := XML.Marshal(map[string]any{
		"to":   "41793026727",
		"from": "InfoSMS",
		"text": "a < b",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"<request><from>InfoSMS</from><text>a &lt; b</text><to>41793026727</to></request>",
		string(b))
}

func TestFormat_MarshalXMLStruct(t *testing.T) {
	type pin struct {
		XMLName xml.Name `xml:"request"`
		Pin     string   `xml:"pin"`
	}

	b, err := XML.Marshal(pin{Pin: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "<request><pin>1234</pin></request>", string(b))
}

func TestFormat_MarshalJSON(t *testing.T) {
	b, err := JSON.Marshal(map[string]string{"pin": "1234"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pin":"1234"}`, string(b))
}
