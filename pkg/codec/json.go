package codec

import "encoding/json"

// JSONCodec is a codec that uses JSON for marshaling. It is the codec behind
// Response.JSON.
type JSONCodec struct{}

// Marshal serializes v to JSON.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// ContentType returns the JSON content type.
func (JSONCodec) ContentType() string {
	return "application/json"
}
