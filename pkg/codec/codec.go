// Package codec provides the serialization collaborators used by the
// response writer. A Marshaler converts a handler's value into a response
// body and names the content type to send with it.
package codec

// Marshaler converts a value into a wire-format body.
type Marshaler interface {
	// Marshal serializes v into the codec's wire format.
	Marshal(v any) ([]byte, error)

	// ContentType returns the Content-Type header value for bodies produced
	// by this codec.
	ContentType() string
}
