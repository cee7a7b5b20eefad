package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// ProtoCodec is a codec that uses Protocol Buffers for marshaling. The value
// passed to Marshal must implement proto.Message.
type ProtoCodec struct{}

// Marshal serializes v to the Protocol Buffers binary format.
func (ProtoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: %T does not implement proto.Message", v)
	}
	return proto.Marshal(msg)
}

// ContentType returns the protobuf content type.
func (ProtoCodec) ContentType() string {
	return "application/x-protobuf"
}
