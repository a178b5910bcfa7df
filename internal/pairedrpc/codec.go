package pairedrpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/protoadapt"
)

// codec is a grpc encoding.Codec for this package's message set. Every
// message here only implements the legacy v1 shape (Reset/String/
// ProtoMessage) plus standard `protobuf:"..."` struct tags, matching
// proto/pairedrpc.proto field-for-field; protoadapt.MessageV2Of bridges
// that into google.golang.org/protobuf's real reflection-based runtime,
// so wire encoding is the actual protobuf implementation, not a
// reimplementation of it. Registered under grpc-go's default "proto"
// name, same as any other protobuf-backed service.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(protoadapt.MessageV1)
	if !ok {
		return nil, fmt.Errorf("pairedrpc: cannot marshal %T", v)
	}
	return proto.Marshal(protoadapt.MessageV2Of(m))
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(protoadapt.MessageV1)
	if !ok {
		return fmt.Errorf("pairedrpc: cannot unmarshal into %T", v)
	}
	return proto.Unmarshal(data, protoadapt.MessageV2Of(m))
}

func (codec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(codec{})
}
