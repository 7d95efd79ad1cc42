package streaming

import "encoding/json"

// jsonCodec is a minimal encoding.Codec implementation so GRPCStream can
// carry plain eventdata structs over gRPC without a protoc-generated
// message type. Registered under the name "json" so a client dialing
// with `grpc.CallContentSubtype("json")` decodes the same way.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
