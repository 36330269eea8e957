package echotest

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName JSON 编解码器在 gRPC 编码注册表中的名称.
//
// 回显契约的消息是普通的具名字段记录，没有 proto 定义，经注册表
// 以 JSON 编解码；客户端通过 grpc.CallContentSubtype(CodecName)
// 选择同一编解码器.
const CodecName = "json"

// jsonCodec 实现 encoding.Codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
