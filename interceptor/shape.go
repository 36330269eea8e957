package interceptor

import "google.golang.org/grpc"

// Shape 调用形状.
type Shape int

// 四种调用形状，外加一种无法判定的形状.
const (
	// ShapeUnknown 无法判定的形状：通过流式处理器注册、但既不声明
	// 客户端流也不声明服务端流的方法。这类方法使用读写风格的调用
	// 约定，形状无法从注册信息判定，属于已知的不支持场景.
	ShapeUnknown Shape = iota
	// ShapeUnary 一元请求、一元响应.
	ShapeUnary
	// ShapeClientStream 流式请求、一元响应.
	ShapeClientStream
	// ShapeServerStream 一元请求、流式响应.
	ShapeServerStream
	// ShapeBidiStream 流式请求、流式响应.
	ShapeBidiStream
)

// StreamingRequest 报告请求侧是否为流.
func (s Shape) StreamingRequest() bool {
	return s == ShapeClientStream || s == ShapeBidiStream
}

// StreamingResponse 报告响应侧是否为流.
func (s Shape) StreamingResponse() bool {
	return s == ShapeServerStream || s == ShapeBidiStream
}

func (s Shape) String() string {
	switch s {
	case ShapeUnary:
		return "unary"
	case ShapeClientStream:
		return "client_stream"
	case ShapeServerStream:
		return "server_stream"
	case ShapeBidiStream:
		return "bidi_stream"
	default:
		return "unknown"
	}
}

// shapeOfStream 从注册信息判定流式调用的形状.
func shapeOfStream(info *grpc.StreamServerInfo) Shape {
	switch {
	case info.IsClientStream && info.IsServerStream:
		return ShapeBidiStream
	case info.IsClientStream:
		return ShapeClientStream
	case info.IsServerStream:
		return ShapeServerStream
	default:
		return ShapeUnknown
	}
}

// responseKind 响应形状标记.
type responseKind int

const (
	respSingle responseKind = iota
	respStreamed
)

// Response 显式标注形状的调用结果.
//
// 一元调用产生 Single 单值；流式调用产生 Streamed，条目通过调用的
// 流惰性产出，Response 本身不携带消息。流式调用"成功返回"不代表
// 调用完成：条目产出过程中仍可能出错，关心这些错误的环节需要自行
// 观察流.
type Response struct {
	kind    responseKind
	message any
}

// Single 构造单值响应.
func Single(msg any) Response {
	return Response{kind: respSingle, message: msg}
}

// Streamed 构造流式响应标记.
func Streamed() Response {
	return Response{kind: respStreamed}
}

// IsStreamed 报告响应是否为惰性流.
func (r Response) IsStreamed() bool {
	return r.kind == respStreamed
}

// Message 返回单值响应的消息.
//
// 对流式响应调用 Message 属于契约违反，返回 ErrStreamedResponse.
func (r Response) Message() (any, error) {
	if r.kind != respSingle {
		return nil, ErrStreamedResponse
	}
	return r.message, nil
}
