package interceptor

import "errors"

// 预定义错误.
var (
	// ErrStreamedResponse 流式响应没有可以取出的单值消息.
	ErrStreamedResponse = errors.New("interceptor: streamed response cannot be read as a single message")

	// ErrSingleOnStream 流式调用的链返回了单值响应，无法交付给流.
	ErrSingleOnStream = errors.New("interceptor: single-message response returned for a streaming call")
)
