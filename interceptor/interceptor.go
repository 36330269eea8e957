// Package interceptor 提供统一的 gRPC 服务端拦截器抽象.
//
// 四种调用形状（一元、客户端流、服务端流、双向流）都通过同一个
// Intercept 入口拦截：拦截器实现单方法能力接口 ServerInterceptor，
// 由 UnaryServerInterceptor / StreamServerInterceptor 适配为底层
// grpc 拦截器注册到服务器。链按注册顺序从右向左折叠，第 0 个环节
// 位于最外层；每次调用重新构建链闭包，调用之间不共享任何隐式状态.
//
// 对流式调用，next 返回时处理器主体可能仍在通过流产出条目；希望
// 观察这些条目（以及产出过程中抛出的错误）的环节必须在调用 next
// 之前用 ObserveStream 自行包装流，链不会自动插入观察逻辑.
package interceptor

import (
	"context"

	"google.golang.org/grpc"
)

// ServerHandler 表示链中的下一个处理环节:
// 既可能是下一个拦截器，也可能是真正的 RPC 方法实现.
type ServerHandler func(ctx context.Context, call *ServerCall) (Response, error)

// ServerInterceptor 服务端拦截器能力接口.
//
// 实现方在 Intercept 中调用 next 以继续执行链的剩余部分；每次调用
// 最多调用一次 next（重复调用的行为未定义），也可以不调用 next
// 直接短路返回。任何环节返回的错误与方法实现返回的错误以完全相同
// 的方式中止调用.
type ServerInterceptor interface {
	Intercept(ctx context.Context, call *ServerCall, next ServerHandler) (Response, error)
}

// ServerInterceptorFunc 函数形式的 ServerInterceptor.
type ServerInterceptorFunc func(ctx context.Context, call *ServerCall, next ServerHandler) (Response, error)

// Intercept 实现 ServerInterceptor.
func (f ServerInterceptorFunc) Intercept(ctx context.Context, call *ServerCall, next ServerHandler) (Response, error) {
	return f(ctx, call, next)
}

// ServerCall 描述一次入站调用.
//
// 环节不修改 ServerCall 本身，而是通过 WithRequest / WithStream
// 得到打了补丁的副本再传给 next，保证传给下一环节的调用描述始终
// 完整有效.
type ServerCall struct {
	// Method 完整方法名，形如 "/package.Service/Method".
	Method string
	// Shape 调用形状.
	Shape Shape
	// Request 一元请求消息；流式调用时为 nil.
	Request any
	// Stream 流式调用的收发流；一元调用时为 nil.
	Stream grpc.ServerStream
}

// WithRequest 返回替换了请求消息的副本.
func (c *ServerCall) WithRequest(req any) *ServerCall {
	clone := *c
	clone.Request = req
	return &clone
}

// WithStream 返回替换了流的副本.
func (c *ServerCall) WithStream(ss grpc.ServerStream) *ServerCall {
	clone := *c
	clone.Stream = ss
	return &clone
}
