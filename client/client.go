// Package client 提供客户端拦截器链与出站调用描述符.
//
// 客户端链是对有序拦截器列表的一次变换折叠：每个环节接收当前的
// 调用描述符和出站请求，返回改写后的描述符、请求和一个可选的
// 后处理回调；折叠完成后才发起真正的网络调用。任一环节返回错误
// 时折叠立刻终止，网络调用不会发出，失败即刻上报.
//
// 后处理回调作用于取得的调用句柄（一元响应或已建立的流），按
// 环节相反的顺序执行；调用失败或被取消时结果从未取得，回调一律
// 不执行.
package client

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
)

// Request 出站请求.
//
// 一元调用时携带请求消息；流式请求时消息经由流的发送侧惰性产出，
// Request 本身不携带消息，环节通过 WithStreamWrapper 改写发送侧
// （例如为重放缓存请求条目）.
type Request struct {
	shape   interceptor.Shape
	message any
	wrap    func(grpc.ClientStream) grpc.ClientStream
}

// Shape 返回调用形状.
func (r *Request) Shape() interceptor.Shape {
	return r.shape
}

// Message 返回一元请求消息；流式请求时为 nil.
func (r *Request) Message() any {
	return r.message
}

// WithMessage 返回替换了一元请求消息的副本.
func (r *Request) WithMessage(msg any) *Request {
	clone := *r
	clone.message = msg
	return &clone
}

// WithStreamWrapper 返回叠加了流包装的副本.
//
// 多个环节的包装按环节顺序由内向外叠加.
func (r *Request) WithStreamWrapper(wrap func(grpc.ClientStream) grpc.ClientStream) *Request {
	clone := *r
	if prev := r.wrap; prev != nil {
		clone.wrap = func(cs grpc.ClientStream) grpc.ClientStream {
			return wrap(prev(cs))
		}
	} else {
		clone.wrap = wrap
	}
	return &clone
}

// CallResult 已取得的调用句柄.
type CallResult struct {
	// Descriptor 发起调用时最终使用的描述符.
	Descriptor *CallDescriptor
	// Reply 一元调用的响应消息；流式调用时为 nil.
	Reply any
	// Stream 已建立的流句柄；一元调用时为 nil.
	Stream grpc.ClientStream
}

// PostProcess 后处理回调，作用于取得的调用句柄.
type PostProcess func(*CallResult)

// Interceptor 客户端拦截器能力接口.
//
// 返回的描述符与请求传给链中下一环节（或真正的调用原语），必须
// 完整有效；返回错误则调用被即刻中止.
type Interceptor interface {
	Intercept(ctx context.Context, desc *CallDescriptor, req *Request) (*CallDescriptor, *Request, PostProcess, error)
}

// InterceptorFunc 函数形式的 Interceptor.
type InterceptorFunc func(ctx context.Context, desc *CallDescriptor, req *Request) (*CallDescriptor, *Request, PostProcess, error)

// Intercept 实现 Interceptor.
func (f InterceptorFunc) Intercept(ctx context.Context, desc *CallDescriptor, req *Request) (*CallDescriptor, *Request, PostProcess, error) {
	return f(ctx, desc, req)
}

// MetadataInterceptor 返回向每次调用注入固定元数据对的拦截器.
//
// 描述符按调用重建，因此每次独立调用恰好注入一份，不会跨调用
// 累积.
func MetadataInterceptor(pairs ...MetadataPair) Interceptor {
	return InterceptorFunc(func(_ context.Context, desc *CallDescriptor, req *Request) (*CallDescriptor, *Request, PostProcess, error) {
		return desc.WithMetadata(pairs...), req, nil, nil
	})
}
