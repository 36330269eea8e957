package client

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/grpc"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
)

// 预定义错误.
var (
	// ErrNilDescriptor 拦截器返回了空的调用描述符.
	ErrNilDescriptor = errors.New("client: interceptor returned a nil call descriptor")

	// ErrNilRequest 拦截器返回了空的出站请求.
	ErrNilRequest = errors.New("client: interceptor returned a nil request")
)

// runChain 对拦截器列表做一次变换折叠.
//
// 返回最终的描述符、请求和收集到的后处理回调；任一环节出错即
// 终止，真正的网络调用不会发出.
func runChain(
	ctx context.Context,
	links []Interceptor,
	desc *CallDescriptor,
	req *Request,
) (*CallDescriptor, *Request, []PostProcess, error) {
	var posts []PostProcess
	for _, link := range links {
		var post PostProcess
		var err error
		desc, req, post, err = link.Intercept(ctx, desc, req)
		if err != nil {
			return nil, nil, nil, err
		}
		if desc == nil {
			return nil, nil, nil, ErrNilDescriptor
		}
		if req == nil {
			return nil, nil, nil, ErrNilRequest
		}
		if post != nil {
			posts = append(posts, post)
		}
	}
	return desc, req, posts, nil
}

// postProcess 按环节相反的顺序执行后处理回调.
func postProcess(posts []PostProcess, res *CallResult) {
	for i := len(posts) - 1; i >= 0; i-- {
		posts[i](res)
	}
}

// UnaryClientInterceptor 将拦截器链适配为 gRPC 一元客户端拦截器.
//
// 示例:
//
//	conn, err := grpc.NewClient(target,
//	    grpc.WithChainUnaryInterceptor(
//	        client.UnaryClientInterceptor(linkA, linkB),
//	    ),
//	)
func UnaryClientInterceptor(links ...Interceptor) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		desc := NewCallDescriptor(method)
		request := &Request{shape: interceptor.ShapeUnary, message: req}

		desc, request, posts, err := runChain(ctx, links, desc, request)
		if err != nil {
			return err
		}

		callCtx, cancel, callOpts := desc.apply(ctx, opts)
		defer cancel()

		if err := invoker(callCtx, desc.Method(), request.Message(), reply, cc, callOpts...); err != nil {
			// 结果未取得，后处理回调不执行.
			return err
		}

		postProcess(posts, &CallResult{Descriptor: desc, Reply: reply})
		return nil
	}
}

// StreamClientInterceptor 将拦截器链适配为 gRPC 流式客户端拦截器.
//
// 环节叠加的流包装在流建立后生效；后处理回调作用于已建立（并已
// 包装）的流句柄。流建立失败时句柄从未取得，回调不执行.
//
// 示例:
//
//	conn, err := grpc.NewClient(target,
//	    grpc.WithChainStreamInterceptor(
//	        client.StreamClientInterceptor(linkA, linkB),
//	    ),
//	)
func StreamClientInterceptor(links ...Interceptor) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		sd *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		desc := NewCallDescriptor(method)
		request := &Request{shape: shapeOfStreamDesc(sd)}

		desc, request, posts, err := runChain(ctx, links, desc, request)
		if err != nil {
			return nil, err
		}

		callCtx, cancel, callOpts := desc.apply(ctx, opts)

		cs, err := streamer(callCtx, sd, cc, desc.Method(), callOpts...)
		if err != nil {
			cancel()
			return nil, err
		}

		if request.wrap != nil {
			cs = request.wrap(cs)
		}
		cs = &trackedClientStream{ClientStream: cs, cancel: cancel}

		postProcess(posts, &CallResult{Descriptor: desc, Stream: cs})
		return cs, nil
	}
}

// shapeOfStreamDesc 从流描述判定调用形状.
func shapeOfStreamDesc(sd *grpc.StreamDesc) interceptor.Shape {
	switch {
	case sd.ClientStreams && sd.ServerStreams:
		return interceptor.ShapeBidiStream
	case sd.ClientStreams:
		return interceptor.ShapeClientStream
	case sd.ServerStreams:
		return interceptor.ShapeServerStream
	default:
		return interceptor.ShapeUnknown
	}
}

// trackedClientStream 在流终结时释放描述符引入的超时 context.
type trackedClientStream struct {
	grpc.ClientStream
	cancel context.CancelFunc
	once   sync.Once
}

func (s *trackedClientStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err != nil {
		// 流在 RecvMsg 返回非 nil（含 io.EOF）后终结.
		s.once.Do(s.cancel)
	}
	return err
}
