package interceptor

import (
	"context"

	"google.golang.org/grpc"
)

// chainServer 将拦截器折叠到终端处理器上.
//
// 从最后一个拦截器开始逐层包装，第 0 个拦截器位于最外层；链的
// 组装是对拦截器序列的纯折叠，一元与流式适配器共用，仅终端处理器
// 不同.
func chainServer(links []ServerInterceptor, terminal ServerHandler) ServerHandler {
	next := terminal
	for i := len(links) - 1; i >= 0; i-- {
		link, wrapped := links[i], next
		next = func(ctx context.Context, call *ServerCall) (Response, error) {
			return link.Intercept(ctx, call, wrapped)
		}
	}
	return next
}

// UnaryServerInterceptor 将拦截器链适配为 gRPC 一元服务端拦截器.
//
// 示例:
//
//	srv := grpc.NewServer(
//	    grpc.ChainUnaryInterceptor(
//	        interceptor.UnaryServerInterceptor(linkA, linkB),
//	    ),
//	)
func UnaryServerInterceptor(links ...ServerInterceptor) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		terminal := func(ctx context.Context, call *ServerCall) (Response, error) {
			resp, err := handler(ctx, call.Request)
			if err != nil {
				return Response{}, err
			}
			return Single(resp), nil
		}

		call := &ServerCall{
			Method:  info.FullMethod,
			Shape:   ShapeUnary,
			Request: req,
		}

		resp, err := chainServer(links, terminal)(ctx, call)
		if err != nil {
			return nil, err
		}
		return resp.Message()
	}
}

// StreamServerInterceptor 将拦截器链适配为 gRPC 流式服务端拦截器.
//
// 终端处理器运行期间，条目经由调用的流产出；环节替换过的流和
// context 会原样交给真正的方法实现.
//
// 示例:
//
//	srv := grpc.NewServer(
//	    grpc.ChainStreamInterceptor(
//	        interceptor.StreamServerInterceptor(linkA, linkB),
//	    ),
//	)
func StreamServerInterceptor(links ...ServerInterceptor) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		terminal := func(ctx context.Context, call *ServerCall) (Response, error) {
			stream := call.Stream
			if ctx != stream.Context() {
				stream = StreamWithContext(ctx, stream)
			}
			if err := handler(srv, stream); err != nil {
				return Response{}, err
			}
			return Streamed(), nil
		}

		call := &ServerCall{
			Method: info.FullMethod,
			Shape:  shapeOfStream(info),
			Stream: ss,
		}

		resp, err := chainServer(links, terminal)(ss.Context(), call)
		if err != nil {
			return err
		}
		if !resp.IsStreamed() {
			return ErrSingleOnStream
		}
		return nil
	}
}

// ServerOptions 返回注册拦截器链所需的 gRPC 服务器选项.
func ServerOptions(links ...ServerInterceptor) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(links...)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(links...)),
	}
}
