package echotest

import (
	"context"

	"google.golang.org/grpc"
)

// 完整方法名常量.
const (
	MethodExecute                   = "/echotest.EchoService/Execute"
	MethodExecuteClientStream       = "/echotest.EchoService/ExecuteClientStream"
	MethodExecuteServerStream       = "/echotest.EchoService/ExecuteServerStream"
	MethodExecuteClientServerStream = "/echotest.EchoService/ExecuteClientServerStream"
)

// EchoServer 回显服务的服务端接口.
type EchoServer interface {
	Execute(ctx context.Context, req *EchoRequest) (*EchoResponse, error)
	ExecuteClientStream(stream *ExecuteClientStreamServer) error
	ExecuteServerStream(req *EchoRequest, stream *ExecuteServerStreamServer) error
	ExecuteClientServerStream(stream *ExecuteClientServerStreamServer) error
}

// RegisterEchoServer 向 gRPC 服务器注册回显服务.
func RegisterEchoServer(s *grpc.Server, srv EchoServer) {
	s.RegisterService(&echoServiceDesc, srv)
}

// echoServiceDesc 手写的服务描述，形式与生成代码一致.
var echoServiceDesc = grpc.ServiceDesc{
	ServiceName: "echotest.EchoService",
	HandlerType: (*EchoServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ExecuteClientStream",
			Handler:       executeClientStreamHandler,
			ClientStreams: true,
		},
		{
			StreamName:    "ExecuteServerStream",
			Handler:       executeServerStreamHandler,
			ServerStreams: true,
		},
		{
			StreamName:    "ExecuteClientServerStream",
			Handler:       executeClientServerStreamHandler,
			ClientStreams: true,
			ServerStreams: true,
		},
	},
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
	in := new(EchoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if ic == nil {
		return srv.(EchoServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodExecute,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EchoServer).Execute(ctx, req.(*EchoRequest))
	}
	return ic(ctx, in, info, handler)
}

func executeClientStreamHandler(srv any, ss grpc.ServerStream) error {
	return srv.(EchoServer).ExecuteClientStream(&ExecuteClientStreamServer{ss})
}

func executeServerStreamHandler(srv any, ss grpc.ServerStream) error {
	in := new(EchoRequest)
	if err := ss.RecvMsg(in); err != nil {
		return err
	}
	return srv.(EchoServer).ExecuteServerStream(in, &ExecuteServerStreamServer{ss})
}

func executeClientServerStreamHandler(srv any, ss grpc.ServerStream) error {
	return srv.(EchoServer).ExecuteClientServerStream(&ExecuteClientServerStreamServer{ss})
}

// ExecuteClientStreamServer 客户端流调用的服务端流句柄.
type ExecuteClientStreamServer struct {
	grpc.ServerStream
}

// Recv 接收下一条请求.
func (s *ExecuteClientStreamServer) Recv() (*EchoRequest, error) {
	m := new(EchoRequest)
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// SendAndClose 发送唯一的响应并结束调用.
func (s *ExecuteClientStreamServer) SendAndClose(resp *EchoResponse) error {
	return s.ServerStream.SendMsg(resp)
}

// ExecuteServerStreamServer 服务端流调用的服务端流句柄.
type ExecuteServerStreamServer struct {
	grpc.ServerStream
}

// Send 产出下一条响应.
func (s *ExecuteServerStreamServer) Send(resp *EchoResponse) error {
	return s.ServerStream.SendMsg(resp)
}

// ExecuteClientServerStreamServer 双向流调用的服务端流句柄.
type ExecuteClientServerStreamServer struct {
	grpc.ServerStream
}

// Recv 接收下一条请求.
func (s *ExecuteClientServerStreamServer) Recv() (*EchoRequest, error) {
	m := new(EchoRequest)
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Send 产出下一条响应.
func (s *ExecuteClientServerStreamServer) Send(resp *EchoResponse) error {
	return s.ServerStream.SendMsg(resp)
}
