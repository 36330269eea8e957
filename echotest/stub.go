package echotest

import (
	"context"

	"google.golang.org/grpc"
)

// EchoClient 回显服务的类型化客户端.
type EchoClient struct {
	cc *grpc.ClientConn
}

// NewEchoClient 创建客户端.
func NewEchoClient(cc *grpc.ClientConn) *EchoClient {
	return &EchoClient{cc: cc}
}

// Execute 发起一元调用.
func (c *EchoClient) Execute(ctx context.Context, req *EchoRequest, opts ...grpc.CallOption) (*EchoResponse, error) {
	out := new(EchoResponse)
	if err := c.cc.Invoke(ctx, MethodExecute, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteClientStream 发起客户端流调用.
func (c *EchoClient) ExecuteClientStream(ctx context.Context, opts ...grpc.CallOption) (*ExecuteClientStreamClient, error) {
	cs, err := c.cc.NewStream(ctx, &echoServiceDesc.Streams[0], MethodExecuteClientStream, opts...)
	if err != nil {
		return nil, err
	}
	return &ExecuteClientStreamClient{cs}, nil
}

// ExecuteServerStream 发起服务端流调用.
func (c *EchoClient) ExecuteServerStream(ctx context.Context, req *EchoRequest, opts ...grpc.CallOption) (*ExecuteServerStreamClient, error) {
	cs, err := c.cc.NewStream(ctx, &echoServiceDesc.Streams[1], MethodExecuteServerStream, opts...)
	if err != nil {
		return nil, err
	}
	stream := &ExecuteServerStreamClient{cs}
	if err := cs.SendMsg(req); err != nil {
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		return nil, err
	}
	return stream, nil
}

// ExecuteClientServerStream 发起双向流调用.
func (c *EchoClient) ExecuteClientServerStream(ctx context.Context, opts ...grpc.CallOption) (*ExecuteClientServerStreamClient, error) {
	cs, err := c.cc.NewStream(ctx, &echoServiceDesc.Streams[2], MethodExecuteClientServerStream, opts...)
	if err != nil {
		return nil, err
	}
	return &ExecuteClientServerStreamClient{cs}, nil
}

// ExecuteClientStreamClient 客户端流调用的客户端流句柄.
type ExecuteClientStreamClient struct {
	grpc.ClientStream
}

// Send 发送下一条请求.
func (s *ExecuteClientStreamClient) Send(req *EchoRequest) error {
	return s.ClientStream.SendMsg(req)
}

// CloseAndRecv 结束发送并接收唯一的响应.
func (s *ExecuteClientStreamClient) CloseAndRecv() (*EchoResponse, error) {
	if err := s.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(EchoResponse)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ExecuteServerStreamClient 服务端流调用的客户端流句柄.
type ExecuteServerStreamClient struct {
	grpc.ClientStream
}

// Recv 接收下一条响应.
func (s *ExecuteServerStreamClient) Recv() (*EchoResponse, error) {
	m := new(EchoResponse)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ExecuteClientServerStreamClient 双向流调用的客户端流句柄.
type ExecuteClientServerStreamClient struct {
	grpc.ClientStream
}

// Send 发送下一条请求.
func (s *ExecuteClientServerStreamClient) Send(req *EchoRequest) error {
	return s.ClientStream.SendMsg(req)
}

// Recv 接收下一条响应.
func (s *ExecuteClientServerStreamClient) Recv() (*EchoResponse, error) {
	m := new(EchoResponse)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
