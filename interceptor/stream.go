package interceptor

import (
	"context"

	"google.golang.org/grpc"
)

// contextStream 包装 grpc.ServerStream 以替换 context.
type contextStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}

// StreamWithContext 返回使用指定 context 的流包装.
//
// 环节修改过 context 后（注入值、收紧截止时间等）用它包装流再传给
// next，使方法实现通过 Stream.Context() 看到新的 context.
func StreamWithContext(ctx context.Context, ss grpc.ServerStream) grpc.ServerStream {
	return &contextStream{ServerStream: ss, ctx: ctx}
}

// StreamObserver 流条目观察钩子.
//
// 钩子在条目收发完成后被调用，err 为对应的收发错误（接收侧包含
// io.EOF）。钩子返回后错误原样向上传播，观察不改变流的行为.
type StreamObserver struct {
	// OnSend 出站条目产出后调用.
	OnSend func(msg any, err error)
	// OnRecv 入站条目取出后调用.
	OnRecv func(msg any, err error)
}

// observedStream 逐条转发并观察条目的流包装.
type observedStream struct {
	grpc.ServerStream
	obs StreamObserver
}

func (s *observedStream) SendMsg(m any) error {
	err := s.ServerStream.SendMsg(m)
	if s.obs.OnSend != nil {
		s.obs.OnSend(m, err)
	}
	return err
}

func (s *observedStream) RecvMsg(m any) error {
	err := s.ServerStream.RecvMsg(m)
	if s.obs.OnRecv != nil {
		s.obs.OnRecv(m, err)
	}
	return err
}

// ObserveStream 返回逐条转发并观察条目与错误的流包装.
//
// 希望观察惰性序列的环节在调用 next 之前用它包装 call.Stream，
// 由此显式地逐条"再产出"序列；链从不自动插入观察逻辑.
func ObserveStream(ss grpc.ServerStream, obs StreamObserver) grpc.ServerStream {
	return &observedStream{ServerStream: ss, obs: obs}
}
