package echotest

import (
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Tsukikage7/grpc-interceptor-kit/client"
	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
)

// Scope 一个隔离的回显测试作用域.
//
// 每个作用域拥有独立的监听地址和服务器/客户端实例，互不共享端口
// 或状态；Close 之后作用域的资源对外不再可见.
type Scope struct {
	server     *grpc.Server
	conn       *grpc.ClientConn
	echoClient *EchoClient
	socketPath string
	target     string
	stopWait   time.Duration
	logger     logger.Logger
	closeOnce  sync.Once
}

// Open 启动回显端点并返回绑定到它的作用域.
//
// 监听器在返回前完成绑定，端点随即可用。调用方负责在作用域结束
// 时执行 Close（通常 defer），即使测试代码 panic 也能完成资源
// 释放.
func Open(opts ...Option) (*Scope, error) {
	o := applyOptions(opts)

	serverOpts := interceptor.ServerOptions(o.serverLinks...)
	if o.blockingWorkers > 0 {
		serverOpts = append(serverOpts, grpc.NumStreamWorkers(uint32(o.blockingWorkers)))
	}
	serverOpts = append(serverOpts, o.serverOptions...)

	srv := grpc.NewServer(serverOpts...)
	RegisterEchoServer(srv, NewEchoService(o.specialCases))

	// 每个作用域一个独立命名的 unix socket，避免端口冲突.
	socketPath := filepath.Join(os.TempDir(), "echotest-"+uuid.NewString()+".sock")
	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}

	go func() {
		_ = srv.Serve(lis)
	}()

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithChainUnaryInterceptor(client.UnaryClientInterceptor(o.clientLinks...)),
		grpc.WithChainStreamInterceptor(client.StreamClientInterceptor(o.clientLinks...)),
	}
	dialOpts = append(dialOpts, o.dialOptions...)

	target := "unix://" + socketPath
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		srv.Stop()
		_ = os.Remove(socketPath)
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("echotest scope opened", logger.String("target", target))
	}

	return &Scope{
		server:     srv,
		conn:       conn,
		echoClient: NewEchoClient(conn),
		socketPath: socketPath,
		target:     target,
		stopWait:   o.stopTimeout,
		logger:     o.logger,
	}, nil
}

// Client 返回绑定到作用域端点的回显客户端.
func (s *Scope) Client() *EchoClient {
	return s.echoClient
}

// Conn 返回底层客户端连接.
func (s *Scope) Conn() *grpc.ClientConn {
	return s.conn
}

// Target 返回作用域端点地址.
func (s *Scope) Target() string {
	return s.target
}

// Close 释放作用域的全部资源.
//
// 幂等；先断开客户端连接，再优雅停止服务器，超过停止超时后强制
// 停止.
func (s *Scope) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()

		done := make(chan struct{})
		go func() {
			s.server.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(s.stopWait):
			s.server.Stop()
		}

		_ = os.Remove(s.socketPath)

		if s.logger != nil {
			s.logger.Debug("echotest scope closed", logger.String("target", s.target))
		}
	})
}
