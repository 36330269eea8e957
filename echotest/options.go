package echotest

import (
	"time"

	"google.golang.org/grpc"

	"github.com/Tsukikage7/grpc-interceptor-kit/client"
	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
)

// Option 配置选项函数.
type Option func(*options)

// options 测试作用域配置.
type options struct {
	specialCases    map[string]SpecialCase
	serverLinks     []interceptor.ServerInterceptor
	clientLinks     []client.Interceptor
	blockingWorkers int
	stopTimeout     time.Duration
	logger          logger.Logger
	serverOptions   []grpc.ServerOption
	dialOptions     []grpc.DialOption
}

// defaultOptions 返回默认配置.
func defaultOptions() *options {
	return &options{
		stopTimeout: 5 * time.Second,
	}
}

// applyOptions 应用配置选项.
func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSpecialCases 设置特殊输入的处理行为.
func WithSpecialCases(cases map[string]SpecialCase) Option {
	return func(o *options) {
		o.specialCases = cases
	}
}

// WithServerInterceptors 设置安装到回显服务的服务端拦截器链.
func WithServerInterceptors(links ...interceptor.ServerInterceptor) Option {
	return func(o *options) {
		o.serverLinks = append(o.serverLinks, links...)
	}
}

// WithClientInterceptors 设置安装到客户端的拦截器链.
func WithClientInterceptors(links ...client.Interceptor) Option {
	return func(o *options) {
		o.clientLinks = append(o.clientLinks, links...)
	}
}

// WithBlockingWorkers 启用阻塞调度模型.
//
// 每个调用在容量为 n 的专属工作者池中执行，拦截器代码可以阻塞
// 工作者；默认为协作模型，调用由运行时在各自的 goroutine 上多路
// 复用。两种模型下拦截器的可观察语义完全一致.
func WithBlockingWorkers(n int) Option {
	return func(o *options) {
		o.blockingWorkers = n
	}
}

// WithStopTimeout 设置优雅关闭超时，超时后强制停止.
//
// 默认: 5 秒.
func WithStopTimeout(d time.Duration) Option {
	return func(o *options) {
		o.stopTimeout = d
	}
}

// WithLogger 设置日志记录器.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithServerOptions 追加额外的 gRPC 服务器选项.
func WithServerOptions(opts ...grpc.ServerOption) Option {
	return func(o *options) {
		o.serverOptions = append(o.serverOptions, opts...)
	}
}

// WithDialOptions 追加额外的 gRPC 拨号选项.
//
// 用于安装工作在传输层边界的拦截器（例如 retry 包）.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) {
		o.dialOptions = append(o.dialOptions, opts...)
	}
}
