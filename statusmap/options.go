package statusmap

import (
	"google.golang.org/grpc/codes"

	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
)

// Option 配置选项函数.
type Option func(*options)

// options 映射拦截器配置.
type options struct {
	statusOnUnknown codes.Code
	mapUnknown      bool
	logger          logger.Logger
}

// applyOptions 应用配置选项.
func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithStatusOnUnknown 设置分类之外错误的映射状态码.
//
// 未设置时分类之外的错误原样向上传播，由传输层按默认状态
// (codes.Unknown) 上报；设置后这类错误被映射为指定状态码，详情为
// 错误文本。状态码不能为 OK.
func WithStatusOnUnknown(code codes.Code) Option {
	return func(o *options) {
		o.statusOnUnknown = code
		o.mapUnknown = true
	}
}

// WithLogger 设置日志记录器.
//
// 设置后，每次映射会记录方法名与映射结果.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}
