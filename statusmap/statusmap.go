// Package statusmap 提供将 rpcerr 错误映射为出站状态的拦截器.
package statusmap

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
	"github.com/Tsukikage7/grpc-interceptor-kit/rpcerr"
)

// ErrStatusOK 未知错误的映射状态码不能为 OK.
var ErrStatusOK = errors.New("statusmap: the status code for unknown errors cannot be OK")

// Interceptor 错误→状态映射拦截器.
//
// 捕获链下游抛出的 *rpcerr.Error，把状态码、详情写成出站状态，
// 把尾部元数据写到调用上下文，然后以映射后的错误继续向上传播——
// 只增强、从不吞掉失败，调用最终仍由传输层按失败上报.
//
// 一元调用与流式调用的行为完全一致：流式处理器主体产出条目期间
// 抛出的错误同样经由链的返回路径到达本拦截器，在同一个消费循环
// 中完成映射.
type Interceptor struct {
	statusOnUnknown codes.Code
	mapUnknown      bool
	logger          logger.Logger
}

var _ interceptor.ServerInterceptor = (*Interceptor)(nil)

// New 创建映射拦截器.
//
// 示例:
//
//	link, err := statusmap.New(
//	    statusmap.WithStatusOnUnknown(codes.Internal),
//	)
//	srv := grpc.NewServer(interceptor.ServerOptions(link)...)
func New(opts ...Option) (*Interceptor, error) {
	o := applyOptions(opts)
	if o.mapUnknown && o.statusOnUnknown == codes.OK {
		return nil, ErrStatusOK
	}
	return &Interceptor{
		statusOnUnknown: o.statusOnUnknown,
		mapUnknown:      o.mapUnknown,
		logger:          o.logger,
	}, nil
}

// Intercept 实现 interceptor.ServerInterceptor.
func (i *Interceptor) Intercept(
	ctx context.Context,
	call *interceptor.ServerCall,
	next interceptor.ServerHandler,
) (interceptor.Response, error) {
	resp, err := next(ctx, call)
	if err != nil {
		return interceptor.Response{}, i.mapError(ctx, call, err)
	}
	return resp, nil
}

// mapError 将错误映射为出站状态并写入尾部元数据.
func (i *Interceptor) mapError(ctx context.Context, call *interceptor.ServerCall, err error) error {
	var de *rpcerr.Error
	if errors.As(err, &de) {
		if md := de.Trailer(); len(md) > 0 {
			setTrailer(ctx, call, md)
		}
		if i.logger != nil {
			i.logger.WithContext(ctx).Debug("rpc error mapped to status",
				logger.String("method", call.Method),
				logger.String("code", de.Code().String()),
				logger.String("details", de.Details()),
			)
		}
		return status.Error(de.Code(), de.Details())
	}

	// 已经是传输层状态错误的原样放行，分类之外的错误按配置处理.
	if _, ok := status.FromError(err); ok {
		return err
	}
	if i.mapUnknown {
		if i.logger != nil {
			i.logger.WithContext(ctx).Warn("unrecognized error mapped to configured status",
				logger.String("method", call.Method),
				logger.String("code", i.statusOnUnknown.String()),
				logger.Err(err),
			)
		}
		return status.Error(i.statusOnUnknown, err.Error())
	}
	return err
}

// setTrailer 写入尾部元数据.
func setTrailer(ctx context.Context, call *interceptor.ServerCall, md metadata.MD) {
	if call.Stream != nil {
		call.Stream.SetTrailer(md)
		return
	}
	// 一元调用没有流句柄，经由 context 设置.
	_ = grpc.SetTrailer(ctx, md)
}
