// Package logging 提供记录调用情况的内置拦截器.
package logging

import (
	"context"
	"time"

	"google.golang.org/grpc/status"

	"github.com/Tsukikage7/grpc-interceptor-kit/client"
	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
)

// ServerInterceptor 返回记录服务端调用的链环节.
//
// 调用结束后记录方法名、形状、状态码与耗时；流式调用在处理器
// 主体结束后记录，因此耗时覆盖条目产出的全过程.
//
// 示例:
//
//	link := logging.ServerInterceptor(log)
//	srv := grpc.NewServer(interceptor.ServerOptions(link)...)
func ServerInterceptor(log logger.Logger) interceptor.ServerInterceptor {
	if log == nil {
		panic("logging: logger is required")
	}

	return interceptor.ServerInterceptorFunc(func(
		ctx context.Context,
		call *interceptor.ServerCall,
		next interceptor.ServerHandler,
	) (interceptor.Response, error) {
		start := time.Now()

		resp, err := next(ctx, call)

		code := "OK"
		if err != nil {
			s, _ := status.FromError(err)
			code = s.Code().String()
		}

		log.WithContext(ctx).Debug("rpc handled",
			logger.String("method", call.Method),
			logger.String("shape", call.Shape.String()),
			logger.String("code", code),
			logger.Duration("duration", time.Since(start)),
		)

		return resp, err
	})
}

// ClientInterceptor 返回记录客户端调用的链环节.
//
// 发起前记录方法名，句柄取得后经由后处理回调记录结果；调用失败
// 或被取消时结果从未取得，不会产生结果日志.
func ClientInterceptor(log logger.Logger) client.Interceptor {
	if log == nil {
		panic("logging: logger is required")
	}

	return client.InterceptorFunc(func(
		ctx context.Context,
		desc *client.CallDescriptor,
		req *client.Request,
	) (*client.CallDescriptor, *client.Request, client.PostProcess, error) {
		start := time.Now()
		log.WithContext(ctx).Debug("rpc issuing",
			logger.String("method", desc.Method()),
			logger.String("shape", req.Shape().String()),
		)

		post := func(res *client.CallResult) {
			log.WithContext(ctx).Debug("rpc obtained",
				logger.String("method", res.Descriptor.Method()),
				logger.Bool("streaming", res.Stream != nil),
				logger.Duration("duration", time.Since(start)),
			)
		}

		return desc, req, post, nil
	})
}
