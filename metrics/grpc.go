package metrics

import (
	"context"
	"time"

	"google.golang.org/grpc/status"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
)

// ServerInterceptor 返回记录服务端调用指标的链环节.
//
// 示例:
//
//	collector, _ := metrics.New(metrics.DefaultConfig())
//	srv := grpc.NewServer(
//	    interceptor.ServerOptions(metrics.ServerInterceptor(collector))...,
//	)
func ServerInterceptor(collector *Collector) interceptor.ServerInterceptor {
	if collector == nil {
		panic("metrics: collector is required")
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

		collector.Record(call.Method, call.Shape.String(), code, time.Since(start))

		return resp, err
	})
}
