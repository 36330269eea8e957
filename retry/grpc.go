package retry

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// UnaryClientInterceptor 返回 gRPC 一元客户端重试拦截器.
//
// 示例:
//
//	cfg := retry.DefaultConfig()
//	conn, err := grpc.NewClient(target,
//	    grpc.WithChainUnaryInterceptor(retry.UnaryClientInterceptor(cfg)),
//	)
func UnaryClientInterceptor(cfg *Config) grpc.UnaryClientInterceptor {
	cfg = normalize(cfg)

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var err error

		for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			err = invoker(ctx, method, req, reply, cc, opts...)
			if err == nil {
				return nil
			}

			if !cfg.Retryable(err) {
				return err
			}

			// 最后一次尝试失败后不再等待
			if attempt < cfg.MaxAttempts-1 {
				wait := cfg.Backoff(attempt, cfg.Delay)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		return err
	}
}

// StreamClientInterceptor 返回 gRPC 流式客户端重试拦截器.
//
// 流式调用的重试只覆盖建立阶段。流一旦开始传输，重复建立会
// 造成条目重复，因此传输阶段的错误原样返回.
func StreamClientInterceptor(cfg *Config) grpc.StreamClientInterceptor {
	cfg = normalize(cfg)

	return func(ctx context.Context, sd *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		var stream grpc.ClientStream
		var err error

		for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			stream, err = streamer(ctx, sd, cc, method, opts...)
			if err == nil {
				return stream, nil
			}

			if !cfg.Retryable(err) {
				return nil, err
			}

			if attempt < cfg.MaxAttempts-1 {
				wait := cfg.Backoff(attempt, cfg.Delay)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		return nil, err
	}
}

// normalize 补齐缺失的配置项.
func normalize(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}

	out := *cfg
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = DefaultMaxAttempts
	}
	if out.Delay <= 0 {
		out.Delay = DefaultDelay
	}
	if out.Backoff == nil {
		out.Backoff = FixedBackoff
	}
	if out.Retryable == nil {
		out.Retryable = DefaultRetryable
	}
	return &out
}
