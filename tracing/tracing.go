// Package tracing 提供 OpenTelemetry 追踪的内置拦截器.
package tracing

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
)

// metadataCarrier 实现 propagation.TextMapCarrier 接口.
type metadataCarrier metadata.MD

func (mc metadataCarrier) Get(key string) string {
	vals := metadata.MD(mc).Get(key)
	if len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (mc metadataCarrier) Set(key, value string) {
	metadata.MD(mc).Set(key, value)
}

func (mc metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(mc))
	for k := range mc {
		keys = append(keys, k)
	}
	return keys
}

// ServerInterceptor 返回为每次服务端调用建立 span 的链环节.
//
// span 覆盖链的剩余部分与方法实现；流式调用的 span 在处理器主体
// 结束后关闭，因此覆盖条目产出的全过程.
//
// 示例:
//
//	srv := grpc.NewServer(
//	    interceptor.ServerOptions(tracing.ServerInterceptor("my-service"))...,
//	)
func ServerInterceptor(serviceName string) interceptor.ServerInterceptor {
	return interceptor.ServerInterceptorFunc(func(
		ctx context.Context,
		call *interceptor.ServerCall,
		next interceptor.ServerHandler,
	) (interceptor.Response, error) {
		// 从 metadata 提取上游追踪上下文
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			md = metadata.MD{}
		}
		ctx = otel.GetTextMapPropagator().Extract(ctx, metadataCarrier(md))

		name := interceptor.ParseMethodName(call.Method)
		tracer := otel.Tracer(serviceName)
		ctx, span := tracer.Start(ctx, call.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.RPCSystemGRPC,
				semconv.RPCService(name.FullyQualifiedService()),
				semconv.RPCMethod(name.Method),
				attribute.String("rpc.grpc.shape", call.Shape.String()),
			),
		)
		defer span.End()

		resp, err := next(ctx, call)

		if err != nil {
			s, _ := status.FromError(err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", s.Code().String()))
			span.SetStatus(otelcodes.Error, s.Message())
			span.RecordError(err)
		} else {
			span.SetAttributes(attribute.String("rpc.grpc.status_code", "OK"))
		}

		return resp, err
	})
}

// UnaryClientInterceptor 返回为每次一元客户端调用建立 span 的
// gRPC 拦截器。追踪上下文注入出站元数据.
//
// 客户端追踪需要观察传输层的成功与失败两种结局，因此以原生
// gRPC 拦截器的形式提供，安装在描述符链之外.
//
// 示例:
//
//	conn, err := grpc.NewClient(target,
//	    grpc.WithChainUnaryInterceptor(tracing.UnaryClientInterceptor("my-service")),
//	)
func UnaryClientInterceptor(serviceName string) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		name := interceptor.ParseMethodName(method)
		tracer := otel.Tracer(serviceName)
		ctx, span := tracer.Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.RPCSystemGRPC,
				semconv.RPCService(name.FullyQualifiedService()),
				semconv.RPCMethod(name.Method),
			),
		)
		defer span.End()

		err := invoker(injectTraceContext(ctx), method, req, reply, cc, opts...)

		if err != nil {
			st, _ := status.FromError(err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
			span.SetStatus(otelcodes.Error, st.Message())
			span.RecordError(err)
		} else {
			span.SetAttributes(attribute.String("rpc.grpc.status_code", "OK"))
		}
		return err
	}
}

// StreamClientInterceptor 返回为每次流式客户端调用建立 span 的
// gRPC 拦截器。span 在流终结（EOF 或错误）时关闭.
func StreamClientInterceptor(serviceName string) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		sd *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		name := interceptor.ParseMethodName(method)
		tracer := otel.Tracer(serviceName)
		ctx, span := tracer.Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.RPCSystemGRPC,
				semconv.RPCService(name.FullyQualifiedService()),
				semconv.RPCMethod(name.Method),
			),
		)

		cs, err := streamer(injectTraceContext(ctx), sd, cc, method, opts...)
		if err != nil {
			st, _ := status.FromError(err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
			span.SetStatus(otelcodes.Error, st.Message())
			span.RecordError(err)
			span.End()
			return nil, err
		}

		return &tracedClientStream{ClientStream: cs, span: span}, nil
	}
}

// injectTraceContext 将当前追踪上下文注入出站元数据.
func injectTraceContext(ctx context.Context) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	otel.GetTextMapPropagator().Inject(ctx, metadataCarrier(md))
	return metadata.NewOutgoingContext(ctx, md)
}

// tracedClientStream 在流终结时关闭 span.
type tracedClientStream struct {
	grpc.ClientStream
	span trace.Span
	once sync.Once
}

func (s *tracedClientStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err != nil {
		s.once.Do(func() {
			if err == io.EOF {
				s.span.SetAttributes(attribute.String("rpc.grpc.status_code", "OK"))
			} else {
				st, _ := status.FromError(err)
				s.span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
				s.span.SetStatus(otelcodes.Error, st.Message())
				s.span.RecordError(err)
			}
			s.span.End()
		})
	}
	return err
}
