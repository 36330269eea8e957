package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		backoff BackoffFunc
		attempt int
		want    time.Duration
	}{
		{"fixed first", FixedBackoff, 0, 100 * time.Millisecond},
		{"fixed later", FixedBackoff, 3, 100 * time.Millisecond},
		{"exponential first", ExponentialBackoff, 0, 100 * time.Millisecond},
		{"exponential second", ExponentialBackoff, 1, 200 * time.Millisecond},
		{"exponential third", ExponentialBackoff, 2, 400 * time.Millisecond},
		{"linear first", LinearBackoff, 0, 100 * time.Millisecond},
		{"linear third", LinearBackoff, 2, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backoff(tt.attempt, 100*time.Millisecond))
		})
	}
}

func TestDefaultRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", status.Error(codes.Unavailable, "down"), true},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"not found", status.Error(codes.NotFound, "missing"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRetryable(tt.err))
		})
	}
}

func TestRetryableCodes(t *testing.T) {
	retryable := RetryableCodes(codes.Aborted, codes.Unavailable)

	assert.True(t, retryable(status.Error(codes.Aborted, "conflict")))
	assert.True(t, retryable(status.Error(codes.Unavailable, "down")))
	assert.False(t, retryable(status.Error(codes.NotFound, "missing")))
	assert.False(t, retryable(nil))
}

func TestUnaryClientInterceptorRetries(t *testing.T) {
	attempts := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		attempts++
		if attempts < 3 {
			return status.Error(codes.Unavailable, "down")
		}
		return nil
	}

	ic := UnaryClientInterceptor(&Config{MaxAttempts: 3, Delay: time.Millisecond})
	err := ic(context.Background(), "/test.Service/Method", "req", new(string), nil, invoker)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestUnaryClientInterceptorExhausted(t *testing.T) {
	attempts := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		attempts++
		return status.Error(codes.Unavailable, "down")
	}

	ic := UnaryClientInterceptor(&Config{MaxAttempts: 3, Delay: time.Millisecond})
	err := ic(context.Background(), "/test.Service/Method", "req", new(string), nil, invoker)

	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, 3, attempts)
}

func TestUnaryClientInterceptorNonRetryable(t *testing.T) {
	attempts := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		attempts++
		return status.Error(codes.InvalidArgument, "bad request")
	}

	ic := UnaryClientInterceptor(&Config{MaxAttempts: 3, Delay: time.Millisecond})
	err := ic(context.Background(), "/test.Service/Method", "req", new(string), nil, invoker)

	require.Error(t, err)
	// 不可重试的错误即刻上报
	assert.Equal(t, 1, attempts)
}

func TestUnaryClientInterceptorContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		attempts++
		cancel()
		return status.Error(codes.Unavailable, "down")
	}

	ic := UnaryClientInterceptor(&Config{MaxAttempts: 5, Delay: time.Second})
	err := ic(ctx, "/test.Service/Method", "req", new(string), nil, invoker)

	// 等待退避期间被取消
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestUnaryClientInterceptorNilConfig(t *testing.T) {
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return nil
	}

	ic := UnaryClientInterceptor(nil)
	assert.NoError(t, ic(context.Background(), "/test.Service/Method", "req", new(string), nil, invoker))
}

func TestStreamClientInterceptorRetries(t *testing.T) {
	attempts := 0
	streamer := func(ctx context.Context, sd *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		attempts++
		if attempts < 2 {
			return nil, status.Error(codes.Unavailable, "down")
		}
		return nil, nil
	}

	ic := StreamClientInterceptor(&Config{MaxAttempts: 3, Delay: time.Millisecond})
	_, err := ic(context.Background(), &grpc.StreamDesc{ServerStreams: true}, nil, "/test.Service/Method", streamer)

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestStreamClientInterceptorNonRetryable(t *testing.T) {
	attempts := 0
	streamer := func(ctx context.Context, sd *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		attempts++
		return nil, status.Error(codes.PermissionDenied, "no access")
	}

	ic := StreamClientInterceptor(&Config{MaxAttempts: 3, Delay: time.Millisecond})
	_, err := ic(context.Background(), &grpc.StreamDesc{ServerStreams: true}, nil, "/test.Service/Method", streamer)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
