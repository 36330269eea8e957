// Package retry 提供客户端调用的重试机制.
//
// 重试工作在原生 gRPC 拦截器层：描述符链对每次调用只触发一次
// 传输，重复触发由链之外的这一层负责.
package retry

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// 默认配置值.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 100 * time.Millisecond
)

// BackoffFunc 计算第 n 次重试的等待时间.
type BackoffFunc func(attempt int, delay time.Duration) time.Duration

// RetryableFunc 判断错误是否应该重试.
type RetryableFunc func(err error) bool

// Config 重试配置.
type Config struct {
	MaxAttempts int           // 最大尝试次数（含首次）
	Delay       time.Duration // 重试间隔
	Backoff     BackoffFunc   // 退避策略
	Retryable   RetryableFunc // 判断是否应该重试
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Backoff:     FixedBackoff,
		Retryable:   DefaultRetryable,
	}
}

// FixedBackoff 固定退避策略.
func FixedBackoff(_ int, delay time.Duration) time.Duration {
	return delay
}

// ExponentialBackoff 指数退避策略.
func ExponentialBackoff(attempt int, delay time.Duration) time.Duration {
	return delay * time.Duration(1<<uint(attempt))
}

// LinearBackoff 线性退避策略.
func LinearBackoff(attempt int, delay time.Duration) time.Duration {
	return delay * time.Duration(attempt+1)
}

// DefaultRetryable 判断默认可重试的状态码.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}

	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.Unavailable: // 服务暂时不可用
		return true
	case codes.ResourceExhausted: // 资源耗尽
		return true
	default:
		return false
	}
}

// RetryableCodes 返回根据状态码判断是否重试的函数.
func RetryableCodes(retryCodes ...codes.Code) RetryableFunc {
	codeSet := make(map[codes.Code]struct{}, len(retryCodes))
	for _, code := range retryCodes {
		codeSet[code] = struct{}{}
	}

	return func(err error) bool {
		if err == nil {
			return false
		}

		st, ok := status.FromError(err)
		if !ok {
			return false
		}

		_, shouldRetry := codeSet[st.Code()]
		return shouldRetry
	}
}
