// Package metrics 提供记录调用指标的内置拦截器.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrNilConfig 配置为空.
var ErrNilConfig = errors.New("metrics: config is nil")

// Config 指标配置.
type Config struct {
	// Namespace 指标命名空间，默认 rpc.
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	return &Config{Namespace: "rpc"}
}

// Collector Prometheus 指标收集器.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New 创建指标收集器.
//
// 使用独立的注册表，避免与默认注册表以及其他收集器实例冲突.
func New(cfg *Config) (*Collector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "rpc"
	}

	registry := prometheus.NewRegistry()

	c := &Collector{registry: registry}

	c.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Total number of gRPC requests",
		},
		[]string{"method", "shape", "status_code"},
	)

	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "shape"},
	)

	if err := registry.Register(c.requestsTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(c.requestDuration); err != nil {
		return nil, err
	}

	return c, nil
}

// Record 记录一次调用.
func (c *Collector) Record(method, shape, code string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, shape, code).Inc()
	c.requestDuration.WithLabelValues(method, shape).Observe(duration.Seconds())
}

// Handler 返回暴露指标的 HTTP 处理器.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
