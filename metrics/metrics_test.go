package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/rpcerr"
	"github.com/Tsukikage7/grpc-interceptor-kit/statusmap"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{"default config", DefaultConfig(), nil},
		{"custom namespace", &Config{Namespace: "custom"}, nil},
		{"empty namespace falls back", &Config{}, nil},
		{"nil config", nil, ErrNilConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestCollectorRecord(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	c.Record("/test.Service/Method", "unary", "OK", 5*time.Millisecond)
	c.Record("/test.Service/Method", "unary", "NotFound", time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, "test_grpc_requests_total")
	assert.Contains(t, body, `status_code="OK"`)
	assert.Contains(t, body, `status_code="NotFound"`)
	assert.Contains(t, body, "test_grpc_request_duration_seconds")
}

func TestServerInterceptorRequiresCollector(t *testing.T) {
	assert.Panics(t, func() {
		ServerInterceptor(nil)
	})
}

func TestServerInterceptor(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	link := ServerInterceptor(c)
	call := &interceptor.ServerCall{
		Method: "/test.Service/Method",
		Shape:  interceptor.ShapeUnary,
	}

	tests := []struct {
		name       string
		handlerErr error
		wantCode   string
	}{
		{"success", nil, `status_code="OK"`},
		{"plain error", errors.New("boom"), `status_code="Unknown"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := func(context.Context, *interceptor.ServerCall) (interceptor.Response, error) {
				if tt.handlerErr != nil {
					return interceptor.Response{}, tt.handlerErr
				}
				return interceptor.Single("response"), nil
			}

			_, err := link.Intercept(context.Background(), call, next)
			if tt.handlerErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Contains(t, scrape(t, c), tt.wantCode)
		})
	}
}

func TestServerInterceptorAfterStatusmap(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	mapper, err := statusmap.New()
	require.NoError(t, err)

	// metrics 在 statusmap 外层时记录的是映射后的状态码
	metricsLink := ServerInterceptor(c)
	call := &interceptor.ServerCall{
		Method: "/test.Service/Method",
		Shape:  interceptor.ShapeUnary,
	}
	next := func(context.Context, *interceptor.ServerCall) (interceptor.Response, error) {
		return interceptor.Response{}, rpcerr.NotFound("x missing")
	}

	_, err = metricsLink.Intercept(context.Background(), call,
		func(ctx context.Context, call *interceptor.ServerCall) (interceptor.Response, error) {
			return mapper.Intercept(ctx, call, next)
		})
	require.Error(t, err)

	assert.Contains(t, scrape(t, c), `status_code="NotFound"`)
}
