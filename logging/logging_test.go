package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsukikage7/grpc-interceptor-kit/client"
	"github.com/Tsukikage7/grpc-interceptor-kit/interceptor"
	"github.com/Tsukikage7/grpc-interceptor-kit/logger"
)

func TestServerInterceptorRequiresLogger(t *testing.T) {
	assert.Panics(t, func() {
		ServerInterceptor(nil)
	})
}

func TestServerInterceptorPassthrough(t *testing.T) {
	link := ServerInterceptor(logger.Nop())

	call := &interceptor.ServerCall{
		Method: "/test.Service/Method",
		Shape:  interceptor.ShapeUnary,
	}
	next := func(context.Context, *interceptor.ServerCall) (interceptor.Response, error) {
		return interceptor.Single("response"), nil
	}

	resp, err := link.Intercept(context.Background(), call, next)
	require.NoError(t, err)

	msg, err := resp.Message()
	require.NoError(t, err)
	assert.Equal(t, "response", msg)
}

func TestServerInterceptorErrorPassthrough(t *testing.T) {
	link := ServerInterceptor(logger.Nop())

	handlerErr := errors.New("handler failed")
	call := &interceptor.ServerCall{
		Method: "/test.Service/Method",
		Shape:  interceptor.ShapeUnary,
	}
	next := func(context.Context, *interceptor.ServerCall) (interceptor.Response, error) {
		return interceptor.Response{}, handlerErr
	}

	// 只记录、不改写
	_, err := link.Intercept(context.Background(), call, next)
	assert.ErrorIs(t, err, handlerErr)
}

func TestClientInterceptorRequiresLogger(t *testing.T) {
	assert.Panics(t, func() {
		ClientInterceptor(nil)
	})
}

func TestClientInterceptorPassthrough(t *testing.T) {
	link := ClientInterceptor(logger.Nop())

	desc := client.NewCallDescriptor("/test.Service/Method")
	req := &client.Request{}

	gotDesc, gotReq, post, err := link.Intercept(context.Background(), desc, req)
	require.NoError(t, err)
	assert.Same(t, desc, gotDesc)
	assert.Same(t, req, gotReq)

	require.NotNil(t, post)
	post(&client.CallResult{Descriptor: desc, Reply: "response"})
}
