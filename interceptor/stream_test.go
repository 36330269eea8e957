package interceptor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream 可以注入收发错误的流.
type scriptedStream struct {
	fakeServerStream
	sendErr error
	recvErr error
}

func (s *scriptedStream) SendMsg(m any) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	return s.fakeServerStream.SendMsg(m)
}

func (s *scriptedStream) RecvMsg(m any) error {
	return s.recvErr
}

func TestStreamWithContext(t *testing.T) {
	inner := &fakeServerStream{ctx: context.Background()}
	ctx := context.WithValue(context.Background(), ctxKey{}, "replaced")

	wrapped := StreamWithContext(ctx, inner)
	assert.Equal(t, "replaced", wrapped.Context().Value(ctxKey{}))

	// 收发仍然转发到内层流
	require.NoError(t, wrapped.SendMsg("item"))
	assert.Equal(t, []any{"item"}, inner.sent)
}

func TestObserveStreamSend(t *testing.T) {
	inner := &scriptedStream{fakeServerStream: fakeServerStream{ctx: context.Background()}}

	var observed []any
	wrapped := ObserveStream(inner, StreamObserver{
		OnSend: func(msg any, err error) {
			require.NoError(t, err)
			observed = append(observed, msg)
		},
	})

	require.NoError(t, wrapped.SendMsg("a"))
	require.NoError(t, wrapped.SendMsg("b"))

	assert.Equal(t, []any{"a", "b"}, observed)
	assert.Equal(t, []any{"a", "b"}, inner.sent)
}

func TestObserveStreamSendError(t *testing.T) {
	sendErr := errors.New("send failed")
	inner := &scriptedStream{sendErr: sendErr}

	var seen error
	wrapped := ObserveStream(inner, StreamObserver{
		OnSend: func(msg any, err error) { seen = err },
	})

	// 错误先交给观察钩子，再原样向上传播
	assert.ErrorIs(t, wrapped.SendMsg("a"), sendErr)
	assert.ErrorIs(t, seen, sendErr)
}

func TestObserveStreamRecv(t *testing.T) {
	inner := &scriptedStream{recvErr: io.EOF}

	var seen error
	wrapped := ObserveStream(inner, StreamObserver{
		OnRecv: func(msg any, err error) { seen = err },
	})

	// 入站序列的终结 (io.EOF) 同样可观察
	assert.ErrorIs(t, wrapped.RecvMsg(new(string)), io.EOF)
	assert.ErrorIs(t, seen, io.EOF)
}

func TestObserveStreamNilHooks(t *testing.T) {
	inner := &scriptedStream{fakeServerStream: fakeServerStream{ctx: context.Background()}}
	wrapped := ObserveStream(inner, StreamObserver{})

	require.NoError(t, wrapped.SendMsg("a"))
	require.NoError(t, wrapped.RecvMsg(new(string)))
}
