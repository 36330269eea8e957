package rpcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

func TestNew(t *testing.T) {
	err := New(codes.NotFound, "x missing")

	assert.Equal(t, codes.NotFound, err.Code())
	assert.Equal(t, "x missing", err.Details())
	assert.Equal(t, "NotFound: x missing", err.Error())
	assert.Nil(t, err.Trailer())
}

func TestNewDefaultDetails(t *testing.T) {
	tests := []struct {
		code codes.Code
		want string
	}{
		{codes.NotFound, "the requested entity was not found"},
		{codes.InvalidArgument, "the client specified an invalid argument"},
		{codes.Internal, "internal error"},
		{codes.Unknown, "unknown exception occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "").Details())
		})
	}
}

func TestNewPanicsOnOK(t *testing.T) {
	// OK 不是错误状态，使用它属于编程错误
	assert.Panics(t, func() {
		New(codes.OK, "not an error")
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code codes.Code
	}{
		{"Canceled", Canceled(""), codes.Canceled},
		{"Unknown", Unknown(""), codes.Unknown},
		{"InvalidArgument", InvalidArgument(""), codes.InvalidArgument},
		{"DeadlineExceeded", DeadlineExceeded(""), codes.DeadlineExceeded},
		{"NotFound", NotFound(""), codes.NotFound},
		{"AlreadyExists", AlreadyExists(""), codes.AlreadyExists},
		{"PermissionDenied", PermissionDenied(""), codes.PermissionDenied},
		{"ResourceExhausted", ResourceExhausted(""), codes.ResourceExhausted},
		{"FailedPrecondition", FailedPrecondition(""), codes.FailedPrecondition},
		{"Aborted", Aborted(""), codes.Aborted},
		{"OutOfRange", OutOfRange(""), codes.OutOfRange},
		{"Unimplemented", Unimplemented(""), codes.Unimplemented},
		{"Internal", Internal(""), codes.Internal},
		{"Unavailable", Unavailable(""), codes.Unavailable},
		{"DataLoss", DataLoss(""), codes.DataLoss},
		{"Unauthenticated", Unauthenticated(""), codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.NotEmpty(t, tt.err.Details())
		})
	}
}

func TestWithTrailer(t *testing.T) {
	base := NotFound("x missing")

	md := metadata.Pairs("retry-after", "30")
	withMD := base.WithTrailer(md)

	// 原错误不受影响
	assert.Nil(t, base.Trailer())

	require.NotNil(t, withMD.Trailer())
	assert.Equal(t, []string{"30"}, withMD.Trailer().Get("retry-after"))
	assert.Equal(t, base.Code(), withMD.Code())
	assert.Equal(t, base.Details(), withMD.Details())
}

func TestWithTrailerJoins(t *testing.T) {
	err := NotFound("x missing").
		WithTrailer(metadata.Pairs("a", "1")).
		WithTrailer(metadata.Pairs("b", "2"))

	assert.Equal(t, []string{"1"}, err.Trailer().Get("a"))
	assert.Equal(t, []string{"2"}, err.Trailer().Get("b"))
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("lookup user: %w", NotFound("x missing"))

	var de *Error
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, codes.NotFound, de.Code())
}
