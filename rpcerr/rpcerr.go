// Package rpcerr 提供按 gRPC 状态码分类的业务错误类型.
//
// 服务实现在处理过程中返回 *rpcerr.Error，由 statusmap 拦截器统一
// 映射为出站状态码、详情和尾部元数据。状态码语义的权威定义见
// https://grpc.github.io/grpc/core/md_doc_statuscodes.html.
package rpcerr

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

// Error 携带 gRPC 状态码的业务错误.
//
// 故意不实现 grpc 的 GRPCStatus 接口：状态映射只由 statusmap
// 拦截器完成，未经映射的错误到达传输层时按传输层默认值
// (codes.Unknown) 上报.
type Error struct {
	code    codes.Code
	details string
	trailer metadata.MD
}

// New 创建携带任意非 OK 状态码的错误.
//
// details 为空时使用该状态码的默认描述.
// 状态码为 OK 属于调用方编程错误，直接 panic.
func New(code codes.Code, details string) *Error {
	if code == codes.OK {
		panic("rpcerr: status code OK cannot be used for an error")
	}
	if details == "" {
		details = defaultDetails(code)
	}
	return &Error{code: code, details: details}
}

// Code 返回状态码.
func (e *Error) Code() codes.Code {
	return e.code
}

// Details 返回错误详情.
func (e *Error) Details() string {
	return e.details
}

// Trailer 返回尾部元数据，可能为 nil.
func (e *Error) Trailer() metadata.MD {
	return e.trailer
}

// WithTrailer 返回附带尾部元数据的错误副本.
//
// 原错误不会被修改.
func (e *Error) WithTrailer(md metadata.MD) *Error {
	clone := *e
	clone.trailer = metadata.Join(e.trailer, md)
	return &clone
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.details)
}

// defaultDetails 返回状态码的默认描述.
func defaultDetails(code codes.Code) string {
	if d, ok := defaults[code]; ok {
		return d
	}
	return "unknown exception occurred"
}

// 各状态码的默认详情.
var defaults = map[codes.Code]string{
	codes.Canceled:           "the operation was cancelled",
	codes.Unknown:            "unknown exception occurred",
	codes.InvalidArgument:    "the client specified an invalid argument",
	codes.DeadlineExceeded:   "deadline expired before operation could complete",
	codes.NotFound:           "the requested entity was not found",
	codes.AlreadyExists:      "the entity attempted to be created already exists",
	codes.PermissionDenied:   "the caller does not have permission to execute the specified operation",
	codes.ResourceExhausted:  "a resource has been exhausted",
	codes.FailedPrecondition: "the operation was rejected because the system is not in a state required for execution",
	codes.Aborted:            "the operation was aborted",
	codes.OutOfRange:         "the operation was attempted past the valid range",
	codes.Unimplemented:      "the operation is not implemented or not supported/enabled in this service",
	codes.Internal:           "internal error",
	codes.Unavailable:        "the service is currently unavailable",
	codes.DataLoss:           "there was unrecoverable data loss or corruption",
	codes.Unauthenticated:    "the request does not have valid authentication credentials for the operation",
}

// 按状态码分类的构造函数. details 为空时使用默认描述.

// Canceled 操作被取消，通常由调用方发起.
func Canceled(details string) *Error { return New(codes.Canceled, details) }

// Unknown 未知错误.
func Unknown(details string) *Error { return New(codes.Unknown, details) }

// InvalidArgument 客户端提供了无效参数.
func InvalidArgument(details string) *Error { return New(codes.InvalidArgument, details) }

// DeadlineExceeded 操作完成前已超过截止时间.
func DeadlineExceeded(details string) *Error { return New(codes.DeadlineExceeded, details) }

// NotFound 请求的实体不存在.
func NotFound(details string) *Error { return New(codes.NotFound, details) }

// AlreadyExists 试图创建的实体已存在.
func AlreadyExists(details string) *Error { return New(codes.AlreadyExists, details) }

// PermissionDenied 调用方没有执行该操作的权限.
func PermissionDenied(details string) *Error { return New(codes.PermissionDenied, details) }

// ResourceExhausted 资源已耗尽，例如配额用完.
func ResourceExhausted(details string) *Error { return New(codes.ResourceExhausted, details) }

// FailedPrecondition 系统状态不满足操作执行条件.
//
// 与 Aborted、Unavailable 的取舍：仅重试失败调用可恢复时用
// Unavailable；应从更高层重试时用 Aborted；系统状态被显式修复前
// 不应重试时用 FailedPrecondition.
func FailedPrecondition(details string) *Error { return New(codes.FailedPrecondition, details) }

// Aborted 操作被中止，通常因并发冲突.
func Aborted(details string) *Error { return New(codes.Aborted, details) }

// OutOfRange 操作超出有效范围，例如越过文件末尾读取.
func OutOfRange(details string) *Error { return New(codes.OutOfRange, details) }

// Unimplemented 操作未实现或未启用.
func Unimplemented(details string) *Error { return New(codes.Unimplemented, details) }

// Internal 内部错误，表示底层系统的不变量被破坏.
func Internal(details string) *Error { return New(codes.Internal, details) }

// Unavailable 服务当前不可用，通常是可通过退避重试恢复的瞬态故障.
func Unavailable(details string) *Error { return New(codes.Unavailable, details) }

// DataLoss 不可恢复的数据丢失或损坏.
func DataLoss(details string) *Error { return New(codes.DataLoss, details) }

// Unauthenticated 请求缺少有效的身份认证凭据.
func Unauthenticated(details string) *Error { return New(codes.Unauthenticated, details) }
