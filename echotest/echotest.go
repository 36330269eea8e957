// Package echotest 提供验证拦截器链的环回测试工具.
//
// 拦截器在真实的流式/并发执行下的正确性无法用 mock 验证，因此
// 这里在临时的本地地址上启动一个固定契约的回显服务
// (echotest.EchoService，覆盖全部四种调用形状)，并提供绑定到同一
// 端点的类型化客户端。通过 special case 可以让服务对特定输入抛出
// 错误、延迟或返回定制值，以驱动拦截器在受控故障/延迟下的行为.
//
// 示例:
//
//	scope, err := echotest.Open(
//	    echotest.WithServerInterceptors(link),
//	    echotest.WithSpecialCases(map[string]echotest.SpecialCase{
//	        "missing": echotest.Raises(rpcerr.NotFound("x missing")),
//	    }),
//	)
//	defer scope.Close()
//	resp, err := scope.Client().Execute(ctx, &echotest.EchoRequest{Input: "hello"})
package echotest

import (
	"context"
	"time"
)

// EchoRequest 回显请求.
type EchoRequest struct {
	Input string `json:"input"`
}

// EchoResponse 回显响应.
type EchoResponse struct {
	Output string `json:"output"`
}

// SpecialCase 特殊输入的处理行为.
//
// 服务收到与 special case 键完全相同的输入时，调用对应函数替代
// 默认的回显逻辑，其返回值（或错误）作为该输入的处理结果.
type SpecialCase func(ctx context.Context, input string) (string, error)

// Raises 返回总是抛出指定错误的 SpecialCase.
func Raises(err error) SpecialCase {
	return func(context.Context, string) (string, error) {
		return "", err
	}
}

// Returns 返回总是产出指定输出的 SpecialCase.
func Returns(output string) SpecialCase {
	return func(context.Context, string) (string, error) {
		return output, nil
	}
}

// DelayBy 返回延迟指定时长后回显输入的 SpecialCase.
//
// 延迟期间调用被取消时返回取消错误.
func DelayBy(d time.Duration) SpecialCase {
	return func(ctx context.Context, input string) (string, error) {
		select {
		case <-time.After(d):
			return input, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// BlockUntilCancelled 返回阻塞直到调用被取消的 SpecialCase.
//
// 用于验证取消信号的传播.
func BlockUntilCancelled() SpecialCase {
	return func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
}
