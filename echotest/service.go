package echotest

import (
	"context"
	"errors"
	"io"
	"strings"
)

// EchoService 回显服务实现.
//
// 默认回显输入；输入命中 special case 时执行对应的行为.
type EchoService struct {
	special map[string]SpecialCase
}

var _ EchoServer = (*EchoService)(nil)

// NewEchoService 创建回显服务.
func NewEchoService(special map[string]SpecialCase) *EchoService {
	return &EchoService{special: special}
}

// output 计算一个输入的处理结果.
func (s *EchoService) output(ctx context.Context, input string) (string, error) {
	if fn, ok := s.special[input]; ok {
		return fn(ctx, input)
	}
	return input, nil
}

// Execute 回显输入.
func (s *EchoService) Execute(ctx context.Context, req *EchoRequest) (*EchoResponse, error) {
	out, err := s.output(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	return &EchoResponse{Output: out}, nil
}

// ExecuteClientStream 将全部输入的处理结果拼接为一个输出.
func (s *EchoService) ExecuteClientStream(stream *ExecuteClientStreamServer) error {
	var sb strings.Builder
	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		out, err := s.output(stream.Context(), req.Input)
		if err != nil {
			return err
		}
		sb.WriteString(out)
	}
	return stream.SendAndClose(&EchoResponse{Output: sb.String()})
}

// ExecuteServerStream 将处理结果逐字符产出.
func (s *EchoService) ExecuteServerStream(req *EchoRequest, stream *ExecuteServerStreamServer) error {
	out, err := s.output(stream.Context(), req.Input)
	if err != nil {
		return err
	}
	for _, c := range out {
		if err := stream.Send(&EchoResponse{Output: string(c)}); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteClientServerStream 逐条回显输入.
func (s *EchoService) ExecuteClientServerStream(stream *ExecuteClientServerStreamServer) error {
	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err := s.output(stream.Context(), req.Input)
		if err != nil {
			return err
		}
		if err := stream.Send(&EchoResponse{Output: out}); err != nil {
			return err
		}
	}
}
