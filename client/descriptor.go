package client

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
)

// MetadataPair 一对出站元数据.
//
// 元数据按序发送，允许重复键.
type MetadataPair struct {
	Key   string
	Value string
}

// CallDescriptor 描述一次待发起的出站调用.
//
// 不可变：所有 With* 方法复制并打补丁，从不就地修改，因此传给
// 链中下一环节的描述符始终完整有效.
type CallDescriptor struct {
	method          string
	timeout         time.Duration
	hasTimeout      bool
	pairs           []MetadataPair
	creds           credentials.PerRPCCredentials
	waitForReady    bool
	hasWaitForReady bool
	compressor      string
}

// NewCallDescriptor 创建描述符.
func NewCallDescriptor(method string) *CallDescriptor {
	return &CallDescriptor{method: method}
}

// clone 深拷贝描述符.
func (d *CallDescriptor) clone() *CallDescriptor {
	c := *d
	c.pairs = append([]MetadataPair(nil), d.pairs...)
	return &c
}

// Method 返回完整方法名.
func (d *CallDescriptor) Method() string {
	return d.method
}

// Timeout 返回调用超时，未设置时第二个返回值为 false.
func (d *CallDescriptor) Timeout() (time.Duration, bool) {
	return d.timeout, d.hasTimeout
}

// Metadata 返回元数据对的副本.
func (d *CallDescriptor) Metadata() []MetadataPair {
	return append([]MetadataPair(nil), d.pairs...)
}

// Credentials 返回每调用凭据，可能为 nil.
func (d *CallDescriptor) Credentials() credentials.PerRPCCredentials {
	return d.creds
}

// WaitForReady 返回 wait-for-ready 标志，未设置时第二个返回值为 false.
func (d *CallDescriptor) WaitForReady() (bool, bool) {
	return d.waitForReady, d.hasWaitForReady
}

// Compressor 返回压缩器名称，未设置时为空字符串.
func (d *CallDescriptor) Compressor() string {
	return d.compressor
}

// WithMethod 返回替换了方法名的副本.
func (d *CallDescriptor) WithMethod(method string) *CallDescriptor {
	c := d.clone()
	c.method = method
	return c
}

// WithTimeout 返回设置了调用超时的副本.
func (d *CallDescriptor) WithTimeout(timeout time.Duration) *CallDescriptor {
	c := d.clone()
	c.timeout = timeout
	c.hasTimeout = true
	return c
}

// WithMetadata 返回追加了元数据对的副本.
//
// 追加保持顺序，不去重.
func (d *CallDescriptor) WithMetadata(pairs ...MetadataPair) *CallDescriptor {
	c := d.clone()
	c.pairs = append(c.pairs, pairs...)
	return c
}

// WithCredentials 返回设置了每调用凭据的副本.
func (d *CallDescriptor) WithCredentials(creds credentials.PerRPCCredentials) *CallDescriptor {
	c := d.clone()
	c.creds = creds
	return c
}

// WithWaitForReady 返回设置了 wait-for-ready 标志的副本.
func (d *CallDescriptor) WithWaitForReady(wait bool) *CallDescriptor {
	c := d.clone()
	c.waitForReady = wait
	c.hasWaitForReady = true
	return c
}

// WithCompressor 返回设置了压缩器的副本.
//
// name 需是已通过 grpc encoding 注册的压缩器名称，如 "gzip".
func (d *CallDescriptor) WithCompressor(name string) *CallDescriptor {
	c := d.clone()
	c.compressor = name
	return c
}

// apply 把描述符落到真正的调用上.
//
// 元数据追加进出站 context，超时转为 context 截止时间，其余字段
// 转为调用选项。返回的 cancel 在调用结束后必须执行.
func (d *CallDescriptor) apply(ctx context.Context, opts []grpc.CallOption) (context.Context, context.CancelFunc, []grpc.CallOption) {
	if len(d.pairs) > 0 {
		md, _ := metadata.FromOutgoingContext(ctx)
		md = md.Copy()
		for _, p := range d.pairs {
			key := strings.ToLower(p.Key)
			md[key] = append(md[key], p.Value)
		}
		ctx = metadata.NewOutgoingContext(ctx, md)
	}

	cancel := context.CancelFunc(func() {})
	if d.hasTimeout {
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
	}

	callOpts := append([]grpc.CallOption(nil), opts...)
	if d.creds != nil {
		callOpts = append(callOpts, grpc.PerRPCCredentials(d.creds))
	}
	if d.hasWaitForReady {
		callOpts = append(callOpts, grpc.WaitForReady(d.waitForReady))
	}
	if d.compressor != "" {
		callOpts = append(callOpts, grpc.UseCompressor(d.compressor))
	}

	return ctx, cancel, callOpts
}
