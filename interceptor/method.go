package interceptor

import "strings"

// MethodName 表示一个 gRPC 方法名的三个组成部分.
//
// 包名来自 proto 定义中的 package 声明，可能为空；服务名与方法名
// 分别对应 service 与 rpc 声明.
type MethodName struct {
	Package string
	Service string
	Method  string
}

// FullyQualifiedService 返回带包名前缀的服务名.
func (m MethodName) FullyQualifiedService() string {
	if m.Package == "" {
		return m.Service
	}
	return m.Package + "." + m.Service
}

// ParseMethodName 解析完整方法名.
//
// 输入形如 "/foo.bar.SearchService/Search"，即 Intercept 收到的
// call.Method；不合法的输入返回零值.
//
// 示例:
//
//	m := interceptor.ParseMethodName("/foo.bar.SearchService/Search")
//	// m.Package == "foo.bar", m.Service == "SearchService", m.Method == "Search"
func ParseMethodName(name string) MethodName {
	name = strings.TrimPrefix(name, "/")
	service, method, ok := strings.Cut(name, "/")
	if !ok {
		return MethodName{}
	}

	var pkg string
	if i := strings.LastIndex(service, "."); i >= 0 {
		pkg, service = service[:i], service[i+1:]
	}

	return MethodName{Package: pkg, Service: service, Method: method}
}
