package logger

import "context"

// nopLogger 不输出任何内容的 Logger.
type nopLogger struct{}

// Nop 返回不输出任何内容的 Logger.
//
// 主要用于测试以及不需要日志的场合.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field) {}

func (nopLogger) Info(string, ...Field) {}

func (nopLogger) Warn(string, ...Field) {}

func (nopLogger) Error(string, ...Field) {}

func (nopLogger) With(...Field) Logger { return nopLogger{} }

func (nopLogger) WithContext(context.Context) Logger { return nopLogger{} }

func (nopLogger) Sync() error { return nil }
