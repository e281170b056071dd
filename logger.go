// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aztec

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a leveled logger.  Provide an adapter around a logging
// stack, such as the one in package log/zap.  A nil Logger in Options
// or DecodeOptions disables logging.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards all messages.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

func logger(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
