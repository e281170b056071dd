// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zap adapts a zap.Logger to aztec.Logger.
package zap // import "github.com/unixdj/aztec/log/zap"

import (
	"sort"

	"go.uber.org/zap"

	"github.com/unixdj/aztec"
)

// ZapLogger is an aztec.Logger writing to L.
type ZapLogger struct{ L *zap.Logger }

var _ aztec.Logger = ZapLogger{}

func (z ZapLogger) Debug(msg string, f aztec.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f aztec.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f aztec.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f aztec.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts f to zap fields sorted by key.
func zf(f aztec.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
