// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec serialises symbol descriptors.
package codec // import "github.com/unixdj/aztec/codec"

import (
	"fmt"

	"github.com/unixdj/aztec"
)

// Codec encodes values of type V to bytes and back.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Names lists the formats known to ForSymbol.
var Names = []string{"cbor", "msgpack"}

// ForSymbol returns the Symbol codec for the named format.  CBOR
// output is deterministic.
func ForSymbol(name string) (Codec[aztec.Symbol], error) {
	switch name {
	case "cbor":
		return NewCBOR[aztec.Symbol](true)
	case "msgpack":
		return Msgpack[aztec.Symbol]{}, nil
	}
	return nil, fmt.Errorf("%w: codec %q", aztec.ErrInvalidParameter, name)
}
