// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"math/bits"

	"github.com/unixdj/aztec/gf"
)

// A ModeMessage is the decoded content of the mode message ring.
type ModeMessage struct {
	Structure Structure
	Layers    int
	Words     int // number of data words
	BitErrors int // bits corrected by error correction
}

// mode message layout: data nibbles, check nibbles, layer field bits
var mmLayout = [2]struct{ data, check, lbits int }{
	Compact: {2, 5, 2},
	Full:    {4, 6, 5},
}

// ModeMessageBits returns the length of the mode message in bits.
func (s Structure) ModeMessageBits() int {
	l := &mmLayout[s]
	return 4 * (l.data + l.check)
}

// EncodeModeMessage returns the mode message for a symbol with the
// given structure, layer count and number of data words.
func EncodeModeMessage(s Structure, layers, words int) (*Bits, error) {
	if _, err := NewGeometry(s, layers); err != nil {
		return nil, err
	}
	if words < 1 || words > s.MaxDataWords() {
		return nil, fmt.Errorf("%w: %d data words in %s symbol",
			ErrInvalidParameter, words, s)
	}
	l := &mmLayout[s]
	v := (layers-1)<<(4*l.data-l.lbits) | (words - 1)
	nib := make([]uint16, l.data+l.check)
	for i := l.data - 1; i >= 0; i-- {
		nib[i] = uint16(v & 15)
		v >>= 4
	}
	gf.NewRSEncoder(gf.GF16, l.check).ECC(nib[:l.data], nib[l.data:])
	b := NewBits(4 * len(nib))
	for _, x := range nib {
		b.Write(uint32(x), 4)
	}
	return b, nil
}

// DecodeModeMessage corrects and decodes a mode message read from a
// symbol of structure s.
func DecodeModeMessage(s Structure, b *Bits) (ModeMessage, error) {
	if !s.Valid() {
		return ModeMessage{}, &LayerError{Structure: s}
	}
	l := &mmLayout[s]
	n := l.data + l.check
	if b.Bits() != 4*n {
		return ModeMessage{}, fmt.Errorf("%w: %d-bit mode message",
			ErrInvalidParameter, b.Bits())
	}
	nib := make([]uint16, n)
	recv := make([]uint16, n)
	for i := range nib {
		nib[i] = uint16(b.Word(4*i, 4))
	}
	copy(recv, nib)
	if _, err := gf.GF16.Decode(nib, l.check); err != nil {
		return ModeMessage{}, err
	}
	m := ModeMessage{Structure: s}
	for i, x := range nib {
		m.BitErrors += bits.OnesCount16(x ^ recv[i])
	}
	v := 0
	for _, x := range nib[:l.data] {
		v = v<<4 | int(x)
	}
	wbits := 4*l.data - l.lbits
	m.Layers = v>>wbits + 1
	m.Words = v&(1<<wbits-1) + 1
	return m, nil
}
