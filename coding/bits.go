// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strings"

// Bits is an MSB-first bit string under construction.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns empty Bits with room for n bits.
func NewBits(n int) *Bits {
	return &Bits{b: make([]byte, 0, (n+7)>>3)}
}

// Reset truncates b to zero length.
func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the length of b in bits.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the bits of b packed MSB first.  The last byte is
// padded with zeros.
func (b *Bits) Bytes() []byte {
	return b.b
}

// Write appends the low nbit bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// WriteBytes appends the bytes of p, eight bits each.
func (b *Bits) WriteBytes(p []byte) {
	for _, c := range p {
		b.Write(uint32(c), 8)
	}
}

// At returns bit i of b as 0 or 1.  Past the end At returns 1, the
// value of stuffing padding.
func (b *Bits) At(i int) uint32 {
	if i >= b.nbit {
		return 1
	}
	return uint32(b.b[i>>3]>>(7&^i)) & 1
}

// Word returns the w bits of b starting at bit i as a number.
// Bits past the end read as 1.
func (b *Bits) Word(i, w int) uint32 {
	var v uint32
	for j := 0; j < w; j++ {
		v = v<<1 | b.At(i+j)
	}
	return v
}

// String returns b as a string of '0' and '1'.
func (b *Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.nbit)
	for i := 0; i < b.nbit; i++ {
		sb.WriteByte('0' + byte(b.At(i)))
	}
	return sb.String()
}

// A BitReader reads fixed-width codes from Bits.
type BitReader struct {
	b   *Bits
	pos int
}

// NewBitReader returns a BitReader reading from b.
func NewBitReader(b *Bits) *BitReader { return &BitReader{b: b} }

// Pos returns the offset of the next bit.
func (r *BitReader) Pos() int { return r.pos }

// Remaining returns the number of unread bits.
func (r *BitReader) Remaining() int { return r.b.nbit - r.pos }

// Read returns the next n bits as a number.  It reports false and
// reads nothing if fewer than n bits remain.
func (r *BitReader) Read(n int) (uint32, bool) {
	if r.Remaining() < n {
		return 0, false
	}
	v := r.b.Word(r.pos, n)
	r.pos += n
	return v, true
}
