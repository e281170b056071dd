// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gf implements arithmetic over the binary Galois fields GF(2^w)
for 2 <= w <= 16, together with Reed-Solomon encoding and decoding.

Field elements are represented as uint16 values.  Aztec codes use five
fields: GF16 for the mode message and GF64, GF256, GF1024 and GF4096
for data codewords of 6, 8, 10 and 12 bits.  All use α = 2 and
generator polynomials with roots α^1 to α^c.
*/
package gf // import "github.com/unixdj/aztec/gf"

import (
	"strconv"
	"sync"
)

// A Field represents an instance of GF(2^w) defined by a specific
// primitive polynomial.  Log and exp tables are computed on first use
// and never modified afterwards, so a Field is safe for concurrent use.
type Field struct {
	poly  int // primitive polynomial, including the x^w term
	width int // bits per element
	once  sync.Once
	log   []uint16 // log[0] is unused
	exp   []uint16 // two periods, so exp[log a + log b] needs no mod
}

// Standard Aztec fields.
var (
	GF16   = NewField(0x13, 4)    // x^4 + x + 1
	GF64   = NewField(0x43, 6)    // x^6 + x + 1
	GF256  = NewField(0x12d, 8)   // x^8 + x^5 + x^3 + x^2 + 1
	GF1024 = NewField(0x409, 10)  // x^10 + x^3 + 1
	GF4096 = NewField(0x1069, 12) // x^12 + x^6 + x^5 + x^3 + 1
)

// ForWordSize returns the standard field for w-bit words, or nil if
// there is none.
func ForWordSize(w int) *Field {
	switch w {
	case 4:
		return GF16
	case 6:
		return GF64
	case 8:
		return GF256
	case 10:
		return GF1024
	case 12:
		return GF4096
	}
	return nil
}

// NewField returns a new field of 2^width elements defined by the
// primitive polynomial poly, with α = 2.  NewField panics if poly
// has the wrong degree.  A non-primitive poly is detected when the
// tables are built.
func NewField(poly, width int) *Field {
	if width < 2 || width > 16 || poly>>width != 1 {
		panic("gf: invalid polynomial: " + strconv.Itoa(poly))
	}
	return &Field{poly: poly, width: width}
}

func (f *Field) init() {
	f.once.Do(func() {
		n := f.Size() - 1
		f.log = make([]uint16, n+1)
		f.exp = make([]uint16, 2*n)
		x := 1
		for i := 0; i < n; i++ {
			if x == 0 || x == 1 && i != 0 {
				panic("gf: reducible polynomial: " +
					strconv.Itoa(f.poly))
			}
			f.exp[i] = uint16(x)
			f.exp[i+n] = uint16(x)
			f.log[x] = uint16(i)
			if x <<= 1; x>>f.width != 0 {
				x ^= f.poly
			}
		}
	})
}

// Size returns the number of elements in the field.
func (f *Field) Size() int { return 1 << f.width }

// Width returns the number of bits per element.
func (f *Field) Width() int { return f.width }

func (f *Field) String() string {
	return "GF(" + strconv.Itoa(f.Size()) + ")"
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y uint16) uint16 { return x ^ y }

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) uint16 {
	if e < 0 {
		return 0
	}
	f.init()
	return f.exp[e%(f.Size()-1)]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x uint16) int {
	if x == 0 {
		return -1
	}
	f.init()
	return int(f.log[x])
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x uint16) uint16 {
	if x == 0 {
		return 0
	}
	f.init()
	return f.exp[f.Size()-1-int(f.log[x])]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y uint16) uint16 {
	if x == 0 || y == 0 {
		return 0
	}
	f.init()
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// An RSEncoder implements Reed-Solomon encoding over a given field
// using a given number of error correction words.
type RSEncoder struct {
	f    *Field
	c    int
	gen  []uint16 // generator polynomial, highest degree first
	lgen []int    // logs of gen
	p    []uint16 // scratch
}

// gen returns the generator polynomial with roots α^1 to α^e.
func (f *Field) gen(e int) (gen []uint16, lgen []int) {
	// p = 1
	p := make([]uint16, e+1)
	p[e] = 1

	for i := 1; i <= e; i++ {
		// p *= (x + α^i)
		// p[j] = p[j]*α^i + p[j+1]
		c := f.Exp(i)
		for j := 0; j < e; j++ {
			p[j] = f.Mul(p[j], c) ^ p[j+1]
		}
		p[e] = f.Mul(p[e], c)
	}

	// lp = log p
	lp := make([]int, e+1)
	for i, c := range p {
		lp[i] = f.Log(c)
	}
	return p, lp
}

// NewRSEncoder returns a new Reed-Solomon encoder
// over the given field and number of error correction words.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	gen, lgen := f.gen(c)
	return &RSEncoder{f: f, c: c, gen: gen, lgen: lgen}
}

// ECC writes to check the error correction words for data.
// check must have room for the encoder's number of words.
func (rs *RSEncoder) ECC(data []uint16, check []uint16) {
	if len(check) < rs.c {
		panic("gf: invalid check word length")
	}
	if rs.c == 0 {
		return
	}

	// The check words are the remainder after dividing
	// data padded with c zeros by the generator polynomial.

	// p = data padded with c zeros.
	var p []uint16
	n := len(data) + rs.c
	if len(rs.p) >= n {
		p = rs.p[:n]
	} else {
		p = make([]uint16, n)
	}
	copy(p, data)
	for i := len(data); i < len(p); i++ {
		p[i] = 0
	}

	// Divide p by gen, leaving the remainder in p[len(data):].
	// p[0] is the most significant term in p, and
	// gen[0] is the most significant term in the generator,
	// which is always 1.
	// To avoid repeated work, we store various values as
	// lv, not v, where lv = log[v].
	f := rs.f
	lgen := rs.lgen[1:]
	for i := 0; i < len(data); i++ {
		c := p[i]
		if c == 0 {
			continue
		}
		q := p[i+1:]
		lc := f.Log(c)
		for j, lg := range lgen {
			if lg >= 0 { // lgen = log(gen) contains -1 for gen == 0
				q[j] ^= f.Exp(lc + lg)
			}
		}
	}
	copy(check, p[len(data):])
	rs.p = p
}
