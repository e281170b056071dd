// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// FNC1 is the byte FLG(0) decodes to.
const FNC1 = 0x1d

// ECIEscape returns the escape sequence that an ECI designator
// decodes to: a backslash and six digits.
func ECIEscape(eci int) string {
	s := strconv.Itoa(eci)
	for len(s) < 6 {
		s = "0" + s
	}
	return `\` + s
}

// onesFrom reports whether all bits of b from i onwards are 1.
func onesFrom(b *Bits, i int) bool {
	for ; i < b.Bits(); i++ {
		if b.At(i) == 0 {
			return false
		}
	}
	return true
}

// DecodeBits decodes the unstuffed data bits of a symbol.  Decoding
// starts in Upper mode and stops when fewer bits remain than the
// current code width.  Padding may leave a binary shift whose run is
// cut short; a short run is an error unless all its bits are 1.
func DecodeBits(b *Bits) ([]byte, error) {
	r := NewBitReader(b)
	latch, shift := Upper, Upper
	out := make([]byte, 0, b.Bits()/5)
	for {
		if shift == Binary {
			start := r.Pos()
			n, ok := r.Read(5)
			if ok && n == 0 {
				n, ok = r.Read(11)
				n += 31
			}
			if !ok || r.Remaining() < 8*int(n) {
				if onesFrom(b, start) {
					return out, nil
				}
				return nil, &CodeError{Mode: Binary, Code: int(n), Pos: start}
			}
			for ; n > 0; n-- {
				v, _ := r.Read(8)
				out = append(out, byte(v))
			}
			shift = latch
			continue
		}

		pos := r.Pos()
		c, ok := r.Read(shift.Width())
		if !ok {
			return out, nil
		}
		e := dtab[shift][c]
		switch e.kind() {
		case kChar:
			out = append(out, byte(e.val()))
			shift = latch
		case kPair:
			out = append(out, pairs[e.val()]...)
			shift = latch
		case kLatch, kShift:
			latch = shift
			shift = Mode(e.val())
			if e.kind() == kLatch {
				latch = shift
			}
		case kFLG:
			var err error
			if out, err = decodeFLG(r, out, pos); err != nil {
				return nil, err
			}
			shift = latch
		default:
			return nil, &CodeError{Mode: shift, Code: int(c), Pos: pos}
		}
	}
}

// decodeFLG decodes the argument of a FLG code at pos and appends the
// result to out.
func decodeFLG(r *BitReader, out []byte, pos int) ([]byte, error) {
	n, ok := r.Read(3)
	switch {
	case !ok || n == 7:
		return nil, &CodeError{Mode: Punct, Code: 0, Pos: pos}
	case n == 0:
		return append(out, FNC1), nil
	}
	eci := 0
	for ; n > 0; n-- {
		dpos := r.Pos()
		c, ok := r.Read(4)
		if !ok || c < 2 || c > 11 {
			return nil, &CodeError{Mode: Digit, Code: int(c), Pos: dpos}
		}
		eci = eci*10 + int(c-2)
	}
	return append(out, ECIEscape(eci)...), nil
}
