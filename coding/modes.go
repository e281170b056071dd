// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// A Mode is an Aztec character encoding mode.
type Mode int

// Encoding modes.
const (
	Upper  Mode = iota // upper case letters, space
	Lower              // lower case letters, space
	Mixed              // control characters, some ASCII symbols
	Punct              // punctuation, two-character idioms
	Digit              // digits, space, comma, full stop
	Binary             // byte run
)

// NumTextModes is the number of character table modes.
const NumTextModes = int(Binary)

var modeNames = [...]string{"upper", "lower", "mixed", "punct", "digit", "binary"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// Width returns the code width of m in bits.
func (m Mode) Width() int {
	switch m {
	case Digit:
		return 4
	case Binary:
		return 8
	}
	return 5
}

// MaxBinaryRun is the longest byte run one binary shift can carry.
const MaxBinaryRun = 31 + 2047

// An entry is a character table entry: a kind in the high byte and a
// character, pair index or target mode in the low byte.
type entry uint16

const (
	kChar  entry = 0 << 8
	kPair  entry = 1 << 8
	kLatch entry = 2 << 8
	kShift entry = 3 << 8
	kFLG   entry = 4 << 8
	kKind  entry = 0xff << 8
)

func (e entry) kind() entry { return e & kKind }
func (e entry) val() int    { return int(e & 0xff) }

const (
	ul = kLatch | entry(Upper)
	ll = kLatch | entry(Lower)
	ml = kLatch | entry(Mixed)
	pl = kLatch | entry(Punct)
	dl = kLatch | entry(Digit)
	us = kShift | entry(Upper)
	ps = kShift | entry(Punct)
	bs = kShift | entry(Binary)
)

// Character tables, indexed by mode and code.
var dtab = [NumTextModes][32]entry{
	Upper: {
		ps, ' ', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N',
		'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', ll, ml, dl, bs,
	},
	Lower: {
		ps, ' ', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n',
		'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', us, ml, dl, bs,
	},
	Mixed: {
		ps, ' ', 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 27,
		28, 29, 30, 31, '@', '\\', '^', '_', '`', '|', '~', 127, ll, ul, pl, bs,
	},
	Punct: {
		kFLG, '\r', kPair | 2, kPair | 3, kPair | 4, kPair | 5, '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*',
		'+', ',', '-', '.', '/', ':', ';', '<', '=', '>', '?', '[', ']', '{', '}', ul,
	},
	Digit: {
		ps, ' ', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ',', '.', ul, us,
	},
}

// Two-character idioms of the punctuation table.
var pairs = [...]string{2: "\r\n", 3: ". ", 4: ", ", 5: ": "}

// ctab maps a byte to its code in each mode, or -1.
var ctab [NumTextModes][256]int8

func init() {
	for m := range ctab {
		for c := range ctab[m] {
			ctab[m][c] = -1
		}
		n := 1 << Mode(m).Width()
		for code, e := range dtab[m][:n] {
			if e.kind() == kChar {
				ctab[m][e.val()] = int8(code)
			}
		}
	}
}

// Is reports whether c has a code in text mode m.
func Is(c byte, m Mode) bool {
	return m >= 0 && m < Binary && ctab[m][c] >= 0
}

// PairCode returns the punctuation code for the idiom a, b, or 0 if
// there is none.
func PairCode(a, b byte) int {
	for i, p := range pairs {
		if p != "" && p[0] == a && p[1] == b {
			return i
		}
	}
	return 0
}

// A code is a fixed-width code word.
type code struct {
	v uint32
	n int
}

// Latch sequences between text modes.  Some latches go through an
// intermediate mode.
var latchSeq = [NumTextModes][NumTextModes][]code{
	Upper: {
		Lower: {{28, 5}},
		Mixed: {{29, 5}},
		Punct: {{29, 5}, {30, 5}},
		Digit: {{30, 5}},
	},
	Lower: {
		Upper: {{30, 5}, {14, 4}},
		Mixed: {{29, 5}},
		Punct: {{29, 5}, {30, 5}},
		Digit: {{30, 5}},
	},
	Mixed: {
		Upper: {{29, 5}},
		Lower: {{28, 5}},
		Punct: {{30, 5}},
		Digit: {{29, 5}, {30, 5}},
	},
	Punct: {
		Upper: {{31, 5}},
		Lower: {{31, 5}, {28, 5}},
		Mixed: {{31, 5}, {29, 5}},
		Digit: {{31, 5}, {30, 5}},
	},
	Digit: {
		Upper: {{14, 4}},
		Lower: {{14, 4}, {28, 5}},
		Mixed: {{14, 4}, {29, 5}},
		Punct: {{14, 4}, {29, 5}, {30, 5}},
	},
}

// Single-character shift codes.  n == 0 means no shift.
var shiftCode = [NumTextModes][NumTextModes]code{
	Upper: {Punct: {0, 5}},
	Lower: {Upper: {28, 5}, Punct: {0, 5}},
	Mixed: {Punct: {0, 5}},
	Digit: {Upper: {15, 4}, Punct: {0, 4}},
}

// Binary shift code in Upper, Lower and Mixed.
const bsCode = 31

var latchCost [NumTextModes][NumTextModes]int

func init() {
	for from := range latchSeq {
		for to, seq := range latchSeq[from] {
			for _, c := range seq {
				latchCost[from][to] += c.n
			}
		}
	}
}

// LatchCost returns the length in bits of the latch sequence from one
// text mode to another.
func LatchCost(from, to Mode) int {
	return latchCost[from][to]
}

// ShiftCost returns the length in bits of the shift code from one text
// mode to another, and whether the shift exists.
func ShiftCost(from, to Mode) (int, bool) {
	c := shiftCode[from][to]
	return c.n, c.n != 0
}

// BinaryHeader returns the length in bits of the binary shift code and
// length field for a run of n bytes.
func BinaryHeader(n int) int {
	if n <= 31 {
		return 10
	}
	return 21
}

// A Segment is a run of data in a single mode.  A Shift segment holds
// one character or one punctuation idiom.  A Binary segment always
// follows a binary shift.  A text segment with empty Text only latches.
type Segment struct {
	Mode  Mode
	Shift bool
	Text  string
}

// IsValid reports whether seg can be encoded.
func (seg Segment) IsValid() bool {
	switch {
	case seg.Mode == Binary:
		return 0 < len(seg.Text) && len(seg.Text) <= MaxBinaryRun
	case seg.Mode < 0 || seg.Mode > Binary:
		return false
	case seg.Shift && len(seg.Text) == 2:
		return seg.Mode == Punct && PairCode(seg.Text[0], seg.Text[1]) != 0
	case seg.Shift && len(seg.Text) != 1:
		return false
	}
	for i := 0; i < len(seg.Text); i++ {
		if seg.Mode == Punct && i+1 < len(seg.Text) &&
			PairCode(seg.Text[i], seg.Text[i+1]) != 0 {
			i++
			continue
		}
		if !Is(seg.Text[i], seg.Mode) {
			return false
		}
	}
	return true
}

func (b *Bits) writeCodes(seq []code) {
	for _, c := range seq {
		b.Write(c.v, c.n)
	}
}

// Encode writes segs to b, starting in Upper mode.
func Encode(b *Bits, segs ...Segment) error {
	cur := Upper
	for _, seg := range segs {
		if !seg.IsValid() {
			return SegmentError(seg)
		}
		switch {
		case seg.Mode == Binary:
			if cur == Punct || cur == Digit {
				b.writeCodes(latchSeq[cur][Upper])
				cur = Upper
			}
			b.Write(bsCode, 5)
			if n := len(seg.Text); n <= 31 {
				b.Write(uint32(n), 5)
			} else {
				b.Write(0, 5)
				b.Write(uint32(n-31), 11)
			}
			b.WriteBytes([]byte(seg.Text))
			continue
		case seg.Shift:
			c := shiftCode[cur][seg.Mode]
			if c.n == 0 {
				return SegmentError(seg)
			}
			b.Write(c.v, c.n)
		case seg.Mode != cur:
			b.writeCodes(latchSeq[cur][seg.Mode])
			cur = seg.Mode
		}
		w := seg.Mode.Width()
		t := seg.Text
		for i := 0; i < len(t); i++ {
			if seg.Mode == Punct && i+1 < len(t) {
				if p := PairCode(t[i], t[i+1]); p != 0 {
					b.Write(uint32(p), w)
					i++
					continue
				}
			}
			b.Write(uint32(ctab[seg.Mode][t[i]]), w)
		}
	}
	return nil
}
