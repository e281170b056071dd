// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf

import (
	"errors"
	"slices"
	"testing"
)

var fields = []*Field{GF16, GF64, GF256, GF1024, GF4096}

func TestFieldTables(t *testing.T) {
	for _, f := range fields {
		n := f.Size() - 1
		seen := make([]bool, f.Size())
		for e := 0; e < n; e++ {
			x := f.Exp(e)
			if x == 0 || seen[x] {
				t.Fatalf("%v: α^%d = %d repeats", f, e, x)
			}
			seen[x] = true
			if l := f.Log(x); l != e {
				t.Errorf("%v: log(α^%d) = %d", f, e, l)
			}
		}
		for x := 1; x < f.Size(); x++ {
			if p := f.Mul(uint16(x), f.Inv(uint16(x))); p != 1 {
				t.Errorf("%v: %d * inv(%d) = %d", f, x, x, p)
			}
		}
		if f.Log(0) != -1 || f.Inv(0) != 0 || f.Exp(-1) != 0 {
			t.Errorf("%v: zero handling", f)
		}
	}
}

func TestForWordSize(t *testing.T) {
	for _, f := range fields {
		if g := ForWordSize(f.Width()); g != f {
			t.Errorf("ForWordSize(%d) = %v, want %v", f.Width(), g, f)
		}
	}
	if ForWordSize(7) != nil {
		t.Error("ForWordSize(7) != nil")
	}
}

func TestNewFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewField(0x11, 4) did not panic")
		}
	}()
	NewField(0x11, 4).Exp(1) // x^4 + 1 is reducible
}

func TestECCModeMessage(t *testing.T) {
	for _, tt := range []struct {
		data, check []uint16
	}{
		{[]uint16{0, 9}, []uint16{12, 2, 3, 1, 9}},
		{[]uint16{1, 2, 3, 4}, []uint16{12, 4, 5, 5, 12, 11}},
	} {
		check := make([]uint16, len(tt.check))
		NewRSEncoder(GF16, len(check)).ECC(tt.data, check)
		if !slices.Equal(check, tt.check) {
			t.Errorf("ECC(%v) = %v, want %v", tt.data, check, tt.check)
		}
	}
}

var rsTests = []struct {
	f          *Field
	nd, nc     int
	check      []uint16
	correctMax int
}{
	{GF64, 10, 7, []uint16{34, 24, 31, 50, 11, 2, 31}, 3},
	{GF256, 20, 10, []uint16{56, 187, 26, 219, 97, 145, 218, 248, 207, 165}, 5},
	{GF1024, 30, 12, []uint16{462, 360, 638, 282, 73, 849, 315, 655, 444, 519, 187, 622}, 6},
	{GF4096, 40, 14, []uint16{528, 927, 1935, 3107, 3563, 1034, 1743, 3089, 2426, 169, 2377, 2657, 2154, 861}, 7},
}

// codeword returns test data words followed by their check words.
func codeword(f *Field, nd, nc int) []uint16 {
	mask := uint16(f.Size() - 1)
	cw := make([]uint16, nd+nc)
	for i := range cw[:nd] {
		cw[i] = uint16(i*7+3) & mask
	}
	NewRSEncoder(f, nc).ECC(cw[:nd], cw[nd:])
	return cw
}

// corrupt flips n words of cw in a fixed pattern.
func corrupt(cw []uint16, n int) []uint16 {
	r := slices.Clone(cw)
	for k := 0; k < n; k++ {
		r[(k*5+1)%len(r)] ^= uint16(k + 1)
	}
	return r
}

func TestECC(t *testing.T) {
	for _, tt := range rsTests {
		cw := codeword(tt.f, tt.nd, tt.nc)
		if !slices.Equal(cw[tt.nd:], tt.check) {
			t.Errorf("%v: ECC = %v, want %v", tt.f, cw[tt.nd:], tt.check)
		}
	}
}

func TestDecodeClean(t *testing.T) {
	for _, tt := range rsTests {
		cw := codeword(tt.f, tt.nd, tt.nc)
		n, err := tt.f.Decode(cw, tt.nc)
		if n != 0 || err != nil {
			t.Errorf("%v: Decode(clean) = %d, %v", tt.f, n, err)
		}
	}
}

func TestDecodeCorrects(t *testing.T) {
	for _, tt := range rsTests {
		cw := codeword(tt.f, tt.nd, tt.nc)
		for pos := range cw {
			r := slices.Clone(cw)
			r[pos] ^= 1
			n, err := tt.f.Decode(r, tt.nc)
			if err != nil || n != 1 || !slices.Equal(r, cw) {
				t.Fatalf("%v: one error at %d: n=%d err=%v", tt.f, pos, n, err)
			}
		}
		for e := 2; e <= tt.correctMax; e++ {
			r := corrupt(cw, e)
			n, err := tt.f.Decode(r, tt.nc)
			if err != nil || n != e || !slices.Equal(r, cw) {
				t.Errorf("%v: %d errors: n=%d err=%v", tt.f, e, n, err)
			}
		}
	}
}

func TestDecodeFails(t *testing.T) {
	for _, tt := range rsTests {
		cw := codeword(tt.f, tt.nd, tt.nc)
		for e := tt.correctMax + 1; e <= tt.correctMax+3; e++ {
			r := corrupt(cw, e)
			n, err := tt.f.Decode(r, tt.nc)
			var de *DecodeError
			if !errors.As(err, &de) || !errors.Is(err, ErrUncorrectable) {
				t.Errorf("%v: %d errors: n=%d err=%v", tt.f, e, n, err)
				continue
			}
			if de.Syndromes != tt.nc {
				t.Errorf("%v: %d errors: %d non-zero syndromes, want %d",
					tt.f, e, de.Syndromes, tt.nc)
			}
		}
	}
}

func TestRSEncoderReuse(t *testing.T) {
	rs := NewRSEncoder(GF256, 10)
	long := make([]uint16, 40)
	check := make([]uint16, 10)
	rs.ECC(long, check)
	want := codeword(GF256, 20, 10)
	rs.ECC(want[:20], check)
	if !slices.Equal(check, want[20:]) {
		t.Errorf("reused encoder: ECC = %v, want %v", check, want[20:])
	}
}

func BenchmarkDecode(b *testing.B) {
	cw := codeword(GF1024, 30, 12)
	r := make([]uint16, len(cw))
	for i := 0; i < b.N; i++ {
		copy(r, cw)
		r[3] ^= 5
		r[17] ^= 9
		GF1024.Decode(r, 12)
	}
}
