// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aztec

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
)

// recorder is a Logger keeping messages.
type recorder struct {
	msgs   []string
	fields []Fields
}

func (r *recorder) add(msg string, f Fields) {
	r.msgs = append(r.msgs, msg)
	r.fields = append(r.fields, f)
}

func (r *recorder) Debug(msg string, f Fields) { r.add("debug "+msg, f) }
func (r *recorder) Info(msg string, f Fields)  { r.add("info "+msg, f) }
func (r *recorder) Warn(msg string, f Fields)  { r.add("warn "+msg, f) }
func (r *recorder) Error(msg string, f Fields) { r.add("error "+msg, f) }

func encode(t *testing.T, data string, opt *Options) *Code {
	t.Helper()
	c, err := Encode([]byte(data), opt)
	if err != nil {
		t.Fatalf("Encode(%.20q, %+v): %v", data, opt, err)
	}
	return c
}

func TestEncodeSymbol(t *testing.T) {
	c := encode(t, "Code 2D!", nil)
	s := c.Symbol
	if s.Structure != Compact || s.Layers != 1 || s.Size != 15 ||
		c.Size != 15 || s.WordSize != 6 || s.Words != 10 ||
		len(s.Codewords) != 17 {
		t.Fatalf("Symbol = %+v", *s)
	}
	data := []uint16{9, 50, 1, 41, 47, 2, 39, 37, 1, 27}
	for i, v := range data {
		if s.Codewords[i] != v {
			t.Errorf("Codewords = %v, want prefix %v", s.Codewords, data)
			break
		}
	}
	if string(s.Payload) != "Code 2D!" {
		t.Errorf("Payload = %q", s.Payload)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	in := "Hello, World! 12345 \x80\x81 abc"
	a := encode(t, in, nil)
	b := encode(t, in, nil)
	if !bytes.Equal(a.Bitmap, b.Bitmap) {
		t.Error("bitmaps differ")
	}
	for i := range a.Symbol.Codewords {
		if a.Symbol.Codewords[i] != b.Symbol.Codewords[i] {
			t.Fatal("codewords differ")
		}
	}
}

func TestEncodeLogger(t *testing.T) {
	var r recorder
	encode(t, "Code 2D!", &Options{Logger: &r})
	if len(r.msgs) != 1 || r.msgs[0] != "debug aztec: encoded" {
		t.Fatalf("messages = %q", r.msgs)
	}
	if g := r.fields[0]["geometry"]; g != "compact 1-layer 15x15" {
		t.Errorf("geometry = %v", g)
	}
}

func TestOptions(t *testing.T) {
	for _, opt := range []Options{
		{Structure: -1},
		{Structure: Full + 1},
		{ECCPercent: -1},
		{ECCPercent: MaxECCPercent + 1},
		{Layers: -1},
		{Layers: 33},
		{Structure: Compact, Layers: 5},
	} {
		_, err := Encode([]byte("x"), &opt)
		var oe *OptionError
		if !errors.Is(err, ErrInvalidParameter) || !errors.As(err, &oe) {
			t.Errorf("Encode with %+v: error = %v", opt, err)
		}
	}

	for _, tt := range []struct {
		opt       Options
		structure Structure
		layers    int
	}{
		{Options{}, Compact, 1},
		{Options{Structure: Full}, Full, 1},
		{Options{Layers: 3}, Compact, 3},
		{Options{Layers: 5}, Full, 5},
		{Options{Structure: Full, Layers: 2}, Full, 2},
		{Options{ECCPercent: 90}, Full, 5},
	} {
		s := encode(t, "Code 2D!", &tt.opt).Symbol
		if s.Structure != tt.structure || s.Layers != tt.layers {
			t.Errorf("Encode with %+v: %v %d layers, want %v %d",
				tt.opt, s.Structure, s.Layers, tt.structure, tt.layers)
		}
	}
}

func TestCapacity(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	big := make([]byte, 4000)
	r.Read(big)
	for _, tt := range []struct {
		data []byte
		opt  Options
	}{
		{big, Options{}},
		{big[:200], Options{Structure: Compact}},
		{big[:100], Options{Layers: 1}},
		{[]byte(strings.Repeat("A", 100)), Options{Structure: Full, Layers: 2}},
	} {
		_, err := Encode(tt.data, &tt.opt)
		var ce *CapacityError
		if !errors.Is(err, ErrCapacityExceeded) || !errors.As(err, &ce) {
			t.Errorf("Encode(%d bytes, %+v): error = %v",
				len(tt.data), tt.opt, err)
			continue
		}
		if ce.Words <= ce.Capacity {
			t.Errorf("CapacityError %+v: words fit", *ce)
		}
	}
}

// payload returns n pseudo-random bytes mixing text and binary data.
func payload(r *rand.Rand, n int) []byte {
	const text = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 .,:!@\r\n"
	b := make([]byte, n)
	for i := range b {
		if r.Intn(4) == 0 {
			b[i] = byte(r.Intn(256))
		} else {
			b[i] = text[r.Intn(len(text))]
		}
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tt := range []struct {
		s        Structure
		max      int
		capacity []int // bits
	}{
		{Compact, 4, []int{0, 104, 240, 408, 608}},
		{Full, 32, nil},
	} {
		for l := 1; l <= tt.max; l++ {
			bits := (16*l + 112) * l
			if tt.capacity != nil {
				bits = tt.capacity[l]
			}
			data := payload(r, bits/24)
			c, err := Encode(data, &Options{Structure: tt.s, Layers: l})
			if err != nil {
				t.Errorf("%v %d: Encode: %v", tt.s, l, err)
				continue
			}
			if got, err := DetectStructure(c); got != tt.s || err != nil {
				t.Errorf("%v %d: DetectStructure = %v, %v", tt.s, l, got, err)
			}
			mi, err := TryDecodeModeAtOrientation(c, tt.s, 0)
			if err != nil || mi.Layers != l || mi.Words != c.Symbol.Words ||
				mi.BitErrors != 0 || mi.FixedErrors != 0 {
				t.Errorf("%v %d: mode = %+v, %v", tt.s, l, mi, err)
			}
			s, err := Decode(c, Auto, 0)
			if err != nil {
				t.Errorf("%v %d: Decode: %v", tt.s, l, err)
				continue
			}
			if !bytes.Equal(s.Payload, data) {
				t.Errorf("%v %d: payload %q\nwant %q", tt.s, l, s.Payload, data)
			}
			if s.Words != c.Symbol.Words || s.WordErrors != 0 {
				t.Errorf("%v %d: decoded %+v", tt.s, l, *s)
			}
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	c := encode(t, "", nil)
	s, err := Decode(c, Compact, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Payload) != 0 {
		t.Errorf("Decode = %q", s.Payload)
	}
}

func TestRotation(t *testing.T) {
	for _, in := range []string{"Code 2D!", strings.Repeat("Aztec ", 30)} {
		c := encode(t, in, nil)
		for o := 0; o < 4; o++ {
			rc := c.Rotate(o)
			s, err := DecodeAuto(rc, nil)
			if err != nil {
				t.Errorf("%.10q rotated %d: DecodeAuto: %v", in, o, err)
				continue
			}
			if s.Orientation != o || string(s.Payload) != in {
				t.Errorf("%.10q rotated %d: orientation %d, payload %.10q",
					in, o, s.Orientation, s.Payload)
			}
			if s, err := Decode(rc, c.Symbol.Structure, o); err != nil ||
				string(s.Payload) != in {
				t.Errorf("%.10q rotated %d: Decode: %v", in, o, err)
			}
		}
		if !bytes.Equal(c.Rotate(4).Bitmap, c.Bitmap) {
			t.Errorf("%.10q: four turns changed the bitmap", in)
		}
	}
}

func TestCorrection(t *testing.T) {
	c := encode(t, "Hello, World!", &Options{Structure: Full, Layers: 4})
	for _, p := range [][2]int{{5, 0}, {10, 0}, {20, 1}} {
		c.Set(p[0], p[1], !c.Black(p[0], p[1]))
	}
	var r recorder
	s, err := (&DecodeOptions{Logger: &r}).Decode(c, Full, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(s.Payload) != "Hello, World!" ||
		s.WordErrors < 1 || s.WordErrors > 3 {
		t.Errorf("decoded %q with %d word errors", s.Payload, s.WordErrors)
	}
	if len(r.msgs) != 1 || r.msgs[0] != "debug aztec: corrected" ||
		r.fields[0]["words"] != s.WordErrors {
		t.Errorf("log = %q %v", r.msgs, r.fields)
	}

	// mode message damage
	c = encode(t, "Code 2D!", nil)
	c.Set(9, 2, !c.Black(9, 2)) // mode message bit on the top side
	mi, err := TryDecodeModeAtOrientation(c, Compact, 0)
	if err != nil || mi.BitErrors+mi.FixedErrors != 1 {
		t.Errorf("damaged ring: %+v, %v", mi, err)
	}
	if s, err := DecodeAuto(c, nil); err != nil || string(s.Payload) != "Code 2D!" {
		t.Errorf("damaged ring: DecodeAuto: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	c := encode(t, "Code 2D!", nil)
	for _, tt := range []struct {
		c *Code
		s Structure
		o int
	}{
		{c, Compact, 4},
		{c, Compact, -1},
		{c, Full, 0},         // no 15x15 full symbol
		{c, Structure(7), 0}, // unknown structure
		{NewCode(16), Auto, 0},
		{&Code{Size: 15}, Compact, 0},
	} {
		if _, err := Decode(tt.c, tt.s, tt.o); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Decode(%d, %v, %d) error = %v", tt.c.Size, tt.s, tt.o, err)
		}
	}

	// blank grid: the mode message reads as 1 layer, 1 word, but the
	// data word is 0
	var r recorder
	if _, err := (&DecodeOptions{Logger: &r}).Decode(NewCode(15), Compact, 0); err == nil {
		t.Error("Decode of blank grid succeeded")
	} else if n := len(r.msgs); n == 0 || r.msgs[n-1] != "warn aztec: decode failed" {
		t.Errorf("log = %q", r.msgs)
	}
}

func TestDetectStructure(t *testing.T) {
	for _, tt := range []struct {
		opt Options
		s   Structure
	}{
		{Options{Structure: Compact, Layers: 2}, Compact}, // 19x19
		{Options{Structure: Full, Layers: 1}, Full},       // 19x19
		{Options{Structure: Compact, Layers: 4}, Compact}, // 27x27
		{Options{Structure: Full, Layers: 3}, Full},       // 27x27
	} {
		c := encode(t, "x", &tt.opt)
		for o := 0; o < 4; o++ {
			if s, err := DetectStructure(c.Rotate(o)); s != tt.s || err != nil {
				t.Errorf("%+v turned %d: DetectStructure = %v, %v", tt.opt, o, s, err)
			}
		}
	}
}

func TestDamagedBullseye(t *testing.T) {
	for _, tt := range []struct {
		opt Options
		s   Structure
	}{
		{Options{Structure: Full, Layers: 1}, Full},       // 19x19
		{Options{Structure: Full, Layers: 3}, Full},       // 27x27
		{Options{Structure: Full, Layers: 5}, Full},       // 37x37
		{Options{Structure: Full, Layers: 12}, Full},      // 67x67
		{Options{Structure: Compact, Layers: 2}, Compact}, // 19x19
	} {
		c := encode(t, "Bullseye", &tt.opt)
		m := c.Size / 2
		c.Set(m+6, m, !c.Black(m+6, m))
		for o := 0; o < 4; o++ {
			rc := c.Rotate(o)
			if s, err := DetectStructure(rc); s != tt.s || err != nil {
				t.Errorf("%+v turned %d: DetectStructure = %v, %v", tt.opt, o, s, err)
			}
			d, err := DecodeAuto(rc, nil)
			if err != nil {
				t.Errorf("%+v turned %d: DecodeAuto: %v", tt.opt, o, err)
				continue
			}
			if string(d.Payload) != "Bullseye" || d.Structure != tt.s || d.Orientation != o {
				t.Errorf("%+v turned %d: DecodeAuto = %q %v %d",
					tt.opt, o, d.Payload, d.Structure, d.Orientation)
			}
		}
	}
}

func TestEncodeTooLong(t *testing.T) {
	for _, tt := range []struct {
		n   int
		opt *Options
		s   Structure
	}{
		{4 << 20, nil, Full},
		{1000, &Options{Structure: Compact}, Compact},
		{300, &Options{Layers: 3}, Compact},
	} {
		_, err := Encode(bytes.Repeat([]byte("a"), tt.n), tt.opt)
		var ce *CapacityError
		if !errors.As(err, &ce) || !errors.Is(err, ErrCapacityExceeded) {
			t.Errorf("Encode(%d bytes, %+v): err = %v", tt.n, tt.opt, err)
			continue
		}
		if fromCoding(ce.Structure) != tt.s {
			t.Errorf("Encode(%d bytes, %+v): %v", tt.n, tt.opt, err)
		}
	}
}

func TestConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opt := &Options{Structure: Full, Layers: 1 + i*31/15}
			if i < 4 {
				opt = &Options{Structure: Compact, Layers: 1 + i}
			}
			data := fmt.Sprintf("goroutine %d", i)
			c, err := Encode([]byte(data), opt)
			if err != nil {
				t.Errorf("Encode(%+v): %v", opt, err)
				return
			}
			d, err := DecodeAuto(c.Rotate(i), nil)
			if err != nil || string(d.Payload) != data {
				t.Errorf("%+v: DecodeAuto = %v", opt, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestPBM(t *testing.T) {
	c := encode(t, "Portable Bit Map", nil)
	for _, tt := range []struct{ scale, border int }{
		{1, 0}, {1, 2}, {3, 1}, {4, 2}, {8, 4},
	} {
		c.Scale, c.Border = tt.scale, tt.border
		var b bytes.Buffer
		if err := c.EncodePBM(&b); err != nil {
			t.Fatal(err)
		}
		pix := tt.scale * (c.Size + 2*tt.border)
		if want := (pix + 7) / 8 * pix; b.Len() < want {
			t.Errorf("scale %d: %d bytes, want at least %d", tt.scale, b.Len(), want)
		}
		rc, err := ReadPBM(&b, tt.scale, tt.border)
		if err != nil {
			t.Fatalf("scale %d: ReadPBM: %v", tt.scale, err)
		}
		if rc.Size != c.Size || !bytes.Equal(rc.Bitmap, c.Bitmap) {
			t.Errorf("scale %d border %d: bitmap differs", tt.scale, tt.border)
		}
	}

	c.Scale, c.Border, c.Reverse = 1, 1, true
	var b bytes.Buffer
	if err := c.EncodePBM(&b); err != nil {
		t.Fatal(err)
	}
	// reversed: the quiet zone is black
	if hdr := fmt.Sprintf("P4\n%d %d\n", c.Size+2, c.Size+2); !strings.HasPrefix(b.String(), hdr) ||
		b.Bytes()[len(hdr)] != 0xff {
		t.Errorf("reversed PBM starts %q", b.Bytes()[:12])
	}

	for _, in := range []string{"", "P5\n1 1\n", "P4\n3 4\n", "P4\n15 15\n"} {
		if _, err := ReadPBM(strings.NewReader(in), 1, 0); err == nil {
			t.Errorf("ReadPBM(%q) succeeded", in)
		}
	}
	if _, err := ReadPBM(strings.NewReader("P4\n# comment\n8 8\n\x00\x00\x00\x00\x00\x00\x00\x00"), 1, 0); err != nil {
		t.Errorf("ReadPBM with comment: %v", err)
	}
}

func TestReadPBMErrors(t *testing.T) {
	for _, tt := range []struct {
		in          string
		scale, bord int
		err         error
	}{
		{"P4\n65536 65536\n", 1, 0, ErrInvalidParameter},
		{"P4\n16 16\n", 1, 0, ErrInvalidParameter},   // no 16x16 symbol
		{"P4\n160 160\n", 1, 0, ErrInvalidParameter}, // larger than any symbol
		{"P4\n15 16\n", 1, 0, ErrInvalidParameter},
		{"P5\n15 15\n", 1, 0, ErrInvalidParameter},
		{"P4\n" + strings.Repeat("1", 40), 1, 0, ErrInvalidParameter},
		{"P4\n15 15\n", 1, 0, io.ErrUnexpectedEOF},
		{"P4\n15 15\n\x00\x00\x00", 1, 0, io.ErrUnexpectedEOF},
		{"P4\n15", 1, 0, io.ErrUnexpectedEOF},
		{"P4\n# comment", 1, 0, io.ErrUnexpectedEOF},
		{"", 1, 0, io.ErrUnexpectedEOF},
	} {
		if _, err := ReadPBM(strings.NewReader(tt.in), tt.scale, tt.bord); !errors.Is(err, tt.err) {
			t.Errorf("ReadPBM(%.20q): err = %v, want %v", tt.in, err, tt.err)
		}
	}
}

func TestPNG(t *testing.T) {
	c := encode(t, "Portable Network Graphics", nil)
	c.Scale, c.Border = 2, 3
	c.Palette = &[2]color.Color{color.RGBA{0xff, 0xff, 0xe0, 0xff}, color.RGBA{0, 0, 0x80, 0xff}}
	p := c.PNG()
	if p == nil {
		t.Fatal("PNG returned nil")
	}
	img, err := png.Decode(bytes.NewReader(p))
	if err != nil {
		t.Fatal(err)
	}
	d := 2 * (c.Size + 6)
	if b := img.Bounds(); b.Dx() != d || b.Dy() != d {
		t.Fatalf("bounds %v, want %dx%d", b, d, d)
	}
	m := c.Size / 2 // bullseye centre is black
	if r, g, b, _ := img.At(2*(m+3), 2*(m+3)).RGBA(); r>>8 != 0 || g>>8 != 0 || b>>8 != 0x80 {
		t.Errorf("centre colour %x %x %x", r, g, b)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r>>8 != 0xff || b>>8 != 0xe0 {
		t.Errorf("border colour %x %x", r, b)
	}

	c.Scale = 0
	if c.PNG() != nil || !errors.Is(c.EncodePNG(&bytes.Buffer{}), ErrArgs) {
		t.Error("scale 0 rendered")
	}
	c.Scale = maxPixels
	if !errors.Is(c.EncodePNG(&bytes.Buffer{}), ErrLargeImage) {
		t.Error("huge image rendered")
	}
}

func TestString(t *testing.T) {
	c := encode(t, "Code 2D!", nil)
	c.Border = 0
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("%d lines, want 8", len(lines))
	}
	// row 7 is the middle of the bullseye, row 6 white, row 8 white
	if mid := []rune(lines[3])[7]; mid != '▄' {
		t.Errorf("centre cell %q", mid)
	}
	c.Border = 1
	if n := strings.Count(c.String(), "\n"); n != 9 {
		t.Errorf("%d lines with border, want 9", n)
	}
}

func TestParseStructure(t *testing.T) {
	for _, s := range []Structure{Auto, Compact, Full} {
		if got, err := ParseStructure(strings.ToUpper(s.String())); got != s || err != nil {
			t.Errorf("ParseStructure(%v) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseStructure("micro"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseStructure(micro) error = %v", err)
	}
}
