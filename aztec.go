// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package aztec encodes and decodes Aztec Code symbols.

Encode turns a byte string into a symbol bitmap, choosing the encoding
modes, the structure and the number of layers.  Decode reads a bitmap
sampled from a symbol with a known structure and orientation.
DecodeAuto also works them out.  Locating a symbol in an image is left
to the caller.
*/
package aztec // import "github.com/unixdj/aztec"

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unixdj/aztec/coding"
	"github.com/unixdj/aztec/split"
)

// Error kinds.  All errors returned by this module match one of these
// with errors.Is.
var (
	ErrInvalidParameter = coding.ErrInvalidParameter
	ErrCapacityExceeded = coding.ErrCapacityExceeded
	ErrUncorrectable    = coding.ErrUncorrectable
	ErrMalformed        = coding.ErrMalformed
)

// Typed errors.
type (
	LayerError    = coding.LayerError
	CapacityError = coding.CapacityError
	CodeError     = coding.CodeError
)

// A Structure selects the symbol variant.
type Structure int

const (
	Auto    Structure = iota // smallest symbol that fits
	Compact                  // compact, 1 to 4 layers
	Full                     // full-range, 1 to 32 layers
)

var structureNames = [...]string{"auto", "compact", "full"}

func (s Structure) String() string {
	if 0 <= s && int(s) < len(structureNames) {
		return structureNames[s]
	}
	return "structure(" + strconv.Itoa(int(s)) + ")"
}

// ParseStructure returns the Structure named s.
func ParseStructure(s string) (Structure, error) {
	for i, v := range structureNames {
		if strings.EqualFold(s, v) {
			return Structure(i), nil
		}
	}
	return 0, fmt.Errorf("%w: structure %q", ErrInvalidParameter, s)
}

func (s Structure) coding() (coding.Structure, bool) {
	switch s {
	case Compact:
		return coding.Compact, true
	case Full:
		return coding.Full, true
	}
	return 0, false
}

func fromCoding(s coding.Structure) Structure {
	if s == coding.Compact {
		return Compact
	}
	return Full
}

// DefaultECCPercent is the error correction percentage used when
// Options.ECCPercent is zero.
const DefaultECCPercent = 23

// MaxECCPercent is the largest accepted Options.ECCPercent.
const MaxECCPercent = 90

// Options control encoding.  The zero value selects the smallest
// symbol with the default error correction.
type Options struct {
	Structure  Structure
	Layers     int    // 0 for the smallest that fits
	ECCPercent int    // minimum share of check words; 0 for default
	Logger     Logger // nil disables logging
}

// OptionError reports an option out of range.
type OptionError struct {
	Name  string
	Value int
}

func (e *OptionError) Error() string {
	return "aztec: invalid " + e.Name + " " + strconv.Itoa(e.Value)
}

func (e *OptionError) Unwrap() error { return ErrInvalidParameter }

func (o *Options) check() error {
	switch {
	case o.Structure < Auto || o.Structure > Full:
		return &OptionError{"structure", int(o.Structure)}
	case o.ECCPercent < 0 || o.ECCPercent > MaxECCPercent:
		return &OptionError{"error correction percentage", o.ECCPercent}
	case o.Layers < 0 || o.Layers > coding.Full.MaxLayers(),
		o.Structure == Compact && o.Layers > coding.Compact.MaxLayers():
		return &OptionError{"layer count", o.Layers}
	}
	return nil
}

type choice struct {
	s      coding.Structure
	layers int
}

// choices returns the geometries to try, smallest first.
func (o *Options) choices() []choice {
	s, fixed := o.Structure.coding()
	if o.Layers != 0 {
		if !fixed {
			s = coding.Compact
			if o.Layers > s.MaxLayers() {
				s = coding.Full
			}
		}
		return []choice{{s, o.Layers}}
	}
	var c []choice
	if !fixed || s == coding.Compact {
		for l := 1; l <= coding.Compact.MaxLayers(); l++ {
			c = append(c, choice{coding.Compact, l})
		}
	}
	if !fixed || s == coding.Full {
		l := 1
		if !fixed {
			l = coding.Compact.MaxLayers()
		}
		for ; l <= coding.Full.MaxLayers(); l++ {
			c = append(c, choice{coding.Full, l})
		}
	}
	return c
}

// minBitsPerByte2 is twice the fewest bits any mode spends on a byte,
// reached by punctuation pairs.
const minBitsPerByte2 = 5

// checkLength returns a *CapacityError if n bytes cannot fit any of
// the symbols in cs however they are encoded.
func checkLength(n int, cs []choice, eccPercent int) error {
	bits := n * minBitsPerByte2 / 2
	var err error
	for _, c := range cs {
		g, gerr := coding.NewGeometry(c.s, c.layers)
		if gerr != nil {
			return gerr
		}
		limit := coding.DataLimit(g, eccPercent)
		if bits <= limit*g.WordSize {
			return nil
		}
		err = &CapacityError{
			Geometry: g,
			Bits:     bits,
			Words:    (bits + g.WordSize - 1) / g.WordSize,
			Capacity: max(limit, 0),
		}
	}
	return err
}

// A Symbol describes an encoded or decoded symbol.
type Symbol struct {
	Structure   Structure `cbor:"structure" msgpack:"structure"`
	Layers      int       `cbor:"layers" msgpack:"layers"`
	Size        int       `cbor:"size" msgpack:"size"`
	WordSize    int       `cbor:"word_size" msgpack:"word_size"`
	Words       int       `cbor:"words" msgpack:"words"`         // data words
	Codewords   []uint16  `cbor:"codewords" msgpack:"codewords"` // data then check words
	Payload     []byte    `cbor:"payload" msgpack:"payload"`
	BitErrors   int       `cbor:"bit_errors" msgpack:"bit_errors"`   // mode message bits corrected
	WordErrors  int       `cbor:"word_errors" msgpack:"word_errors"` // codewords corrected
	Orientation int       `cbor:"orientation" msgpack:"orientation"` // clockwise quarter turns
}

// Encode returns the symbol encoding data.  A nil opt is the same as
// the zero Options.
func Encode(data []byte, opt *Options) (*Code, error) {
	var o Options
	if opt != nil {
		o = *opt
	}
	if err := o.check(); err != nil {
		return nil, err
	}
	if o.ECCPercent == 0 {
		o.ECCPercent = DefaultECCPercent
	}
	log := logger(o.Logger)

	cs := o.choices()
	if err := checkLength(len(data), cs, o.ECCPercent); err != nil {
		return nil, err
	}
	segs, n := split.Split(data)
	b := coding.NewBits(n)
	if err := coding.Encode(b, segs...); err != nil {
		return nil, err
	}

	var (
		g     coding.Geometry
		words []uint16
		err   error
	)
	for _, c := range cs {
		g, words, err = coding.Fit(b, c.s, c.layers, o.ECCPercent)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	check, err := coding.ComputeECC(words, g.CapacityWords, g.WordSize)
	if err != nil {
		return nil, err
	}
	cw := append(words[:len(words):len(words)], check...)
	p, err := coding.NewPlan(g.Structure, g.Layers)
	if err != nil {
		return nil, err
	}
	cc, err := p.Code(cw, len(words))
	if err != nil {
		return nil, err
	}
	log.Debug("aztec: encoded", Fields{
		"geometry":   g.String(),
		"segments":   len(segs),
		"bits":       n,
		"data_words": len(words),
		"ecc_words":  len(check),
	})
	return &Code{
		Bitmap: cc.Bitmap,
		Size:   cc.Size,
		Stride: cc.Stride,
		Scale:  4,
		Border: 2,
		Symbol: &Symbol{
			Structure: fromCoding(g.Structure),
			Layers:    g.Layers,
			Size:      g.Size,
			WordSize:  g.WordSize,
			Words:     len(words),
			Codewords: cw,
			Payload:   append([]byte(nil), data...),
		},
	}, nil
}
