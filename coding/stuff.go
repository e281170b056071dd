// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"

	"github.com/unixdj/aztec/gf"
)

// Stuff slices the bit string b into w-bit data words.  A word whose
// first w-1 bits are all equal gets the complement of that bit as its
// last bit, which then does not consume a bit of b.  The last word is
// padded with 1 bits.  Empty b yields one padding word.
func Stuff(b *Bits, w int) []uint16 {
	mask := uint32(1)<<w - 2
	n := b.Bits()
	if n == 0 {
		return []uint16{uint16(mask)}
	}
	words := make([]uint16, 0, n/(w-1)+1)
	for i := 0; i < n; {
		v := b.Word(i, w)
		switch v & mask {
		case mask:
			words = append(words, uint16(v&mask))
			i += w - 1
		case 0:
			words = append(words, uint16(v|1))
			i += w - 1
		default:
			words = append(words, uint16(v))
			i += w
		}
	}
	return words
}

// Unstuff reverses Stuff.  A word of all zeros or all ones cannot be
// produced by Stuff and is an error.
func Unstuff(words []uint16, w int) (*Bits, error) {
	all := uint16(1)<<w - 1
	b := NewBits(len(words) * w)
	for i, v := range words {
		switch v {
		case 0, all:
			return nil, fmt.Errorf("%w: data word %d is %#x",
				ErrMalformed, i, v)
		case 1:
			b.Write(0, w-1)
		case all - 1:
			b.Write(uint32(all)>>1, w-1)
		default:
			b.Write(uint32(v), w)
		}
	}
	return b, nil
}

// minCheckWords returns the number of check words required in a
// symbol of capacity words with the given error correction percentage.
func minCheckWords(capacity, eccPercent int) int {
	return (capacity*eccPercent+99)/100 + 3
}

// DataLimit returns the largest number of data words Fit accepts for
// a symbol of geometry g.  It may be negative.
func DataLimit(g Geometry, eccPercent int) int {
	return min(g.CapacityWords-minCheckWords(g.CapacityWords, eccPercent),
		g.Structure.MaxDataWords())
}

// Fit stuffs b for a symbol of the given structure and layer count and
// returns the symbol geometry and data words.  If the data words leave
// too few words for error correction it returns a *CapacityError.
func Fit(b *Bits, s Structure, layers, eccPercent int) (Geometry, []uint16, error) {
	g, err := NewGeometry(s, layers)
	if err != nil {
		return g, nil, err
	}
	words := Stuff(b, g.WordSize)
	limit := DataLimit(g, eccPercent)
	if len(words) > limit {
		return g, nil, &CapacityError{
			Geometry: g,
			Bits:     b.Bits(),
			Words:    len(words),
			Capacity: max(limit, 0),
		}
	}
	return g, words, nil
}

func field(w int) (*gf.Field, error) {
	f := gf.ForWordSize(w)
	if f == nil {
		return nil, fmt.Errorf("%w: word size %d", ErrInvalidParameter, w)
	}
	return f, nil
}

// ComputeECC returns capacity-len(data) Reed-Solomon check words for
// data words of w bits.
func ComputeECC(data []uint16, capacity, w int) ([]uint16, error) {
	f, err := field(w)
	if err != nil {
		return nil, err
	}
	nc := capacity - len(data)
	if nc < 0 {
		return nil, fmt.Errorf("%w: %d data words exceed capacity %d",
			ErrInvalidParameter, len(data), capacity)
	}
	check := make([]uint16, nc)
	gf.NewRSEncoder(f, nc).ECC(data, check)
	return check, nil
}

// ApplyECC corrects words, dataWords data words followed by check
// words of w bits, in place.  It returns the number of words corrected.
func ApplyECC(words []uint16, dataWords, w int) (int, error) {
	f, err := field(w)
	if err != nil {
		return 0, err
	}
	if dataWords < 0 || dataWords > len(words) {
		return 0, fmt.Errorf("%w: %d data words of %d",
			ErrInvalidParameter, dataWords, len(words))
	}
	return f.Decode(words, len(words)-dataWords)
}
