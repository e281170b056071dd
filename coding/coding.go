// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level Aztec Code coding details.
package coding // import "github.com/unixdj/aztec/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/unixdj/aztec/gf"
)

// Error kinds.  Errors returned by this module match one of these
// with errors.Is.
var (
	ErrInvalidParameter = errors.New("aztec: invalid parameter")
	ErrCapacityExceeded = errors.New("aztec: capacity exceeded")
	ErrUncorrectable    = gf.ErrUncorrectable
	ErrMalformed        = errors.New("aztec: malformed message")
)

// A Structure is an Aztec symbol variant.
type Structure int

// Symbol structures.
const (
	Compact Structure = iota // compact symbol, 1 to 4 layers
	Full                     // full-range symbol, 1 to 32 layers
)

func (s Structure) String() string {
	switch s {
	case Compact:
		return "compact"
	case Full:
		return "full"
	}
	return "structure(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is Compact or Full.
func (s Structure) Valid() bool { return s == Compact || s == Full }

// MaxLayers returns the maximum number of data layers.
func (s Structure) MaxLayers() int {
	if s == Compact {
		return 4
	}
	return 32
}

// LocatorRings returns the number of black rings in the bullseye.
func (s Structure) LocatorRings() int {
	if s == Compact {
		return 2
	}
	return 3
}

// LocatorSize returns the width of the bullseye in modules.
func (s Structure) LocatorSize() int { return 4*s.LocatorRings() + 1 }

// MaxDataWords returns the largest data word count the mode message
// can express.
func (s Structure) MaxDataWords() int {
	if s == Compact {
		return 1 << 6
	}
	return 1 << 11
}

// ringRadius returns the distance from the centre to the mode
// message ring.
func (s Structure) ringRadius() int { return 2*s.LocatorRings() + 1 }

type layer struct {
	size     int
	wordSize int
	bits     int
}

// Geometry describes the derived dimensions of a symbol.
type Geometry struct {
	Structure     Structure
	Layers        int // number of data layers
	Size          int // modules on a side
	LocatorRings  int // black bullseye rings
	LocatorSize   int // bullseye width in modules
	MaxLayers     int // largest layer count for Structure
	WordSize      int // bits per codeword
	CapacityBits  int // data and check bits in all layers
	CapacityWords int // codewords that fit in CapacityBits
}

// LayerError represents an invalid combination of structure and layer
// count.
type LayerError struct {
	Structure Structure
	Layers    int
}

func (e *LayerError) Error() string {
	if !e.Structure.Valid() {
		return "aztec: invalid " + e.Structure.String()
	}
	return fmt.Sprintf("aztec: invalid layer count %d for %s symbol",
		e.Layers, e.Structure)
}

func (e *LayerError) Unwrap() error { return ErrInvalidParameter }

// NewGeometry returns the geometry of a symbol with the given
// structure and layer count.
func NewGeometry(s Structure, layers int) (Geometry, error) {
	if !s.Valid() || layers < 1 || layers > s.MaxLayers() {
		return Geometry{}, &LayerError{s, layers}
	}
	l := &ltab[s][layers]
	return Geometry{
		Structure:     s,
		Layers:        layers,
		Size:          l.size,
		LocatorRings:  s.LocatorRings(),
		LocatorSize:   s.LocatorSize(),
		MaxLayers:     s.MaxLayers(),
		WordSize:      l.wordSize,
		CapacityBits:  l.bits,
		CapacityWords: l.bits / l.wordSize,
	}, nil
}

// ValidSize reports whether size is the side length of a symbol with
// structure s, and returns the layer count.
func (s Structure) ValidSize(size int) (int, bool) {
	if !s.Valid() {
		return 0, false
	}
	for l := 1; l <= s.MaxLayers(); l++ {
		if ltab[s][l].size == size {
			return l, true
		}
	}
	return 0, false
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s %d-layer %dx%d", g.Structure, g.Layers,
		g.Size, g.Size)
}

// CapacityError reports data that does not fit a symbol.
type CapacityError struct {
	Geometry
	Bits     int // stream length before stuffing
	Words    int // data words after stuffing
	Capacity int // data words allowed
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("aztec: cannot fit %d bits (%d words) into %s symbol of %d data words",
		e.Bits, e.Words, e.Geometry, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// CodeError reports an invalid code in a decoded bit stream.
type CodeError struct {
	Mode Mode
	Code int
	Pos  int // bit offset of the code
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("aztec: invalid %s code %d at bit %d",
		e.Mode, e.Code, e.Pos)
}

func (e *CodeError) Unwrap() error { return ErrMalformed }

// SegmentError represents a Segment whose text is not encodable in
// its mode.
type SegmentError Segment

func (e SegmentError) Error() string {
	return fmt.Sprintf("aztec: non-%s string %#q", e.Mode, e.Text)
}

func (e SegmentError) Unwrap() error { return ErrInvalidParameter }

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
}

// NewCode returns a white Code of the given size.
func NewCode(size int) *Code {
	stride := (size + 7) >> 3
	return &Code{Bitmap: make([]byte, size*stride), Size: size, Stride: stride}
}

// Black reports whether the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Set sets the pixel at (x,y) to black or white.
func (c *Code) Set(x, y int, black bool) {
	if 0 <= x && x < c.Size && 0 <= y && y < c.Size {
		if black {
			c.Bitmap[y*c.Stride+x/8] |= 1 << uint(7&^x)
		} else {
			c.Bitmap[y*c.Stride+x/8] &^= 1 << uint(7&^x)
		}
	}
}

// rotate maps canonical coordinates (x,y) to those in a symbol of the
// given size turned clockwise o quarter turns.
func rotate(x, y, size, o int) (int, int) {
	for o &= 3; o > 0; o-- {
		x, y = size-1-y, x
	}
	return x, y
}

// Sample reports whether the module at canonical coordinates (x,y) is
// black in c, a sample of a symbol turned clockwise o quarter turns.
func (c *Code) Sample(x, y, o int) bool {
	x, y = rotate(x, y, c.Size, o)
	return c.Black(x, y)
}
