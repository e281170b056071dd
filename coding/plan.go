// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"sync"
)

type point struct{ x, y uint8 }

// A Plan describes how to construct an Aztec symbol with a specific
// structure and layer count.  Plans are shared and must not be
// modified.
type Plan struct {
	Geometry

	Pattern *Code   // bullseye, orientation marks, reference grid
	data    []point // module of each capacity bit, outer layer first
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of structure and layers is used.  The largest, for a
// 32-layer full symbol, holds 19968 module positions and a 151x151
// pattern bitmap.
var plans [2][33]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for a symbol with the given structure and
// layer count.
func NewPlan(s Structure, layers int) (*Plan, error) {
	g, err := NewGeometry(s, layers)
	if err != nil {
		return nil, err
	}
	p := &plans[s][layers]
	p.once.Do(func() { p.p = makePlan(g) })
	return p.p, nil
}

// alignMap maps layer coordinates, which skip the reference grid, to
// module coordinates.
func alignMap(g Geometry) []int {
	if g.Structure == Compact {
		am := make([]int, g.Size)
		for i := range am {
			am[i] = i
		}
		return am
	}
	base := 14 + 4*g.Layers
	am := make([]int, base)
	oc, c := base/2, g.Size/2
	for i := 0; i < oc; i++ {
		no := i + i/15
		am[oc-i-1] = c - no - 1
		am[oc+i] = c + no + 1
	}
	return am
}

func makePlan(g Geometry) *Plan {
	p := &Plan{Geometry: g, data: make([]point, g.CapacityBits)}
	am := alignMap(g)
	base := len(am)
	rowBase := 9
	if g.Structure == Full {
		rowBase = 12
	}
	ro := 0
	for i := 0; i < g.Layers; i++ {
		rs := (g.Layers-i)*4 + rowBase
		low := 2 * i
		high := base - 1 - low
		for j := 0; j < rs; j++ {
			co := 2 * j
			for k := 0; k < 2; k++ {
				p.data[ro+co+k] = point{uint8(am[low+k]), uint8(am[low+j])}
				p.data[ro+2*rs+co+k] = point{uint8(am[low+j]), uint8(am[high-k])}
				p.data[ro+4*rs+co+k] = point{uint8(am[high-k]), uint8(am[high-j])}
				p.data[ro+6*rs+co+k] = point{uint8(am[high-j]), uint8(am[low+k])}
			}
		}
		ro += 8 * rs
	}

	pat := NewCode(g.Size)
	c := g.Size / 2
	r := g.Structure.ringRadius()
	// bullseye
	for d := 0; d < r; d += 2 {
		for j := c - d; j <= c+d; j++ {
			pat.Set(j, c-d, true)
			pat.Set(j, c+d, true)
			pat.Set(c-d, j, true)
			pat.Set(c+d, j, true)
		}
	}
	// orientation marks
	pat.Set(c-r, c-r, true)
	pat.Set(c-r+1, c-r, true)
	pat.Set(c-r, c-r+1, true)
	pat.Set(c+r, c-r, true)
	pat.Set(c+r, c-r+1, true)
	pat.Set(c+r, c+r-1, true)
	// reference grid
	if g.Structure == Full {
		for i, j := 0, 0; i < base/2-1; i, j = i+15, j+16 {
			for k := c & 1; k < g.Size; k += 2 {
				pat.Set(c-j, k, true)
				pat.Set(c+j, k, true)
				pat.Set(k, c-j, true)
				pat.Set(k, c+j, true)
			}
		}
	}
	p.Pattern = pat
	return p
}

// ringPoints returns the modules of the mode message ring of a symbol
// of structure s and the given size, clockwise from the top left
// corner.
func ringPoints(s Structure, size int) []point {
	c, r := size/2, s.ringRadius()
	n := 2 * r
	pts := make([]point, 0, 4*n)
	for i := 0; i < n; i++ {
		pts = append(pts, point{uint8(c - r + i), uint8(c - r)})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, point{uint8(c + r), uint8(c - r + i)})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, point{uint8(c + r - i), uint8(c + r)})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, point{uint8(c - r), uint8(c + r - i)})
	}
	return pts
}

// ringFixed returns the value of fixed module i of side side of the
// mode message ring, or -1 if the module carries message data.
func ringFixed(s Structure, side, i int) int {
	r := s.ringRadius()
	switch {
	case i < 2:
		if side < 2 {
			return 1
		}
		return 0
	case i == 2*r-1:
		return side & 1
	case s == Full && i == r:
		return 0
	}
	return -1
}

// Code returns the symbol for codewords, the data words followed by
// the check words.
func (p *Plan) Code(codewords []uint16, dataWords int) (*Code, error) {
	if len(codewords) != p.CapacityWords {
		return nil, fmt.Errorf("%w: %d codewords for %s symbol of %d",
			ErrInvalidParameter, len(codewords), p.Geometry, p.CapacityWords)
	}
	mm, err := EncodeModeMessage(p.Structure, p.Layers, dataWords)
	if err != nil {
		return nil, err
	}
	c := NewCode(p.Size)
	copy(c.Bitmap, p.Pattern.Bitmap)

	w := p.WordSize
	i := p.CapacityBits % w
	for _, v := range codewords {
		for j := w - 1; j >= 0; j-- {
			if v>>j&1 != 0 {
				pt := p.data[i]
				c.Set(int(pt.x), int(pt.y), true)
			}
			i++
		}
	}

	n := 2 * p.Structure.ringRadius()
	k := 0
	for i, pt := range ringPoints(p.Structure, p.Size) {
		if ringFixed(p.Structure, i/n, i%n) >= 0 {
			continue
		}
		if mm.At(k) != 0 {
			c.Set(int(pt.x), int(pt.y), true)
		}
		k++
	}
	return c, nil
}

// ReadModeMessage reads the mode message ring of c, a sample of a
// symbol of structure s turned clockwise o quarter turns.  It returns
// the message bits and the number of fixed ring modules that do not
// match.
func ReadModeMessage(c *Code, s Structure, o int) (*Bits, int) {
	n := 2 * s.ringRadius()
	b := NewBits(s.ModeMessageBits())
	bad := 0
	for i, pt := range ringPoints(s, c.Size) {
		v := 0
		if c.Sample(int(pt.x), int(pt.y), o) {
			v = 1
		}
		switch f := ringFixed(s, i/n, i%n); f {
		case -1:
			b.Write(uint32(v), 1)
		default:
			if f != v {
				bad++
			}
		}
	}
	return b, bad
}

// ReadCodewords reads the codewords of c, a sample of a symbol laid out
// by p turned clockwise o quarter turns.
func (p *Plan) ReadCodewords(c *Code, o int) ([]uint16, error) {
	if c.Size != p.Size {
		return nil, fmt.Errorf("%w: %dx%d grid for %s symbol",
			ErrInvalidParameter, c.Size, c.Size, p.Geometry)
	}
	w := p.WordSize
	words := make([]uint16, p.CapacityWords)
	i := p.CapacityBits % w
	for k := range words {
		var v uint16
		for j := 0; j < w; j++ {
			pt := p.data[i]
			v <<= 1
			if c.Sample(int(pt.x), int(pt.y), o) {
				v |= 1
			}
			i++
		}
		words[k] = v
	}
	return words, nil
}
