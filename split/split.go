// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits data into Aztec Code segments.

Split finds the segment list with the shortest encoding.  Each byte is
encoded in one of five character modes (upper, lower, mixed,
punctuation, digit), latching or shifting between them, or as part of
a binary run.  The four punctuation idioms CR LF, ". ", ", " and ": "
are encoded as single codes.

The search is a shortest path over positions in the data.  At each
position there is one state per character mode (the mode latched at
that point) and six binary states: a short run of 1 to 31 bytes that
has just ended, and a long run of 32 or more bytes still going, each
remembering the character mode to return to.  Short runs are explicit
edges spanning their whole length, so the 5-bit length field and the
11-bit one are never confused.
*/
package split // import "github.com/unixdj/aztec/split"

import "github.com/unixdj/aztec/coding"

// Encoding modes.
const (
	Upper  = coding.Upper
	Lower  = coding.Lower
	Mixed  = coding.Mixed
	Punct  = coding.Punct
	Digit  = coding.Digit
	Binary = coding.Binary
)

const (
	nText   = coding.NumTextModes
	binEnd  = nText     // binEnd+o: short binary run ended, returning to o
	binRun  = nText + 3 // binRun+o: long binary run in progress
	nStates = nText + 6

	maxShort = 31
	inf      = 1 << 30
)

type kind int8

const (
	none kind = iota
	char      // character or idiom in the latched mode
	shift     // shifted character or idiom
	bin       // binary run, or one more byte of a long one
)

// A node is the cheapest way found to reach a state at a position.
type node struct {
	cost int
	from int8        // state at the previous position
	mode coding.Mode // latched mode
	to   coding.Mode // shift target
	kind kind
	step int         // bytes consumed
	run  int         // length of a long binary run
	org  coding.Mode // mode to return to after a binary run
}

// origin returns the mode the emitter is in at state s of nd.
func (nd *node) origin(s int) coding.Mode {
	if s >= nText {
		return nd.org
	}
	return coding.Mode(s)
}

type splitter struct {
	data []byte
	best [][nStates]node
}

func (sp *splitter) relax(i, s int, nd node) {
	if nd.cost < sp.best[i][s].cost {
		sp.best[i][s] = nd
	}
}

// Split returns the segment list with the shortest encoding of data,
// and its length in bits.  Empty data yields a single empty Upper
// segment.
func Split(data []byte) ([]coding.Segment, int) {
	if len(data) == 0 {
		return []coding.Segment{{Mode: Upper}}, 0
	}
	sp := &splitter{data: data, best: make([][nStates]node, len(data)+1)}
	for i := range sp.best {
		for s := range sp.best[i] {
			sp.best[i][s].cost = inf
		}
	}
	sp.best[0][Upper].cost = 0
	for i := range data {
		sp.advance(i)
	}

	n := len(data)
	fin := 0
	for s := 1; s < nStates; s++ {
		if sp.best[n][s].cost < sp.best[n][fin].cost {
			fin = s
		}
	}
	return sp.segments(fin), sp.best[n][fin].cost
}

// advance relaxes all transitions from position i.
func (sp *splitter) advance(i int) {
	data, cur := sp.data, &sp.best[i]
	n := len(data)

	// cheapest way to be latched in each mode before data[i]
	var cl [nText]int
	var clf [nText]int8
	for t := range cl {
		cl[t] = inf
		for s := range cur {
			nd := &cur[s]
			if nd.cost >= inf {
				continue
			}
			c := nd.cost + coding.LatchCost(nd.origin(s), coding.Mode(t))
			if c < cl[t] {
				cl[t], clf[t] = c, int8(s)
			}
		}
	}

	c := data[i]
	pair := 0
	if i+1 < n {
		pair = coding.PairCode(c, data[i+1])
	}
	for t := range cl {
		if cl[t] >= inf {
			continue
		}
		m := coding.Mode(t)
		if coding.Is(c, m) {
			sp.relax(i+1, t, node{cost: cl[t] + m.Width(), from: clf[t],
				mode: m, to: m, kind: char, step: 1})
		} else {
			for _, s := range [...]coding.Mode{Upper, Punct} {
				if sc, ok := coding.ShiftCost(m, s); ok && coding.Is(c, s) {
					sp.relax(i+1, t, node{cost: cl[t] + sc + s.Width(),
						from: clf[t], mode: m, to: s, kind: shift, step: 1})
				}
			}
		}
		if pair != 0 {
			if m == Punct {
				sp.relax(i+2, t, node{cost: cl[t] + 5, from: clf[t],
					mode: m, to: m, kind: char, step: 2})
			} else if sc, ok := coding.ShiftCost(m, Punct); ok {
				sp.relax(i+2, t, node{cost: cl[t] + sc + 5, from: clf[t],
					mode: m, to: Punct, kind: shift, step: 2})
			}
		}
	}

	// long runs go on one byte at a time
	for o := Upper; o <= Mixed; o++ {
		s := binRun + int(o)
		if nd := &cur[s]; nd.cost < inf && nd.run < coding.MaxBinaryRun {
			sp.relax(i+1, s, node{cost: nd.cost + 8, from: int8(s),
				mode: Binary, kind: bin, step: 1, run: nd.run + 1, org: o})
		}
	}

	// new binary runs
	for s := range cur {
		nd := &cur[s]
		if nd.cost >= inf {
			continue
		}
		var org coding.Mode
		base := nd.cost
		if s < nText {
			// binary shift exists in Upper, Lower and Mixed
			org = coding.Mode(s)
			if org > Mixed {
				org = Upper
			}
			base += coding.LatchCost(coding.Mode(s), org)
		} else {
			org = nd.org
		}
		for k := 1; k <= min(maxShort, n-i); k++ {
			sp.relax(i+k, binEnd+int(org), node{
				cost: base + coding.BinaryHeader(k) + 8*k, from: int8(s),
				mode: Binary, kind: bin, step: k, org: org})
		}
		sp.relax(i+1, binRun+int(org), node{
			cost: base + coding.BinaryHeader(maxShort+1) + 8, from: int8(s),
			mode: Binary, kind: bin, step: 1, run: 1, org: org})
	}
}

// seg is a segment under construction.
type seg struct {
	mode  coding.Mode
	shift bool
	start int
	n     int
}

// segments walks back from state fin at the end of the data and
// returns the segment list.
func (sp *splitter) segments(fin int) []coding.Segment {
	var path []*node
	for i, s := len(sp.data), fin; i > 0; {
		nd := &sp.best[i][s]
		path = append(path, nd)
		i -= nd.step
		s = int(nd.from)
	}

	var segs []seg
	latch := Upper
	pos := 0
	for j := len(path) - 1; j >= 0; j-- {
		nd := path[j]
		last := len(segs) - 1
		switch nd.kind {
		case bin:
			if nd.from == int8(Punct) || nd.from == int8(Digit) {
				latch = Upper
			}
			if last >= 0 && segs[last].mode == Binary && nd.run > 1 {
				segs[last].n++
			} else {
				segs = append(segs, seg{Binary, false, pos, nd.step})
			}
		case shift:
			if latch != nd.mode {
				segs = append(segs, seg{nd.mode, false, pos, 0})
				latch = nd.mode
			}
			segs = append(segs, seg{nd.to, true, pos, nd.step})
		default:
			latch = nd.mode
			if last >= 0 && segs[last].mode == nd.mode && !segs[last].shift {
				segs[last].n += nd.step
			} else {
				segs = append(segs, seg{nd.mode, false, pos, nd.step})
			}
		}
		pos += nd.step
	}

	out := make([]coding.Segment, len(segs))
	for i, s := range segs {
		out[i] = coding.Segment{
			Mode:  s.mode,
			Shift: s.shift,
			Text:  string(sp.data[s.start : s.start+s.n]),
		}
	}
	return out
}
