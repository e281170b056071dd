// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aztec

import (
	"fmt"
	"sort"

	"github.com/unixdj/aztec/coding"
)

// DecodeOptions control decoding.
type DecodeOptions struct {
	Logger Logger // nil disables logging
}

// ModeInfo is the content of the mode message ring read at one
// orientation.
type ModeInfo struct {
	Structure   Structure
	Layers      int
	Words       int // data words
	BitErrors   int // mode message bits corrected
	FixedErrors int // fixed ring modules out of place
}

// errors returns the total number of bad ring modules.
func (m ModeInfo) errors() int { return m.BitErrors + m.FixedErrors }

// gridStructure checks that c holds a grid of a valid size for s and
// returns the structure, detecting it if s is Auto.
func gridStructure(c *Code, s Structure) (coding.Structure, error) {
	if !c.hasGrid() {
		return 0, ErrArgs
	}
	if s == Auto {
		var err error
		if s, err = DetectStructure(c); err != nil {
			return 0, err
		}
	}
	cs, ok := s.coding()
	if !ok {
		return 0, &OptionError{"structure", int(s)}
	}
	if _, ok := cs.ValidSize(c.Size); !ok {
		return 0, fmt.Errorf("%w: %dx%d grid is not a %s symbol",
			ErrInvalidParameter, c.Size, c.Size, cs)
	}
	return cs, nil
}

func checkOrientation(o int) error {
	if o < 0 || o > 3 {
		return &OptionError{"orientation", o}
	}
	return nil
}

// DetectStructure reports whether c looks like a compact or a
// full-range symbol.  Most sizes fit only one structure.  For the rest,
// the bullseye of a full-range symbol has a black ring 6 modules from
// the centre, inside a white ring; in a compact symbol these hold data
// and the mode message.  A grid is full-range if at most a quarter of
// the modules of the two rings are out of place.
func DetectStructure(c *Code) (Structure, error) {
	if !c.hasGrid() {
		return 0, ErrArgs
	}
	_, compact := coding.Compact.ValidSize(c.Size)
	_, full := coding.Full.ValidSize(c.Size)
	switch {
	case !compact && !full:
		return 0, fmt.Errorf("%w: %dx%d grid", ErrInvalidParameter,
			c.Size, c.Size)
	case !full:
		return Compact, nil
	case !compact:
		return Full, nil
	}
	if n := ringMisses(c, 6, true) + ringMisses(c, 5, false); 4*n < 8*(6+5) {
		return Full, nil
	}
	return Compact, nil
}

// ringMisses counts the modules d modules from the centre of c that
// are not of the given colour.
func ringMisses(c *Code, d int, black bool) int {
	m, n := c.Size/2, 0
	for i := -d; i < d; i++ {
		for _, pt := range [4][2]int{
			{m + i, m - d}, {m + d, m + i}, {m - i, m + d}, {m - d, m - i},
		} {
			if c.Black(pt[0], pt[1]) != black {
				n++
			}
		}
	}
	return n
}

// TryDecodeModeAtOrientation reads and corrects the mode message of c,
// a sample of a symbol of structure s turned clockwise o quarter turns.
// The layer count it reports must match the grid size.
func TryDecodeModeAtOrientation(c *Code, s Structure, o int) (ModeInfo, error) {
	if err := checkOrientation(o); err != nil {
		return ModeInfo{}, err
	}
	cs, err := gridStructure(c, s)
	if err != nil {
		return ModeInfo{}, err
	}
	return modeInfo(c.grid(), cs, o)
}

func modeInfo(g *coding.Code, s coding.Structure, o int) (ModeInfo, error) {
	b, fixed := coding.ReadModeMessage(g, s, o)
	mm, err := coding.DecodeModeMessage(s, b)
	if err != nil {
		return ModeInfo{}, err
	}
	mi := ModeInfo{
		Structure:   fromCoding(s),
		Layers:      mm.Layers,
		Words:       mm.Words,
		BitErrors:   mm.BitErrors,
		FixedErrors: fixed,
	}
	if l, _ := s.ValidSize(g.Size); l != mm.Layers {
		return mi, fmt.Errorf("%w: mode message gives %d layers for %dx%d %s symbol",
			ErrMalformed, mm.Layers, g.Size, g.Size, s)
	}
	return mi, nil
}

// Decode decodes c, a sample of a symbol of structure s turned
// clockwise orientation quarter turns.  If s is Auto, the structure is
// detected.
func Decode(c *Code, s Structure, orientation int) (*Symbol, error) {
	return (*DecodeOptions)(nil).Decode(c, s, orientation)
}

// Decode is like the package function Decode, with logging.
func (opt *DecodeOptions) Decode(c *Code, s Structure, orientation int) (*Symbol, error) {
	if err := checkOrientation(orientation); err != nil {
		return nil, err
	}
	cs, err := gridStructure(c, s)
	if err != nil {
		return nil, err
	}
	g := c.grid()
	mi, err := modeInfo(g, cs, orientation)
	if err != nil {
		return nil, opt.fail(err, Fields{
			"structure": cs.String(), "orientation": orientation,
		})
	}
	return opt.decode(g, mi, orientation)
}

func (opt *DecodeOptions) logger() Logger {
	if opt == nil {
		return NopLogger{}
	}
	return logger(opt.Logger)
}

// fail logs a failed decode and returns err.
func (opt *DecodeOptions) fail(err error, f Fields) error {
	f["error"] = err.Error()
	opt.logger().Warn("aztec: decode failed", f)
	return err
}

func (opt *DecodeOptions) decode(g *coding.Code, mi ModeInfo, o int) (*Symbol, error) {
	cs, _ := mi.Structure.coding()
	p, err := coding.NewPlan(cs, mi.Layers)
	if err != nil {
		return nil, err
	}
	f := Fields{"geometry": p.Geometry.String(), "orientation": o}
	if mi.Words > p.CapacityWords {
		return nil, opt.fail(fmt.Errorf("%w: %d data words in %s symbol of %d",
			ErrMalformed, mi.Words, p.Geometry, p.CapacityWords), f)
	}
	words, err := p.ReadCodewords(g, o)
	if err != nil {
		return nil, opt.fail(err, f)
	}
	fixed, err := coding.ApplyECC(words, mi.Words, p.WordSize)
	if err != nil {
		return nil, opt.fail(err, f)
	}
	opt.logger().Debug("aztec: corrected", Fields{
		"geometry":    p.Geometry.String(),
		"orientation": o,
		"words":       fixed,
		"mode_bits":   mi.BitErrors,
	})
	b, err := coding.Unstuff(words[:mi.Words], p.WordSize)
	if err != nil {
		return nil, opt.fail(err, f)
	}
	payload, err := coding.DecodeBits(b)
	if err != nil {
		return nil, opt.fail(err, f)
	}
	return &Symbol{
		Structure:   mi.Structure,
		Layers:      mi.Layers,
		Size:        p.Size,
		WordSize:    p.WordSize,
		Words:       mi.Words,
		Codewords:   words,
		Payload:     payload,
		BitErrors:   mi.BitErrors,
		WordErrors:  fixed,
		Orientation: o,
	}, nil
}

// DecodeAuto decodes c, a sample of a symbol of unknown structure and
// orientation.  It picks the orientation whose mode message reads with
// the fewest errors.  If the grid size fits both structures, both are
// tried, the detected one first.  A nil opt disables logging.
func DecodeAuto(c *Code, opt *DecodeOptions) (*Symbol, error) {
	cs, err := gridStructure(c, Auto)
	if err != nil {
		return nil, err
	}
	try := []coding.Structure{cs}
	if alt := otherStructure(cs); alt.Valid() {
		if _, ok := alt.ValidSize(c.Size); ok {
			try = append(try, alt)
		}
	}
	g := c.grid()
	var (
		cand  []modeCandidate
		first error
	)
	for _, s := range try {
		for o := 0; o < 4; o++ {
			mi, err := modeInfo(g, s, o)
			if err != nil {
				if first == nil {
					first = err
				}
				continue
			}
			cand = append(cand, modeCandidate{mi, o})
		}
	}
	if len(cand) == 0 {
		return nil, opt.fail(first, Fields{"structure": cs.String()})
	}
	sort.SliceStable(cand, func(i, j int) bool {
		return cand[i].errors() < cand[j].errors()
	})
	for i, mc := range cand {
		sym, err := opt.decode(g, mc.ModeInfo, mc.o)
		if err == nil {
			return sym, nil
		}
		if i == 0 {
			first = err
		}
	}
	return nil, first
}

// A modeCandidate is a mode message read at orientation o.
type modeCandidate struct {
	ModeInfo
	o int
}

func otherStructure(s coding.Structure) coding.Structure {
	switch s {
	case coding.Compact:
		return coding.Full
	case coding.Full:
		return coding.Compact
	}
	return s
}
