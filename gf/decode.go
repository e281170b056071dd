// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf

import (
	"errors"
	"fmt"
)

// ErrUncorrectable is matched by errors returned when a received word
// has more errors than its check words can correct.
var ErrUncorrectable = errors.New("aztec: uncorrectable errors")

// DecodeError reports a failed Reed-Solomon decode.  Syndromes is the
// number of non-zero syndromes, a rough measure of the damage.
type DecodeError struct {
	Syndromes int
	Check     int // number of check words
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("aztec: uncorrectable errors (%d of %d syndromes non-zero)",
		e.Syndromes, e.Check)
}

func (e *DecodeError) Unwrap() error { return ErrUncorrectable }

// poly is a polynomial over a field, highest degree first,
// with no leading zeros except for the zero polynomial {0}.
type poly []uint16

func mkpoly(c []uint16) poly {
	i := 0
	for i < len(c)-1 && c[i] == 0 {
		i++
	}
	if len(c) == 0 {
		return poly{0}
	}
	return poly(c[i:])
}

func (p poly) degree() int  { return len(p) - 1 }
func (p poly) isZero() bool { return p[0] == 0 }

// coef returns the coefficient of x^d.
func (p poly) coef(d int) uint16 { return p[len(p)-1-d] }

func (f *Field) monomial(d int, c uint16) poly {
	if c == 0 {
		return poly{0}
	}
	p := make(poly, d+1)
	p[0] = c
	return p
}

func (f *Field) addPoly(a, b poly) poly {
	if a.isZero() {
		return b
	}
	if b.isZero() {
		return a
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	s := make([]uint16, len(a))
	copy(s, a)
	off := len(a) - len(b)
	for i, c := range b {
		s[off+i] ^= c
	}
	return mkpoly(s)
}

func (f *Field) mulPoly(a, b poly) poly {
	if a.isZero() || b.isZero() {
		return poly{0}
	}
	p := make([]uint16, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			p[i+j] ^= f.Mul(x, y)
		}
	}
	return mkpoly(p)
}

// scale returns a * c * x^d.
func (f *Field) scale(a poly, d int, c uint16) poly {
	if c == 0 {
		return poly{0}
	}
	p := make([]uint16, len(a)+d)
	for i, x := range a {
		p[i] = f.Mul(x, c)
	}
	return mkpoly(p)
}

func (f *Field) eval(p poly, x uint16) uint16 {
	if x == 0 {
		return p.coef(0)
	}
	var r uint16
	for _, c := range p {
		r = f.Mul(r, x) ^ c
	}
	return r
}

/*
Decode corrects errors in received, a sequence of data words followed
by twoS check words, in place.  It returns the number of words
corrected, or a *DecodeError if the errors exceed the correction
capacity of twoS/2 words.

The syndromes S_i = r(α^i), i = 1..twoS, are computed first; if all
are zero the word is clean.  Otherwise the extended Euclidean algorithm
on x^twoS and S(x) yields the error locator σ and evaluator ω, a Chien
search finds the roots of σ, and Forney's formula the magnitudes.  A
locator with fewer roots than its degree, or a root outside the word,
means the error pattern is beyond repair.
*/
func (f *Field) Decode(received []uint16, twoS int) (int, error) {
	if twoS <= 0 {
		return 0, nil
	}
	r := poly(received)
	synd := make([]uint16, twoS)
	nz := 0
	for i := 0; i < twoS; i++ {
		v := f.eval(r, f.Exp(i+1))
		synd[twoS-1-i] = v
		if v != 0 {
			nz++
		}
	}
	if nz == 0 {
		return 0, nil
	}
	fail := &DecodeError{Syndromes: nz, Check: twoS}

	sigma, omega, ok := f.euclid(f.monomial(twoS, 1), mkpoly(synd), twoS)
	if !ok {
		return 0, fail
	}
	loc, ok := f.findErrorLocations(sigma)
	if !ok {
		return 0, fail
	}
	mag := f.findErrorMagnitudes(omega, loc)
	for i, x := range loc {
		pos := len(received) - 1 - f.Log(x)
		if pos < 0 {
			return 0, fail
		}
		received[pos] ^= mag[i]
	}
	return len(loc), nil
}

// euclid runs the extended Euclidean algorithm until the remainder
// has degree below R/2, returning the normalised error locator and
// evaluator polynomials.
func (f *Field) euclid(a, b poly, R int) (sigma, omega poly, ok bool) {
	if a.degree() < b.degree() {
		a, b = b, a
	}
	rLast, r := a, b
	tLast, t := poly{0}, poly{1}

	for 2*r.degree() >= R {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.isZero() {
			return nil, nil, false
		}
		r = rLastLast
		q := poly{0}
		dlt := f.Inv(rLast.coef(rLast.degree()))
		for r.degree() >= rLast.degree() && !r.isZero() {
			dd := r.degree() - rLast.degree()
			c := f.Mul(r.coef(r.degree()), dlt)
			q = f.addPoly(q, f.monomial(dd, c))
			r = f.addPoly(r, f.scale(rLast, dd, c))
		}
		t = f.addPoly(f.mulPoly(q, tLast), tLastLast)
		if r.degree() >= rLast.degree() {
			return nil, nil, false
		}
	}

	s0 := t.coef(0)
	if s0 == 0 {
		return nil, nil, false
	}
	inv := f.Inv(s0)
	return f.scale(t, 0, inv), f.scale(r, 0, inv), true
}

// findErrorLocations returns the inverses of the roots of sigma.
func (f *Field) findErrorLocations(sigma poly) ([]uint16, bool) {
	n := sigma.degree()
	if n == 0 {
		return nil, false
	}
	if n == 1 {
		return []uint16{sigma.coef(1)}, true
	}
	loc := make([]uint16, 0, n)
	for i := 1; i < f.Size() && len(loc) < n; i++ {
		if f.eval(sigma, uint16(i)) == 0 {
			loc = append(loc, f.Inv(uint16(i)))
		}
	}
	return loc, len(loc) == n
}

func (f *Field) findErrorMagnitudes(omega poly, loc []uint16) []uint16 {
	mag := make([]uint16, len(loc))
	for i, xi := range loc {
		xiInv := f.Inv(xi)
		den := uint16(1)
		for j, xj := range loc {
			if i != j {
				den = f.Mul(den, f.Mul(xj, xiInv)^1)
			}
		}
		m := f.Mul(f.eval(omega, xiInv), f.Inv(den))
		// generator roots start at α^1
		mag[i] = f.Mul(m, xiInv)
	}
	return mag
}
