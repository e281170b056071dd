// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aztec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/unixdj/aztec/coding"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if err := c.checkImage(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	scale := c.Scale
	bord := c.Border
	length := scale * (c.Size + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := -bord; y < c.Size+bord; y++ {
		// quiet zone rows are all the same
		if y == -bord || 0 <= y && y <= c.Size {
			c.pbmRow(row, y)
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow renders module row y of c into row at c.Scale bits per module.
// Black modules are 1 bits unless c.Reverse is set.
func (c *Code) pbmRow(row []byte, y int) {
	var fill byte
	if c.Reverse {
		fill = 0xff
	}
	for i := range row {
		row[i] = fill
	}
	if y < 0 || y >= c.Size {
		c.pbmTail(row)
		return
	}
	scale, bord := c.Scale, c.Border
	for x := 0; x < c.Size; x++ {
		if !c.Black(x, y) {
			continue
		}
		for p := (x + bord) * scale; p < (x+bord+1)*scale; p++ {
			row[p>>3] ^= 0x80 >> uint(p&7)
		}
	}
	c.pbmTail(row)
}

// pbmTail clears the padding bits of the last byte of row.
func (c *Code) pbmTail(row []byte) {
	if n := c.Scale * (c.Size + 2*c.Border) & 7; n != 0 {
		row[len(row)-1] &= 0xff << uint(8-n)
	}
}

// ReadPBM reads a raw Portable Bit Map image of a code drawn with
// scale pixels per module and a quiet zone of border modules, such as
// one written by EncodePBM, sampling each module at its centre.
func ReadPBM(r io.Reader, scale, border int) (*Code, error) {
	if scale <= 0 || border < 0 {
		return nil, ErrArgs
	}
	br := bufio.NewReader(r)
	var hdr [3]string
	for i := range hdr {
		t, err := pbmToken(br)
		if err != nil {
			return nil, err
		}
		hdr[i] = t
	}
	if hdr[0] != "P4" {
		return nil, fmt.Errorf("%w: pbm: bad magic %q",
			ErrInvalidParameter, hdr[0])
	}
	w, err1 := strconv.Atoi(hdr[1])
	h, err2 := strconv.Atoi(hdr[2])
	if err1 != nil || err2 != nil || w <= 0 || w != h {
		return nil, fmt.Errorf("%w: pbm: bad size %sx%s",
			ErrInvalidParameter, hdr[1], hdr[2])
	}
	siz := w/scale - 2*border
	if w%scale != 0 || siz <= 0 || w > maxPixels || !validSize(siz) {
		return nil, fmt.Errorf("%w: pbm: %dx%d image at scale %d with border %d",
			ErrInvalidParameter, w, h, scale, border)
	}
	c := NewCode(siz)
	row := make([]byte, (w+7)/8)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		my := y/scale - border
		if y%scale != scale/2 || my < 0 || my >= siz {
			continue
		}
		for mx := 0; mx < siz; mx++ {
			p := (mx+border)*scale + scale/2
			if row[p>>3]&(0x80>>uint(p&7)) != 0 {
				c.Set(mx, my, true)
			}
		}
	}
	c.Scale, c.Border = scale, border
	return c, nil
}

// pbmToken returns the next header token of a PBM file and consumes
// the whitespace byte after it.
func pbmToken(r *bufio.Reader) (string, error) {
	var t []byte
	for {
		b, err := r.ReadByte()
		switch {
		case err == io.EOF && len(t) != 0:
			return string(t), nil
		case err != nil:
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		case b == '#' && len(t) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' ||
			b == '\v' || b == '\f':
			if len(t) != 0 {
				return string(t), nil
			}
		case len(t) == maxToken:
			return "", fmt.Errorf("%w: pbm: header token too long",
				ErrInvalidParameter)
		default:
			t = append(t, b)
		}
	}
}

// maxToken bounds a PBM header token.
const maxToken = 16

// validSize reports whether a grid of size x size modules may hold an
// Aztec symbol.
func validSize(size int) bool {
	_, compact := coding.Compact.ValidSize(size)
	_, full := coding.Full.ValidSize(size)
	return compact || full
}
