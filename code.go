// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aztec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/aztec/coding"
)

var (
	ErrArgs       = fmt.Errorf("%w: bad image arguments", ErrInvalidParameter)
	ErrLargeImage = errors.New("aztec: image too large")
)

// maxPixels limits the side of a rendered image.
const maxPixels = 1 << 18

// A Code is a square pixel grid.
// It implements image.Image and PBM, PNG and text rendering.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white
	Size    int             // number of modules on a side
	Stride  int             // number of bytes per row
	Scale   int             // number of image pixels per module
	Border  int             // quiet zone width in modules
	Reverse bool            // swap colours
	Palette *[2]color.Color // background and foreground; nil for white and black
	Symbol  *Symbol         // nil unless made by Encode
}

// NewCode returns a white Code of the given size, to be filled with
// Set.
func NewCode(size int) *Code {
	cc := coding.NewCode(size)
	return &Code{Bitmap: cc.Bitmap, Size: size, Stride: cc.Stride,
		Scale: 1}
}

// Black reports whether the module at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Set sets the module at (x,y) to black or white.  Coordinates out of
// range are ignored.
func (c *Code) Set(x, y int, black bool) {
	c.grid().Set(x, y, black)
}

// grid returns c as a coding.Code sharing its bitmap.
func (c *Code) grid() *coding.Code {
	return &coding.Code{Bitmap: c.Bitmap, Size: c.Size, Stride: c.Stride}
}

// hasGrid reports whether the bitmap fields are consistent.
func (c *Code) hasGrid() bool {
	return c != nil && c.Size > 0 && c.Stride == (c.Size+7)>>3 &&
		len(c.Bitmap) == c.Size*c.Stride
}

// checkImage reports whether c can be rendered.
func (c *Code) checkImage() error {
	switch {
	case !c.hasGrid() || c.Scale <= 0 || c.Border < 0:
		return ErrArgs
	case c.Scale*(c.Size+2*c.Border) > maxPixels:
		return ErrLargeImage
	}
	return nil
}

// Rotate returns a copy of c turned clockwise n quarter turns.
// Decoding the copy at orientation n yields the symbol in c.
func (c *Code) Rotate(n int) *Code {
	r := *c
	src := c.grid()
	dst := coding.NewCode(c.Size)
	n &= 3
	siz := c.Size
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if !src.Black(x, y) {
				continue
			}
			rx, ry := x, y
			for i := 0; i < n; i++ {
				rx, ry = siz-1-ry, rx
			}
			dst.Set(rx, ry, true)
		}
	}
	r.Bitmap = dst.Bitmap
	return &r
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

// colors returns the background and foreground colours.
func (c *Code) colors() color.Palette {
	p := color.Palette{whiteColor, blackColor}
	if c.Palette != nil {
		p = color.Palette{c.Palette[0], c.Palette[1]}
	}
	if c.Reverse {
		p[0], p[1] = p[1], p[0]
	}
	return p
}

// Image returns an Image displaying the code, c.Scale pixels per
// module with a quiet zone of c.Border modules.  Image returns nil if
// c cannot be rendered.
func (c *Code) Image() image.Image {
	if c.checkImage() != nil {
		return nil
	}
	return &codeImage{c, c.colors()}
}

// codeImage implements image.Image.
type codeImage struct {
	*Code
	pal color.Palette
}

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

// ColorModel returns a two-colour palette.  With ColorIndexAt this
// makes image/png write a 1-bit paletted image.
func (c *codeImage) ColorModel() color.Model {
	return c.pal
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return 1
	}
	return 0
}

// String renders the code with its quiet zone as UTF-8 text, two
// modules per character cell.
func (c *Code) String() string {
	if !c.hasGrid() {
		return ""
	}
	bord := max(c.Border, 0)
	pix := c.Size + 2*bord
	// index: bit 1 top module black, bit 0 bottom module black
	blocks := [4]string{" ", "▄", "▀", "█"}
	var flip int
	if c.Reverse {
		flip = 3
	}
	var b strings.Builder
	b.Grow((pix*3 + 1) * (pix + 1) / 2)
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			v := 0
			if c.Black(x, y) {
				v |= 2
			}
			if y+1 < c.Size+bord && c.Black(x, y+1) {
				v |= 1
			} else if y+1 >= c.Size+bord && c.Reverse {
				v |= 1 // keep the last half row blank
			}
			b.WriteString(blocks[v^flip])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
