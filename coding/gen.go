// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
)

// Symbol sizes and codeword counts from ISO/IEC 24778:2008 table 1.
var published = [2][]struct {
	size  int
	words int
}{
	{ // compact
		{15, 17}, {19, 40}, {23, 51}, {27, 76},
	},
	{ // full
		{19, 21}, {23, 48}, {27, 60}, {31, 88}, {37, 120}, // 1- 5
		{41, 156}, {45, 196}, {49, 240}, {53, 230}, {57, 272}, // 6-10
		{61, 316}, {67, 364}, {71, 416}, {75, 470}, {79, 528}, //11-15
		{83, 588}, {87, 652}, {91, 720}, {95, 790}, {101, 864}, //16-20
		{105, 940}, {109, 1020}, {113, 920}, {117, 992}, {121, 1066}, //21-25
		{125, 1144}, {131, 1224}, {135, 1306}, {139, 1392}, {143, 1480}, //26-30
		{147, 1570}, {151, 1664}, //31-32
	},
}

func wordSize(layers int) int {
	switch {
	case layers <= 2:
		return 6
	case layers <= 8:
		return 8
	case layers <= 22:
		return 10
	}
	return 12
}

func main() {
	w := bufio.NewWriter(os.Stdout)
	fmt.Fprint(w, `// generated by go run gen.go | gofmt; DO NOT EDIT

package coding

// Layer table.
var ltab = [2][33]layer{
`)
	for s, name := range []string{"Compact", "Full"} {
		fmt.Fprintf(w, "\t%s: {\n", name)
		for i, p := range published[s] {
			l := i + 1
			// Full symbols have a reference grid line every 16
			// modules from the centre.
			size := 11 + 4*l
			bits := (88 + 16*l) * l
			if s == 1 {
				base := 14 + 4*l
				size = base + 1 + 2*((base/2-1)/15)
				bits = (112 + 16*l) * l
			}
			ws := wordSize(l)
			if size != p.size || bits/ws != p.words {
				log.Fatalf("%s %d: computed %d/%d, published %d/%d",
					name, l, size, bits/ws, p.size, p.words)
			}
			fmt.Fprintf(w, "\t\t%d: {%d, %d, %d},\n", l, size, ws, bits)
		}
		fmt.Fprintln(w, "\t},")
	}
	fmt.Fprintln(w, "}")
	w.Flush()
}
