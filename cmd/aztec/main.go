// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command aztec encodes data as Aztec Code symbols and decodes them
// from PBM images.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/unixdj/aztec"
	"github.com/unixdj/aztec/codec"
	azap "github.com/unixdj/aztec/log/zap"
)

var g = struct {
	scale     int             // scale
	border    int             // quiet zone
	palette   *[2]color.Color // palette
	rev       bool            // reverse colours
	fn        string          // output filename
	format    int             // output image format, -1 for descriptor
	codec     string          // descriptor format
	rot       int             // clockwise quarter turns
	structure aztec.Structure // symbol structure
	layers    int             // layer count, 0 for auto
	ecc       int             // error correction percentage
	bg, fg    rgba            // colour
	colSet    bool            // colour set
	latin1    bool            // Latin-1 conversion
	decode    bool            // decode PBM input
	verbose   bool            // debug logging
	logger    aztec.Logger    // logger for -v
}{
	scale:  4,
	border: 2,
	bg:     rgba{0xff, 0xff, 0xff, 0xff},
	fg:     rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "Aztec Code generator and decoder\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  With -d, arguments name PBM files to decode,
standard input if none.  Defaults are read from the configuration file
if it exists.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`aztec version 0.1.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func rotate() {
	g.rot = (g.rot + 1) & 3
}

func compact() { g.structure = aztec.Compact }
func full()    { g.structure = aztec.Full }

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*aztec.Code, io.Writer) error{
	(*aztec.Code).EncodePNG,
	(*aztec.Code).EncodePBM,
	func(c *aztec.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

// setFormat sets the output format named ff.
func setFormat(ff string) {
	for i, v := range formats {
		if ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			return
		}
	}
	for _, v := range codec.Names {
		if ff == v {
			g.format = -1
			g.codec = v
			return
		}
	}
	fmt.Fprintf(os.Stderr, "%q: unknown output format\n", ff)
	usage()
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 0, `background colour; see `+
		`--foreground`, "RGB[A]")
	getopt.FlagLong(&g.fg, "foreground", 0, `foreground colour `+
		`as 3, 4, 6 or 8 hex digits; only for types png[i]`, "RGB[A]")
	getopt.Flag(opt(compact), 'C', "encode a compact symbol").SetFlag()
	getopt.Flag(opt(full), 'F', "encode a full-range symbol").SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate symbol 90° clockwise; `+
		`may be given multiple times`).SetFlag()
	getopt.Flag(&g.latin1, '1', "convert input to Latin-1; "+
		"with -d, convert decoded data from Latin-1")
	getopt.Flag(&g.decode, 'd', "decode PBM images drawn at the "+
		"given scale and margin")
	getopt.Flag(&g.verbose, 'v', "log encoding and decoding details")
	getopt.Flag(&g.border, 'm', `quiet zone modules [2]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	config := getopt.String('c', defaultConfigPath(),
		"configuration file", "file")
	layers := getopt.Unsigned('l', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 32},
		"number of layers; 0 for the smallest symbol that fits", "layers")
	ecc := getopt.Unsigned('e', aztec.DefaultECCPercent,
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: aztec.MaxECCPercent},
		"minimum error correction percentage", "percent")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 19, Min: 1, Max: 1 << 18}),
		`image pixels per module; ignored for types utf8[i] and ascii[i]`,
		"scale")
	types := append(formats[:len(formats):len(formats)], codec.Names...)
	ff := getopt.Enum('t', types, "", `output format, one of: `+
		strings.Join(types, ", ")+
		`; types with "i" appended have colours inverted; `+
		`cbor and msgpack write the symbol descriptor; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if getopt.IsSet('C') && getopt.IsSet('F') {
		fmt.Fprintln(os.Stderr, "-C and -F are incompatible")
		usage()
	}
	g.layers = int(*layers)
	g.ecc = int(*ecc)
	g.scale = int(*scale)

	cfg, err := loadConfig(*config)
	if err != nil {
		log.Fatalln(err)
	}
	cf, err := cfg.apply()
	if err != nil {
		log.Fatalln(err)
	}
	if *ff == "" {
		*ff = cf
	}
	if *ff == "" {
		if g.decode || !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	setFormat(*ff)
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
	if g.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalln(err)
		}
		g.logger = azap.ZapLogger{L: l}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()
	if g.decode {
		decode()
		return
	}

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.latin1 {
		var err error
		if s, err = charmap.ISO8859_1.NewEncoder().String(s); err != nil {
			log.Fatalln(err)
		}
	}

	c, err := aztec.Encode([]byte(s), &aztec.Options{
		Structure:  g.structure,
		Layers:     g.layers,
		ECCPercent: g.ecc,
		Logger:     g.logger,
	})
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

// decode decodes PBM files named on the command line and writes the
// payloads, one per line.
func decode() {
	opt := &aztec.DecodeOptions{Logger: g.logger}
	files := getopt.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	var out bytes.Buffer
	for _, fn := range files {
		c, err := readPBM(fn)
		if err != nil {
			log.Fatalln(fn+":", err)
		}
		s, err := aztec.DecodeAuto(c, opt)
		if err != nil {
			log.Fatalln(fn+":", err)
		}
		if g.latin1 {
			if s.Payload, err = charmap.ISO8859_1.NewDecoder().Bytes(s.Payload); err != nil {
				log.Fatalln(fn+":", err)
			}
		}
		if g.format < 0 {
			if err := writeSymbol(&out, s); err != nil {
				log.Fatalln(fn+":", err)
			}
			continue
		}
		out.Write(s.Payload)
		out.WriteByte('\n')
	}
	output(func(w io.Writer) error {
		_, err := out.WriteTo(w)
		return err
	})
}

// readPBM reads the PBM file fn, or standard input if fn is "-".
func readPBM(fn string) (*aztec.Code, error) {
	if fn == "-" {
		return aztec.ReadPBM(os.Stdin, g.scale, g.border)
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return aztec.ReadPBM(f, g.scale, g.border)
}

func writeSymbol(w io.Writer, s *aztec.Symbol) error {
	cd, err := codec.ForSymbol(g.codec)
	if err != nil {
		return err
	}
	b, err := cd.Encode(*s)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// output calls fn with the output file.
func output(fn func(io.Writer) error) {
	open := g.fn != ""
	var w = os.Stdout
	if open {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	err := fn(w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func write(c *aztec.Code) {
	if g.format < 0 {
		output(func(w io.Writer) error { return writeSymbol(w, c.Symbol) })
		return
	}
	c = c.Rotate(g.rot)
	c.Scale = g.scale
	c.Border = g.border
	c.Palette = g.palette
	c.Reverse = g.rev
	output(func(w io.Writer) error { return encoders[g.format](c, w) })
}

func ascii(c *aztec.Code, w io.Writer) error {
	siz := c.Size
	bord := c.Border
	pix := siz + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	black, white := byte('#'), byte(' ')
	if c.Reverse {
		black, white = white, black
	}
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			p := white
			if c.Black(x, y) {
				p = black
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
