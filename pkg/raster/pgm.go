package raster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// magic is the header token of the plain (ASCII) grayscale PGM format.
const magic = "P2"

// Decode reads a plain PGM (P2) raster from r.
//
// The format is a text header (magic token, width and height, maximum
// intensity) followed by whitespace-delimited pixel values in row-major
// order. Lines beginning with '#' are comments and are ignored wherever
// they appear. Any amount of whitespace, including newlines, may separate
// tokens.
//
// Decode returns ErrBadMagic, ErrNotSquare, ErrNotPowerOfTwo, ErrPixelRange
// or ErrTruncated (wrapped with context) when the input violates the grid
// constraints. Tokens after the last declared pixel are ignored.
func Decode(r io.Reader) (*Grid, error) {
	tk := newTokenizer(r)

	m, ok := tk.next()
	if !ok {
		return nil, fmt.Errorf("%w: empty input", ErrBadMagic)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: magic token %q", ErrBadMagic, m)
	}

	width, err := tk.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := tk.nextInt("height")
	if err != nil {
		return nil, err
	}
	if width != height {
		return nil, fmt.Errorf("%w: %d×%d", ErrNotSquare, width, height)
	}

	maxVal, err := tk.nextInt("maximum intensity")
	if err != nil {
		return nil, err
	}

	g, err := New(width, maxVal)
	if err != nil {
		return nil, err
	}

	for i := range g.pix {
		v, err := tk.nextInt("pixel")
		if err != nil {
			return nil, fmt.Errorf("%w: got %d of %d pixels (%v)", ErrTruncated, i, len(g.pix), err)
		}
		if v < 0 || v > maxVal {
			return nil, fmt.Errorf("%w: %d at row %d col %d (max %d)",
				ErrPixelRange, v, i/width, i%width, maxVal)
		}
		g.pix[i] = v
	}

	if err := tk.err(); err != nil {
		return nil, fmt.Errorf("read raster: %w", err)
	}
	return g, nil
}

// Encode writes g to w as a plain PGM (P2) raster, one image row per line.
func Encode(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d %d\n%d\n", magic, g.side, g.side, g.max)

	for row := 0; row < g.side; row++ {
		for col := 0; col < g.side; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(g.pix[row*g.side+col]))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write raster: %w", err)
	}
	return nil
}

// tokenizer yields whitespace-separated tokens from line-oriented input,
// skipping comment lines.
type tokenizer struct {
	sc     *bufio.Scanner
	fields []string
	i      int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	for t.i >= len(t.fields) {
		if !t.sc.Scan() {
			return "", false
		}
		line := t.sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		t.fields = strings.Fields(line)
		t.i = 0
	}
	tok := t.fields[t.i]
	t.i++
	return tok, true
}

func (t *tokenizer) nextInt(what string) (int, error) {
	tok, ok := t.next()
	if !ok {
		return 0, fmt.Errorf("missing %s", what)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, tok)
	}
	return v, nil
}

func (t *tokenizer) err() error { return t.sc.Err() }
