package raster

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	for _, side := range []int{1, 2, 4, 256} {
		if _, err := New(side, 255); err != nil {
			t.Errorf("New(%d, 255) failed: %v", side, err)
		}
	}
	for _, side := range []int{0, -4, 3, 6, 100} {
		if _, err := New(side, 255); !errors.Is(err, ErrNotPowerOfTwo) {
			t.Errorf("New(%d, 255) expected ErrNotPowerOfTwo, got %v", side, err)
		}
	}
	if _, err := New(4, -1); err == nil {
		t.Error("negative maximum intensity should be rejected")
	}
}

func TestDecode_WithComments(t *testing.T) {
	input := `P2
# created by quadpress
2 2
# maximum intensity follows
10
0 10
10 10
`
	g, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if g.Side() != 2 || g.Max() != 10 {
		t.Fatalf("decoded side=%d max=%d, want 2 and 10", g.Side(), g.Max())
	}
	want := [][]int{{0, 10}, {10, 10}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if g.At(r, c) != want[r][c] {
				t.Errorf("pixel (%d,%d) = %d, want %d", r, c, g.At(r, c), want[r][c])
			}
		}
	}
}

func TestDecode_TokensAcrossLines(t *testing.T) {
	// The format allows any whitespace layout; nothing forces one row per line.
	input := "P2 2\n2 9\n1 2 3\n4"
	g, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if g.At(1, 1) != 4 {
		t.Errorf("pixel (1,1) = %d, want 4", g.At(1, 1))
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad magic", "P5\n2 2\n255\n0 0 0 0", ErrBadMagic},
		{"empty", "", ErrBadMagic},
		{"not square", "P2\n4 2\n255\n", ErrNotSquare},
		{"not power of two", "P2\n3 3\n255\n0 0 0 0 0 0 0 0 0", ErrNotPowerOfTwo},
		{"pixel above max", "P2\n2 2\n10\n0 11 0 0", ErrPixelRange},
		{"negative pixel", "P2\n2 2\n10\n0 -1 0 0", ErrPixelRange},
		{"truncated", "P2\n2 2\n10\n0 1 2", ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	g, err := New(4, 99)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			g.Set(r, c, (r*13+c*7)%100)
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode of encoded output failed: %v", err)
	}
	if !g.Equal(back) {
		t.Error("round trip changed the grid")
	}
}

func TestGrid_Validate(t *testing.T) {
	g, _ := New(2, 5)
	if err := g.Validate(); err != nil {
		t.Errorf("fresh grid should validate, got %v", err)
	}
	g.Set(1, 0, 6)
	if err := g.Validate(); !errors.Is(err, ErrPixelRange) {
		t.Errorf("expected ErrPixelRange, got %v", err)
	}
}
