// Package matrix is the frame codec for the 8x8 LED dot matrix: it
// turns short strings into logical row-bit frames and maps them onto
// the physical column wiring of the display chip.
package matrix

// Dimensions of the dot matrix.
const (
	Rows = 8
	Cols = 8
)

// Frame is one logical display frame, one byte of column bits per row.
type Frame [Rows]byte

// Glyph is the bitmap for a single displayable character. Each row byte
// uses at most Cols column bits; Cols tells the compositor how many
// columns the glyph consumes.
type Glyph struct {
	Char byte
	Rows [Rows]byte
	Cols int
}

var blank = Glyph{Char: ' ', Cols: 4}

var glyphs = []Glyph{
	blank,
	{'0', [Rows]byte{0x20, 0x50, 0x50, 0x50, 0x50, 0x50, 0x20, 0x00}, 4},
	{'1', [Rows]byte{0x20, 0x30, 0x20, 0x20, 0x20, 0x20, 0x70, 0x00}, 4},
	{'2', [Rows]byte{0x20, 0x50, 0x40, 0x20, 0x20, 0x10, 0x70, 0x00}, 4},
	{'3', [Rows]byte{0x30, 0x40, 0x40, 0x70, 0x40, 0x40, 0x30, 0x00}, 4},
	{'4', [Rows]byte{0x40, 0x60, 0x50, 0x50, 0x70, 0x40, 0x40, 0x00}, 4},
	{'5', [Rows]byte{0x70, 0x10, 0x10, 0x70, 0x40, 0x50, 0x20, 0x00}, 4},
	{'6', [Rows]byte{0x60, 0x10, 0x10, 0x30, 0x50, 0x50, 0x20, 0x00}, 4},
	{'7', [Rows]byte{0x70, 0x40, 0x40, 0x40, 0x20, 0x20, 0x20, 0x00}, 4},
	{'8', [Rows]byte{0x20, 0x50, 0x50, 0x20, 0x50, 0x50, 0x20, 0x00}, 4},
	{'9', [Rows]byte{0x20, 0x50, 0x50, 0x60, 0x40, 0x40, 0x30, 0x00}, 4},
	{'.', [Rows]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40}, 1},
	{'M', [Rows]byte{0x50, 0x70, 0x70, 0x50, 0x50, 0x50, 0x50, 0x00}, 4},
}

// Lookup returns the glyph for c, or the blank glyph when c has no
// bitmap. It never fails.
func Lookup(c byte) Glyph {
	for _, g := range glyphs {
		if g.Char == c {
			return g
		}
	}
	return blank
}

// Compose renders text into a logical frame. Characters are placed left
// to right, each shifted into the columns after the ones already
// consumed, until all 8 columns are used. Shorter input leaves the
// remaining columns dark. Composing the same text always yields a
// bit-identical frame.
func Compose(text string) Frame {
	var f Frame
	offset := 0
	for i := 0; i < len(text) && offset < Cols; i++ {
		g := Lookup(text[i])
		shift := Cols - g.Cols - offset
		for row := 0; row < Rows; row++ {
			f[row] |= shiftRow(g.Rows[row], shift)
		}
		offset += g.Cols
	}
	return f
}

func shiftRow(b byte, shift int) byte {
	if shift >= 0 {
		return b >> shift
	}
	return b << -shift
}

// Rotate maps one logical row byte onto the chip's column wiring:
// rotate right by one bit, bit 0 wrapping around to bit 7.
func Rotate(b byte) byte {
	return b>>1 | b<<7
}

// Remap converts a logical frame into the physical layout expected by
// the row registers.
func Remap(f Frame) Frame {
	var p Frame
	for i, b := range f {
		p[i] = Rotate(b)
	}
	return p
}

// Smiley is the feedback frame shown after a completed release.
var Smiley = Frame{0x3C, 0x42, 0xA5, 0xA5, 0x81, 0xA5, 0x5A, 0x3C}
