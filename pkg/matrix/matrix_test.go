package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownCharacter(t *testing.T) {
	g := Lookup('8')

	assert.Equal(t, byte('8'), g.Char)
	assert.Equal(t, 4, g.Cols)
	assert.Equal(t, [Rows]byte{0x20, 0x50, 0x50, 0x20, 0x50, 0x50, 0x20, 0x00}, g.Rows)
}

func TestLookupFallsBackToBlank(t *testing.T) {
	for _, c := range []byte{'z', 'X', 0x00, 0xFF} {
		g := Lookup(c)
		assert.Equal(t, byte(' '), g.Char, "char %#x", c)
		assert.Equal(t, [Rows]byte{}, g.Rows, "char %#x", c)
	}
}

func TestComposeEmptyIsBlank(t *testing.T) {
	assert.Equal(t, Frame{}, Compose(""))
	assert.Equal(t, Frame{}, Compose(string([]byte{0x00})))
	assert.Equal(t, Frame{}, Compose("  "))
}

func TestComposeSingleDigitRightOfOrigin(t *testing.T) {
	// '8' is 4 columns wide, so its bits land shifted 4 columns in and
	// the remaining half of the frame stays dark.
	want := Frame{0x02, 0x05, 0x05, 0x02, 0x05, 0x05, 0x02, 0x00}

	got := Compose("8")

	require.Equal(t, want, got)
	for row, b := range got {
		assert.Zero(t, b&0xF0, "row %d has bits outside the glyph columns", row)
	}
}

func TestComposeModeLabel(t *testing.T) {
	// "M0" fills both glyph slots: M shifted by 4, 0 unshifted.
	want := Frame{0x25, 0x57, 0x57, 0x55, 0x55, 0x55, 0x25, 0x00}

	assert.Equal(t, want, Compose("M0"))
}

func TestComposeStopsAtFrameWidth(t *testing.T) {
	// Only the first two 4-column glyphs fit.
	assert.Equal(t, Compose("M1"), Compose("M1999"))
}

func TestComposeDeterministic(t *testing.T) {
	for _, g := range glyphs {
		text := string(g.Char)
		require.Equal(t, Compose(text), Compose(text), "char %q", g.Char)
		require.Equal(t, Remap(Compose(text)), Remap(Compose(text)), "char %q", g.Char)
	}
}

func TestRotateWrapsBitZero(t *testing.T) {
	assert.Equal(t, byte(0x80), Rotate(0x01))
	assert.Equal(t, byte(0x0F), Rotate(0x1E))
	assert.Equal(t, byte(0x00), Rotate(0x00))
	assert.Equal(t, byte(0xFF), Rotate(0xFF))
}

func TestRotateEightTimesIsIdentity(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := byte(v)
		r := b
		for i := 0; i < 8; i++ {
			r = Rotate(r)
		}
		require.Equal(t, b, r, "byte %#x", v)
	}
}

func TestRemapEightTimesIsIdentity(t *testing.T) {
	f := Compose("M2")
	r := f
	for i := 0; i < 8; i++ {
		r = Remap(r)
	}
	assert.Equal(t, f, r)
}
