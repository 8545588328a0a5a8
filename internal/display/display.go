// Package display implements the 64x32 monochrome CHIP-8 framebuffer.
package display

import (
	"math/bits"
	"strings"
)

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32
	// PixelCount is the total number of pixels.
	PixelCount = Width * Height
)

// Frame is a read-only copy of the framebuffer. Each row is a 64 bit word,
// the most significant bit is column 0.
type Frame [Height]uint64

// Pixel returns whether the pixel at x, y is lit. Coordinates wrap around.
func (f Frame) Pixel(x, y int) bool {
	row := f[mod(y, Height)]
	return row&columnMask(mod(x, Width)) != 0
}

// Lit returns the number of lit pixels.
func (f Frame) Lit() int {
	n := 0
	for _, row := range f {
		n += bits.OnesCount64(row)
	}
	return n
}

// String renders the frame as text, one line per row, '#' for lit pixels.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := range Height {
		for x := range Width {
			if f.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Framebuffer is the single source of truth of what is currently displayed.
// It is only changed by Clear and Draw.
type Framebuffer struct {
	rows Frame
}

// New returns a cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// FromFrame returns a framebuffer showing a copy of the frame.
func FromFrame(f Frame) *Framebuffer {
	return &Framebuffer{rows: f}
}

// Clear turns all pixels off.
func (fb *Framebuffer) Clear() {
	fb.rows = Frame{}
}

// Draw XORs sprite rows onto the framebuffer. Each byte of the sprite is one
// row of 8 pixels, the most significant bit is the leftmost pixel.
// The origin is taken modulo the screen size, pixels that pass the right or
// bottom edge wrap around to the opposite edge.
// Draw returns whether any lit pixel was turned off.
func (fb *Framebuffer) Draw(x, y uint8, sprite []byte) bool {
	ox := int(x) % Width
	oy := int(y) % Height

	collision := false
	for i, data := range sprite {
		row := (oy + i) % Height
		// place the sprite byte at column ox of the row, wrapping the
		// overflowing bits back to column 0
		mask := bits.RotateLeft64(uint64(data)<<(Width-8), -ox)
		if fb.rows[row]&mask != 0 {
			collision = true
		}
		fb.rows[row] ^= mask
	}
	return collision
}

// Frame returns a copy of the framebuffer content.
func (fb *Framebuffer) Frame() Frame {
	return fb.rows
}

func columnMask(x int) uint64 {
	return 1 << (Width - 1 - x)
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
