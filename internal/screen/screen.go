// Package screen prints a framebuffer as text.
package screen

import (
	"fmt"
	"io"
	"strings"

	tm "github.com/buger/goterm"
	"github.com/retroenv/chip8vm/internal/display"
)

// Lines renders the frame with two pixel rows per line using half block
// characters.
func Lines(frame display.Frame) []string {
	lines := make([]string, 0, display.Height/2)
	var sb strings.Builder

	for y := 0; y < display.Height; y += 2 {
		sb.Reset()
		for x := range display.Width {
			sb.WriteRune(Cell(frame.Pixel(x, y), frame.Pixel(x, y+1)))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// Cell returns the half block character showing a top and a bottom pixel.
func Cell(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

// Print writes the frame inside a border. With color set, terminal escape
// sequences highlight the title and the pixels.
func Print(w io.Writer, frame display.Frame, color bool) error {
	title := "screen"
	border := "+" + strings.Repeat("-", display.Width) + "+"
	if color {
		title = tm.Bold(title)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, border); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	for _, line := range Lines(frame) {
		if color {
			line = tm.Color(line, tm.GREEN)
		}
		if _, err := fmt.Fprintf(w, "|%s|\n", line); err != nil {
			return fmt.Errorf("writing screen: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, border); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}
