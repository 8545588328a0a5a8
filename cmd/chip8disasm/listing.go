package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/memory"
)

// commentColumn is the column that comments start at.
const commentColumn = 32

type listingOptions struct {
	hexComments    bool
	offsetComments bool
}

// listing is a linear disassembly of a program. Words are decoded in order
// starting at the program start, targets of jumps, calls and index loads
// that fall on a decoded word get a label.
type listing struct {
	program []byte
	options listingOptions
	labels  map[uint16]string
}

func newListing(program []byte, options listingOptions) *listing {
	l := &listing{
		program: program,
		options: options,
		labels:  map[uint16]string{},
	}
	l.collectLabels()
	return l
}

func (l *listing) collectLabels() {
	end := memory.ProgramStart + uint16(len(l.program))

	for offset := 0; offset+1 < len(l.program); offset += 2 {
		ins, err := cpu.Decode(l.word(offset))
		if err != nil {
			continue
		}

		var prefix string
		switch ins.Op {
		case cpu.OpJP, cpu.OpJPV0:
			prefix = "jump"
		case cpu.OpCALL:
			prefix = "sub"
		case cpu.OpLDI:
			prefix = "data"
		default:
			continue
		}

		target := ins.NNN
		if target < memory.ProgramStart || target >= end || (target-memory.ProgramStart)%2 != 0 {
			continue
		}
		if _, ok := l.labels[target]; !ok {
			l.labels[target] = fmt.Sprintf("%s_%03X", prefix, target)
		}
	}
}

func (l *listing) word(offset int) uint16 {
	return uint16(l.program[offset])<<8 | uint16(l.program[offset+1])
}

func (l *listing) write(w io.Writer) error {
	buf := bufio.NewWriter(w)

	skipped := false // the previous instruction is a conditional skip
	for offset := 0; offset < len(l.program); offset += 2 {
		address := memory.ProgramStart + uint16(offset)
		if label, ok := l.labels[address]; ok {
			if _, err := fmt.Fprintf(buf, "%s:\n", label); err != nil {
				return err
			}
		}

		var text string
		var data []byte
		endsBlock := false
		if offset+1 < len(l.program) {
			data = l.program[offset : offset+2]
			ins, err := cpu.Decode(l.word(offset))
			if err != nil {
				text = fmt.Sprintf(".word $%04X", l.word(offset))
				skipped = false
			} else {
				text = l.instruction(ins)
				endsBlock = ins.IsControlFlow() && ins.Op != cpu.OpCALL && !skipped
				skipped = ins.IsSkip()
			}
		} else {
			data = l.program[offset : offset+1]
			text = fmt.Sprintf(".byte $%02X", data[0])
		}

		if _, err := fmt.Fprintln(buf, l.line(address, text, data)); err != nil {
			return err
		}
		// execution never falls through to the next word
		if endsBlock && offset+2 < len(l.program) {
			if _, err := fmt.Fprintln(buf); err != nil {
				return err
			}
		}
	}
	return buf.Flush()
}

// instruction returns the assembler text of an instruction, with the address
// operand replaced by its label if it has one.
func (l *listing) instruction(ins cpu.Instruction) string {
	text := ins.String()
	switch ins.Op {
	case cpu.OpJP, cpu.OpJPV0, cpu.OpCALL, cpu.OpLDI:
		if label, ok := l.labels[ins.NNN]; ok {
			text = strings.Replace(text, fmt.Sprintf("$%03X", ins.NNN), label, 1)
		}
	}
	return text
}

func (l *listing) line(address uint16, text string, data []byte) string {
	line := "  " + text

	var comment []string
	if l.options.offsetComments {
		comment = append(comment, fmt.Sprintf("$%03X", address))
	}
	if l.options.hexComments {
		hex := make([]string, len(data))
		for i, b := range data {
			hex[i] = fmt.Sprintf("%02X", b)
		}
		comment = append(comment, strings.Join(hex, " "))
	}
	if len(comment) == 0 {
		return line
	}

	if len(line) < commentColumn {
		line += strings.Repeat(" ", commentColumn-len(line))
	} else {
		line += " "
	}
	return line + "; " + strings.Join(comment, " ")
}
