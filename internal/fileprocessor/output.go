package fileprocessor

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/pipeline"
	"github.com/retroenv/chip8vm/internal/register"
	"github.com/retroenv/chip8vm/internal/screen"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// output is where the dump and the screen get printed.
var output io.Writer = os.Stdout

// colorOutput reports whether the output supports escape sequences.
var colorOutput = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Dump is the printed summary of the final machine state.
type Dump struct {
	Instructions uint64
	PC           string
	I            string
	V            [register.Count]string
	Stack        []string
	DelayTimer   uint8
	SoundTimer   uint8
	PressedKeys  []string
	WaitingKey   bool
	LitPixels    int
}

// NewDump returns the summary of a finished run.
func NewDump(result *pipeline.Result) Dump {
	regs := result.Machine.Registers()
	keys := result.Machine.Keypad()

	dump := Dump{
		Instructions: result.Executed,
		PC:           fmt.Sprintf("$%03X", regs.PC),
		I:            fmt.Sprintf("$%03X", regs.I),
		Stack:        []string{},
		DelayTimer:   regs.Delay,
		SoundTimer:   regs.Sound,
		PressedKeys:  []string{},
		WaitingKey:   keys.Waiting,
		LitPixels:    result.Machine.Framebuffer().Lit(),
	}
	for i, v := range regs.V {
		dump.V[i] = fmt.Sprintf("$%02X", v)
	}
	for _, address := range regs.Stack[:regs.SP] {
		dump.Stack = append(dump.Stack, fmt.Sprintf("$%03X", address))
	}
	for key := range input.KeyCount {
		if keys.Keys[key] {
			dump.PressedKeys = append(dump.PressedKeys, fmt.Sprintf("%X", key))
		}
	}
	return dump
}

// writeOutputs writes the state file and prints the outputs requested by
// the options.
func writeOutputs(logger *log.Logger, opts options.Program, result *pipeline.Result) error {
	if opts.Save != "" {
		if err := loader.New().SaveState(opts.Save, result.Machine.Capture()); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		logger.Info("State saved", log.String("file", opts.Save))
	}

	color := colorOutput()

	if opts.Dump {
		printer := pp.New()
		printer.SetColoringEnabled(color)
		if _, err := printer.Fprintln(output, NewDump(result)); err != nil {
			return fmt.Errorf("printing dump: %w", err)
		}
	}

	if opts.Screen {
		if err := screen.Print(output, result.Machine.Framebuffer(), color); err != nil {
			return fmt.Errorf("printing screen: %w", err)
		}
	}
	return nil
}
