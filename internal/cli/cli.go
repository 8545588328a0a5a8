// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/timer"
	"golang.org/x/term"
)

// isTerminal reports whether the interactive display can be used.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Load == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if len(args) > 0 {
		opts.Input = args[len(args)-1]
	}

	if err := validateOptions(opts); err != nil {
		return opts, options.Emulator{}, err
	}

	return opts, createEmulatorOptions(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and the available flags.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8vm [options] <ROM or state file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to run, please pass the file to run as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{msg: fmt.Sprintf("only one file to run can be passed, got %d", len(args))}
	}
	return nil
}

// validateOptions validates option values and combinations
func validateOptions(opts options.Program) error {
	if opts.Speed < timer.MinSpeed || opts.Speed > timer.MaxSpeed {
		return fmt.Errorf("speed %d is out of range %d-%d", opts.Speed, timer.MinSpeed, timer.MaxSpeed)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("negative cycle count %d", opts.Cycles)
	}
	return nil
}

// createEmulatorOptions creates emulator options based on program options
func createEmulatorOptions(opts options.Program) options.Emulator {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	emuOptions := options.NewEmulator(opts.Speed, seed)
	emuOptions.Cycles = opts.Cycles
	emuOptions.Trace = opts.Trace

	// a cycle budget or a missing terminal implies running headless
	emuOptions.Headless = opts.Headless || opts.Cycles > 0 || !isTerminal()
	return emuOptions
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM or .c8s state file")
	flags.StringVar(&opts.Load, "load", "", "name of a state file to resume from")
	flags.StringVar(&opts.Save, "save", "", "name of the state file to write on exit")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the tone to")
	flags.StringVar(&opts.System, "s", "", "system to emulate, only chip8 is supported")
	flags.IntVar(&opts.Speed, "speed", timer.DefaultSpeed, "instructions executed per second")
	flags.IntVar(&opts.Cycles, "cycles", 0, "number of instructions to execute headless, 0 runs until stopped")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks a random seed")
	flags.BoolVar(&opts.Headless, "headless", false, "run without the terminal display")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Statsview, "statsview", false, "launch the runtime statistics server")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Dump, "dump", false, "print the registers on exit")
	flags.BoolVar(&opts.Screen, "screen", false, "print the final screen on exit")
}
