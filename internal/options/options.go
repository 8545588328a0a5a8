// Package options contains the program options.
package options

import (
	"time"

	"github.com/retroenv/chip8vm/internal/timer"
)

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM or state file"`
	Load  string `flag:"load" usage:"state file to resume from"`
	Save  string `flag:"save" usage:"state file to write on exit"`
	Wav   string `flag:"wav" usage:"record the tone to a .wav file"`
}

// Flags contains behavior options.
type Flags struct {
	System    string `flag:"s" usage:"target system, only chip8 is supported (default: auto-detect)"`
	Speed     int    `flag:"speed" usage:"instructions per second" default:"700"`
	Cycles    int    `flag:"cycles" usage:"number of instructions to run headless, 0 runs until stopped"`
	Seed      uint64 `flag:"seed" usage:"random number generator seed (default: random)"`
	Headless  bool   `flag:"headless" usage:"run without terminal display"`
	Trace     bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Statsview bool   `flag:"statsview" usage:"launch the runtime statistics server"`
	Debug     bool   `flag:"debug" usage:"enable debug logging"`
	Quiet     bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains options for output printed on exit.
type OutputFlags struct {
	Dump   bool `flag:"dump" usage:"print the registers on exit"`
	Screen bool `flag:"screen" usage:"print the final screen on exit"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Emulator defines options to control the emulation.
type Emulator struct {
	Speed    int           // instructions per second
	Cycles   int           // instruction budget for headless runs, 0 is unlimited
	Seed     uint64        // random number generator seed
	Headless bool          // run without terminal display
	Trace    bool          // log every executed instruction
	Frame    time.Duration // host loop interval
}

// NewEmulator returns a new options instance with default options.
func NewEmulator(speed int, seed uint64) Emulator {
	return Emulator{
		Speed: speed,
		Seed:  seed,
		Frame: timer.TickInterval,
	}
}
