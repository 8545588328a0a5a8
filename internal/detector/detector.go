// Package detector handles input file type and system detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Kind is the type of an input file.
type Kind int

const (
	// ROM is a raw CHIP-8 program.
	ROM Kind = iota
	// State is a saved machine state.
	State
)

func (k Kind) String() string {
	switch k {
	case ROM:
		return "rom"
	case State:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Input describes what to load.
type Input struct {
	Kind   Kind
	Path   string
	System arch.System
}

// Detector handles input detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new input detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system and the kind of input to load.
// An explicit state file to resume from takes precedence over the input file,
// otherwise the input file extension decides between ROM and state file.
func (d *Detector) Detect(opts options.Program) (Input, error) {
	system := arch.CHIP8System
	if opts.System != "" {
		system, _ = arch.SystemFromString(opts.System)
		if system != arch.CHIP8System {
			return Input{}, fmt.Errorf("unsupported system '%s'", opts.System)
		}
	}

	input := Input{
		Kind:   ROM,
		Path:   opts.Input,
		System: system,
	}
	switch {
	case opts.Load != "":
		input.Kind = State
		input.Path = opts.Load
	case isStateFile(opts.Input):
		input.Kind = State
	}

	if input.Path == "" {
		return Input{}, fmt.Errorf("no input file given")
	}

	d.logger.Debug("Detected input",
		log.Stringer("system", system),
		log.Stringer("kind", input.Kind),
		log.String("file", input.Path))
	return input, nil
}

// isStateFile determines the input type based on file extension.
func isStateFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == snapshot.FileExtension
}
