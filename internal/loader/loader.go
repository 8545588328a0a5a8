// Package loader handles ROM and state file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/snapshot"
)

// ErrEmptyProgram is returned for ROM files without content.
var ErrEmptyProgram = errors.New("program is empty")

// Loader handles loading files from disk.
type Loader struct{}

// New creates a new file loader.
func New() *Loader {
	return &Loader{}
}

// LoadROM reads a raw CHIP-8 program.
func (l *Loader) LoadROM(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	// read one byte more than fits to detect oversized programs
	program, err := io.ReadAll(io.LimitReader(file, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	switch {
	case len(program) == 0:
		return nil, ErrEmptyProgram
	case len(program) > memory.MaxProgramSize:
		return nil, fmt.Errorf("program exceeds %d bytes: %w", memory.MaxProgramSize,
			&memory.AddressError{Address: memory.ProgramStart, Size: len(program)})
	}
	return program, nil
}

// LoadState reads a saved machine state.
func (l *Loader) LoadState(path string) (*snapshot.State, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	state, err := snapshot.Read(file)
	if err != nil {
		return nil, fmt.Errorf("loading state file %s: %w", path, err)
	}
	return state, nil
}

// SaveState writes a machine state to a file.
func (l *Loader) SaveState(path string, state *snapshot.State) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing file %s: %w", path, closeErr)
		}
	}()

	if err := snapshot.Write(file, state); err != nil {
		return fmt.Errorf("saving state file %s: %w", path, err)
	}
	return nil
}
