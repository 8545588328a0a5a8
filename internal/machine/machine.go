// Package machine assembles the CHIP-8 components into a machine that a host
// loop can drive.
package machine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/register"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/retrogolib/log"
)

// randomStream selects the PCG stream, the seed is configurable.
const randomStream = 0xC8C8C8C8

// Options configures a machine.
type Options struct {
	Seed  uint64 // seed of the random number generator used by Cxkk
	Trace bool   // log every executed instruction at debug level
}

// Machine is a complete CHIP-8 system. It is not safe for concurrent use.
type Machine struct {
	logger  *log.Logger
	options Options

	memory    *memory.Memory
	registers *register.File
	display   *display.Framebuffer
	keypad    *input.Keypad
	random    *rand.PCG

	cpu *cpu.CPU
}

// RestoreError is returned when a state can not be restored. The machine is
// unchanged in that case.
type RestoreError struct {
	Err error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restoring state: %s", e.Err)
}

// Unwrap returns the reason the state was rejected.
func (e *RestoreError) Unwrap() error {
	return e.Err
}

// New returns a machine in reset state.
func New(logger *log.Logger, options Options) *Machine {
	m := &Machine{
		logger:  logger,
		options: options,
	}
	m.cpu = cpu.New(logger, cpu.Bus{})
	m.cpu.SetTrace(options.Trace)
	m.Reset()
	return m
}

// Reset zeroes memory, registers, framebuffer and keypad, seeds the font and
// reseeds the random number generator.
func (m *Machine) Reset() {
	m.memory = memory.New()
	m.registers = register.New(memory.ProgramStart)
	m.display = display.New()
	m.keypad = input.New()
	m.random = rand.NewPCG(m.options.Seed, randomStream)
	m.plumb()
}

// LoadProgram copies a program to the start of program space.
func (m *Machine) LoadProgram(program []byte) error {
	if err := m.memory.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	m.logger.Debug("Program loaded", log.Int("size", len(program)))
	return nil
}

// ResetAndLoad resets the machine and loads a program. The machine is
// unchanged if the program does not fit.
func (m *Machine) ResetAndLoad(program []byte) error {
	if len(program) > memory.MaxProgramSize {
		return fmt.Errorf("loading program: %w",
			&memory.AddressError{Address: memory.ProgramStart, Size: len(program)})
	}
	m.Reset()
	return m.LoadProgram(program)
}

// Step executes one instruction.
func (m *Machine) Step() (cpu.Outcome, error) {
	return m.cpu.Step()
}

// TickTimers decrements the delay and sound timers, it has to be called at
// 60 Hz.
func (m *Machine) TickTimers() {
	m.registers.TickTimers()
}

// SetKey updates the pressed state of a key.
func (m *Machine) SetKey(key uint8, pressed bool) error {
	if err := m.keypad.Set(key, pressed); err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	return nil
}

// ReleaseKeys releases all keys.
func (m *Machine) ReleaseKeys() {
	m.keypad.ReleaseAll()
}

// Framebuffer returns a copy of the display content.
func (m *Machine) Framebuffer() display.Frame {
	return m.display.Frame()
}

// Registers returns a copy of all registers, timers and the stack.
func (m *Machine) Registers() register.State {
	return m.registers.State()
}

// Memory returns a copy of the address space.
func (m *Machine) Memory() [memory.Size]byte {
	return m.memory.Bytes()
}

// Keypad returns a copy of the keypad state.
func (m *Machine) Keypad() input.State {
	return m.keypad.State()
}

// History returns the most recently executed instructions, most recent first.
func (m *Machine) History() []cpu.Trace {
	return m.cpu.History()
}

// SoundActive returns whether the tone should currently be played.
func (m *Machine) SoundActive() bool {
	return m.registers.SoundTimer() > 0
}

// Capture returns a deep copy of the machine state.
func (m *Machine) Capture() *snapshot.State {
	random, _ := m.random.MarshalBinary() // PCG marshaling never fails
	return &snapshot.State{
		Memory:    m.memory.Bytes(),
		Registers: snapshot.Registers(m.registers.State()),
		Frame:     m.display.Frame(),
		Input:     snapshot.Input(m.keypad.State()),
		Random:    random,
	}
}

// Restore replaces the machine state. The state is validated completely
// before anything is replaced, on error the machine is unchanged.
// The instruction history is cleared.
func (m *Machine) Restore(state *snapshot.State) error {
	if state == nil {
		return &RestoreError{Err: errors.New("no state")}
	}

	mem, err := memory.FromBytes(state.Memory[:])
	if err != nil {
		return &RestoreError{Err: err}
	}
	registers, err := register.FromState(register.State(state.Registers))
	if err != nil {
		return &RestoreError{Err: err}
	}
	if err := cpu.CheckPC(registers.PC()); err != nil {
		return &RestoreError{Err: err}
	}
	keypad, err := input.FromState(input.State(state.Input))
	if err != nil {
		return &RestoreError{Err: err}
	}
	random := &rand.PCG{}
	if err := random.UnmarshalBinary(state.Random); err != nil {
		return &RestoreError{Err: fmt.Errorf("decoding random generator state: %w", err)}
	}

	m.memory = mem
	m.registers = registers
	m.display = display.FromFrame(state.Frame)
	m.keypad = keypad
	m.random = random
	m.plumb()
	return nil
}

func (m *Machine) plumb() {
	m.cpu.Plumb(cpu.Bus{
		Memory:    m.memory,
		Registers: m.registers,
		Display:   m.display,
		Keypad:    m.keypad,
		Random:    m.random,
	})
}
