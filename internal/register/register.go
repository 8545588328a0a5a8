// Package register implements the CHIP-8 register file: the general purpose
// registers V0-VF, the index register I, the program counter, the call stack
// and the delay and sound timers.
package register

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const (
	// Count is the number of general purpose registers.
	Count = 16

	// Flag is the index of VF, the carry and collision flag register.
	Flag = 0xF

	// StackDepth is the number of return addresses the stack can hold.
	StackDepth = 16
)

var (
	// ErrStackOverflow is returned when pushing onto a full stack.
	ErrStackOverflow = chip8.ErrStackOverflow
	// ErrStackUnderflow is returned when popping from an empty stack.
	ErrStackUnderflow = chip8.ErrStackUnderflow
)

// State is a read-only copy of the register file.
// SP is the number of occupied stack entries, Stack[SP-1] is the top.
type State struct {
	V     [Count]uint8
	I     uint16
	PC    uint16
	SP    uint8
	Stack [StackDepth]uint16
	Delay uint8
	Sound uint8
}

// File is the register file of a machine.
type File struct {
	v     [Count]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [StackDepth]uint16
	delay timer.Timer
	sound timer.Timer
}

// New returns a register file with all registers cleared and the program
// counter set to pc.
func New(pc uint16) *File {
	return &File{pc: pc}
}

// FromState returns a register file initialized from a state.
func FromState(s State) (*File, error) {
	if s.SP > StackDepth {
		return nil, fmt.Errorf("stack pointer %d exceeds stack depth %d", s.SP, StackDepth)
	}
	f := &File{
		v:     s.V,
		i:     s.I,
		pc:    s.PC,
		sp:    s.SP,
		stack: s.Stack,
	}
	f.delay.Set(s.Delay)
	f.sound.Set(s.Sound)
	return f, nil
}

// V returns the value of general purpose register x.
func (f *File) V(x uint8) uint8 {
	return f.v[x&0x0F]
}

// SetV sets general purpose register x.
func (f *File) SetV(x, value uint8) {
	f.v[x&0x0F] = value
}

// I returns the index register.
func (f *File) I() uint16 {
	return f.i
}

// SetI sets the index register.
func (f *File) SetI(value uint16) {
	f.i = value
}

// PC returns the program counter.
func (f *File) PC() uint16 {
	return f.pc
}

// SetPC sets the program counter. Range checks are done by the caller.
func (f *File) SetPC(value uint16) {
	f.pc = value
}

// SP returns the number of used stack entries.
func (f *File) SP() uint8 {
	return f.sp
}

// Push stores a return address on the stack.
func (f *File) Push(address uint16) error {
	if f.sp >= StackDepth {
		return fmt.Errorf("%w: pushing $%04X with %d entries in use", ErrStackOverflow, address, f.sp)
	}
	f.stack[f.sp] = address
	f.sp++
	return nil
}

// Peek returns the top return address of the stack without removing it.
func (f *File) Peek() (uint16, error) {
	if f.sp == 0 {
		return 0, ErrStackUnderflow
	}
	return f.stack[f.sp-1], nil
}

// Pop removes and returns the top return address of the stack.
func (f *File) Pop() (uint16, error) {
	if f.sp == 0 {
		return 0, ErrStackUnderflow
	}
	f.sp--
	return f.stack[f.sp], nil
}

// DelayTimer returns the delay timer value.
func (f *File) DelayTimer() uint8 {
	return f.delay.Value()
}

// SetDelayTimer sets the delay timer.
func (f *File) SetDelayTimer(value uint8) {
	f.delay.Set(value)
}

// SoundTimer returns the sound timer value.
func (f *File) SoundTimer() uint8 {
	return f.sound.Value()
}

// SetSoundTimer sets the sound timer.
func (f *File) SetSoundTimer(value uint8) {
	f.sound.Set(value)
}

// TickTimers decrements both timers by one if they are not zero.
func (f *File) TickTimers() {
	f.delay.Tick()
	f.sound.Tick()
}

// State returns a copy of all registers.
func (f *File) State() State {
	return State{
		V:     f.v,
		I:     f.i,
		PC:    f.pc,
		SP:    f.sp,
		Stack: f.stack,
		Delay: f.delay.Value(),
		Sound: f.sound.Value(),
	}
}
