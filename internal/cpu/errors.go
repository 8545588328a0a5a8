package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownInstruction is matched by all UnknownInstructionError values.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrMisalignedAddress is returned for odd jump, call and return targets.
	ErrMisalignedAddress = errors.New("misaligned program counter")
)

// UnknownInstructionError is returned for instruction words that do not
// decode to a supported instruction.
type UnknownInstructionError struct {
	Opcode  uint16 // the raw instruction word
	Address uint16 // address the word was fetched from
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("%s $%04X at $%04X", ErrUnknownInstruction, e.Opcode, e.Address)
}

// Unwrap returns ErrUnknownInstruction.
func (e *UnknownInstructionError) Unwrap() error {
	return ErrUnknownInstruction
}

// ExecutionError wraps a fault raised while executing a decoded instruction.
type ExecutionError struct {
	Address     uint16
	Instruction Instruction
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing '%s' at $%04X: %s", e.Instruction, e.Address, e.Err)
}

// Unwrap returns the underlying fault.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
