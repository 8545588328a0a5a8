package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/register"
	"github.com/retroenv/retrogolib/log"
)

// MaxPC is the highest program counter value that allows fetching a full
// instruction word.
const MaxPC = memory.MaxAddress - 1

// Outcome is the result of a successful Step.
type Outcome int

const (
	// Executed means an instruction was executed.
	Executed Outcome = iota
	// Waiting means the wait-for-key instruction is pending, PC was not advanced.
	Waiting
)

func (o Outcome) String() string {
	switch o {
	case Executed:
		return "executed"
	case Waiting:
		return "waiting"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RandomSource provides the random numbers for Cxkk.
type RandomSource interface {
	Uint64() uint64
}

// Bus connects the engine to the components it executes against.
type Bus struct {
	Memory    *memory.Memory
	Registers *register.File
	Display   *display.Framebuffer
	Keypad    *input.Keypad
	Random    RandomSource
}

// CPU is the instruction engine.
type CPU struct {
	logger  *log.Logger
	bus     Bus
	trace   bool
	history history
}

// New returns an engine executing against the given bus.
func New(logger *log.Logger, bus Bus) *CPU {
	return &CPU{
		logger: logger,
		bus:    bus,
	}
}

// Plumb connects the engine to a new set of components, for example after
// a state was restored. The instruction history is cleared.
func (c *CPU) Plumb(bus Bus) {
	c.bus = bus
	c.history.clear()
}

// SetTrace enables logging of every executed instruction at debug level.
func (c *CPU) SetTrace(enabled bool) {
	c.trace = enabled
}

// History returns the most recently executed instructions, most recent first.
func (c *CPU) History() []Trace {
	return c.history.list()
}

// flowKind describes how PC changes after an instruction.
type flowKind int

const (
	flowNext flowKind = iota
	flowSkip
	flowJump
	flowWait
)

type flow struct {
	kind   flowKind
	target uint16
}

var (
	next = flow{kind: flowNext}
	skip = flow{kind: flowSkip}
	wait = flow{kind: flowWait}
)

func jump(target uint16) flow {
	return flow{kind: flowJump, target: target}
}

// skipIf returns skip if the condition is true, next otherwise.
func skipIf(condition bool) flow {
	if condition {
		return skip
	}
	return next
}

// Step performs one fetch-decode-execute cycle. The outcome is only
// meaningful if the returned error is nil. Errors are fatal for the running
// program: faults matching memory.ErrAddressOutOfBounds,
// ErrMisalignedAddress, register.ErrStackOverflow, register.ErrStackUnderflow
// or ErrUnknownInstruction are returned without any state having changed.
func (c *CPU) Step() (Outcome, error) {
	regs := c.bus.Registers
	pc := regs.PC()

	raw, err := c.bus.Memory.ReadWord(pc)
	if err != nil {
		return Executed, fmt.Errorf("fetching instruction at $%04X: %w", pc, err)
	}

	ins, err := Decode(raw)
	if err != nil {
		var unknown *UnknownInstructionError
		if errors.As(err, &unknown) {
			unknown.Address = pc
		}
		return Executed, err
	}

	// instructions that fall through need a fetchable successor
	if !ins.IsControlFlow() {
		if err := CheckPC(pc + 2); err != nil {
			return Executed, &ExecutionError{Address: pc, Instruction: ins, Err: err}
		}
	}

	f, err := handlers[ins.Op](c, ins)
	if err != nil {
		return Executed, &ExecutionError{Address: pc, Instruction: ins, Err: err}
	}
	// skip handlers only read state
	if f.kind == flowSkip {
		if err := CheckPC(pc + 4); err != nil {
			return Executed, &ExecutionError{Address: pc, Instruction: ins, Err: err}
		}
	}

	switch f.kind {
	case flowWait:
		return Waiting, nil
	case flowSkip:
		regs.SetPC(pc + 4)
	case flowJump:
		regs.SetPC(f.target)
	default:
		regs.SetPC(pc + 2)
	}

	c.history.add(Trace{Address: pc, Instruction: ins})
	if c.trace {
		c.logger.Debug("Executed instruction",
			log.Hex("address", pc),
			log.Hex("opcode", raw),
			log.String("instruction", ins.String()))
	}
	return Executed, nil
}

// CheckPC returns an error if the program counter value does not point to a
// full, even aligned instruction word.
func CheckPC(pc uint16) error {
	if pc > MaxPC {
		return &memory.AddressError{Address: pc, Size: 2}
	}
	if pc%2 != 0 {
		return fmt.Errorf("%w: $%04X", ErrMisalignedAddress, pc)
	}
	return nil
}
