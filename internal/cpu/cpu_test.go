package cpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/register"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fixedRandom uint64

func (r fixedRandom) Uint64() uint64 { return uint64(r) }

// newTestCPU returns an engine with the given instruction words loaded at
// the program start.
func newTestCPU(t *testing.T, program ...uint16) (*CPU, Bus) {
	t.Helper()

	bus := Bus{
		Memory:    memory.New(),
		Registers: register.New(memory.ProgramStart),
		Display:   display.New(),
		Keypad:    input.New(),
		Random:    fixedRandom(0xA5),
	}
	code := make([]byte, 0, 2*len(program))
	for _, word := range program {
		code = append(code, byte(word>>8), byte(word))
	}
	assert.NoError(t, bus.Memory.LoadProgram(code))
	return New(log.NewTestLogger(t), bus), bus
}

func step(t *testing.T, c *CPU, n int) {
	t.Helper()
	for range n {
		outcome, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, Executed, outcome)
	}
}

type snapshot struct {
	regs   register.State
	memory [memory.Size]byte
	frame  display.Frame
	keys   input.State
}

func takeSnapshot(bus Bus) snapshot {
	return snapshot{
		regs:   bus.Registers.State(),
		memory: bus.Memory.Bytes(),
		frame:  bus.Display.Frame(),
		keys:   bus.Keypad.State(),
	}
}

func assertUnchanged(t *testing.T, before snapshot, bus Bus) {
	t.Helper()
	after := takeSnapshot(bus)
	assert.True(t, before.regs == after.regs, "registers changed")
	assert.True(t, before.memory == after.memory, "memory changed")
	assert.True(t, before.frame == after.frame, "framebuffer changed")
	assert.True(t, before.keys == after.keys, "keypad changed")
}

func TestStep_ClearAndJump(t *testing.T) {
	c, bus := newTestCPU(t, 0x00E0, 0x1200)
	bus.Display.Draw(10, 10, []byte{0xFF})

	step(t, c, 1)
	assert.Equal(t, 0, bus.Display.Frame().Lit())
	assert.Equal(t, uint16(0x202), bus.Registers.PC())

	step(t, c, 1)
	assert.Equal(t, uint16(0x200), bus.Registers.PC())
}

func TestStep_LoadAndAdd(t *testing.T) {
	c, bus := newTestCPU(t, 0x6A05, 0x7A02)
	bus.Registers.SetV(register.Flag, 0x33)

	step(t, c, 2)
	assert.Equal(t, uint8(7), bus.Registers.V(0xA))
	assert.Equal(t, uint16(0x204), bus.Registers.PC())
	assert.Equal(t, uint8(0x33), bus.Registers.V(register.Flag))
}

func TestStep_AddByteWraps(t *testing.T) {
	c, bus := newTestCPU(t, 0x7001)
	bus.Registers.SetV(0, 0xFF)

	step(t, c, 1)
	assert.Equal(t, uint8(0), bus.Registers.V(0))
	assert.Equal(t, uint8(0), bus.Registers.V(register.Flag))
}

func TestStep_UnknownInstruction(t *testing.T) {
	c, bus := newTestCPU(t, 0xFFFF)
	before := takeSnapshot(bus)

	_, err := c.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownInstruction))

	var unknown *UnknownInstructionError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0xFFFF), unknown.Opcode)
	assert.Equal(t, uint16(0x200), unknown.Address)

	assertUnchanged(t, before, bus)
	assert.Empty(t, c.History())
}

func TestStep_FetchOutOfBounds(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.Registers.SetPC(memory.MaxAddress)

	_, err := c.Step()
	assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))
	assert.Equal(t, uint16(memory.MaxAddress), bus.Registers.PC())
}

func TestStep_StackDepth(t *testing.T) {
	// calls itself until the stack is full
	c, bus := newTestCPU(t, 0x2200)

	step(t, c, register.StackDepth)
	assert.Equal(t, uint8(register.StackDepth), bus.Registers.SP())

	before := takeSnapshot(bus)
	_, err := c.Step()
	assert.True(t, errors.Is(err, register.ErrStackOverflow))

	var execErr *ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x200), execErr.Address)
	assert.Equal(t, OpCALL, execErr.Instruction.Op)
	assertUnchanged(t, before, bus)
}

func TestStep_ReturnOnEmptyStack(t *testing.T) {
	c, bus := newTestCPU(t, 0x00EE)
	before := takeSnapshot(bus)

	_, err := c.Step()
	assert.True(t, errors.Is(err, register.ErrStackUnderflow))
	assertUnchanged(t, before, bus)
}

func TestStep_CallAndReturn(t *testing.T) {
	c, bus := newTestCPU(t,
		0x2206, // 200: call $206
		0x6101, // 202: ld V1, $01
		0x0000, // 204
		0x00EE, // 206: ret
	)

	step(t, c, 1)
	assert.Equal(t, uint16(0x206), bus.Registers.PC())
	assert.Equal(t, uint8(1), bus.Registers.SP())

	step(t, c, 1)
	assert.Equal(t, uint16(0x202), bus.Registers.PC())
	assert.Equal(t, uint8(0), bus.Registers.SP())

	step(t, c, 1)
	assert.Equal(t, uint8(1), bus.Registers.V(1))
}

func TestStep_JumpTargetOutOfBounds(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		v0      uint8
	}{
		{"jump to last byte", []uint16{0x1FFF}, 0},
		{"call last byte", []uint16{0x2FFF}, 0},
		{"jump with offset", []uint16{0xBFF0}, 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(t, tt.program...)
			bus.Registers.SetV(0, tt.v0)
			before := takeSnapshot(bus)

			_, err := c.Step()
			assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))
			assertUnchanged(t, before, bus)
		})
	}
}

// placeAt stores an instruction word at address and points PC to it.
func placeAt(t *testing.T, bus Bus, address, word uint16) {
	t.Helper()
	assert.NoError(t, bus.Memory.Store(address, []byte{byte(word >> 8), byte(word)}))
	bus.Registers.SetPC(address)
}

func TestStep_EndOfMemory(t *testing.T) {
	tests := []struct {
		name    string
		address uint16
		word    uint16
		v1      uint8
	}{
		{"load at last word", MaxPC, 0x6001, 0},
		{"draw at last word", MaxPC, 0xD011, 0},
		{"skip not taken at last word", MaxPC, 0x3142, 0},
		{"skip taken before last word", MaxPC - 2, 0x3142, 0x42},
		{"key wait at last word", MaxPC, 0xF10A, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(t)
			placeAt(t, bus, tt.address, tt.word)
			bus.Registers.SetV(1, tt.v1)
			before := takeSnapshot(bus)

			_, err := c.Step()
			assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))

			var execErr *ExecutionError
			assert.True(t, errors.As(err, &execErr))
			assert.Equal(t, tt.address, execErr.Address)
			assertUnchanged(t, before, bus)
			assert.Empty(t, c.History())
		})
	}
}

func TestStep_SkipNotTakenBeforeLastWord(t *testing.T) {
	c, bus := newTestCPU(t)
	placeAt(t, bus, MaxPC-2, 0x3142)

	step(t, c, 1)
	assert.Equal(t, uint16(MaxPC), bus.Registers.PC())
}

func TestStep_JumpToLastWord(t *testing.T) {
	c, bus := newTestCPU(t, 0x1FFE)

	step(t, c, 1)
	assert.Equal(t, uint16(MaxPC), bus.Registers.PC())
}

func TestStep_MisalignedTarget(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		v0      uint8
		ret     uint16 // return address pushed before the step, 0 for none
	}{
		{"jump", []uint16{0x1201}, 0, 0},
		{"call", []uint16{0x2301}, 0, 0},
		{"jump with offset", []uint16{0xB300}, 3, 0},
		{"return", []uint16{0x00EE}, 0, 0x203},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(t, tt.program...)
			bus.Registers.SetV(0, tt.v0)
			if tt.ret != 0 {
				assert.NoError(t, bus.Registers.Push(tt.ret))
			}
			before := takeSnapshot(bus)

			_, err := c.Step()
			assert.True(t, errors.Is(err, ErrMisalignedAddress))
			assertUnchanged(t, before, bus)
		})
	}
}

func TestCheckPC(t *testing.T) {
	assert.NoError(t, CheckPC(memory.ProgramStart))
	assert.NoError(t, CheckPC(MaxPC))
	assert.True(t, errors.Is(CheckPC(MaxPC+2), memory.ErrAddressOutOfBounds))
	assert.True(t, errors.Is(CheckPC(memory.MaxAddress), memory.ErrAddressOutOfBounds))
	assert.True(t, errors.Is(CheckPC(0x201), ErrMisalignedAddress))
}

func TestStep_JumpWithOffset(t *testing.T) {
	c, bus := newTestCPU(t, 0xB300)
	bus.Registers.SetV(0, 4)

	step(t, c, 1)
	assert.Equal(t, uint16(0x304), bus.Registers.PC())
}

func TestStep_Skips(t *testing.T) {
	tests := []struct {
		name   string
		raw    uint16
		v1, v2 uint8
		wantPC uint16
	}{
		{"se byte taken", 0x3142, 0x42, 0, 0x204},
		{"se byte not taken", 0x3142, 0x41, 0, 0x202},
		{"sne byte taken", 0x4142, 0x41, 0, 0x204},
		{"sne byte not taken", 0x4142, 0x42, 0, 0x202},
		{"se reg taken", 0x5120, 7, 7, 0x204},
		{"se reg not taken", 0x5120, 7, 8, 0x202},
		{"sne reg taken", 0x9120, 7, 8, 0x204},
		{"sne reg not taken", 0x9120, 7, 7, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(t, tt.raw)
			bus.Registers.SetV(1, tt.v1)
			bus.Registers.SetV(2, tt.v2)

			step(t, c, 1)
			assert.Equal(t, tt.wantPC, bus.Registers.PC())
		})
	}
}

func TestStep_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		raw    uint16
		vx, vy uint8
		wantVX uint8
		wantVF uint8
	}{
		{"ld keeps flag", 0x8120, 0x01, 0x02, 0x02, 0x09},
		{"or resets flag", 0x8121, 0x0F, 0xF0, 0xFF, 0},
		{"and resets flag", 0x8122, 0x3C, 0x0F, 0x0C, 0},
		{"xor resets flag", 0x8123, 0xFF, 0x0F, 0xF0, 0},
		{"add", 0x8124, 0x10, 0x20, 0x30, 0},
		{"add with carry", 0x8124, 0xFF, 0x02, 0x01, 1},
		{"sub", 0x8125, 5, 3, 2, 1},
		{"sub equal", 0x8125, 5, 5, 0, 1},
		{"sub with borrow", 0x8125, 3, 5, 0xFE, 0},
		{"shr odd", 0x8126, 0x05, 0xFF, 0x02, 1},
		{"shr even", 0x8126, 0x04, 0xFF, 0x02, 0},
		{"subn", 0x8127, 3, 5, 2, 1},
		{"subn with borrow", 0x8127, 5, 3, 0xFE, 0},
		{"shl high bit", 0x812E, 0x81, 0x00, 0x02, 1},
		{"shl", 0x812E, 0x01, 0x00, 0x02, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(t, tt.raw)
			bus.Registers.SetV(1, tt.vx)
			bus.Registers.SetV(2, tt.vy)
			bus.Registers.SetV(register.Flag, 0x09)

			step(t, c, 1)
			assert.Equal(t, tt.wantVX, bus.Registers.V(1))
			assert.Equal(t, tt.wantVF, bus.Registers.V(register.Flag))
			assert.Equal(t, tt.vy, bus.Registers.V(2))
		})
	}
}

func TestStep_FlagWrittenAfterResult(t *testing.T) {
	c, bus := newTestCPU(t, 0x8F14, 0x8F06)
	bus.Registers.SetV(register.Flag, 0xFF)
	bus.Registers.SetV(1, 0x01)

	// 0xFF + 0x01 leaves 0x00 in VF, the carry overwrites it
	step(t, c, 1)
	assert.Equal(t, uint8(1), bus.Registers.V(register.Flag))

	bus.Registers.SetV(register.Flag, 0x02)
	step(t, c, 1)
	assert.Equal(t, uint8(0), bus.Registers.V(register.Flag))
}

func TestStep_Index(t *testing.T) {
	c, bus := newTestCPU(t, 0xA300, 0xF31E, 0xF329)
	bus.Registers.SetV(3, 0x1A)

	step(t, c, 1)
	assert.Equal(t, uint16(0x300), bus.Registers.I())

	step(t, c, 1)
	assert.Equal(t, uint16(0x31A), bus.Registers.I())

	// only the low nibble selects the glyph
	step(t, c, 1)
	assert.Equal(t, memory.FontAddress(0xA), bus.Registers.I())
}

func TestStep_Random(t *testing.T) {
	c, bus := newTestCPU(t, 0xC10F, 0xC200)

	step(t, c, 2)
	assert.Equal(t, uint8(0x05), bus.Registers.V(1))
	assert.Equal(t, uint8(0), bus.Registers.V(2))
}

func TestStep_DrawCollision(t *testing.T) {
	// I is 0 and points to the glyph for digit 0
	c, bus := newTestCPU(t, 0xD015, 0xD015)

	step(t, c, 1)
	frame := bus.Display.Frame()
	assert.Equal(t, 14, frame.Lit())
	assert.True(t, frame.Pixel(0, 0))
	assert.True(t, frame.Pixel(3, 4))
	assert.False(t, frame.Pixel(1, 1))
	assert.Equal(t, uint8(0), bus.Registers.V(register.Flag))

	step(t, c, 1)
	assert.Equal(t, 0, bus.Display.Frame().Lit())
	assert.Equal(t, uint8(1), bus.Registers.V(register.Flag))
}

func TestStep_DrawWrapsOrigin(t *testing.T) {
	c, bus := newTestCPU(t, 0xD011)
	bus.Registers.SetV(0, display.Width+62)
	bus.Registers.SetV(1, display.Height+31)
	bus.Registers.SetI(memory.ProgramStart + 0x100)
	assert.NoError(t, bus.Memory.WriteByte(memory.ProgramStart+0x100, 0xF0))

	step(t, c, 1)
	frame := bus.Display.Frame()
	assert.True(t, frame.Pixel(62, 31))
	assert.True(t, frame.Pixel(63, 31))
	assert.True(t, frame.Pixel(0, 31))
	assert.True(t, frame.Pixel(1, 31))
	assert.Equal(t, 4, frame.Lit())
}

func TestStep_DrawOutOfBounds(t *testing.T) {
	c, bus := newTestCPU(t, 0xD013)
	bus.Registers.SetI(memory.MaxAddress - 1)
	before := takeSnapshot(bus)

	_, err := c.Step()
	assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))
	assertUnchanged(t, before, bus)
}

func TestStep_KeySkips(t *testing.T) {
	c, bus := newTestCPU(t, 0xE39E, 0x0000, 0xE3A1)
	bus.Registers.SetV(3, 0x17) // key 7
	assert.NoError(t, bus.Keypad.Set(7, true))

	step(t, c, 1)
	assert.Equal(t, uint16(0x204), bus.Registers.PC())

	step(t, c, 1)
	assert.Equal(t, uint16(0x206), bus.Registers.PC())

	c, bus = newTestCPU(t, 0xE39E, 0xE3A1)
	bus.Registers.SetV(3, 7)

	step(t, c, 1)
	assert.Equal(t, uint16(0x202), bus.Registers.PC())

	step(t, c, 1)
	assert.Equal(t, uint16(0x206), bus.Registers.PC())
}

func TestStep_Timers(t *testing.T) {
	c, bus := newTestCPU(t, 0xF315, 0xF318, 0xF407)
	bus.Registers.SetV(3, 0x20)

	step(t, c, 2)
	assert.Equal(t, uint8(0x20), bus.Registers.DelayTimer())
	assert.Equal(t, uint8(0x20), bus.Registers.SoundTimer())

	bus.Registers.TickTimers()
	step(t, c, 1)
	assert.Equal(t, uint8(0x1F), bus.Registers.V(4))
}

func TestStep_BCD(t *testing.T) {
	c, bus := newTestCPU(t, 0xF233)
	bus.Registers.SetV(2, 254)
	bus.Registers.SetI(0x300)

	step(t, c, 1)
	digits, err := bus.Memory.Slice(0x300, 3)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{2, 5, 4}, digits))
	assert.Equal(t, uint16(0x300), bus.Registers.I())
}

func TestStep_StoreAndLoadRegisters(t *testing.T) {
	c, bus := newTestCPU(t, 0xF255, 0xA300, 0xF265)
	bus.Registers.SetV(0, 1)
	bus.Registers.SetV(1, 2)
	bus.Registers.SetV(2, 3)
	bus.Registers.SetV(3, 4)
	bus.Registers.SetI(0x300)

	step(t, c, 1)
	data, err := bus.Memory.Slice(0x300, 4)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{1, 2, 3, 0}, data))
	assert.Equal(t, uint16(0x303), bus.Registers.I())

	for x := range uint8(3) {
		bus.Registers.SetV(x, 0)
	}
	step(t, c, 2)
	assert.Equal(t, uint8(1), bus.Registers.V(0))
	assert.Equal(t, uint8(2), bus.Registers.V(1))
	assert.Equal(t, uint8(3), bus.Registers.V(2))
	assert.Equal(t, uint8(4), bus.Registers.V(3))
	assert.Equal(t, uint16(0x303), bus.Registers.I())
}

func TestStep_StoreRegistersOutOfBounds(t *testing.T) {
	c, bus := newTestCPU(t, 0xF255)
	bus.Registers.SetI(memory.MaxAddress - 1)
	before := takeSnapshot(bus)

	_, err := c.Step()
	assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))
	assertUnchanged(t, before, bus)
}

func TestStep_WaitForKey(t *testing.T) {
	c, bus := newTestCPU(t, 0xF30A)

	// a key held before the wait began does not count
	assert.NoError(t, bus.Keypad.Set(5, true))

	for range 3 {
		outcome, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, Waiting, outcome)
		assert.Equal(t, uint16(0x200), bus.Registers.PC())
	}
	assert.True(t, bus.Keypad.Waiting())
	assert.Empty(t, c.History())

	assert.NoError(t, bus.Keypad.Set(7, true))
	assert.NoError(t, bus.Keypad.Set(9, true))

	outcome, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, Executed, outcome)
	assert.Equal(t, uint8(7), bus.Registers.V(3))
	assert.Equal(t, uint16(0x202), bus.Registers.PC())
	assert.False(t, bus.Keypad.Waiting())
}

func TestCPU_History(t *testing.T) {
	c, bus := newTestCPU(t, 0x6001, 0x6102, 0x1200)

	step(t, c, 3)
	history := c.History()
	assert.Len(t, history, 3)
	assert.Equal(t, uint16(0x204), history[0].Address)
	assert.Equal(t, OpJP, history[0].Instruction.Op)
	assert.Equal(t, uint16(0x200), history[2].Address)

	step(t, c, 2*HistorySize)
	assert.Len(t, c.History(), HistorySize)

	c.Plumb(bus)
	assert.Empty(t, c.History())
}

func TestCPU_Trace(t *testing.T) {
	c, bus := newTestCPU(t, 0x6A05)
	c.SetTrace(true)

	step(t, c, 1)
	assert.Equal(t, uint8(5), bus.Registers.V(0xA))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "executed", Executed.String())
	assert.Equal(t, "waiting", Waiting.String())
}
