package register

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestFile_StackDiscipline(t *testing.T) {
	f := New(0x200)

	for i := range StackDepth {
		assert.NoError(t, f.Push(uint16(0x200+2*i)))
	}
	assert.Equal(t, uint8(StackDepth), f.SP())

	err := f.Push(0x300)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackDepth), f.SP())

	for i := StackDepth - 1; i >= 0; i-- {
		addr, err := f.Pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x200+2*i), addr)
	}

	_, err = f.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint8(0), f.SP())
}

func TestFile_GeneralRegisters(t *testing.T) {
	f := New(0x200)

	f.SetV(0xA, 5)
	f.SetV(Flag, 1)
	assert.Equal(t, uint8(5), f.V(0xA))
	assert.Equal(t, uint8(1), f.V(Flag))

	// only the low nibble selects the register
	assert.Equal(t, uint8(5), f.V(0x1A))
}

func TestFile_TickTimers(t *testing.T) {
	tests := []struct {
		name      string
		delay     uint8
		sound     uint8
		wantDelay uint8
		wantSound uint8
	}{
		{"both zero", 0, 0, 0, 0},
		{"both active", 10, 3, 9, 2},
		{"delay only", 1, 0, 0, 0},
		{"sound only", 0, 255, 0, 254},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(0x200)
			f.SetDelayTimer(tt.delay)
			f.SetSoundTimer(tt.sound)

			f.TickTimers()

			assert.Equal(t, tt.wantDelay, f.DelayTimer())
			assert.Equal(t, tt.wantSound, f.SoundTimer())
		})
	}
}

func TestFile_StateRoundTrip(t *testing.T) {
	f := New(0x234)
	f.SetV(3, 0x33)
	f.SetI(0x456)
	f.SetDelayTimer(7)
	f.SetSoundTimer(9)
	assert.NoError(t, f.Push(0x202))

	s := f.State()
	g, err := FromState(s)
	assert.NoError(t, err)
	assert.Equal(t, s, g.State())

	// the state is a copy
	f.SetV(3, 0)
	assert.Equal(t, uint8(0x33), s.V[3])
}

func TestFromState_InvalidStackPointer(t *testing.T) {
	_, err := FromState(State{SP: StackDepth + 1})
	assert.Error(t, err)
}

func TestFile_PeekKeepsEntry(t *testing.T) {
	f := New(0x200)

	_, err := f.Peek()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	assert.NoError(t, f.Push(0x202))
	addr, err := f.Peek()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), addr)
	assert.Equal(t, uint8(1), f.SP())
}
