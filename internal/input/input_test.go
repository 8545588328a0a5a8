package input

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypad_Set(t *testing.T) {
	k := New()

	assert.NoError(t, k.Set(0xA, true))
	assert.True(t, k.Pressed(0xA))
	assert.False(t, k.Pressed(0xB))

	assert.NoError(t, k.Set(0xA, false))
	assert.False(t, k.Pressed(0xA))

	assert.Error(t, k.Set(KeyCount, true))
}

func TestKeypad_WaitLatchesKeyDownTransition(t *testing.T) {
	k := New()

	// a key held before the wait started does not satisfy it
	assert.NoError(t, k.Set(1, true))
	k.BeginWait()
	_, ok := k.TakePress()
	assert.False(t, ok)
	assert.True(t, k.Waiting())

	// repeated press state for an already held key is no transition
	assert.NoError(t, k.Set(1, true))
	_, ok = k.TakePress()
	assert.False(t, ok)

	assert.NoError(t, k.Set(7, true))
	assert.NoError(t, k.Set(8, true))

	// arming again while waiting keeps the latch
	k.BeginWait()

	key, ok := k.TakePress()
	assert.True(t, ok)
	assert.Equal(t, uint8(7), key)
	assert.False(t, k.Waiting())

	_, ok = k.TakePress()
	assert.False(t, ok)
}

func TestKeypad_NoLatchWithoutWait(t *testing.T) {
	k := New()
	assert.NoError(t, k.Set(3, true))

	_, ok := k.TakePress()
	assert.False(t, ok)
	assert.False(t, k.State().Latched)
}

func TestKeypad_StateRoundTrip(t *testing.T) {
	k := New()
	assert.NoError(t, k.Set(2, true))
	k.BeginWait()
	assert.NoError(t, k.Set(5, true))

	s := k.State()
	assert.True(t, s.Waiting)
	assert.True(t, s.Latched)
	assert.Equal(t, uint8(5), s.LatchedKey)

	restored, err := FromState(s)
	assert.NoError(t, err)
	assert.Equal(t, s, restored.State())
}

func TestFromState_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"latched key out of range", State{Waiting: true, Latched: true, LatchedKey: 16}},
		{"latched without wait", State{Latched: true, LatchedKey: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromState(tt.state)
			assert.Error(t, err)
		})
	}
}

func TestKeypad_ReleaseAll(t *testing.T) {
	k := New()
	assert.NoError(t, k.Set(0, true))
	assert.NoError(t, k.Set(0xF, true))

	k.ReleaseAll()
	assert.Equal(t, [KeyCount]bool{}, k.State().Keys)
}
