// Package input implements the 16 key CHIP-8 keypad and the latch used by
// the wait-for-key instruction.
package input

import "fmt"

// KeyCount is the number of keys of the keypad.
const KeyCount = 16

// State is a copy of the keypad state including the key wait latch.
type State struct {
	Keys       [KeyCount]bool
	Waiting    bool  // a wait-for-key instruction is pending
	Latched    bool  // a key went down while waiting
	LatchedKey uint8 // the key that went down
}

// Keypad holds the pressed state of all keys.
type Keypad struct {
	keys [KeyCount]bool

	waiting    bool
	latched    bool
	latchedKey uint8
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// FromState returns a keypad initialized from a state.
func FromState(s State) (*Keypad, error) {
	if s.LatchedKey >= KeyCount {
		return nil, fmt.Errorf("latched key %d out of range", s.LatchedKey)
	}
	if s.Latched && !s.Waiting {
		return nil, fmt.Errorf("key %X latched without a pending wait", s.LatchedKey)
	}
	return &Keypad{
		keys:       s.Keys,
		waiting:    s.Waiting,
		latched:    s.Latched,
		latchedKey: s.LatchedKey,
	}, nil
}

// Set updates the pressed state of a key. A key going down while a wait is
// pending is latched, the first latched key wins.
func (k *Keypad) Set(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("key %d out of range 0-%X", key, KeyCount-1)
	}
	wasPressed := k.keys[key]
	k.keys[key] = pressed

	if pressed && !wasPressed && k.waiting && !k.latched {
		k.latched = true
		k.latchedKey = key
	}
	return nil
}

// Pressed returns whether the low nibble of key is pressed.
func (k *Keypad) Pressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// BeginWait arms the latch. Calling it while already waiting keeps any
// latched key.
func (k *Keypad) BeginWait() {
	if k.waiting {
		return
	}
	k.waiting = true
	k.latched = false
	k.latchedKey = 0
}

// Waiting returns whether a wait is pending.
func (k *Keypad) Waiting() bool {
	return k.waiting
}

// TakePress returns the latched key and ends the wait. It returns false if
// no key went down since the wait began.
func (k *Keypad) TakePress() (uint8, bool) {
	if !k.waiting || !k.latched {
		return 0, false
	}
	key := k.latchedKey
	k.waiting = false
	k.latched = false
	k.latchedKey = 0
	return key, true
}

// ReleaseAll releases all keys without touching the wait latch.
func (k *Keypad) ReleaseAll() {
	k.keys = [KeyCount]bool{}
}

// State returns a copy of the keypad state.
func (k *Keypad) State() State {
	return State{
		Keys:       k.keys,
		Waiting:    k.waiting,
		Latched:    k.latched,
		LatchedKey: k.latchedKey,
	}
}
