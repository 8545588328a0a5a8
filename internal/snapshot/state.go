// Package snapshot contains the saved state of a machine and its file codec.
package snapshot

//go:generate go run github.com/tinylib/msgp@v1.2.5 -io=false -tests=false

import (
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/register"
)

// State is a deep copy of everything that defines a running machine.
// The instruction history is not part of it.
type State struct {
	Memory    [memory.Size]byte      `msg:"memory"`
	Registers Registers              `msg:"registers"`
	Frame     [display.Height]uint64 `msg:"frame"`
	Input     Input                  `msg:"input"`
	Random    []byte                 `msg:"random"` // binary encoded random generator state
}

// Registers mirrors register.State field by field so that the two convert.
type Registers struct {
	V     [register.Count]byte        `msg:"v"`
	I     uint16                      `msg:"i"`
	PC    uint16                      `msg:"pc"`
	SP    uint8                       `msg:"sp"`
	Stack [register.StackDepth]uint16 `msg:"stack"`
	Delay uint8                       `msg:"delay"`
	Sound uint8                       `msg:"sound"`
}

// Input mirrors input.State field by field so that the two convert.
type Input struct {
	Keys       [input.KeyCount]bool `msg:"keys"`
	Waiting    bool                 `msg:"waiting"`
	Latched    bool                 `msg:"latched"`
	LatchedKey uint8                `msg:"latchedKey"`
}

// fields lists the keys a state body must contain.
var fields = [...]string{"memory", "registers", "frame", "input", "random"}
