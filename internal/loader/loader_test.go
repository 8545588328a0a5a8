package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoadROM(t *testing.T) {
	t.Run("load program", func(t *testing.T) {
		tmpFile := createTempFile(t, "pong.ch8", []byte{0x00, 0xE0, 0x12, 0x00})

		program, err := New().LoadROM(tmpFile)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal([]byte{0x00, 0xE0, 0x12, 0x00}, program))
	})

	t.Run("largest program", func(t *testing.T) {
		tmpFile := createTempFile(t, "large.ch8", make([]byte, memory.MaxProgramSize))

		program, err := New().LoadROM(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, program, memory.MaxProgramSize)
	})

	t.Run("program too large", func(t *testing.T) {
		tmpFile := createTempFile(t, "huge.ch8", make([]byte, memory.MaxProgramSize+1))

		_, err := New().LoadROM(tmpFile)
		assert.True(t, errors.Is(err, memory.ErrAddressOutOfBounds))
	})

	t.Run("empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, "empty.ch8", nil)

		_, err := New().LoadROM(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyProgram))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().LoadROM(filepath.Join(t.TempDir(), "missing.ch8"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestSaveAndLoadState(t *testing.T) {
	state := &snapshot.State{Random: []byte{1, 2}}
	state.Registers.PC = 0x2A0
	state.Memory[0x2A0] = 0x12

	path := filepath.Join(t.TempDir(), "game.c8s")
	l := New()
	assert.NoError(t, l.SaveState(path, state))

	loaded, err := l.LoadState(path)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x2A0), loaded.Registers.PC)
	assert.Equal(t, byte(0x12), loaded.Memory[0x2A0])
}

func TestLoadState_ForeignFile(t *testing.T) {
	tmpFile := createTempFile(t, "pong.c8s", []byte{0x00, 0xE0, 0x12, 0x00})

	_, err := New().LoadState(tmpFile)
	assert.True(t, errors.Is(err, snapshot.ErrInvalidFormat))
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
