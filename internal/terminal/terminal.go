// Package terminal implements an interactive frontend that renders the
// framebuffer in a terminal and maps the keyboard to the CHIP-8 keypad.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/screen"
)

// holdFrames is the number of frames a key stays pressed after its last
// key event. Terminals only report presses and auto repeats.
const holdFrames = 8

const eventBuffer = 64

// keymap maps the left hand side of a QWERTY keyboard to the COSMAC VIP
// keypad layout.
var keymap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal is a runner frontend based on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	held  map[uint8]int // key to remaining frames
	style tcell.Style
}

// New initializes the terminal screen and starts reading its events.
func New() (*Terminal, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(scr)
}

// NewWithScreen initializes the given screen and starts reading its events.
func NewWithScreen(scr tcell.Screen) (*Terminal, error) {
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	scr.HideCursor()
	scr.Clear()

	t := &Terminal{
		screen: scr,
		events: make(chan tcell.Event, eventBuffer),
		done:   make(chan struct{}),
		held:   map[uint8]int{},
		style:  tcell.StyleDefault,
	}
	go t.readEvents()
	return t, nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	close(t.done)
	t.screen.Fini()
}

func (t *Terminal) readEvents() {
	for {
		event := t.screen.PollEvent()
		if event == nil {
			return // screen finalized
		}
		select {
		case t.events <- event:
		case <-t.done:
			return
		}
	}
}

// PollEvents returns the host events received since the last call and the
// releases of keys whose hold time ran out.
func (t *Terminal) PollEvents() []runner.Event {
	var events []runner.Event

	for key, frames := range t.held {
		if frames <= 1 {
			delete(t.held, key)
			events = append(events, runner.Event{Key: key, Pressed: false})
			continue
		}
		t.held[key] = frames - 1
	}

	for {
		select {
		case event := <-t.events:
			if converted, ok := t.translate(event); ok {
				events = append(events, converted)
			}
		default:
			return events
		}
	}
}

// translate converts a terminal event, it returns false for events that do
// not map to a host event.
func (t *Terminal) translate(event tcell.Event) (runner.Event, bool) {
	switch ev := event.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		return runner.Event{}, false

	case *tcell.EventKey:
		return t.translateKey(ev)

	default:
		return runner.Event{}, false
	}
}

func (t *Terminal) translateKey(ev *tcell.EventKey) (runner.Event, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return runner.Event{Command: runner.Quit}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return runner.Event{Command: runner.Reset}, true
	case tcell.KeyF5:
		return runner.Event{Command: runner.QuickSave}, true
	case tcell.KeyF9:
		return runner.Event{Command: runner.QuickLoad}, true
	case tcell.KeyRune:
	default:
		return runner.Event{}, false
	}

	r := ev.Rune()
	switch r {
	case ' ':
		return runner.Event{Command: runner.TogglePause}, true
	case '.':
		return runner.Event{Command: runner.StepInstruction}, true
	}

	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	key, ok := keymap[r]
	if !ok {
		return runner.Event{}, false
	}

	_, repeat := t.held[key]
	t.held[key] = holdFrames
	if repeat {
		return runner.Event{}, false
	}
	return runner.Event{Key: key, Pressed: true}, true
}

// Render draws the framebuffer with two pixel rows per character cell and
// a status area below it.
func (t *Terminal) Render(view runner.View) error {
	for row := range display.Height / 2 {
		for x := range display.Width {
			top := view.Frame.Pixel(x, row*2)
			bottom := view.Frame.Pixel(x, row*2+1)
			t.screen.SetContent(x, row, screen.Cell(top, bottom), nil, t.style)
		}
	}

	regs := view.Registers
	line := display.Height / 2
	t.printLine(line, fmt.Sprintf("PC %03X  I %03X  SP %2d  DT %3d  ST %3d  %d Hz",
		regs.PC, regs.I, regs.SP, regs.Delay, regs.Sound, view.Speed))

	var registers string
	for i, v := range regs.V {
		registers += fmt.Sprintf("V%X %02X ", i, v)
	}
	t.printLine(line+1, registers)
	t.printLine(line+2, status(view))

	t.screen.Show()
	return nil
}

func (t *Terminal) printLine(y int, text string) {
	width, _ := t.screen.Size()
	x := 0
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, t.style)
		x++
	}
	for ; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, t.style)
	}
}

func status(view runner.View) string {
	state := "running"
	switch {
	case view.Paused:
		state = "paused"
	case view.Waiting:
		state = "waiting for key"
	}
	if view.Sound {
		state += ", beep"
	}
	if view.Message != "" {
		state += " - " + view.Message
	}
	return "[" + state + "]  esc quit  space pause  . step  bksp reset  F5 save  F9 load"
}
