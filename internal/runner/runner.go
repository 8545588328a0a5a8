// Package runner implements the host loop that drives a machine in real
// time or headless with simulated time.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/register"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// Command is a host action requested by a frontend.
type Command int

// Host actions.
const (
	NoCommand Command = iota // the event is a key event
	Quit
	TogglePause
	StepInstruction // executes a single instruction while paused
	Reset
	QuickSave
	QuickLoad
)

// Event is a key state change or a command from a frontend.
type Event struct {
	Command Command
	Key     uint8
	Pressed bool
}

// View is everything a frontend shows for a frame.
type View struct {
	Frame     display.Frame
	Registers register.State
	Paused    bool
	Waiting   bool // the program waits for a key press
	Sound     bool
	Speed     int
	Message   string
}

// Frontend presents the machine and collects input.
type Frontend interface {
	// PollEvents returns the events that occurred since the last call
	// without blocking.
	PollEvents() []Event
	Render(view View) error
}

// ToneSink receives the sound timer state of every 60 Hz frame.
type ToneSink interface {
	Frame(active bool)
}

// Option configures a runner.
type Option func(*Runner)

// WithFrontend sets the frontend used for input and display.
func WithFrontend(frontend Frontend) Option {
	return func(r *Runner) {
		r.frontend = frontend
	}
}

// WithToneSink sets the receiver of the sound timer state.
func WithToneSink(sink ToneSink) Option {
	return func(r *Runner) {
		r.tone = sink
	}
}

// WithQuickSaveHandler sets a function that persists quick saves.
func WithQuickSaveHandler(handler func(*snapshot.State) error) Option {
	return func(r *Runner) {
		r.onQuickSave = handler
	}
}

// Runner is the host loop. It owns the machine while running.
type Runner struct {
	logger   *log.Logger
	machine  *machine.Machine
	clock    *timer.Clock
	frontend Frontend
	tone     ToneSink

	program     []byte          // reloaded on reset, nil if started from a state
	initial     *snapshot.State // restored on reset if there is no program
	quick       *snapshot.State
	onQuickSave func(*snapshot.State) error

	paused   bool
	waiting  bool
	message  string
	executed uint64
}

// New returns a runner for a machine that has its program or state loaded.
func New(logger *log.Logger, m *machine.Machine, clock *timer.Clock, program []byte, opts ...Option) *Runner {
	r := &Runner{
		logger:  logger,
		machine: m,
		clock:   clock,
		program: program,
	}
	if program == nil {
		r.initial = m.Capture()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Executed returns the number of instructions executed.
func (r *Runner) Executed() uint64 {
	return r.executed
}

// Run runs the machine in real time until the frontend requests to quit,
// the program faults or the context is canceled.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			quit, err := r.Frame(elapsed)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// RunHeadless runs the machine with simulated time, one timer tick per
// frame worth of instructions. A budget of 0 runs until the context is
// canceled.
func (r *Runner) RunHeadless(ctx context.Context, budget int) error {
	perFrame := r.clock.CyclesPerTick()

	for done := 0; budget == 0 || done < budget; done += perFrame {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := perFrame
		if budget > 0 && budget-done < n {
			n = budget - done
		}
		if err := r.execute(n); err != nil {
			return err
		}
		r.tickTimers(1)
	}
	return nil
}

// Frame processes pending events, runs the instructions and timer ticks that
// are due for the elapsed time and renders the result. It returns true if
// the frontend requested to quit.
func (r *Runner) Frame(elapsed time.Duration) (bool, error) {
	if r.frontend != nil {
		for _, event := range r.frontend.PollEvents() {
			quit, err := r.handleEvent(event)
			if quit || err != nil {
				return quit, err
			}
		}
	}

	cycles, ticks := r.clock.Advance(elapsed)
	if !r.paused {
		if err := r.execute(cycles); err != nil {
			return false, err
		}
		r.tickTimers(ticks)
	}

	return false, r.render()
}

// execute runs up to n instructions, it stops early while the program waits
// for a key.
func (r *Runner) execute(n int) error {
	for range n {
		outcome, err := r.machine.Step()
		if err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		if outcome == cpu.Waiting {
			r.waiting = true
			return nil
		}
		r.waiting = false
		r.executed++
	}
	return nil
}

func (r *Runner) tickTimers(n int) {
	for range n {
		if r.tone != nil {
			r.tone.Frame(r.machine.SoundActive())
		}
		r.machine.TickTimers()
	}
}

func (r *Runner) handleEvent(event Event) (bool, error) {
	switch event.Command {
	case NoCommand:
		if err := r.machine.SetKey(event.Key, event.Pressed); err != nil {
			return false, err
		}

	case Quit:
		return true, nil

	case TogglePause:
		r.paused = !r.paused
		r.clock.Reset()
		r.message = ""
		if r.paused {
			r.logger.Debug("Emulation paused")
		} else {
			r.logger.Debug("Emulation resumed")
		}

	case StepInstruction:
		if r.paused {
			if err := r.execute(1); err != nil {
				return false, err
			}
		}

	case Reset:
		if err := r.reset(); err != nil {
			return false, err
		}
		r.message = "Reset"

	case QuickSave:
		r.quickSave()

	case QuickLoad:
		r.quickLoad()
	}
	return false, nil
}

// reset reloads the program, or the initial state if the run started from a
// state file. Keys held by the frontend are released.
func (r *Runner) reset() error {
	r.waiting = false
	r.clock.Reset()
	if r.program == nil {
		if err := r.machine.Restore(r.initial); err != nil {
			return err
		}
		r.machine.ReleaseKeys()
		return nil
	}
	return r.machine.ResetAndLoad(r.program)
}

func (r *Runner) quickSave() {
	r.quick = r.machine.Capture()
	r.message = "State saved"

	if r.onQuickSave == nil {
		return
	}
	if err := r.onQuickSave(r.quick); err != nil {
		r.logger.Error("Saving state failed", log.Err(err))
		r.message = "Saving state failed"
	}
}

func (r *Runner) quickLoad() {
	if r.quick == nil {
		r.message = "No saved state"
		return
	}
	if err := r.machine.Restore(r.quick); err != nil {
		r.logger.Error("Loading state failed", log.Err(err))
		r.message = "Loading state failed"
		return
	}
	r.machine.ReleaseKeys()
	r.waiting = r.machine.Keypad().Waiting
	r.message = "State loaded"
}

func (r *Runner) render() error {
	if r.frontend == nil {
		return nil
	}
	view := View{
		Frame:     r.machine.Framebuffer(),
		Registers: r.machine.Registers(),
		Paused:    r.paused,
		Waiting:   r.waiting,
		Sound:     r.machine.SoundActive(),
		Speed:     r.clock.Speed(),
		Message:   r.message,
	}
	if err := r.frontend.Render(view); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}
