// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"fmt"

	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/chip8vm/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// Hooks connects the host outputs to a run. All fields are optional, a run
// without frontend is headless.
type Hooks struct {
	Frontend  runner.Frontend
	Tone      runner.ToneSink
	QuickSave func(*snapshot.State) error
}

// Result describes a finished run.
type Result struct {
	Input    detector.Input
	Machine  *machine.Machine
	Executed uint64 // number of executed instructions
}

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute detects and loads the input and runs it until the run ends.
// Once the machine is running a result is returned even if the run ended
// with an error, so the final state can be inspected.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emuOpts options.Emulator, hooks Hooks) (*Result, error) {
	input, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting input: %w", err)
	}

	m := machine.New(p.logger, machine.Options{
		Seed:  emuOpts.Seed,
		Trace: emuOpts.Trace,
	})
	program, err := p.load(m, input)
	if err != nil {
		return nil, err
	}

	clock, err := timer.NewClock(emuOpts.Speed)
	if err != nil {
		return nil, fmt.Errorf("creating clock: %w", err)
	}

	r := runner.New(p.logger, m, clock, program, runnerOptions(hooks)...)
	p.printInfo(opts, input, emuOpts)

	if emuOpts.Headless || hooks.Frontend == nil {
		err = r.RunHeadless(ctx, emuOpts.Cycles)
	} else {
		err = r.Run(ctx, emuOpts.Frame)
	}

	result := &Result{
		Input:    input,
		Machine:  m,
		Executed: r.Executed(),
	}
	if err != nil {
		return result, fmt.Errorf("emulating: %w", err)
	}
	return result, nil
}

// load loads the input into the machine. It returns the program for ROM
// inputs and nil for state files.
func (p *Pipeline) load(m *machine.Machine, input detector.Input) ([]byte, error) {
	switch input.Kind {
	case detector.ROM:
		program, err := p.loader.LoadROM(input.Path)
		if err != nil {
			return nil, fmt.Errorf("loading program: %w", err)
		}
		if err := m.LoadProgram(program); err != nil {
			return nil, fmt.Errorf("loading program: %w", err)
		}
		return program, nil

	case detector.State:
		state, err := p.loader.LoadState(input.Path)
		if err != nil {
			return nil, fmt.Errorf("loading state: %w", err)
		}
		if err := m.Restore(state); err != nil {
			return nil, fmt.Errorf("loading state: %w", err)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported input kind '%s'", input.Kind)
	}
}

func runnerOptions(hooks Hooks) []runner.Option {
	var opts []runner.Option
	if hooks.Frontend != nil {
		opts = append(opts, runner.WithFrontend(hooks.Frontend))
	}
	if hooks.Tone != nil {
		opts = append(opts, runner.WithToneSink(hooks.Tone))
	}
	if hooks.QuickSave != nil {
		opts = append(opts, runner.WithQuickSaveHandler(hooks.QuickSave))
	}
	return opts
}

// printInfo prints information about the input being run.
func (p *Pipeline) printInfo(opts options.Program, input detector.Input, emuOpts options.Emulator) {
	if opts.Quiet {
		return
	}

	if emuOpts.Headless {
		p.logger.Info("Running Chip-8 program headless",
			log.String("file", input.Path),
			log.Stringer("kind", input.Kind),
			log.Int("speed", emuOpts.Speed),
			log.Int("cycles", emuOpts.Cycles),
		)
		return
	}
	p.logger.Info("Running Chip-8 program",
		log.String("file", input.Path),
		log.Stringer("kind", input.Kind),
		log.Int("speed", emuOpts.Speed),
	)
}
