// Package fileprocessor handles running a file and writing the outputs of a run.
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/audio"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/pipeline"
	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/chip8vm/internal/statsview"
	"github.com/retroenv/chip8vm/internal/terminal"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete workflow of running a file: it sets up
// the requested outputs, runs the emulation and writes the results.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, emuOpts options.Emulator) (err error) {
	if opts.Statsview {
		server := statsview.Launch(logger)
		defer server.Stop()
	}

	var hooks pipeline.Hooks
	if opts.Wav != "" {
		recorder, createErr := audio.Create(opts.Wav)
		if createErr != nil {
			return fmt.Errorf("creating tone recording: %w", createErr)
		}
		defer func() {
			if closeErr := recorder.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("writing tone recording: %w", closeErr))
			}
		}()
		hooks.Tone = recorder
	}

	closeFrontend := func() {}
	if !emuOpts.Headless {
		term, termErr := terminal.New()
		if termErr != nil {
			return fmt.Errorf("creating terminal frontend: %w", termErr)
		}
		closeFrontend = term.Close
		defer func() { closeFrontend() }()
		hooks.Frontend = term
		hooks.QuickSave = quickSaver(logger, opts)
	}

	result, runErr := pipeline.New(logger).Execute(ctx, opts, emuOpts, hooks)

	// restore the terminal before anything gets printed
	closeFrontend()
	closeFrontend = func() {}

	if result != nil {
		reportFault(logger, result, runErr)
		if outErr := writeOutputs(logger, opts, result); outErr != nil {
			return errors.Join(runErr, outErr)
		}
		if !opts.Quiet && runErr == nil {
			logger.Info("Emulation finished", log.Int("instructions", int(result.Executed)))
		}
	}
	return runErr
}

// quickSaver returns a handler that persists quick saves next to the input.
func quickSaver(logger *log.Logger, opts options.Program) func(*snapshot.State) error {
	input := opts.Input
	if opts.Load != "" {
		input = opts.Load
	}
	path := config.StateFileName(input)
	files := loader.New()

	return func(state *snapshot.State) error {
		if err := files.SaveState(path, state); err != nil {
			return err
		}
		logger.Debug("Quick save written", log.String("file", path))
		return nil
	}
}

// reportFault logs the address and instruction of an engine fault together
// with the most recently executed instructions.
func reportFault(logger *log.Logger, result *pipeline.Result, err error) {
	var execErr *cpu.ExecutionError
	var unknownErr *cpu.UnknownInstructionError
	switch {
	case errors.As(err, &execErr):
		logger.Error("Program fault",
			log.Hex("address", execErr.Address),
			log.Hex("opcode", execErr.Instruction.Raw),
			log.String("instruction", execErr.Instruction.String()),
			log.Err(execErr.Err))
	case errors.As(err, &unknownErr):
		logger.Error("Program fault",
			log.Hex("address", unknownErr.Address),
			log.Hex("opcode", unknownErr.Opcode),
			log.Err(cpu.ErrUnknownInstruction))
	default:
		return
	}

	for _, trace := range result.Machine.History() {
		logger.Debug("Executed",
			log.Hex("address", trace.Address),
			log.String("instruction", trace.Instruction.String()))
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
