// Package main implements a CHIP-8 ROM disassembler
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	quiet bool

	noHexComments bool
	noOffsets     bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner()
	}

	if err := disasmFile(options); err != nil {
		fmt.Println(fmt.Errorf("disassembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.BoolVar(&options.noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&options.noOffsets, "nooffsets", false, "do not output addresses in comments")
	flags.StringVar(&options.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: chip8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner() {
	fmt.Println("[---------------------------------------]")
	fmt.Println("[ chip8disasm - CHIP-8 ROM disassembler ]")
	fmt.Printf("[---------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func disasmFile(options optionFlags) (err error) {
	program, err := loader.New().LoadROM(options.input)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var outputFile io.WriteCloser
	if options.output == "" {
		outputFile = os.Stdout
	} else {
		outputFile, err = os.Create(options.output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
	}

	listing := newListing(program, listingOptions{
		hexComments:    !options.noHexComments,
		offsetComments: !options.noOffsets,
	})
	if err = listing.write(outputFile); err != nil {
		return fmt.Errorf("processing file: %w", err)
	}
	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}
