package cpu

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies a decoded instruction variant.
type Op uint8

// Supported instruction variants, named after their opcode pattern.
const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xkk
	OpSNEByte    // 4xkk
	OpSEReg      // 5xy0
	OpLDByte     // 6xkk
	OpADDByte    // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDIVx     // Fx1E
	OpLDFVx      // Fx29
	OpLDBVx      // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65

	opCount
)

// ops maps the opcode patterns of the retrogolib CHIP-8 instruction set to
// instruction variants.
var ops = map[chip8.OpcodeInfo]Op{
	chip8.Opcode00E0: OpCLS,
	chip8.Opcode00EE: OpRET,
	chip8.Opcode1000: OpJP,
	chip8.Opcode2000: OpCALL,
	chip8.Opcode3000: OpSEByte,
	chip8.Opcode4000: OpSNEByte,
	chip8.Opcode5000: OpSEReg,
	chip8.Opcode6000: OpLDByte,
	chip8.Opcode7000: OpADDByte,
	chip8.Opcode8000: OpLDReg,
	chip8.Opcode8001: OpOR,
	chip8.Opcode8002: OpAND,
	chip8.Opcode8003: OpXOR,
	chip8.Opcode8004: OpADDReg,
	chip8.Opcode8005: OpSUB,
	chip8.Opcode8006: OpSHR,
	chip8.Opcode8007: OpSUBN,
	chip8.Opcode800E: OpSHL,
	chip8.Opcode9000: OpSNEReg,
	chip8.OpcodeA000: OpLDI,
	chip8.OpcodeB000: OpJPV0,
	chip8.OpcodeC000: OpRND,
	chip8.OpcodeD000: OpDRW,
	chip8.OpcodeE09E: OpSKP,
	chip8.OpcodeE0A1: OpSKNP,
	chip8.OpcodeF007: OpLDVxDT,
	chip8.OpcodeF00A: OpLDVxK,
	chip8.OpcodeF015: OpLDDTVx,
	chip8.OpcodeF018: OpLDSTVx,
	chip8.OpcodeF01E: OpADDIVx,
	chip8.OpcodeF029: OpLDFVx,
	chip8.OpcodeF033: OpLDBVx,
	chip8.OpcodeF055: OpLDIVx,
	chip8.OpcodeF065: OpLDVxI,
}

// instructions indexes the retrogolib instruction of every variant.
var instructions = func() [opCount]*chip8.Instruction {
	var index [opCount]*chip8.Instruction
	for _, opcodes := range chip8.Opcodes {
		for _, opcode := range opcodes {
			if op, ok := ops[opcode.Info]; ok {
				index[op] = opcode.Instruction
			}
		}
	}
	return index
}()

var patterns = [opCount]string{
	OpCLS:     "00E0",
	OpRET:     "00EE",
	OpJP:      "1nnn",
	OpCALL:    "2nnn",
	OpSEByte:  "3xkk",
	OpSNEByte: "4xkk",
	OpSEReg:   "5xy0",
	OpLDByte:  "6xkk",
	OpADDByte: "7xkk",
	OpLDReg:   "8xy0",
	OpOR:      "8xy1",
	OpAND:     "8xy2",
	OpXOR:     "8xy3",
	OpADDReg:  "8xy4",
	OpSUB:     "8xy5",
	OpSHR:     "8xy6",
	OpSUBN:    "8xy7",
	OpSHL:     "8xyE",
	OpSNEReg:  "9xy0",
	OpLDI:     "Annn",
	OpJPV0:    "Bnnn",
	OpRND:     "Cxkk",
	OpDRW:     "Dxyn",
	OpSKP:     "Ex9E",
	OpSKNP:    "ExA1",
	OpLDVxDT:  "Fx07",
	OpLDVxK:   "Fx0A",
	OpLDDTVx:  "Fx15",
	OpLDSTVx:  "Fx18",
	OpADDIVx:  "Fx1E",
	OpLDFVx:   "Fx29",
	OpLDBVx:   "Fx33",
	OpLDIVx:   "Fx55",
	OpLDVxI:   "Fx65",
}

// String returns the opcode pattern of the variant, for example "8xy4".
func (o Op) String() string {
	if o == OpInvalid || o >= opCount {
		return "invalid"
	}
	return patterns[o]
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op  Op
	Raw uint16 // the undecoded word

	X   uint8  // register index in bits 8-11
	Y   uint8  // register index in bits 4-7
	N   uint8  // 4 bit constant in bits 0-3
	NN  uint8  // 8 bit constant in bits 0-7
	NNN uint16 // 12 bit address in bits 0-11
}

// Decode decodes an instruction word using the retrogolib CHIP-8 opcode
// table. Unknown bit patterns return an *UnknownInstructionError.
func Decode(raw uint16) (Instruction, error) {
	for _, opcode := range chip8.Opcodes[raw>>12] {
		if raw&opcode.Info.Mask != opcode.Info.Value {
			continue
		}
		op, ok := ops[opcode.Info]
		if !ok {
			continue
		}
		return Instruction{
			Op:  op,
			Raw: raw,
			X:   uint8(raw>>8) & 0x0F,
			Y:   uint8(raw>>4) & 0x0F,
			N:   uint8(raw) & 0x0F,
			NN:  uint8(raw),
			NNN: raw & 0x0FFF,
		}, nil
	}
	return Instruction{}, &UnknownInstructionError{Opcode: raw}
}

// Mnemonic returns the assembler mnemonic of the instruction as named by the
// retrogolib CHIP-8 instruction set, or an empty string for invalid ones.
func (i Instruction) Mnemonic() string {
	if i.Op == OpInvalid || i.Op >= opCount {
		return ""
	}
	return instructions[i.Op].Name
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	if i.Op == OpInvalid || i.Op >= opCount {
		return fmt.Sprintf(".word $%04X", i.Raw)
	}
	mnemonic := i.Mnemonic()
	params := i.operands()
	if params == "" {
		return mnemonic
	}
	return mnemonic + " " + params
}

// operands formats the parameters of the instruction.
func (i Instruction) operands() string {
	switch i.Op {
	case OpCLS, OpRET:
		return ""
	case OpJP, OpCALL:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpJPV0:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("V%X, $%02X", i.X, i.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", i.X)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	default:
		return i.timerOperands()
	}
}

// timerOperands formats the parameters of the Fxkk instructions.
func (i Instruction) timerOperands() string {
	var sb strings.Builder
	switch i.Op {
	case OpLDVxDT:
		fmt.Fprintf(&sb, "V%X, DT", i.X)
	case OpLDVxK:
		fmt.Fprintf(&sb, "V%X, K", i.X)
	case OpLDDTVx:
		fmt.Fprintf(&sb, "DT, V%X", i.X)
	case OpLDSTVx:
		fmt.Fprintf(&sb, "ST, V%X", i.X)
	case OpADDIVx:
		fmt.Fprintf(&sb, "I, V%X", i.X)
	case OpLDFVx:
		fmt.Fprintf(&sb, "F, V%X", i.X)
	case OpLDBVx:
		fmt.Fprintf(&sb, "B, V%X", i.X)
	case OpLDIVx:
		fmt.Fprintf(&sb, "[I], V%X", i.X)
	case OpLDVxI:
		fmt.Fprintf(&sb, "V%X, [I]", i.X)
	}
	return sb.String()
}

// IsControlFlow returns whether the instruction sets PC directly.
func (i Instruction) IsControlFlow() bool {
	switch i.Op {
	case OpJP, OpJPV0, OpCALL, OpRET:
		return true
	default:
		return false
	}
}

// IsSkip returns whether the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	switch i.Op {
	case OpSEByte, OpSNEByte, OpSEReg, OpSNEReg, OpSKP, OpSKNP:
		return true
	default:
		return false
	}
}
