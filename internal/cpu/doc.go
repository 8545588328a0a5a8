// Package cpu implements the CHIP-8 instruction engine.
//
// # Cycle
//
// Each call of Step performs one fetch-decode-execute cycle:
//  1. Fetch the big endian 16 bit word at PC
//  2. Decode it into an Instruction, a tagged value holding the Op and all
//     operand fields. Decode is pure and does not touch machine state.
//  3. Execute the handler registered for the Op. Handlers validate every
//     memory range, stack operation and jump target before changing state,
//     so a faulting instruction leaves the machine untouched.
//
// All instructions except jumps, calls, returns and taken skips advance PC
// by 2. Jumps, calls and returns set PC directly, taken skips advance by 4.
// PC stays even and never passes MaxPC: an instruction whose next PC would
// be odd or out of range faults instead.
//
// # Quirks
//
// Historical interpreters disagree on a few instructions. This engine uses
// one fixed behavior for each:
//   - 8xy6 and 8xyE shift VX in place, VY is ignored
//   - Fx55 and Fx65 leave I pointing after the last register, I = I + x + 1
//   - Bnnn jumps to nnn + V0
//   - 8xy1, 8xy2 and 8xy3 reset VF to 0
//   - Dxyn wraps pixels past the right edge to column 0 of the same row and
//     rows past the bottom edge to row 0
//   - VF is written after the result, so VF as destination holds the flag
//   - Fx29 uses the low nibble of VX
//   - 0nnn machine code calls are not supported and decode as unknown
//
// # Key wait
//
// Fx0A does not block. The first execution arms the keypad latch and Step
// returns Waiting without advancing PC. Once a key went down the next Step
// stores it in VX and continues.
package cpu
