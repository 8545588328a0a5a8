package cpu

import (
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/register"
)

// handler executes a decoded instruction and returns how PC changes.
type handler func(c *CPU, ins Instruction) (flow, error)

// handlers is the dispatch table, indexed by Op.
var handlers = [opCount]handler{
	OpCLS:     cls,
	OpRET:     ret,
	OpJP:      jp,
	OpCALL:    call,
	OpSEByte:  seByte,
	OpSNEByte: sneByte,
	OpSEReg:   seReg,
	OpLDByte:  ldByte,
	OpADDByte: addByte,
	OpLDReg:   ldReg,
	OpOR:      or,
	OpAND:     and,
	OpXOR:     xor,
	OpADDReg:  addReg,
	OpSUB:     sub,
	OpSHR:     shr,
	OpSUBN:    subn,
	OpSHL:     shl,
	OpSNEReg:  sneReg,
	OpLDI:     ldI,
	OpJPV0:    jpV0,
	OpRND:     rnd,
	OpDRW:     drw,
	OpSKP:     skp,
	OpSKNP:    sknp,
	OpLDVxDT:  ldVxDT,
	OpLDVxK:   ldVxK,
	OpLDDTVx:  ldDTVx,
	OpLDSTVx:  ldSTVx,
	OpADDIVx:  addIVx,
	OpLDFVx:   ldFVx,
	OpLDBVx:   ldBVx,
	OpLDIVx:   ldIVx,
	OpLDVxI:   ldVxI,
}

func cls(c *CPU, _ Instruction) (flow, error) {
	c.bus.Display.Clear()
	return next, nil
}

func ret(c *CPU, _ Instruction) (flow, error) {
	regs := c.bus.Registers
	target, err := regs.Peek()
	if err != nil {
		return next, err
	}
	if err := CheckPC(target); err != nil {
		return next, err
	}
	_, _ = regs.Pop()
	return jump(target), nil
}

func jp(_ *CPU, ins Instruction) (flow, error) {
	if err := CheckPC(ins.NNN); err != nil {
		return next, err
	}
	return jump(ins.NNN), nil
}

func call(c *CPU, ins Instruction) (flow, error) {
	if err := CheckPC(ins.NNN); err != nil {
		return next, err
	}
	regs := c.bus.Registers
	if err := regs.Push(regs.PC() + 2); err != nil {
		return next, err
	}
	return jump(ins.NNN), nil
}

func seByte(c *CPU, ins Instruction) (flow, error) {
	return skipIf(c.bus.Registers.V(ins.X) == ins.NN), nil
}

func sneByte(c *CPU, ins Instruction) (flow, error) {
	return skipIf(c.bus.Registers.V(ins.X) != ins.NN), nil
}

func seReg(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	return skipIf(regs.V(ins.X) == regs.V(ins.Y)), nil
}

func sneReg(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	return skipIf(regs.V(ins.X) != regs.V(ins.Y)), nil
}

func ldByte(c *CPU, ins Instruction) (flow, error) {
	c.bus.Registers.SetV(ins.X, ins.NN)
	return next, nil
}

func addByte(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.V(ins.X)+ins.NN)
	return next, nil
}

func ldReg(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.V(ins.Y))
	return next, nil
}

func or(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.V(ins.X)|regs.V(ins.Y))
	regs.SetV(register.Flag, 0)
	return next, nil
}

func and(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.V(ins.X)&regs.V(ins.Y))
	regs.SetV(register.Flag, 0)
	return next, nil
}

func xor(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.V(ins.X)^regs.V(ins.Y))
	regs.SetV(register.Flag, 0)
	return next, nil
}

func addReg(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	sum := uint16(regs.V(ins.X)) + uint16(regs.V(ins.Y))
	regs.SetV(ins.X, uint8(sum))
	regs.SetV(register.Flag, uint8(sum>>8))
	return next, nil
}

func sub(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	vx, vy := regs.V(ins.X), regs.V(ins.Y)
	regs.SetV(ins.X, vx-vy)
	regs.SetV(register.Flag, boolToFlag(vx >= vy))
	return next, nil
}

func subn(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	vx, vy := regs.V(ins.X), regs.V(ins.Y)
	regs.SetV(ins.X, vy-vx)
	regs.SetV(register.Flag, boolToFlag(vy >= vx))
	return next, nil
}

func shr(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	vx := regs.V(ins.X)
	regs.SetV(ins.X, vx>>1)
	regs.SetV(register.Flag, vx&0x01)
	return next, nil
}

func shl(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	vx := regs.V(ins.X)
	regs.SetV(ins.X, vx<<1)
	regs.SetV(register.Flag, vx>>7)
	return next, nil
}

func ldI(c *CPU, ins Instruction) (flow, error) {
	c.bus.Registers.SetI(ins.NNN)
	return next, nil
}

func jpV0(c *CPU, ins Instruction) (flow, error) {
	target := ins.NNN + uint16(c.bus.Registers.V(0))
	if err := CheckPC(target); err != nil {
		return next, err
	}
	return jump(target), nil
}

func rnd(c *CPU, ins Instruction) (flow, error) {
	value := uint8(c.bus.Random.Uint64())
	c.bus.Registers.SetV(ins.X, value&ins.NN)
	return next, nil
}

// drw draws an N byte sprite from I. A zero height draws nothing and
// clears VF.
func drw(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	sprite, err := c.bus.Memory.Slice(regs.I(), int(ins.N))
	if err != nil {
		return next, err
	}
	collision := c.bus.Display.Draw(regs.V(ins.X), regs.V(ins.Y), sprite)
	regs.SetV(register.Flag, boolToFlag(collision))
	return next, nil
}

func skp(c *CPU, ins Instruction) (flow, error) {
	return skipIf(c.bus.Keypad.Pressed(c.bus.Registers.V(ins.X))), nil
}

func sknp(c *CPU, ins Instruction) (flow, error) {
	return skipIf(!c.bus.Keypad.Pressed(c.bus.Registers.V(ins.X))), nil
}

func ldVxDT(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetV(ins.X, regs.DelayTimer())
	return next, nil
}

func ldVxK(c *CPU, ins Instruction) (flow, error) {
	keypad := c.bus.Keypad
	if key, ok := keypad.TakePress(); ok {
		c.bus.Registers.SetV(ins.X, key)
		return next, nil
	}
	keypad.BeginWait()
	return wait, nil
}

func ldDTVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetDelayTimer(regs.V(ins.X))
	return next, nil
}

func ldSTVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetSoundTimer(regs.V(ins.X))
	return next, nil
}

func addIVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetI(regs.I() + uint16(regs.V(ins.X)))
	return next, nil
}

func ldFVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	regs.SetI(memory.FontAddress(regs.V(ins.X)))
	return next, nil
}

// ldBVx stores the decimal digits of VX at I, I+1 and I+2.
func ldBVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	vx := regs.V(ins.X)
	digits := []byte{vx / 100, vx / 10 % 10, vx % 10}
	if err := c.bus.Memory.Store(regs.I(), digits); err != nil {
		return next, err
	}
	return next, nil
}

func ldIVx(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	count := int(ins.X) + 1
	data := make([]byte, count)
	for i := range data {
		data[i] = regs.V(uint8(i))
	}
	if err := c.bus.Memory.Store(regs.I(), data); err != nil {
		return next, err
	}
	regs.SetI(regs.I() + uint16(count))
	return next, nil
}

func ldVxI(c *CPU, ins Instruction) (flow, error) {
	regs := c.bus.Registers
	count := int(ins.X) + 1
	data, err := c.bus.Memory.Slice(regs.I(), count)
	if err != nil {
		return next, err
	}
	for i, value := range data {
		regs.SetV(uint8(i), value)
	}
	regs.SetI(regs.I() + uint16(count))
	return next, nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
