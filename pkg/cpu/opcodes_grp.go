package cpu

// Group opcodes dispatch on ModR/M.reg rather than naming a distinct
// primary opcode per operation: Grp1 (immediate ALU ops, 0x80-0x83), Grp2
// (shifts/rotates, 0xC0/0xC1/0xD0-0xD3), Grp3 (unary ops, 0xF6/0xF7), and
// Grp4/Grp5 (INC/DEC/CALL/JMP/PUSH, 0xFE/0xFF).

// execGrp1 handles 0x80 (Eb,Ib), 0x81 (Ev,Iv), 0x82 (Eb,Ib, alias of 0x80),
// and 0x83 (Ev,Ib sign-extended).
func (c *CPU) execGrp1(form int) {
	m := c.decodeModRM()
	entry := aluTable[m.reg]
	switch form {
	case 0x80, 0x82:
		a := uint32(c.rm8(m))
		b := uint32(c.fetch8())
		res := entry.fn(&c.Regs, 8, a, b)
		if !entry.isCmp {
			c.setRM8(m, byte(res))
		}
	case 0x81:
		a := uint32(c.rm16(m))
		b := uint32(c.fetch16())
		res := entry.fn(&c.Regs, 16, a, b)
		if !entry.isCmp {
			c.setRM16(m, uint16(res))
		}
	case 0x83:
		a := uint32(c.rm16(m))
		b := uint32(uint16(int16(int8(c.fetch8()))))
		res := entry.fn(&c.Regs, 16, a, b)
		if !entry.isCmp {
			c.setRM16(m, uint16(res))
		}
	}
}

// execGrp2 handles D0/D1 (shift by 1), D2/D3 (shift by CL), and C0/C1
// (shift by an immediate byte count).
func (c *CPU) execGrp2(byteWidth bool, countSrc int) {
	m := c.decodeModRM()
	op := ShiftOp(m.reg)
	var count uint32
	switch countSrc {
	case 0:
		count = 1
	case 1:
		count = uint32(c.Regs.CL())
	case 2:
		count = uint32(c.fetch8())
	}
	if byteWidth {
		v := uint32(c.rm8(m))
		res := c.Regs.Shift(8, op, v, count)
		c.setRM8(m, byte(res))
	} else {
		v := uint32(c.rm16(m))
		res := c.Regs.Shift(16, op, v, count)
		c.setRM16(m, uint16(res))
	}
}

// execGrp3 (0xF6 byte form, 0xF7 word form): TEST/NOT/NEG/MUL/IMUL/DIV/IDIV
// selected by ModR/M.reg.
func (c *CPU) execGrp3(byteWidth bool) {
	m := c.decodeModRM()
	if byteWidth {
		v := uint32(c.rm8(m))
		switch m.reg {
		case 0, 1: // TEST Eb, Ib
			imm := uint32(c.fetch8())
			c.Regs.And(8, v, imm)
		case 2: // NOT
			c.setRM8(m, byte(^v&0xFF))
		case 3: // NEG
			c.setRM8(m, byte(c.Regs.Neg(8, v)))
		case 4: // MUL AL
			lo, _ := c.Regs.Mul(8, uint32(c.Regs.AL()), v)
			c.Regs.AX = uint16(lo)
		case 5: // IMUL AL
			lo, _ := c.Regs.Imul(8, uint32(c.Regs.AL()), v)
			c.Regs.AX = uint16(lo)
		case 6: // DIV AL
			q, rem, err := Div(8, uint32(c.Regs.AX), v)
			if err != nil {
				c.Raise(0)
				return
			}
			c.Regs.SetAL(byte(q))
			c.Regs.SetAH(byte(rem))
		case 7: // IDIV AL
			q, rem, err := Idiv(8, int32(int16(c.Regs.AX)), int32(int8(byte(v))))
			if err != nil {
				c.Raise(0)
				return
			}
			c.Regs.SetAL(byte(q))
			c.Regs.SetAH(byte(rem))
		}
	} else {
		v := uint32(c.rm16(m))
		switch m.reg {
		case 0, 1:
			imm := uint32(c.fetch16())
			c.Regs.And(16, v, imm)
		case 2:
			c.setRM16(m, uint16(^v&0xFFFF))
		case 3:
			c.setRM16(m, uint16(c.Regs.Neg(16, v)))
		case 4:
			lo, hi := c.Regs.Mul(16, uint32(c.Regs.AX), v)
			c.Regs.AX = uint16(lo)
			c.Regs.DX = uint16(hi)
		case 5:
			lo, hi := c.Regs.Imul(16, uint32(c.Regs.AX), v)
			c.Regs.AX = uint16(lo)
			c.Regs.DX = uint16(hi)
		case 6:
			dividend := uint32(c.Regs.DX)<<16 | uint32(c.Regs.AX)
			q, rem, err := Div(16, dividend, v)
			if err != nil {
				c.Raise(0)
				return
			}
			c.Regs.AX = uint16(q)
			c.Regs.DX = uint16(rem)
		case 7:
			dividend := int32(uint32(c.Regs.DX)<<16 | uint32(c.Regs.AX))
			q, rem, err := Idiv(16, dividend, int32(int16(v)))
			if err != nil {
				c.Raise(0)
				return
			}
			c.Regs.AX = uint16(q)
			c.Regs.DX = uint16(rem)
		}
	}
}

// execGrp4 (0xFE, byte INC/DEC only) and execGrp5 (0xFF: INC/DEC/CALL/JMP
// near+far/PUSH on a 16-bit operand).
func (c *CPU) execGrp4() {
	m := c.decodeModRM()
	v := uint32(c.rm8(m))
	switch m.reg {
	case 0:
		c.setRM8(m, byte(c.Regs.Inc(8, v)))
	case 1:
		c.setRM8(m, byte(c.Regs.Dec(8, v)))
	default:
		c.raiseInvalidOpcode()
	}
}

func (c *CPU) execGrp5() {
	m := c.decodeModRM()
	switch m.reg {
	case 0:
		v := uint32(c.rm16(m))
		c.setRM16(m, uint16(c.Regs.Inc(16, v)))
	case 1:
		v := uint32(c.rm16(m))
		c.setRM16(m, uint16(c.Regs.Dec(16, v)))
	case 2: // CALL near indirect
		target := c.rm16(m)
		c.push16(c.Regs.IP)
		c.Regs.IP = target
	case 3: // CALL far indirect: [addr]=IP, [addr+2]=CS
		if m.isReg {
			c.raiseInvalidOpcode()
			return
		}
		newIP := c.Bus.Read16(m.addr)
		newCS := c.Bus.Read16(m.addr + 2)
		c.push16(c.Regs.CS)
		c.push16(c.Regs.IP)
		c.Regs.CS = newCS
		c.Regs.IP = newIP
	case 4: // JMP near indirect
		c.Regs.IP = c.rm16(m)
	case 5: // JMP far indirect
		if m.isReg {
			c.raiseInvalidOpcode()
			return
		}
		c.Regs.IP = c.Bus.Read16(m.addr)
		c.Regs.CS = c.Bus.Read16(m.addr + 2)
	case 6: // PUSH Ev
		c.push16(c.rm16(m))
	default:
		c.raiseInvalidOpcode()
	}
}
